package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNodeNotFound is returned when a name is not registered in a graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidAssignment is matched by InvalidAssignmentError.
	ErrInvalidAssignment = errors.New("invalid assignment")

	// ErrReadOnly is matched by ReadOnlyError.
	ErrReadOnly = errors.New("read-only violation")

	// ErrNullValue is matched by NullValueError.
	ErrNullValue = errors.New("null value")

	// ErrCycleDetected is matched by CycleError.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrCompute is matched by ComputeError.
	ErrCompute = errors.New("compute error")
)

// InvalidAssignmentError is returned when a node is assigned to a graph
// attribute that is bound to a different node.
type InvalidAssignmentError struct {
	// Node is the name of the attribute being assigned
	Node string
	// Got is the name of the node that was offered as a value
	Got string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign node %s to %s: nodes are not values", e.Got, e.Node)
}

func (e *InvalidAssignmentError) Is(target error) bool { return target == ErrInvalidAssignment }

// ReadOnlyError is returned when assigning to a readonly or derived node.
type ReadOnlyError struct {
	Node    string
	Derived bool
}

func (e *ReadOnlyError) Error() string {
	if e.Derived {
		return fmt.Sprintf("node %s is derived and cannot be assigned", e.Node)
	}
	return fmt.Sprintf("node %s is read-only", e.Node)
}

func (e *ReadOnlyError) Is(target error) bool { return target == ErrReadOnly }

// NullValueError is returned when evaluation meets nil where the node does
// not allow it. Parent is set when the nil came from an operand.
type NullValueError struct {
	Node   string
	Parent string
}

func (e *NullValueError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("node %s: operand %s is nil", e.Node, e.Parent)
	}
	return fmt.Sprintf("node %s is not nullable but evaluated to nil", e.Node)
}

func (e *NullValueError) Is(target error) bool { return target == ErrNullValue }

// CycleError is returned at construction time when a new dependency would
// make a node depend on itself.
type CycleError struct {
	Node string
	// Path lists the dependency chain that closes the cycle, starting and
	// ending at Node.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("cycle detected at node %s: %s", e.Node, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("cycle detected at node %s", e.Node)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// ComputeError tags a failure raised while computing a node's value.
type ComputeError struct {
	Node string
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute error in node %s: %v", e.Node, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

func (e *ComputeError) Is(target error) bool { return target == ErrCompute }
