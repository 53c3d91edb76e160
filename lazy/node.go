package lazy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/log"
	"github.com/smallnest/tributarygo/ops"
)

// Node is a vertex of a lazy graph. Source nodes hold a value set from
// outside; derived nodes hold the cached result of an operation over their
// parents.
type Node struct {
	id       string
	name     string
	g        *Graph
	value    any
	readonly bool
	nullable bool
	derived  bool
	trace    bool
	dirty    bool

	op      *ops.Op
	parents []*Node

	// state of the cached value
	evaluated      bool
	lastInputs     []any
	lastEval       time.Time
	recomputations int

	interval time.Duration
	expire   *timeOfDay
}

var _ graph.Vertex = (*Node)(nil)

func newNode(name string) *Node {
	return &Node{
		id:       uuid.NewString(),
		name:     name,
		nullable: true,
	}
}

// newDerived builds a derived node over parents. It joins the graph of its
// first parent that belongs to one.
func newDerived(op ops.Op, parents ...*Node) *Node {
	n := newNode("")
	n.name = fmt.Sprintf("%s#%s", op.Name, n.id[:8])
	n.derived = true
	n.dirty = true
	n.op = &op
	n.parents = parents
	for _, p := range parents {
		if p.g != nil {
			n.g = p.g
			break
		}
	}
	return n
}

// Const returns a readonly source node holding v.
func Const(v any) *Node {
	n := newNode(fmt.Sprintf("const(%v)", v))
	n.value = v
	n.readonly = true
	return n
}

// asNode returns v when it is already a node, or wraps it as a constant.
func asNode(v any) *Node {
	if n, ok := v.(*Node); ok {
		return n
	}
	return Const(v)
}

func (n *Node) ID() string        { return n.id }
func (n *Node) Name() string      { return n.name }
func (n *Node) Value() any        { return n.value }
func (n *Node) Readonly() bool    { return n.readonly }
func (n *Node) Nullable() bool    { return n.nullable }
func (n *Node) Derived() bool     { return n.derived }
func (n *Node) Traced() bool      { return n.trace }
func (n *Node) Graph() *Graph     { return n.g }
func (n *Node) Upstream() []*Node { return append([]*Node(nil), n.parents...) }

// Operation returns the name of the recorded operator, empty for sources.
func (n *Node) Operation() string {
	if n.op == nil {
		return ""
	}
	return n.op.Name
}

// Parents implements graph.Vertex.
func (n *Node) Parents() []graph.Vertex {
	out := make([]graph.Vertex, len(n.parents))
	for i, p := range n.parents {
		out[i] = p
	}
	return out
}

// Dirty reports whether the cached value may be stale, including staleness
// from an elapsed interval or a passed expiry time.
func (n *Node) Dirty() bool {
	return n.dirty || n.expired(n.now())
}

// SetDirty forces the node to be treated as stale on the next evaluation.
func (n *Node) SetDirty() {
	n.dirty = true
}

// Recomputations returns how many times the node's operation has run.
func (n *Node) Recomputations() int {
	return n.recomputations
}

// Set assigns a value to a source node. Assigning the node itself is a
// no-op; assigning any other node fails with an InvalidAssignmentError.
// Readonly and derived nodes reject assignment with a ReadOnlyError.
func (n *Node) Set(value any) error {
	if v, ok := value.(graph.Vertex); ok {
		if other, ok := v.(*Node); ok && other == n {
			return nil
		}
		return &graph.InvalidAssignmentError{Node: n.name, Got: v.Name()}
	}
	if n.readonly || n.derived {
		return &graph.ReadOnlyError{Node: n.name, Derived: n.derived}
	}

	changed := ops.Differ(n.value, value)
	n.dirty = n.dirty || changed
	n.value = value

	n.logger().Debug("assign %s = %v (changed=%t)", n.name, value, changed)
	if n.trace {
		n.tracer().Record(context.Background(), graph.TraceEventAssign, n.name, value, nil)
	}
	n.notify(graph.NodeEventAssign, value, nil)
	return nil
}

// Bind re-points the node at the operation and parents of expr. It fails
// with a CycleError, leaving the node untouched, when expr already depends
// on the node.
func (n *Node) Bind(expr *Node) error {
	if n.readonly {
		return &graph.ReadOnlyError{Node: n.name}
	}
	if path := graph.DependencyPath(expr, n, (*Node).upstream); path != nil {
		names := []string{n.name}
		for _, p := range path {
			names = append(names, p.name)
		}
		return &graph.CycleError{Node: n.name, Path: names}
	}

	if expr.op != nil {
		op := *expr.op
		n.op = &op
		n.parents = append([]*Node(nil), expr.parents...)
	} else {
		n.op = &opIdentity
		n.parents = []*Node{expr}
	}
	n.derived = true
	n.dirty = true
	n.evaluated = false
	n.lastInputs = nil
	n.logger().Debug("bind %s to %s", n.name, expr.name)
	return nil
}

var opIdentity = ops.Op{
	Name:     "Identity",
	Fn:       func(args ...any) (any, error) { return args[0], nil },
	NullSafe: true,
}

func (n *Node) upstream() []*Node { return n.parents }

func (n *Node) String() string {
	return fmt.Sprintf("%s = %v", n.name, n.value)
}

func (n *Node) now() time.Time {
	if n.g != nil {
		return n.g.clock()
	}
	return time.Now()
}

func (n *Node) logger() log.Logger {
	if n.g != nil {
		return n.g.logger
	}
	return log.GetDefaultLogger()
}

func (n *Node) tracer() *graph.Tracer {
	if n.g != nil && n.g.tracer != nil {
		return n.g.tracer
	}
	return defaultTracer
}

func (n *Node) notify(event graph.NodeEvent, value any, err error) {
	if n.g != nil {
		n.g.listeners.Notify(context.Background(), event, n.name, value, err)
	}
}
