package ops

import "fmt"

// PanicError wraps a value recovered from a panicking kernel or user
// function.
type PanicError struct {
	Op    string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
}
