// Package ops holds the operator kernels that derived nodes record.
//
// Kernels work on dynamic values (any). Integer kinds are normalised to
// int, mixing an integer with a float yields float64, Div is true division,
// Mod is floored, and strings support Add (concatenation), Mul by an int
// (repetition) and ordering comparisons. Operands a kernel cannot handle
// produce an error wrapping ErrUnsupportedOperand.
//
// Differ implements the change-detection rule shared by both engines: an
// absolute numeric difference above Tolerance, or any nil transition,
// counts as a change.
package ops
