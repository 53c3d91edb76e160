package ops

import (
	"math"
	"reflect"
)

// Tolerance is the absolute difference below which two numbers are treated
// as the same value for change detection.
const Tolerance = 1e-5

// Differ reports whether next should be considered a change from prev:
// nil to non-nil (and back) is always a change, numbers differ when their
// absolute difference exceeds Tolerance, everything else is compared with
// reflect.DeepEqual.
func Differ(prev, next any) bool {
	if prev == nil || next == nil {
		return (prev == nil) != (next == nil)
	}
	if IsNumeric(prev) && IsNumeric(next) {
		pf, _ := ToFloat(prev)
		nf, _ := ToFloat(next)
		if math.IsNaN(pf) || math.IsNaN(nf) {
			return math.IsNaN(pf) != math.IsNaN(nf)
		}
		if math.IsInf(pf, 0) || math.IsInf(nf, 0) {
			return pf != nf
		}
		return math.Abs(pf-nf) > Tolerance
	}
	return !reflect.DeepEqual(prev, next)
}

// compare orders two numbers or two strings.
func compare(op string, a, b any) (int, error) {
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			switch {
			case sa < sb:
				return -1, nil
			case sa > sb:
				return 1, nil
			}
			return 0, nil
		}
	}
	af, oka := ToFloat(a)
	bf, okb := ToFloat(b)
	if !oka || !okb {
		return 0, unsupported(op, a, b)
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	}
	return 0, nil
}

// Lt reports a < b.
func Lt(args ...any) (any, error) {
	c, err := compare("lt", args[0], args[1])
	return c < 0, err
}

// Le reports a <= b.
func Le(args ...any) (any, error) {
	c, err := compare("le", args[0], args[1])
	return c <= 0, err
}

// Gt reports a > b.
func Gt(args ...any) (any, error) {
	c, err := compare("gt", args[0], args[1])
	return c > 0, err
}

// Ge reports a >= b.
func Ge(args ...any) (any, error) {
	c, err := compare("ge", args[0], args[1])
	return c >= 0, err
}

// Eq reports equality. Numbers compare by value across kinds, so 2 == 2.0.
func Eq(args ...any) (any, error) {
	a, b := args[0], args[1]
	if IsNumeric(a) && IsNumeric(b) {
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return af == bf, nil
	}
	return reflect.DeepEqual(a, b), nil
}

// Ne is the negation of Eq.
func Ne(args ...any) (any, error) {
	eq, _ := Eq(args...)
	return !eq.(bool), nil
}

// And is the logical conjunction of the operands' truthiness.
func And(args ...any) (any, error) {
	return Truthy(args[0]) && Truthy(args[1]), nil
}

// Or is the logical disjunction of the operands' truthiness.
func Or(args ...any) (any, error) {
	return Truthy(args[0]) || Truthy(args[1]), nil
}

// Not negates truthiness.
func Not(args ...any) (any, error) {
	return !Truthy(args[0]), nil
}

// Bool converts a value to its truthiness.
func Bool(args ...any) (any, error) {
	return Truthy(args[0]), nil
}

// If selects args[1] when args[0] is truthy, otherwise args[2].
func If(args ...any) (any, error) {
	if Truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}
