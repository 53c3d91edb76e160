package ops

import (
	"math"
	"strings"
)

// numericPair returns both operands as ints when they are both integers,
// otherwise as float64s.
func numericPair(a, b any) (ai, bi int, af, bf float64, ints, ok bool) {
	if x, okx := ToInt(a); okx {
		if y, oky := ToInt(b); oky {
			return x, y, 0, 0, true, true
		}
	}
	af, oka := ToFloat(a)
	bf, okb := ToFloat(b)
	return 0, 0, af, bf, false, oka && okb
}

// Add adds numbers or concatenates strings.
func Add(args ...any) (any, error) {
	a, b := args[0], args[1]
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa + sb, nil
		}
		return nil, unsupported("add", a, b)
	}
	ai, bi, af, bf, ints, ok := numericPair(a, b)
	switch {
	case !ok:
		return nil, unsupported("add", a, b)
	case ints:
		if sum, ok := addInt(ai, bi); ok {
			return sum, nil
		}
		return float64(ai) + float64(bi), nil
	}
	return af + bf, nil
}

// Sub subtracts b from a.
func Sub(args ...any) (any, error) {
	a, b := args[0], args[1]
	ai, bi, af, bf, ints, ok := numericPair(a, b)
	switch {
	case !ok:
		return nil, unsupported("sub", a, b)
	case ints:
		if diff, ok := subInt(ai, bi); ok {
			return diff, nil
		}
		return float64(ai) - float64(bi), nil
	}
	return af - bf, nil
}

// Mul multiplies numbers. A string times an int repeats the string.
func Mul(args ...any) (any, error) {
	a, b := args[0], args[1]
	if s, ok := a.(string); ok {
		if n, ok := ToInt(b); ok {
			return strings.Repeat(s, max(n, 0)), nil
		}
	}
	ai, bi, af, bf, ints, ok := numericPair(a, b)
	switch {
	case !ok:
		return nil, unsupported("mul", a, b)
	case ints:
		if prod, ok := mulInt(ai, bi); ok {
			return prod, nil
		}
		return float64(ai) * float64(bi), nil
	}
	return af * bf, nil
}

// Div is true division and always yields float64. Division by zero
// follows IEEE semantics (±Inf or NaN).
func Div(args ...any) (any, error) {
	a, b := args[0], args[1]
	af, oka := ToFloat(a)
	bf, okb := ToFloat(b)
	if !oka || !okb {
		return nil, unsupported("div", a, b)
	}
	return af / bf, nil
}

// Mod is floored modulo: the result takes the sign of the divisor.
func Mod(args ...any) (any, error) {
	a, b := args[0], args[1]
	ai, bi, af, bf, ints, ok := numericPair(a, b)
	switch {
	case !ok:
		return nil, unsupported("mod", a, b)
	case ints:
		if bi == 0 {
			return nil, unsupported("mod by zero", a, b)
		}
		m := ai % bi
		if m != 0 && (m < 0) != (bi < 0) {
			m += bi
		}
		return m, nil
	}
	m := math.Mod(af, bf)
	if m != 0 && (m < 0) != (bf < 0) {
		m += bf
	}
	return m, nil
}

// Pow raises a to b. Integer bases with non-negative integer exponents stay
// integers unless the result overflows int, in which case it is float64.
func Pow(args ...any) (any, error) {
	a, b := args[0], args[1]
	ai, bi, af, bf, ints, ok := numericPair(a, b)
	switch {
	case !ok:
		return nil, unsupported("pow", a, b)
	case ints && bi >= 0:
		if out, ok := powInt(ai, bi); ok {
			return out, nil
		}
		return math.Pow(float64(ai), float64(bi)), nil
	case ints:
		return math.Pow(float64(ai), float64(bi)), nil
	}
	return math.Pow(af, bf), nil
}

// Neg negates a number.
func Neg(args ...any) (any, error) {
	v := normalize(args[0])
	switch n := v.(type) {
	case int:
		return -n, nil
	case float64:
		return -n, nil
	}
	return nil, unsupported("neg", args[0])
}

// Invert returns 1/x as float64.
func Invert(args ...any) (any, error) {
	return Div(1, args[0])
}

// Sum adds all arguments together.
func Sum(args ...any) (any, error) {
	var acc any = 0
	for _, a := range args {
		var err error
		if acc, err = Add(acc, a); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Average returns the arithmetic mean of its arguments as float64.
func Average(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, unsupported("average")
	}
	total := 0.0
	for _, a := range args {
		f, ok := ToFloat(a)
		if !ok {
			return nil, unsupported("average", a)
		}
		total += f
	}
	return total / float64(len(args)), nil
}

// Integer kernels below report false when the result does not fit in int.

func addInt(a, b int) (int, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}

func subInt(a, b int) (int, bool) {
	d := a - b
	if (b < 0 && d < a) || (b > 0 && d > a) {
		return 0, false
	}
	return d, true
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// powInt is exponentiation by squaring.
func powInt(base, exp int) (int, bool) {
	out := 1
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if out, ok = mulInt(out, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = mulInt(base, base); !ok {
				return 0, false
			}
		}
	}
	return out, true
}
