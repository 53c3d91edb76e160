package ops

import "math"

func unary(name string, fn func(float64) float64) Func {
	return func(args ...any) (any, error) {
		f, ok := ToFloat(args[0])
		if !ok {
			return nil, unsupported(name, args[0])
		}
		return fn(f), nil
	}
}

// Elementary math functions. Each takes one numeric argument and yields
// float64.
var (
	Log   = unary("log", math.Log)
	Sin   = unary("sin", math.Sin)
	Cos   = unary("cos", math.Cos)
	Tan   = unary("tan", math.Tan)
	Asin  = unary("asin", math.Asin)
	Acos  = unary("acos", math.Acos)
	Atan  = unary("atan", math.Atan)
	Sqrt  = unary("sqrt", math.Sqrt)
	Exp   = unary("exp", math.Exp)
	Erf   = unary("erf", math.Erf)
	Floor = unary("floor", math.Floor)
	Ceil  = unary("ceil", math.Ceil)
	Round = unary("round", math.RoundToEven)
)

// Abs keeps integers as integers.
func Abs(args ...any) (any, error) {
	if i, ok := ToInt(args[0]); ok {
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	f, ok := ToFloat(args[0])
	if !ok {
		return nil, unsupported("abs", args[0])
	}
	return math.Abs(f), nil
}
