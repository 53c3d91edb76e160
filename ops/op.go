package ops

// Op is a named kernel as recorded on a derived node.
type Op struct {
	Name string
	Fn   Func
	// NullSafe kernels accept nil operands; the engines reject nil
	// operands for every other kernel before calling it.
	NullSafe bool
}

// Call invokes the kernel, converting a panic into an error.
func (o Op) Call(args ...any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: o.Name, Value: r}
		}
	}()
	return o.Fn(args...)
}

// Built-in operators shared by the lazy and streaming node types.
var (
	OpAdd = Op{Name: "Add", Fn: Add}
	OpSub = Op{Name: "Sub", Fn: Sub}
	OpMul = Op{Name: "Mul", Fn: Mul}
	OpDiv = Op{Name: "Div", Fn: Div}
	OpMod = Op{Name: "Mod", Fn: Mod}
	OpPow = Op{Name: "Pow", Fn: Pow}

	OpLt = Op{Name: "Lt", Fn: Lt}
	OpLe = Op{Name: "Le", Fn: Le}
	OpGt = Op{Name: "Gt", Fn: Gt}
	OpGe = Op{Name: "Ge", Fn: Ge}
	OpEq = Op{Name: "Eq", Fn: Eq, NullSafe: true}
	OpNe = Op{Name: "Ne", Fn: Ne, NullSafe: true}

	OpAnd  = Op{Name: "And", Fn: And, NullSafe: true}
	OpOr   = Op{Name: "Or", Fn: Or, NullSafe: true}
	OpNot  = Op{Name: "Not", Fn: Not, NullSafe: true}
	OpBool = Op{Name: "Bool", Fn: Bool, NullSafe: true}
	OpIf   = Op{Name: "If", Fn: If, NullSafe: true}

	OpNeg    = Op{Name: "Neg", Fn: Neg}
	OpLen    = Op{Name: "Len", Fn: Len}
	OpStr    = Op{Name: "Str", Fn: Str, NullSafe: true}
	OpInt    = Op{Name: "Int", Fn: Int}
	OpFloat  = Op{Name: "Float", Fn: Float}
	OpInvert = Op{Name: "Invert", Fn: Invert}
	OpSum    = Op{Name: "Sum", Fn: Sum}
	OpAvg    = Op{Name: "Average", Fn: Average}

	OpLog   = Op{Name: "Log", Fn: Log}
	OpSin   = Op{Name: "Sin", Fn: Sin}
	OpCos   = Op{Name: "Cos", Fn: Cos}
	OpTan   = Op{Name: "Tan", Fn: Tan}
	OpAsin  = Op{Name: "Asin", Fn: Asin}
	OpAcos  = Op{Name: "Acos", Fn: Acos}
	OpAtan  = Op{Name: "Atan", Fn: Atan}
	OpAbs   = Op{Name: "Abs", Fn: Abs}
	OpSqrt  = Op{Name: "Sqrt", Fn: Sqrt}
	OpExp   = Op{Name: "Exp", Fn: Exp}
	OpErf   = Op{Name: "Erf", Fn: Erf}
	OpRound = Op{Name: "Round", Fn: Round}
	OpFloor = Op{Name: "Floor", Fn: Floor}
	OpCeil  = Op{Name: "Ceil", Fn: Ceil}
)
