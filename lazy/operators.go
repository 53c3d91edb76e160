package lazy

import "github.com/smallnest/tributarygo/ops"

// Operator methods build derived nodes and never evaluate. Operands that
// are not nodes become constant nodes.

func (n *Node) binary(op ops.Op, other any) *Node { return newDerived(op, n, asNode(other)) }

func (n *Node) reflected(op ops.Op, other any) *Node { return newDerived(op, asNode(other), n) }

func (n *Node) unary(op ops.Op) *Node { return newDerived(op, n) }

func (n *Node) Add(other any) *Node { return n.binary(ops.OpAdd, other) }
func (n *Node) Sub(other any) *Node { return n.binary(ops.OpSub, other) }
func (n *Node) Mul(other any) *Node { return n.binary(ops.OpMul, other) }
func (n *Node) Div(other any) *Node { return n.binary(ops.OpDiv, other) }
func (n *Node) Mod(other any) *Node { return n.binary(ops.OpMod, other) }
func (n *Node) Pow(other any) *Node { return n.binary(ops.OpPow, other) }

// RAdd is other + n. The remaining R methods likewise place other on the
// left.
func (n *Node) RAdd(other any) *Node { return n.reflected(ops.OpAdd, other) }
func (n *Node) RSub(other any) *Node { return n.reflected(ops.OpSub, other) }
func (n *Node) RMul(other any) *Node { return n.reflected(ops.OpMul, other) }
func (n *Node) RDiv(other any) *Node { return n.reflected(ops.OpDiv, other) }
func (n *Node) RMod(other any) *Node { return n.reflected(ops.OpMod, other) }
func (n *Node) RPow(other any) *Node { return n.reflected(ops.OpPow, other) }

func (n *Node) Lt(other any) *Node { return n.binary(ops.OpLt, other) }
func (n *Node) Le(other any) *Node { return n.binary(ops.OpLe, other) }
func (n *Node) Gt(other any) *Node { return n.binary(ops.OpGt, other) }
func (n *Node) Ge(other any) *Node { return n.binary(ops.OpGe, other) }
func (n *Node) Eq(other any) *Node { return n.binary(ops.OpEq, other) }
func (n *Node) Ne(other any) *Node { return n.binary(ops.OpNe, other) }

func (n *Node) And(other any) *Node { return n.binary(ops.OpAnd, other) }
func (n *Node) Or(other any) *Node  { return n.binary(ops.OpOr, other) }
func (n *Node) Not() *Node          { return n.unary(ops.OpNot) }
func (n *Node) Bool() *Node         { return n.unary(ops.OpBool) }

func (n *Node) Neg() *Node    { return n.unary(ops.OpNeg) }
func (n *Node) Len() *Node    { return n.unary(ops.OpLen) }
func (n *Node) Str() *Node    { return n.unary(ops.OpStr) }
func (n *Node) Int() *Node    { return n.unary(ops.OpInt) }
func (n *Node) Float() *Node  { return n.unary(ops.OpFloat) }
func (n *Node) Invert() *Node { return n.unary(ops.OpInvert) }

// If selects then when n is truthy and otherwise els.
func (n *Node) If(then, els any) *Node {
	return newDerived(ops.OpIf, n, asNode(then), asNode(els))
}

// Sum adds n and others.
func (n *Node) Sum(others ...any) *Node { return newDerived(ops.OpSum, n.with(others)...) }

// Average is the mean of n and others.
func (n *Node) Average(others ...any) *Node { return newDerived(ops.OpAvg, n.with(others)...) }

func (n *Node) with(others []any) []*Node {
	nodes := make([]*Node, 0, len(others)+1)
	nodes = append(nodes, n)
	for _, o := range others {
		nodes = append(nodes, asNode(o))
	}
	return nodes
}

func (n *Node) Log() *Node   { return n.unary(ops.OpLog) }
func (n *Node) Sin() *Node   { return n.unary(ops.OpSin) }
func (n *Node) Cos() *Node   { return n.unary(ops.OpCos) }
func (n *Node) Tan() *Node   { return n.unary(ops.OpTan) }
func (n *Node) Asin() *Node  { return n.unary(ops.OpAsin) }
func (n *Node) Acos() *Node  { return n.unary(ops.OpAcos) }
func (n *Node) Atan() *Node  { return n.unary(ops.OpAtan) }
func (n *Node) Abs() *Node   { return n.unary(ops.OpAbs) }
func (n *Node) Sqrt() *Node  { return n.unary(ops.OpSqrt) }
func (n *Node) Exp() *Node   { return n.unary(ops.OpExp) }
func (n *Node) Erf() *Node   { return n.unary(ops.OpErf) }
func (n *Node) Round() *Node { return n.unary(ops.OpRound) }
func (n *Node) Floor() *Node { return n.unary(ops.OpFloor) }
func (n *Node) Ceil() *Node  { return n.unary(ops.OpCeil) }

// Apply builds a node computing fn over the values of parents. fn receives
// nil operands as they are, and a panic in fn surfaces as a ComputeError.
func Apply(fn func(args ...any) (any, error), parents ...any) *Node {
	nodes := make([]*Node, len(parents))
	for i, p := range parents {
		nodes[i] = asNode(p)
	}
	return newDerived(ops.Op{Name: "Apply", Fn: fn, NullSafe: true}, nodes...)
}
