// Package lazy implements pull-based evaluation over a graph of nodes.
//
// Source nodes are registered on a Graph and assigned from outside.
// Derived nodes are built with operator methods and cache the result of
// their operation:
//
//	g := lazy.NewGraph("pricing")
//	x := g.CreateNode("x", lazy.Value(2))
//	y := x.Mul(3).Add(1)
//
//	v, _ := y.Evaluate() // 7
//	_ = g.SetValue("x", 5)
//	v, _ = y.Evaluate() // 16
//
// Evaluate recomputes a derived node only when it is dirty, when a parent
// changed during the same pass, or when a parent's value differs from the
// inputs behind the cache. Values compare with ops.Differ, so numeric
// changes within ops.Tolerance neither dirty a source nor trigger
// recomputation. Ancestors shared by several consumers are evaluated once
// per pass.
//
// Interval and Expire mark nodes stale on a schedule. Staleness is
// computed from the graph clock when it is observed; nothing runs in the
// background.
//
// A Graph is not safe for concurrent assignment during evaluation; callers
// serialise access.
package lazy
