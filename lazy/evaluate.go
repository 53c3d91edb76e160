package lazy

import (
	"context"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/ops"
)

// result is what one node reports to its consumers within a pass.
type result struct {
	value   any
	changed bool
}

// pass is a single evaluation with its own memo, so a node shared by
// several consumers is evaluated once.
type pass struct {
	ctx  context.Context
	memo map[*Node]result
}

// Evaluate returns the node's value, recomputing the node and its
// ancestors only where their inputs changed. Errors abort the pass; caches
// on the failing path keep their previous values.
func (n *Node) Evaluate() (any, error) {
	p := &pass{ctx: context.Background(), memo: make(map[*Node]result)}
	r, err := p.eval(n)
	if err != nil {
		return nil, err
	}
	return r.value, nil
}

func (p *pass) eval(n *Node) (result, error) {
	if r, ok := p.memo[n]; ok {
		return r, nil
	}

	var (
		r   result
		err error
	)
	if n.op == nil {
		r, err = p.evalSource(n)
	} else {
		r, err = p.evalDerived(n)
	}
	if err != nil {
		return result{}, err
	}
	p.memo[n] = r
	return r, nil
}

func (p *pass) evalSource(n *Node) (result, error) {
	if !n.nullable && n.value == nil {
		return result{}, &graph.NullValueError{Node: n.name}
	}
	if !n.Dirty() {
		if n.lastEval.IsZero() {
			n.lastEval = n.now()
		}
		return result{value: n.value}, nil
	}
	n.dirty = false
	n.lastEval = n.now()
	return result{value: n.value, changed: true}, nil
}

func (p *pass) evalDerived(n *Node) (result, error) {
	inputs := make([]any, len(n.parents))
	parentChanged := false
	for i, parent := range n.parents {
		r, err := p.eval(parent)
		if err != nil {
			return result{}, err
		}
		inputs[i] = r.value
		parentChanged = parentChanged || r.changed
	}

	if n.evaluated && !n.Dirty() && !parentChanged && !inputsDiffer(n.lastInputs, inputs) {
		return result{value: n.value}, nil
	}

	if !n.op.NullSafe {
		for i, v := range inputs {
			if v == nil {
				err := &graph.NullValueError{Node: n.name, Parent: n.parents[i].name}
				n.notify(graph.NodeEventError, nil, err)
				return result{}, err
			}
		}
	}

	out, err := n.compute(p.ctx, inputs)
	if err != nil {
		return result{}, err
	}
	if out == nil && !n.nullable {
		err := &graph.NullValueError{Node: n.name}
		n.notify(graph.NodeEventError, nil, err)
		return result{}, err
	}

	changed := !n.evaluated || ops.Differ(n.value, out)
	n.value = out
	n.lastInputs = inputs
	n.evaluated = true
	n.dirty = false
	n.lastEval = n.now()
	n.recomputations++

	n.logger().Debug("evaluate %s = %v (changed=%t)", n.name, out, changed)
	n.notify(graph.NodeEventEvaluate, out, nil)
	return result{value: out, changed: changed}, nil
}

// compute runs the node's operation, tracing it when enabled.
func (n *Node) compute(ctx context.Context, inputs []any) (any, error) {
	var span *graph.TraceSpan
	if n.trace {
		span = n.tracer().StartSpan(ctx, graph.TraceEventEvaluate, n.name)
		span.Inputs = inputs
	}

	out, err := n.op.Call(inputs...)
	if err != nil {
		err = &graph.ComputeError{Node: n.name, Err: err}
		n.logger().Warn("evaluate %s failed: %v", n.name, err)
		n.notify(graph.NodeEventError, nil, err)
	}
	if span != nil {
		n.tracer().EndSpan(ctx, span, out, err)
	}
	return out, err
}

func inputsDiffer(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if ops.Differ(prev[i], next[i]) {
			return true
		}
	}
	return false
}
