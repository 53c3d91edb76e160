package streaming

import (
	"context"
	"fmt"

	"github.com/smallnest/tributarygo/ops"
)

// WindowOption configures windowed combinators.
type WindowOption func(*windowConfig)

type windowConfig struct {
	partial bool
}

// EmitPartial makes a window emit from its first input instead of waiting
// until it is full.
func EmitPartial() WindowOption {
	return func(c *windowConfig) { c.partial = true }
}

// window keeps the last size values and reports whether the current
// contents should be emitted.
type window struct {
	size    int
	partial bool
	values  []any
}

func newWindow(size int, opts []WindowOption) *window {
	cfg := windowConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &window{size: max(size, 1), partial: cfg.partial}
}

func (w *window) push(v any) bool {
	w.values = append(w.values, v)
	if len(w.values) > w.size {
		w.values = w.values[1:]
	}
	return w.partial || len(w.values) == w.size
}

func (w *window) snapshot() []any {
	out := make([]any, len(w.values))
	copy(out, w.values)
	return out
}

func (n *Node) windowed(op string, size int, opts []WindowOption, agg func([]any) (any, error)) *Node {
	w := newWindow(size, opts)
	return newDerived(op, TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		if !w.push(in[0]) {
			return nil, nil
		}
		out, err := agg(w.snapshot())
		if err != nil {
			return nil, err
		}
		return one(out), nil
	}, n)
}

// Window emits a []any holding the last size values.
func (n *Node) Window(size int, opts ...WindowOption) *Node {
	return n.windowed("Window", size, opts, func(vs []any) (any, error) { return vs, nil })
}

// RollingSum emits the sum of the last size values.
func (n *Node) RollingSum(size int, opts ...WindowOption) *Node {
	return n.windowed("RollingSum", size, opts, func(vs []any) (any, error) { return ops.Sum(vs...) })
}

// RollingAverage emits the mean of the last size values.
func (n *Node) RollingAverage(size int, opts ...WindowOption) *Node {
	return n.windowed("RollingAverage", size, opts, func(vs []any) (any, error) { return ops.Average(vs...) })
}

// RollingMin emits the smallest of the last size values.
func (n *Node) RollingMin(size int, opts ...WindowOption) *Node {
	return n.windowed("RollingMin", size, opts, func(vs []any) (any, error) { return extreme(vs, ops.Lt) })
}

// RollingMax emits the largest of the last size values.
func (n *Node) RollingMax(size int, opts ...WindowOption) *Node {
	return n.windowed("RollingMax", size, opts, func(vs []any) (any, error) { return extreme(vs, ops.Gt) })
}

// RollingCount emits the number of values seen so far.
func (n *Node) RollingCount() *Node {
	count := 0
	return newDerived("RollingCount", TriggerAll, func(context.Context, []any) ([]any, error) {
		count++
		return one(count), nil
	}, n)
}

func extreme(vs []any, better ops.Func) (any, error) {
	if len(vs) == 0 {
		return nil, fmt.Errorf("empty window")
	}
	best := vs[0]
	for _, v := range vs[1:] {
		b, err := better(v, best)
		if err != nil {
			return nil, err
		}
		if b == true {
			best = v
		}
	}
	return best, nil
}
