package streaming

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Writer is implemented by external destinations such as the adapters.
type Writer interface {
	Write(ctx context.Context, v any) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, v any) error

func (f WriterFunc) Write(ctx context.Context, v any) error { return f(ctx, v) }

func (n *Node) sink(op string, w Writer) *Node {
	return newDerived(op, TriggerAll, func(ctx context.Context, in []any) ([]any, error) {
		if err := w.Write(ctx, in[0]); err != nil {
			return nil, err
		}
		return one(in[0]), nil
	}, n)
}

// Sink calls fn with every value and forwards the value unchanged. An
// error from fn is a compute error of the sink.
func (n *Node) Sink(fn func(v any) error) *Node {
	return n.sink("Sink", WriterFunc(func(_ context.Context, v any) error { return fn(v) }))
}

// Output writes every value to w with the run's context.
func (n *Node) Output(w Writer) *Node {
	return n.sink("Output", w)
}

// Print writes every value to w on its own line, preceded by prefix.
func (n *Node) Print(w io.Writer, prefix string) *Node {
	return n.sink("Print", WriterFunc(func(_ context.Context, v any) error {
		_, err := fmt.Fprintf(w, "%s%v\n", prefix, v)
		return err
	}))
}

// Collector is a sink that keeps every value it receives.
type Collector struct {
	*Node
	mu     sync.Mutex
	values []any
}

// Collect returns a sink recording every value of n.
func (n *Node) Collect() *Collector {
	c := &Collector{}
	c.Node = n.sink("Collect", WriterFunc(func(_ context.Context, v any) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.values = append(c.values, v)
		return nil
	}))
	return c
}

// Values returns a snapshot of the recorded values.
func (c *Collector) Values() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}
