package streaming

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/smallnest/tributarygo/ops"
)

// Apply emits fn applied to every value. A panic in fn is reported as a
// compute error of the node.
func (n *Node) Apply(fn func(v any) (any, error)) *Node {
	op := ops.Op{Name: "Apply", Fn: func(args ...any) (any, error) { return fn(args[0]) }, NullSafe: true}
	return newDerived("Apply", TriggerAll, opKernel(op, []*Node{n}), n)
}

// Filter forwards the values for which pred returns true.
func (n *Node) Filter(pred func(v any) bool) *Node {
	return newDerived("Filter", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		if pred(in[0]) {
			return one(in[0]), nil
		}
		return nil, nil
	}, n)
}

// Reduce folds every value into an accumulator starting at seed and emits
// the accumulator after each input.
func (n *Node) Reduce(fn func(acc, v any) (any, error), seed any) *Node {
	acc := seed
	return newDerived("Reduce", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		next, err := fn(acc, in[0])
		if err != nil {
			return nil, err
		}
		acc = next
		return one(acc), nil
	}, n)
}

// Delay holds values back: each value is emitted once n newer values have
// arrived after it.
func (n *Node) Delay(count int) *Node {
	var buf []any
	return newDerived("Delay", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		buf = append(buf, in[0])
		if len(buf) <= count {
			return nil, nil
		}
		v := buf[0]
		buf = buf[1:]
		return one(v), nil
	}, n)
}

// Merge emits the values of n and others together as a list whenever all
// of them have produced a new value.
func (n *Node) Merge(others ...*Node) *Node {
	return ListMerge(append([]*Node{n}, others...)...)
}

// ListMerge emits a []any holding one new value from each node, in the
// order the nodes were given.
func ListMerge(nodes ...*Node) *Node {
	return newDerived("ListMerge", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		out := make([]any, len(in))
		copy(out, in)
		return one(out), nil
	}, nodes...)
}

// DictMerge emits a map keyed like nodes holding one new value from each.
func DictMerge(nodes map[string]*Node) *Node {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parents := make([]*Node, len(keys))
	for i, k := range keys {
		parents[i] = nodes[k]
	}
	return newDerived("DictMerge", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k] = in[i]
		}
		return one(out), nil
	}, parents...)
}

// CombineLatest emits the latest value of every node as a []any whenever
// any of them updates, once all have produced a value.
func CombineLatest(nodes ...*Node) *Node {
	return newDerived("CombineLatest", TriggerAny, func(_ context.Context, in []any) ([]any, error) {
		out := make([]any, len(in))
		copy(out, in)
		return one(out), nil
	}, nodes...)
}

// Unroll emits the elements of slice and array values one by one. Other
// values pass through unchanged.
func (n *Node) Unroll() *Node {
	return newDerived("Unroll", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		return unroll(in[0]), nil
	}, n)
}

func unroll(v any) []any {
	if v == nil {
		return one(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := v.([]byte); isBytes {
			return one(v)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return one(v)
}

// UnrollDataFrame emits one map per row of a table. A table is either a
// []map[string]any of rows or a map[string][]any of equal-length columns.
func (n *Node) UnrollDataFrame() *Node {
	return newDerived("UnrollDataFrame", TriggerAll, func(_ context.Context, in []any) ([]any, error) {
		return unrollFrame(in[0])
	}, n)
}

func unrollFrame(v any) ([]any, error) {
	switch t := v.(type) {
	case []map[string]any:
		out := make([]any, len(t))
		for i, row := range t {
			out[i] = row
		}
		return out, nil
	case map[string][]any:
		cols := make([]string, 0, len(t))
		rows := -1
		for k, col := range t {
			cols = append(cols, k)
			if rows >= 0 && len(col) != rows {
				return nil, fmt.Errorf("column %s has %d rows, want %d", k, len(col), rows)
			}
			rows = len(col)
		}
		out := make([]any, 0, max(rows, 0))
		for i := 0; i < rows; i++ {
			row := make(map[string]any, len(cols))
			for _, k := range cols {
				row[k] = t[k][i]
			}
			out = append(out, row)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unroll data frame: unsupported value of type %T", v)
}
