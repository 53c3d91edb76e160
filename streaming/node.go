package streaming

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/ops"
)

// Trigger decides when a derived node fires.
type Trigger int

const (
	// TriggerAll fires once every non-constant upstream has a pending
	// value. Values are queued per upstream and consumed one per firing in
	// arrival order.
	TriggerAll Trigger = iota

	// TriggerAny fires on every delivery once each upstream has delivered
	// at least once, using the latest value of every upstream.
	TriggerAny
)

// kernel turns the current slot values of a firing node into zero or more
// emissions.
type kernel func(ctx context.Context, inputs []any) ([]any, error)

// Node is a vertex of a streaming graph. Input nodes wrap a Source; derived
// nodes react to values pushed by their upstreams.
type Node struct {
	id       string
	name     string
	op       string
	src      Source
	constant bool
	derived  bool
	trigger  Trigger
	kernel   kernel

	parents  []*Node
	children []*Node

	mu        sync.Mutex
	value     any
	slots     []any
	fresh     []bool
	seen      []bool
	pending   [][]delivery
	aborted   uint64
	emissions int
}

// delivery is a queued input tagged with the step that produced it.
type delivery struct {
	v    any
	step uint64
}

var _ graph.Vertex = (*Node)(nil)

// Input creates a node emitting every value produced by src.
func Input(name string, src Source) *Node {
	return &Node{id: uuid.NewString(), name: name, src: src}
}

// Const creates a node holding v. Constants never drive propagation; a
// derived node sees them as always available.
func Const(v any) *Node {
	return &Node{
		id:       uuid.NewString(),
		name:     fmt.Sprintf("const(%v)", v),
		constant: true,
		value:    v,
	}
}

func asNode(v any) *Node {
	if n, ok := v.(*Node); ok {
		return n
	}
	return Const(v)
}

// newDerived wires a derived node below parents.
func newDerived(op string, trigger Trigger, k kernel, parents ...*Node) *Node {
	id := uuid.NewString()
	n := &Node{
		id:      id,
		name:    fmt.Sprintf("%s#%s", op, id[:8]),
		op:      op,
		derived: true,
		trigger: trigger,
		kernel:  k,
		parents: parents,
		slots:   make([]any, len(parents)),
		fresh:   make([]bool, len(parents)),
		seen:    make([]bool, len(parents)),
		pending: make([][]delivery, len(parents)),
	}
	for i, p := range parents {
		if p.constant {
			n.slots[i] = p.value
			n.seen[i] = true
		}
		p.addChild(n)
	}
	return n
}

func (n *Node) addChild(c *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.children {
		if existing == c {
			return
		}
	}
	n.children = append(n.children, c)
}

func (n *Node) ID() string        { return n.id }
func (n *Node) Name() string      { return n.name }
func (n *Node) Derived() bool     { return n.derived }
func (n *Node) Operation() string { return n.op }
func (n *Node) Upstream() []*Node { return append([]*Node(nil), n.parents...) }

// Named renames the node and returns it.
func (n *Node) Named(name string) *Node {
	n.name = name
	return n
}

// Value returns the last emitted value.
func (n *Node) Value() any {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

// Emissions returns the number of values the node has emitted.
func (n *Node) Emissions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.emissions
}

// Dirty reports whether the node holds delivered inputs it has not fired
// on yet.
func (n *Node) Dirty() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, f := range n.fresh {
		if f || len(n.pending[i]) > 0 {
			return true
		}
	}
	return false
}

// Parents implements graph.Vertex.
func (n *Node) Parents() []graph.Vertex {
	out := make([]graph.Vertex, len(n.parents))
	for i, p := range n.parents {
		out[i] = p
	}
	return out
}

func (n *Node) String() string {
	return fmt.Sprintf("%s = %v", n.name, n.Value())
}

// deliver hands v, produced during step, to every slot fed by from. It
// reports the inputs to fire with when the node's trigger policy is
// satisfied. Deliveries for a step the node aborted are dropped.
func (n *Node) deliver(from *Node, v any, step uint64) ([]any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if step != 0 && n.aborted == step {
		return nil, false
	}
	for i, p := range n.parents {
		if p != from {
			continue
		}
		n.seen[i] = true
		if n.trigger == TriggerAll {
			n.pending[i] = append(n.pending[i], delivery{v: v, step: step})
		} else {
			n.slots[i] = v
			n.fresh[i] = true
		}
	}

	inputs := make([]any, len(n.parents))
	for i, p := range n.parents {
		switch {
		case p.constant:
			inputs[i] = n.slots[i]
		case n.trigger == TriggerAny:
			if !n.seen[i] {
				return nil, false
			}
			inputs[i] = n.slots[i]
		default:
			if len(n.pending[i]) == 0 {
				return nil, false
			}
			inputs[i] = n.pending[i][0].v
		}
	}

	for i, p := range n.parents {
		n.fresh[i] = false
		if !p.constant && n.trigger == TriggerAll {
			n.pending[i] = n.pending[i][1:]
		}
	}
	return inputs, true
}

// abort drops the values queued during step and ignores further deliveries
// for it.
func (n *Node) abort(step uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.aborted = step
	for i, queue := range n.pending {
		kept := queue[:0]
		for _, d := range queue {
			if d.step != step {
				kept = append(kept, d)
			}
		}
		n.pending[i] = kept
	}
}

func (n *Node) childNodes() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

func (n *Node) record(v any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.value = v
	n.emissions++
}

// opKernel adapts a stateless operator. Operands that are nil fail unless
// the operator is null-safe.
func opKernel(op ops.Op, parents []*Node) kernel {
	return func(_ context.Context, inputs []any) ([]any, error) {
		if !op.NullSafe {
			for i, v := range inputs {
				if v == nil {
					return nil, &nullOperand{parent: parents[i].name}
				}
			}
		}
		out, err := op.Call(inputs...)
		if err != nil {
			return nil, err
		}
		return []any{out}, nil
	}
}

// nullOperand is converted into a graph.NullValueError by the engine, which
// knows the failing node's name.
type nullOperand struct {
	parent string
}

func (e *nullOperand) Error() string { return fmt.Sprintf("operand %s is nil", e.parent) }

func one(v any) []any { return []any{v} }
