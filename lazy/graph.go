package lazy

import (
	"fmt"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/log"
	"github.com/smallnest/tributarygo/ops"
)

// defaultTracer collects spans for traced nodes that are not attached to a
// graph with its own tracer.
var defaultTracer = graph.NewTracer()

// DefaultTracer returns the tracer used by traced nodes outside a graph
// configured with WithTracer.
func DefaultTracer() *graph.Tracer { return defaultTracer }

// Graph is a named registry of source nodes. Names are unique within a
// graph and kept in insertion order.
type Graph struct {
	name string

	mu    sync.RWMutex
	nodes *orderedmap.OrderedMap[string, *Node]

	logger    log.Logger
	tracer    *graph.Tracer
	clock     func() time.Time
	listeners graph.Listeners
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithLogger sets the logger used for evaluation and assignment messages.
func WithLogger(logger log.Logger) GraphOption {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTracer collects spans of traced nodes into tracer.
func WithTracer(tracer *graph.Tracer) GraphOption {
	return func(g *Graph) { g.tracer = tracer }
}

// WithClock replaces the wall clock used for interval and expiry checks.
func WithClock(clock func() time.Time) GraphOption {
	return func(g *Graph) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithListener registers a listener for assign, evaluate and error events.
func WithListener(listener graph.NodeListener) GraphOption {
	return func(g *Graph) { g.listeners.Add(listener) }
}

// NewGraph creates an empty graph.
func NewGraph(name string, opts ...GraphOption) *Graph {
	g := &Graph{
		name:   name,
		nodes:  orderedmap.New[string, *Node](),
		logger: log.GetDefaultLogger(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph name
func (g *Graph) Name() string { return g.name }

// AddListener registers a node event listener
func (g *Graph) AddListener(listener graph.NodeListener) { g.listeners.Add(listener) }

// CreateNode returns the node registered under name, creating it with opts
// when absent. Options are ignored when the node already exists.
func (g *Graph) CreateNode(name string, opts ...NodeOption) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n, ok := g.nodes.Get(name); ok {
		return n
	}
	n := newNode(name)
	n.g = g
	for _, opt := range opts {
		opt(n)
	}
	g.nodes.Set(name, n)
	g.logger.Debug("graph %s: created node %s", g.name, name)
	return n
}

// Func registers a derived node with no parents whose value is produced by
// fn. It is recomputed on first evaluation and whenever it becomes dirty
// through SetDirty, an interval or an expiry time.
func (g *Graph) Func(name string, fn func() (any, error), opts ...NodeOption) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n, ok := g.nodes.Get(name); ok {
		return n
	}
	n := newDerived(ops.Op{
		Name:     name,
		Fn:       func(...any) (any, error) { return fn() },
		NullSafe: true,
	})
	n.name = name
	n.g = g
	for _, opt := range opts {
		opt(n)
	}
	n.derived = true
	g.nodes.Set(name, n)
	return n
}

// GetNode returns the node registered under name.
func (g *Graph) GetNode(name string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes.Get(name)
	if !ok {
		return nil, fmt.Errorf("graph %s: %w: %s", g.name, graph.ErrNodeNotFound, name)
	}
	return n, nil
}

// GetValue returns the stored value of the node registered under name. It
// does not evaluate.
func (g *Graph) GetValue(name string) (any, error) {
	n, err := g.GetNode(name)
	if err != nil {
		return nil, err
	}
	return n.Value(), nil
}

// SetValue assigns value to the node registered under name. See Node.Set.
func (g *Graph) SetValue(name string, value any) error {
	n, err := g.GetNode(name)
	if err != nil {
		return err
	}
	return n.Set(value)
}

// Evaluate evaluates the node registered under name.
func (g *Graph) Evaluate(name string) (any, error) {
	n, err := g.GetNode(name)
	if err != nil {
		return nil, err
	}
	return n.Evaluate()
}

// Names returns the registered names in creation order.
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Nodes returns the registered nodes in creation order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]*Node, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, pair.Value)
	}
	return nodes
}

// Walk returns a parents-first snapshot of every registered node and its
// ancestors.
func (g *Graph) Walk() []graph.NodeInfo {
	nodes := g.Nodes()
	roots := make([]graph.Vertex, len(nodes))
	for i, n := range nodes {
		roots[i] = n
	}
	return graph.Walk(roots...)
}
