package lazy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tributarygo/graph"
)

func TestCreateNodeIsIdempotent(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1))
	again := g.CreateNode("x", Value(99), Readonly())

	assert.Same(t, x, again)
	assert.Equal(t, 1, again.Value())
	assert.False(t, again.Readonly())

	g.CreateNode("y")
	g.Func("now", func() (any, error) { return 0, nil })
	assert.Equal(t, []string{"x", "y", "now"}, g.Names())
	assert.Len(t, g.Nodes(), 3)
}

func TestGetValueAndGetNode(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(2))

	v, err := g.GetValue("x")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	n, err := g.GetNode("x")
	require.NoError(t, err)
	assert.Same(t, x, n)

	_, err = g.GetValue("missing")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	_, err = g.GetNode("missing")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.ErrorIs(t, g.SetValue("missing", 1), graph.ErrNodeNotFound)
}

func TestSetValueRejectsNodes(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1))
	y := g.CreateNode("y", Value(2))

	require.NoError(t, g.SetValue("x", x))
	assert.Equal(t, 1, x.Value())

	err := g.SetValue("x", y)
	assert.ErrorIs(t, err, graph.ErrInvalidAssignment)
	var ia *graph.InvalidAssignmentError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, "y", ia.Got)

	err = g.SetValue("x", x.Add(1))
	assert.ErrorIs(t, err, graph.ErrInvalidAssignment)
	assert.Equal(t, 1, x.Value())
}

func TestReadonlyAndDerivedRejectAssignment(t *testing.T) {
	g := NewGraph("test")
	r := g.CreateNode("r", Readonly(), Value(1))

	err := g.SetValue("r", 2)
	assert.ErrorIs(t, err, graph.ErrReadOnly)
	assert.Equal(t, 1, r.Value())

	d := r.Add(1)
	err = d.Set(5)
	var ro *graph.ReadOnlyError
	require.ErrorAs(t, err, &ro)
	assert.True(t, ro.Derived)

	c := Const(3)
	assert.Equal(t, "const(3)", c.Name())
	assert.ErrorIs(t, c.Set(4), graph.ErrReadOnly)
}

func TestAssignmentDirtyTracking(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1.0))
	assert.False(t, x.Dirty())

	require.NoError(t, x.Set(1.000001))
	assert.False(t, x.Dirty())

	require.NoError(t, x.Set(1.5))
	assert.True(t, x.Dirty())
	_, err := x.Evaluate()
	require.NoError(t, err)
	assert.False(t, x.Dirty())

	require.NoError(t, x.Set(1.5))
	assert.False(t, x.Dirty())

	require.NoError(t, x.Set(nil))
	assert.True(t, x.Dirty())
}

func TestListenersAndTracing(t *testing.T) {
	tracer := graph.NewTracer()
	var events []graph.NodeEvent
	listener := graph.NodeListenerFunc(func(ctx context.Context, event graph.NodeEvent, nodeName string, value any, err error) {
		events = append(events, event)
	})
	g := NewGraph("test", WithTracer(tracer), WithListener(listener))

	x := g.CreateNode("x", Value(1), Trace())
	f := g.Func("double", func() (any, error) { return 2 * x.Value().(int), nil }, Trace())

	require.NoError(t, x.Set(4))
	v, err := f.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	assert.Equal(t, []graph.NodeEvent{graph.NodeEventAssign, graph.NodeEventEvaluate}, events)

	assigns := tracer.SpansFor("x")
	require.Len(t, assigns, 1)
	assert.Equal(t, graph.TraceEventAssign, assigns[0].Event)
	assert.Equal(t, 4, assigns[0].Value)

	evals := tracer.SpansFor("double")
	require.Len(t, evals, 1)
	assert.Equal(t, graph.TraceEventEvaluate, evals[0].Event)
}

func TestGraphWalk(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1))
	y := g.CreateNode("y", Value(2))
	total := g.CreateNode("total")
	require.NoError(t, total.Bind(x.Add(y)))

	infos := g.Walk()
	require.Len(t, infos, 3)
	assert.Equal(t, "total", infos[2].Name)
	assert.Equal(t, []string{"x", "y"}, infos[2].Parents)
	assert.Equal(t, "Add", infos[2].Operation)
	assert.True(t, infos[2].Dirty)
}
