package lazy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/ops"
)

func TestEndToEnd(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(2))
	y := x.Mul(3).Add(1)

	v, err := y.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, y.Recomputations())

	require.NoError(t, g.SetValue("x", 5))
	v, err = y.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 16, v)
	assert.Equal(t, 2, y.Recomputations())

	v, err = y.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 16, v)
	assert.Equal(t, 2, y.Recomputations())
}

func TestDiamondEvaluatedOnce(t *testing.T) {
	g := NewGraph("test")
	a := g.CreateNode("a", Value(1))
	calls := 0
	shared := Apply(func(args ...any) (any, error) {
		calls++
		return args[0].(int) * 10, nil
	}, a)
	d := shared.Add(1).Add(shared.Mul(2))

	v, err := d.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 31, v)
	assert.Equal(t, 1, calls)

	require.NoError(t, a.Set(2))
	v, err = d.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 61, v)
	assert.Equal(t, 2, calls)
}

func TestIdempotentEvaluation(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1.0))
	mid := x.Mul(2)
	y := mid.Add(1)

	_, err := y.Evaluate()
	require.NoError(t, err)
	_, err = y.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, mid.Recomputations())
	assert.Equal(t, 1, y.Recomputations())

	require.NoError(t, x.Set(1.000001))
	_, err = y.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, y.Recomputations())
}

func TestUnchangedResultStopsPropagation(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(3))
	parity := x.Mod(2)
	label := parity.Str()

	_, err := label.Evaluate()
	require.NoError(t, err)

	require.NoError(t, x.Set(5))
	v, err := label.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Equal(t, 2, parity.Recomputations())
	assert.Equal(t, 1, label.Recomputations())
}

func TestReflectedOperators(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(10))

	cases := []struct {
		node *Node
		want any
	}{
		{x.RSub(5), -5},
		{x.RDiv(5), 0.5},
		{x.RAdd(1), 11},
		{x.RPow(2), 1024},
		{x.RMod(3), 3},
		{x.Gt(3).And(x.Lt(20)), true},
		{x.Eq(10.0), true},
		{x.Gt(100).If("big", "small"), "small"},
		{x.Sum(1, 2.5), 13.5},
		{x.Average(20), 15.0},
		{x.Neg().Abs(), 10},
		{x.Invert(), 0.1},
		{x.Str().Len(), 2},
		{x.Not(), false},
	}
	for _, c := range cases {
		v, err := c.node.Evaluate()
		require.NoError(t, err, c.node.Name())
		assert.Equal(t, c.want, v, c.node.Name())
	}
}

func TestDerivedNaming(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(1))
	y := x.Add(1)

	assert.Regexp(t, `^Add#[0-9a-f-]{8}$`, y.Name())
	assert.True(t, y.Derived())
	assert.True(t, y.Dirty())
	assert.Equal(t, "Add", y.Operation())
	assert.Same(t, g, y.Graph())
	require.Len(t, y.Upstream(), 2)
	assert.Equal(t, "const(1)", y.Upstream()[1].Name())
}

func TestNullValues(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x")
	y := x.Add(1)

	_, err := y.Evaluate()
	var nv *graph.NullValueError
	require.ErrorAs(t, err, &nv)
	assert.Equal(t, "x", nv.Parent)
	assert.Equal(t, y.Name(), nv.Node)

	v, err := x.Eq(nil).Evaluate()
	require.NoError(t, err)
	assert.Equal(t, true, v)

	strict := g.CreateNode("strict", Nullable(false))
	_, err = strict.Evaluate()
	assert.ErrorIs(t, err, graph.ErrNullValue)

	empty := g.Func("empty", func() (any, error) { return nil, nil }, Nullable(false))
	_, err = empty.Evaluate()
	assert.ErrorIs(t, err, graph.ErrNullValue)
}

func TestComputeErrors(t *testing.T) {
	g := NewGraph("test")
	s := g.CreateNode("s", Value("a"))

	_, err := s.Sub(1).Evaluate()
	assert.ErrorIs(t, err, graph.ErrCompute)
	assert.ErrorIs(t, err, ops.ErrUnsupportedOperand)

	boom := Apply(func(args ...any) (any, error) { panic("kaboom") }, s)
	_, err = boom.Evaluate()
	var ce *graph.ComputeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, boom.Name(), ce.Node)
	var pe *ops.PanicError
	assert.ErrorAs(t, err, &pe)
}

func TestFailedEvaluationKeepsCache(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(4))
	errZero := errors.New("zero")
	inv := Apply(func(args ...any) (any, error) {
		if args[0].(int) == 0 {
			return nil, errZero
		}
		return 1.0 / float64(args[0].(int)), nil
	}, x)

	v, err := inv.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	require.NoError(t, x.Set(0))
	_, err = inv.Evaluate()
	assert.ErrorIs(t, err, errZero)
	assert.Equal(t, 0.25, inv.Value())

	require.NoError(t, x.Set(2))
	v, err = inv.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestBind(t *testing.T) {
	g := NewGraph("test")
	x := g.CreateNode("x", Value(2))
	z := g.CreateNode("z", Value(1))

	err := z.Bind(z.Add(1))
	assert.ErrorIs(t, err, graph.ErrCycleDetected)
	var ce *graph.CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "z", ce.Path[0])
	assert.Equal(t, "z", ce.Path[len(ce.Path)-1])
	assert.False(t, z.Derived())
	assert.Equal(t, 1, z.Value())

	require.NoError(t, z.Bind(x.Mul(4)))
	v, err := z.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.ErrorIs(t, z.Set(3), graph.ErrReadOnly)

	w := g.CreateNode("w")
	require.NoError(t, w.Bind(x))
	v, err = w.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	// x now feeds z, so x cannot be bound to anything downstream of z
	assert.ErrorIs(t, x.Bind(z.Add(1)), graph.ErrCycleDetected)

	ro := g.CreateNode("ro", Readonly())
	assert.ErrorIs(t, ro.Bind(x), graph.ErrReadOnly)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestInterval(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	g := NewGraph("test", WithClock(clock.Now))
	calls := 0
	tick := g.Func("tick", func() (any, error) {
		calls++
		return calls, nil
	}, Interval(time.Second))
	doubled := tick.Mul(2)

	v, err := doubled.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	clock.now = clock.now.Add(500 * time.Millisecond)
	assert.False(t, tick.Dirty())
	v, _ = doubled.Evaluate()
	assert.Equal(t, 2, v)

	clock.now = clock.now.Add(time.Second)
	assert.True(t, tick.Dirty())
	v, err = doubled.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 2, calls)
}

func TestSourceInterval(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	g := NewGraph("test", WithClock(clock.Now))
	price := g.CreateNode("price", Value(10), Interval(time.Minute))
	calls := 0
	seen := Apply(func(args ...any) (any, error) {
		calls++
		return args[0], nil
	}, price)

	_, err := seen.Evaluate()
	require.NoError(t, err)
	_, err = seen.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = seen.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	g := NewGraph("test", WithClock(clock.Now))
	calls := 0
	daily := g.Func("daily", func() (any, error) {
		calls++
		return calls, nil
	}, Expire(10, 0, 0))

	v, err := daily.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.now = time.Date(2026, 1, 1, 9, 59, 0, 0, time.UTC)
	assert.False(t, daily.Dirty())

	clock.now = time.Date(2026, 1, 1, 10, 0, 1, 0, time.UTC)
	assert.True(t, daily.Dirty())
	v, err = daily.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.False(t, daily.Dirty())
}

func TestSetDirtyForcesRecompute(t *testing.T) {
	g := NewGraph("test")
	calls := 0
	f := g.Func("f", func() (any, error) {
		calls++
		return "v", nil
	})

	_, err := f.Evaluate()
	require.NoError(t, err)
	_, err = f.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	f.SetDirty()
	_, err = f.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
