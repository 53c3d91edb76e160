package graph

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualization(t *testing.T) {
	x := src("x", 2)
	three := src("const(3)", 3)
	y := derived("Mul#1a2b3c4d", "Mul", 6, x, three)

	exporter := NewExporter(y)

	mermaid := exporter.DrawMermaid()
	assert.Contains(t, mermaid, "flowchart TD")
	assert.Contains(t, mermaid, `n0(["x"])`)
	assert.Contains(t, mermaid, `n2["Mul#1a2b3c4d"]`)
	assert.Contains(t, mermaid, "n0 --> n2")
	assert.Contains(t, mermaid, "n1 --> n2")
	assert.Contains(t, mermaid, "style n2 fill:#87CEEB")

	mermaidLR := exporter.DrawMermaidWithOptions(MermaidOptions{Direction: "LR", ShowValues: true})
	assert.Contains(t, mermaidLR, "flowchart LR")
	assert.Contains(t, mermaidLR, "x = 2")

	dot := exporter.DrawDOT()
	assert.Contains(t, dot, "digraph G {")
	assert.Contains(t, dot, "n0 -> n2;")
	assert.Contains(t, dot, `n0 [label="x", shape=ellipse`)
}

func TestPrettyPrint(t *testing.T) {
	a := src("a", 1)
	b := derived("b", "Neg", -1, a)
	c := derived("c", "Mul", 2, b)
	d := derived("d", "Add", 1, b, c)
	d.dirty = true

	var buf bytes.Buffer
	require.NoError(t, PrettyPrint(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "d")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "(see above)")
}

func TestTracer(t *testing.T) {
	tracer := NewTracer()
	var mu sync.Mutex
	var seen []TraceEvent
	tracer.AddHook(TraceHookFunc(func(ctx context.Context, span *TraceSpan) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, span.Event)
	}))

	ctx := context.Background()
	run := tracer.StartSpan(ctx, TraceEventRunStart, "")
	ctx = ContextWithSpan(ctx, run)

	span := tracer.StartSpan(ctx, TraceEventEvaluate, "y")
	span.Inputs = []any{2, 3}
	tracer.EndSpan(ctx, span, 6, nil)

	tracer.Record(ctx, TraceEventAssign, "x", 5, nil)
	failed := tracer.StartSpan(ctx, TraceEventEvaluate, "z")
	tracer.EndSpan(ctx, failed, nil, errors.New("boom"))
	tracer.EndSpan(context.Background(), run, nil, nil)

	spans := tracer.Spans()
	require.Len(t, spans, 4)
	assert.Equal(t, TraceEventRunEnd, spans[0].Event)
	assert.Equal(t, run.ID, spans[1].ParentID)
	assert.Equal(t, 6, spans[1].Value)
	assert.Equal(t, TraceEventError, spans[3].Event)

	ys := tracer.SpansFor("y")
	require.Len(t, ys, 1)
	assert.Equal(t, []any{2, 3}, ys[0].Inputs)
	assert.NotEqual(t, spans[0].ID, spans[1].ID)

	assert.Len(t, seen, 8)

	tracer.Clear()
	assert.Empty(t, tracer.Spans())
}

func TestListenersRecoverPanics(t *testing.T) {
	var ls Listeners
	var got []NodeEvent
	ls.Add(NodeListenerFunc(func(ctx context.Context, event NodeEvent, nodeName string, value any, err error) {
		panic("listener bug")
	}))
	ls.Add(NodeListenerFunc(func(ctx context.Context, event NodeEvent, nodeName string, value any, err error) {
		got = append(got, event)
	}))
	ls.Add(nil)

	ls.Notify(context.Background(), NodeEventAssign, "x", 1, nil)
	ls.Notify(context.Background(), NodeEventEvaluate, "y", 2, nil)

	assert.Equal(t, 2, ls.Len())
	assert.Equal(t, []NodeEvent{NodeEventAssign, NodeEventEvaluate}, got)
}
