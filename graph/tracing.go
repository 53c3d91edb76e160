package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents the kind of work a span records
type TraceEvent string

const (
	// TraceEventRunStart marks the start of a streaming run
	TraceEventRunStart TraceEvent = "run_start"

	// TraceEventRunEnd marks the end of a streaming run
	TraceEventRunEnd TraceEvent = "run_end"

	// TraceEventEvaluate records one lazy computation of a node
	TraceEventEvaluate TraceEvent = "evaluate"

	// TraceEventAssign records an assignment to a source node
	TraceEventAssign TraceEvent = "assign"

	// TraceEventEmit records one value emitted by a streaming node
	TraceEventEmit TraceEvent = "emit"

	// TraceEventError records a failed computation
	TraceEventError TraceEvent = "error"
)

// TraceSpan represents a span of execution with timing and metadata
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID string

	// ParentID is the ID of the enclosing span (empty for root spans)
	ParentID string

	Event    TraceEvent
	NodeName string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Inputs are the operand values the node was computed from
	Inputs []any

	// Value is the value produced or assigned
	Value any

	Error error

	Metadata map[string]any
}

// TraceHook receives every span as it starts and as it ends.
type TraceHook interface {
	OnEvent(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnEvent implements the TraceHook interface
func (f TraceHookFunc) OnEvent(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer collects spans for nodes that have tracing enabled. It is safe for
// concurrent use.
type Tracer struct {
	mu    sync.Mutex
	hooks []TraceHook
	spans []*TraceSpan
	now   func() time.Time
}

// NewTracer creates a new tracer instance
func NewTracer() *Tracer {
	return &Tracer{now: time.Now}
}

// AddHook registers a new trace hook
func (t *Tracer) AddHook(hook TraceHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// StartSpan opens a span for nodeName. The parent span, if any, is taken
// from ctx.
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := &TraceSpan{
		ID:        uuid.NewString(),
		Event:     event,
		NodeName:  nodeName,
		StartTime: t.now(),
		Metadata:  make(map[string]any),
	}
	if parent := SpanFromContext(ctx); parent != nil {
		span.ParentID = parent.ID
	}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	hooks := t.hooks
	t.mu.Unlock()

	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
	return span
}

// EndSpan completes a span with the produced value and error. A failed span
// is re-tagged as TraceEventError.
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, value any, err error) {
	t.mu.Lock()
	span.EndTime = t.now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Value = value
	span.Error = err
	if err != nil {
		span.Event = TraceEventError
	} else if span.Event == TraceEventRunStart {
		span.Event = TraceEventRunEnd
	}
	hooks := t.hooks
	t.mu.Unlock()

	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
}

// Record stores an instantaneous span, used for assignments and emissions.
func (t *Tracer) Record(ctx context.Context, event TraceEvent, nodeName string, value any, err error) *TraceSpan {
	span := t.StartSpan(ctx, event, nodeName)
	t.EndSpan(ctx, span, value, err)
	return span
}

// Spans returns the collected spans in the order they were started.
func (t *Tracer) Spans() []*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*TraceSpan, len(t.spans))
	copy(out, t.spans)
	return out
}

// SpansFor returns the spans recorded for one node.
func (t *Tracer) SpansFor(nodeName string) []*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*TraceSpan
	for _, s := range t.spans {
		if s.NodeName == nodeName {
			out = append(out, s)
		}
	}
	return out
}

// Clear removes all collected spans
func (t *Tracer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = nil
}

type contextKey string

const spanContextKey contextKey = "tributary_span"

// ContextWithSpan returns a new context with the span stored
func ContextWithSpan(ctx context.Context, span *TraceSpan) context.Context {
	return context.WithValue(ctx, spanContextKey, span)
}

// SpanFromContext extracts a span from context
func SpanFromContext(ctx context.Context) *TraceSpan {
	if ctx == nil {
		return nil
	}
	if span, ok := ctx.Value(spanContextKey).(*TraceSpan); ok {
		return span
	}
	return nil
}
