package graph

import (
	"context"
	"sync"
	"time"

	"github.com/smallnest/tributarygo/log"
)

// NodeEvent represents different types of node events
type NodeEvent string

const (
	// NodeEventAssign indicates a source node received a new value
	NodeEventAssign NodeEvent = "assign"

	// NodeEventEvaluate indicates a lazy node was recomputed
	NodeEventEvaluate NodeEvent = "evaluate"

	// NodeEventEmit indicates a streaming node emitted a value
	NodeEventEmit NodeEvent = "emit"

	// NodeEventError indicates a node failed to compute
	NodeEventError NodeEvent = "error"

	// EventRunStart indicates a streaming run has started
	EventRunStart NodeEvent = "run_start"

	// EventRunEnd indicates a streaming run has finished
	EventRunEnd NodeEvent = "run_end"
)

// NodeListener defines the interface for node event listeners
type NodeListener interface {
	// OnNodeEvent is called when a node event occurs
	OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, value any, err error)
}

// NodeListenerFunc is a function adapter for NodeListener
type NodeListenerFunc func(ctx context.Context, event NodeEvent, nodeName string, value any, err error)

// OnNodeEvent implements the NodeListener interface
func (f NodeListenerFunc) OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, value any, err error) {
	f(ctx, event, nodeName, value, err)
}

// StreamEvent represents an event in the streaming execution
type StreamEvent struct {
	// Timestamp when the event occurred
	Timestamp time.Time

	// NodeName is the name of the node that generated the event
	NodeName string

	// Event is the type of event
	Event NodeEvent

	// Value is the emitted value
	Value any

	// Error contains any error that occurred (if Event is NodeEventError)
	Error error

	// Metadata contains additional event-specific data
	Metadata map[string]any
}

// Listeners is a concurrency-safe listener set. Listeners are called
// synchronously in registration order; a panicking listener is logged and
// skipped.
type Listeners struct {
	mu        sync.RWMutex
	listeners []NodeListener
}

// Add registers a listener
func (l *Listeners) Add(listener NodeListener) {
	if listener == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Len reports the number of registered listeners
func (l *Listeners) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.listeners)
}

// All returns a copy of the registered listeners
func (l *Listeners) All() []NodeListener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]NodeListener, len(l.listeners))
	copy(out, l.listeners)
	return out
}

// Notify delivers an event to every listener.
func (l *Listeners) Notify(ctx context.Context, event NodeEvent, nodeName string, value any, err error) {
	for _, listener := range l.All() {
		notifyOne(ctx, listener, event, nodeName, value, err)
	}
}

func notifyOne(ctx context.Context, listener NodeListener, event NodeEvent, nodeName string, value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("listener panicked on %s event for node %s: %v", event, nodeName, r)
		}
	}()
	listener.OnNodeEvent(ctx, event, nodeName, value, err)
}
