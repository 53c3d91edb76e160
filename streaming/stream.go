package streaming

import (
	"context"
	"time"

	"github.com/smallnest/tributarygo/graph"
)

// StreamResult contains the channels returned by Stream
type StreamResult struct {
	// Events receives one event per emission and per node error. The run
	// blocks while the channel is full, so consumers must drain it.
	Events <-chan graph.StreamEvent

	// Result receives the run summary when the run completes
	Result <-chan *Result

	// Errors receives the error returned by the run, if any
	Errors <-chan error

	// Done channel is closed when streaming is complete
	Done <-chan struct{}

	// Cancel function can be called to stop streaming
	Cancel context.CancelFunc
}

// streamingListener forwards node events to a stream's event channel.
type streamingListener struct {
	ctx    context.Context
	events chan<- graph.StreamEvent
}

func (sl *streamingListener) OnNodeEvent(_ context.Context, event graph.NodeEvent, nodeName string, value any, err error) {
	if event != graph.NodeEventEmit && event != graph.NodeEventError {
		return
	}
	se := graph.StreamEvent{
		Timestamp: time.Now(),
		NodeName:  nodeName,
		Event:     event,
		Value:     value,
		Error:     err,
	}
	select {
	case sl.events <- se:
	case <-sl.ctx.Done():
	}
}

// Stream runs the graph in the background and streams its events.
// Cancelling the returned StreamResult ends the run as a cancellation.
func (e *Engine) Stream(ctx context.Context, roots ...*Node) *StreamResult {
	events := make(chan graph.StreamEvent, e.config.BufferSize)
	results := make(chan *Result, 1)
	errs := make(chan error, 1)
	done := make(chan struct{})

	streamCtx, cancel := context.WithCancel(ctx)

	se := &Engine{config: e.config}
	for _, l := range e.listeners.All() {
		se.listeners.Add(l)
	}
	se.listeners.Add(&streamingListener{ctx: streamCtx, events: events})

	go func() {
		defer func() {
			close(events)
			close(results)
			close(errs)
			close(done)
		}()

		res, err := se.Run(streamCtx, roots...)
		if err != nil {
			errs <- err
		}
		if res != nil {
			results <- res
		}
	}()

	return &StreamResult{
		Events: events,
		Result: results,
		Errors: errs,
		Done:   done,
		Cancel: cancel,
	}
}
