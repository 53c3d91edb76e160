package streaming

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrExhausted is returned by Source.Next when no more values will come.
var ErrExhausted = errors.New("source exhausted")

// Source produces the values that drive a streaming run. The engine calls
// HasNext before every Next; Next may block and must return once ctx is
// done. A source may also signal its end by returning ErrExhausted from
// Next.
//
// A Next that ignores ctx blocks a sequential run until it returns. In
// concurrent mode the run still ends on timeout or cancellation, leaving
// the producer goroutine behind until Next returns.
type Source interface {
	HasNext() bool
	Next(ctx context.Context) (any, error)
}

// SourceFunc adapts a function to Source. The source never reports
// HasNext false, so fn ends it by returning ErrExhausted.
type SourceFunc func(ctx context.Context) (any, error)

func (f SourceFunc) HasNext() bool                         { return true }
func (f SourceFunc) Next(ctx context.Context) (any, error) { return f(ctx) }

// FromFunc wraps fn as a Source.
func FromFunc(fn func(ctx context.Context) (any, error)) Source {
	return SourceFunc(fn)
}

type sliceSource struct {
	mu     sync.Mutex
	values []any
	pos    int
}

// FromSlice emits values in order, then ends.
func FromSlice(values ...any) Source {
	return &sliceSource{values: values}
}

func (s *sliceSource) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.values)
}

func (s *sliceSource) Next(context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.values) {
		return nil, ErrExhausted
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

type chanSource struct {
	ch <-chan any
}

// FromChan emits values received from ch until it is closed.
func FromChan(ch <-chan any) Source {
	return &chanSource{ch: ch}
}

func (s *chanSource) HasNext() bool { return true }

func (s *chanSource) Next(ctx context.Context) (any, error) {
	select {
	case v, ok := <-s.ch:
		if !ok {
			return nil, ErrExhausted
		}
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type timerSource struct {
	fn       func(ctx context.Context) (any, error)
	interval time.Duration
	count    int
	emitted  int
	last     time.Time
}

// Timer calls fn every interval and emits its result. count limits the
// number of values; zero or less means unlimited. The first value is
// produced immediately.
func Timer(fn func(ctx context.Context) (any, error), interval time.Duration, count int) Source {
	return &timerSource{fn: fn, interval: interval, count: count}
}

func (s *timerSource) HasNext() bool {
	return s.count <= 0 || s.emitted < s.count
}

func (s *timerSource) Next(ctx context.Context) (any, error) {
	if !s.HasNext() {
		return nil, ErrExhausted
	}
	if !s.last.IsZero() {
		wait := s.interval - time.Since(s.last)
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			}
		}
	}
	s.last = time.Now()
	s.emitted++
	return s.fn(ctx)
}
