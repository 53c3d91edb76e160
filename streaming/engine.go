package streaming

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/tributarygo/graph"
	"github.com/smallnest/tributarygo/log"
	"github.com/smallnest/tributarygo/ops"
)

// RunConfig configures a streaming run.
type RunConfig struct {
	// Timeout ends the run gracefully once elapsed. Zero means no limit.
	Timeout time.Duration

	// Concurrent prefetches every source in its own goroutine. Values are
	// still propagated one at a time.
	Concurrent bool

	// BufferSize bounds the prefetch queue in concurrent mode; producers
	// block once it is full.
	BufferSize int

	// FailFast stops the run at the first compute error instead of
	// isolating it to the failing branch.
	FailFast bool

	Logger    log.Logger
	Metrics   *Metrics
	Listeners []graph.NodeListener
	Tracer    *graph.Tracer
}

// DefaultRunConfig returns the default run configuration
func DefaultRunConfig() RunConfig {
	return RunConfig{
		BufferSize: 64,
		Logger:     log.GetDefaultLogger(),
	}
}

// Result summarises a finished run.
type Result struct {
	// Steps is the number of source values propagated.
	Steps int

	// TimedOut is set when the run ended because Timeout elapsed.
	TimedOut bool

	// Errors holds every compute and source error in the order raised.
	Errors []error

	Duration time.Duration
}

// Err joins Errors, or returns nil when there were none.
func (r *Result) Err() error { return errors.Join(r.Errors...) }

// Engine drives streaming runs.
type Engine struct {
	config    RunConfig
	listeners graph.Listeners
}

// NewEngine creates an engine. Zero fields of config fall back to
// DefaultRunConfig.
func NewEngine(config RunConfig) *Engine {
	def := DefaultRunConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.Logger == nil {
		config.Logger = def.Logger
	}
	e := &Engine{config: config}
	for _, l := range config.Listeners {
		e.listeners.Add(l)
	}
	return e
}

// AddListener registers a listener for emissions and errors.
func (e *Engine) AddListener(listener graph.NodeListener) {
	e.listeners.Add(listener)
}

// errStop aborts propagation after a fail-fast error.
var errStop = errors.New("run stopped")

// stepSeq numbers propagation steps across all runs. Step numbers are
// never reused, including by a later run over the same nodes.
var stepSeq atomic.Uint64

// run is the state of one Run call.
type run struct {
	e       *Engine
	active  map[*Node]bool
	sources []*Node
	result  *Result
	stepID  uint64
	mu      sync.Mutex
}

// Run pushes every source value upstream of roots through the graph until
// all sources are exhausted, the timeout elapses or ctx is cancelled.
//
// Compute errors abort only the branch below the failing node unless
// FailFast is set; they are collected in the result and returned joined.
// Cancelling ctx returns ctx.Err(). A timeout is not an error.
func (e *Engine) Run(ctx context.Context, roots ...*Node) (*Result, error) {
	start := time.Now()
	order, err := graph.TopoOrder(roots, (*Node).upstream, (*Node).Name)
	if err != nil {
		return nil, err
	}

	r := &run{e: e, active: make(map[*Node]bool, len(order)), result: &Result{}}
	for _, n := range order {
		r.active[n] = true
		if n.src != nil {
			r.sources = append(r.sources, n)
		}
	}

	runCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.config.Logger.Info("streaming run started: %d nodes, %d sources", len(order), len(r.sources))
	e.listeners.Notify(ctx, graph.EventRunStart, "", len(r.sources), nil)
	var span *graph.TraceSpan
	if e.config.Tracer != nil {
		span = e.config.Tracer.StartSpan(ctx, graph.TraceEventRunStart, "")
		runCtx = graph.ContextWithSpan(runCtx, span)
	}

	var loopErr error
	if e.config.Concurrent {
		loopErr = r.concurrent(runCtx)
	} else {
		loopErr = r.sequential(runCtx)
	}

	res := r.result
	res.Duration = time.Since(start)
	var retErr error
	switch {
	case ctx.Err() != nil:
		retErr = ctx.Err()
	case errors.Is(loopErr, errStop):
		retErr = res.Err()
	case loopErr != nil && runCtx.Err() != nil:
		res.TimedOut = true
		retErr = res.Err()
	default:
		retErr = res.Err()
	}

	if span != nil {
		e.config.Tracer.EndSpan(ctx, span, res.Steps, retErr)
	}
	e.listeners.Notify(ctx, graph.EventRunEnd, "", res.Steps, retErr)
	e.config.Logger.Info("streaming run finished: %d steps in %s (timed out: %t, errors: %d)",
		res.Steps, res.Duration, res.TimedOut, len(res.Errors))
	return res, retErr
}

func (n *Node) upstream() []*Node { return n.parents }

// sequential pulls one value per live source per round, in input order.
func (r *run) sequential(ctx context.Context) error {
	live := append([]*Node(nil), r.sources...)
	for len(live) > 0 {
		next := live[:0]
		for _, src := range live {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !src.src.HasNext() {
				r.e.config.Logger.Debug("source %s exhausted", src.name)
				continue
			}
			v, err := src.src.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if !errors.Is(err, ErrExhausted) {
					if stop := r.sourceFailed(ctx, src, err); stop != nil {
						return stop
					}
				}
				continue
			}
			if err := r.step(ctx, src, v); err != nil {
				return err
			}
			next = append(next, src)
		}
		live = next
	}
	return nil
}

type item struct {
	src *Node
	v   any
	err error
	eos bool
}

// concurrent prefetches every source into a bounded queue and propagates
// values in arrival order. When the run ends early the producers are
// cancelled but not waited for, so a source blocked in Next cannot hold
// the run open.
func (r *run) concurrent(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan item, r.e.config.BufferSize)
	var wg sync.WaitGroup
	for _, src := range r.sources {
		wg.Add(1)
		go func(src *Node) {
			defer wg.Done()
			for src.src.HasNext() {
				v, err := src.src.Next(ctx)
				if errors.Is(err, ErrExhausted) {
					break
				}
				select {
				case queue <- item{src: src, v: v, err: err}:
				case <-ctx.Done():
					return
				}
				if err != nil {
					return
				}
			}
			select {
			case queue <- item{src: src, eos: true}:
			case <-ctx.Done():
			}
		}(src)
	}

	remaining := len(r.sources)
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case it := <-queue:
			switch {
			case it.eos:
				remaining--
				r.e.config.Logger.Debug("source %s exhausted", it.src.name)
			case it.err != nil:
				remaining--
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if stop := r.sourceFailed(ctx, it.src, it.err); stop != nil {
					return stop
				}
			default:
				if err := r.step(ctx, it.src, it.v); err != nil {
					return err
				}
			}
		}
	}
	wg.Wait()
	return nil
}

// step propagates one source value.
func (r *run) step(ctx context.Context, src *Node, v any) error {
	begin := time.Now()
	r.e.config.Metrics.observeSource(src.name)
	r.result.Steps++
	r.stepID = stepSeq.Add(1)
	err := r.emit(ctx, src, v)
	r.e.config.Metrics.observePropagation(time.Since(begin))
	return err
}

func (r *run) sourceFailed(ctx context.Context, src *Node, err error) error {
	err = &graph.ComputeError{Node: src.name, Err: err}
	r.e.config.Logger.Warn("source %s failed: %v", src.name, err)
	return r.fail(ctx, src, err)
}

// fail records err. It returns errStop when the run must end.
func (r *run) fail(ctx context.Context, n *Node, err error) error {
	r.mu.Lock()
	r.result.Errors = append(r.result.Errors, err)
	r.mu.Unlock()

	r.e.config.Metrics.observeError(n.name)
	r.e.listeners.Notify(ctx, graph.NodeEventError, n.name, nil, err)
	if r.e.config.Tracer != nil {
		r.e.config.Tracer.Record(ctx, graph.TraceEventError, n.name, nil, err)
	}
	if r.e.config.FailFast {
		return errStop
	}
	return nil
}

// emit records v as n's output and pushes it depth-first to every active
// downstream node in construction order.
func (r *run) emit(ctx context.Context, n *Node, v any) error {
	n.record(v)
	r.e.config.Metrics.observeEmission(n.name)
	r.e.listeners.Notify(ctx, graph.NodeEventEmit, n.name, v, nil)
	if r.e.config.Tracer != nil {
		r.e.config.Tracer.Record(ctx, graph.TraceEventEmit, n.name, v, nil)
	}

	for _, c := range n.childNodes() {
		if !r.active[c] {
			continue
		}
		inputs, ready := c.deliver(n, v, r.stepID)
		if !ready {
			continue
		}
		outs, err := r.fire(ctx, c, inputs)
		if err != nil {
			r.e.config.Logger.Warn("node %s failed: %v", c.name, err)
			r.abortBranch(c)
			if stop := r.fail(ctx, c, err); stop != nil {
				return stop
			}
			continue
		}
		for _, out := range outs {
			if err := r.emit(ctx, c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// abortBranch aborts the current step for n and every active node below
// it. Lock-step joins downstream drop what they already queued for the
// step and ignore the rest of it.
func (r *run) abortBranch(n *Node) {
	seen := map[*Node]bool{n: true}
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cur.abort(r.stepID)
		for _, c := range cur.childNodes() {
			if r.active[c] && !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
}

// fire runs c's kernel and converts failures into typed errors.
func (r *run) fire(ctx context.Context, c *Node, inputs []any) (outs []any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &graph.ComputeError{Node: c.name, Err: &ops.PanicError{Op: c.op, Value: rec}}
		}
	}()

	outs, err = c.kernel(ctx, inputs)
	if err == nil {
		return outs, nil
	}
	var null *nullOperand
	if errors.As(err, &null) {
		return nil, &graph.NullValueError{Node: c.name, Parent: null.parent}
	}
	return nil, &graph.ComputeError{Node: c.name, Err: err}
}
