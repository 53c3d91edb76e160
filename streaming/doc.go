// Package streaming implements push-based evaluation over a graph of
// nodes fed by sources.
//
// Input nodes wrap a Source. Derived nodes are built with operator methods
// and combinators, and sinks consume the results:
//
//	prices := streaming.Input("prices", streaming.FromSlice(1, 2, 3, 4))
//	sums := prices.RollingSum(2).Collect()
//
//	res, err := streaming.NewEngine(streaming.DefaultRunConfig()).Run(ctx, sums.Node)
//	// sums.Values() == []any{3, 5, 7}
//
// The engine pulls one value at a time and pushes it depth-first through
// every downstream node before pulling the next. A derived node with
// several upstreams fires in lock-step (TriggerAll): values queue per
// upstream and each firing takes the oldest pending value of every one of
// them. CombineLatest instead fires on every update with the latest values
// (TriggerAny). Constant operands are always available and never drive a
// firing.
//
// A compute error aborts only the branch below the failing node, for the
// step that raised it: joins below drop whatever that step already queued. Errors are
// collected in the Result and returned joined; RunConfig.FailFast stops the
// whole run instead. RunConfig.Timeout ends a run gracefully, while
// cancelling the caller's context returns ctx.Err().
//
// Retrying flaky sources is the caller's choice: wrap them with Retry.
package streaming
