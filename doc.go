// Tributary Go - Reactive Computation Graphs in Go
//
// Tributary Go builds graphs of values and operations and evaluates them in
// one of two ways:
//
//   - lazy: nodes are pulled on demand. A node recomputes only when one of
//     its inputs changed, so repeated evaluation of a large graph touches
//     only the dirty part.
//   - streaming: sources push values through the graph. Every derived node
//     fires once per set of fresh inputs, and windows, merges and sinks
//     shape the flow.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/tributarygo
//
// Lazy example:
//
//	g := lazy.NewGraph("pricing")
//	price := g.CreateNode("price", lazy.Value(100.0))
//	qty := g.CreateNode("qty", lazy.Value(3))
//	total := price.Mul(qty)
//
//	v, _ := total.Evaluate() // 300
//	_ = g.SetValue("qty", 4)
//	v, _ = total.Evaluate() // 400
//
// Streaming example:
//
//	ticks := streaming.Input("ticks", streaming.FromSlice(1, 2, 3, 4))
//	sums := ticks.RollingSum(2).Collect()
//	_, err := streaming.NewEngine(streaming.DefaultRunConfig()).Run(ctx, sums)
//	// sums.Values() == []any{3, 5, 7}
//
// # Packages
//
//   - ops: the value model and operator catalogue shared by both engines
//   - graph: node contract, traversal, errors, listeners, tracing and
//     visualization
//   - lazy: the pull engine
//   - streaming: the push engine, sources, combinators, sinks and metrics
//   - adapter: Redis, PostgreSQL, SQLite and Socket.IO connectors
//   - log: leveled logging with golog and zap backends
package tributarygo
