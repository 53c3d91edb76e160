// Package graph holds the pieces shared by the lazy and streaming engines.
//
// # Errors
//
// Every failure the engines report is one of a small set of typed errors,
// each matching a sentinel through errors.Is:
//
//	InvalidAssignmentError  ErrInvalidAssignment
//	ReadOnlyError           ErrReadOnly
//	NullValueError          ErrNullValue
//	CycleError              ErrCycleDetected
//	ComputeError            ErrCompute
//
// ErrNodeNotFound is returned for lookups of unknown names.
//
// # Traversal
//
// Both node types implement Vertex. Walk produces a parents-first snapshot
// of everything upstream of a set of roots; TopoOrder and DependencyPath
// are the generic building blocks the engines use for scheduling and
// cycle detection.
//
// # Observability
//
// Tracer records spans for traced nodes, Listeners fans node events out to
// NodeListener implementations, and StreamEvent is the unit delivered by
// asynchronous streaming runs.
//
// # Export
//
// Exporter renders a graph as Mermaid or DOT, and PrettyPrint draws the
// upstream tree of a node in the terminal:
//
//	fmt.Println(graph.NewExporter(total).DrawMermaid())
//	graph.PrettyPrint(os.Stdout, total)
package graph
