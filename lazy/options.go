package lazy

import "time"

// NodeOption configures a node created through a Graph.
type NodeOption func(*Node)

// Readonly rejects every assignment after creation.
func Readonly() NodeOption {
	return func(n *Node) { n.readonly = true }
}

// Nullable controls whether the node may hold nil. Nodes are nullable by
// default.
func Nullable(nullable bool) NodeOption {
	return func(n *Node) { n.nullable = nullable }
}

// Value sets the initial value.
func Value(v any) NodeOption {
	return func(n *Node) { n.value = v }
}

// Trace records assignments and computations of the node in the graph's
// tracer.
func Trace() NodeOption {
	return func(n *Node) { n.trace = true }
}

// Interval makes the node stale once d has elapsed since its last
// evaluation.
func Interval(d time.Duration) NodeOption {
	return func(n *Node) { n.interval = d }
}

// Expire makes the node stale every day at the given wall-clock time.
func Expire(hour, minute, second int) NodeOption {
	return func(n *Node) {
		n.expire = &timeOfDay{hour: hour, minute: minute, second: second}
	}
}
