package graph

// Vertex is the read-only view of a node that traversal, export and
// diagnostics consume. Both lazy and streaming nodes implement it.
type Vertex interface {
	ID() string
	Name() string
	Value() any
	Dirty() bool
	Derived() bool
	// Operation is the recorded operator name, empty for sources.
	Operation() string
	// Parents returns the upstream vertices in operand order.
	Parents() []Vertex
}

// NodeInfo is a snapshot of one vertex.
type NodeInfo struct {
	ID        string
	Name      string
	Operation string
	Parents   []string
	Value     any
	Dirty     bool
	Derived   bool
}

// Walk snapshots every vertex reachable upstream from roots, parents first.
// Each vertex appears once, in a deterministic order given deterministic
// parent lists.
func Walk(roots ...Vertex) []NodeInfo {
	order, _ := TopoOrder(roots, func(v Vertex) []Vertex { return v.Parents() }, Vertex.Name)
	infos := make([]NodeInfo, 0, len(order))
	for _, v := range order {
		parents := v.Parents()
		names := make([]string, len(parents))
		for i, p := range parents {
			names[i] = p.Name()
		}
		infos = append(infos, NodeInfo{
			ID:        v.ID(),
			Name:      v.Name(),
			Operation: v.Operation(),
			Parents:   names,
			Value:     v.Value(),
			Dirty:     v.Dirty(),
			Derived:   v.Derived(),
		})
	}
	return infos
}

// TopoOrder returns every node reachable from roots through parents, with
// each node placed after all of its parents. name labels nodes in a
// CycleError. Roots appear in the order given after their ancestors.
func TopoOrder[N comparable](roots []N, parents func(N) []N, name func(N) string) ([]N, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[N]int)
	var order []N
	var stack []N

	var visit func(n N) error
	visit = func(n N) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			var path []string
			for _, s := range stack[indexOf(stack, n):] {
				path = append(path, name(s))
			}
			return &CycleError{Node: name(n), Path: append(path, name(n))}
		}
		state[n] = visiting
		stack = append(stack, n)
		for _, p := range parents(n) {
			if err := visit(p); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		order = append(order, n)
		return nil
	}

	for _, r := range roots {
		if err := visit(r); err != nil {
			return order, err
		}
	}
	return order, nil
}

func indexOf[N comparable](s []N, v N) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}
	return 0
}

// DependencyPath returns the chain of nodes from start up to target
// following parents, or nil when start does not depend on target. start
// itself counts, so DependencyPath(x, x, ...) is [x].
func DependencyPath[N comparable](start, target N, parents func(N) []N) []N {
	seen := make(map[N]bool)
	var path []N
	var walk func(n N) bool
	walk = func(n N) bool {
		path = append(path, n)
		if n == target {
			return true
		}
		if !seen[n] {
			seen[n] = true
			for _, p := range parents(n) {
				if walk(p) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if walk(start) {
		return path
	}
	return nil
}
