package lazy

import "time"

type timeOfDay struct {
	hour, minute, second int
}

// latest returns the most recent occurrence of the time of day at or
// before now.
func (t timeOfDay) latest(now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, t.second, 0, now.Location())
	if at.After(now) {
		at = at.AddDate(0, 0, -1)
	}
	return at
}

// expired reports staleness from the node's interval or expiry time. A
// node that was never evaluated is not considered expired; its own dirty
// state governs the first evaluation.
func (n *Node) expired(now time.Time) bool {
	if n.lastEval.IsZero() {
		return false
	}
	if n.interval > 0 && now.Sub(n.lastEval) >= n.interval {
		return true
	}
	if n.expire != nil && n.expire.latest(now).After(n.lastEval) {
		return true
	}
	return false
}
