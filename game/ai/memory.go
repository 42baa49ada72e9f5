package ai

import "time"

// ExplorationMemory maps visited tiles to the time they were last visited.
// It only feeds novelty scoring and is never treated as reachability data.
type ExplorationMemory struct {
	ttl    time.Duration
	visits map[Cell]time.Time
}

// NewExplorationMemory creates an empty memory whose entries expire after ttl.
func NewExplorationMemory(ttl time.Duration) *ExplorationMemory {
	if ttl <= 0 {
		ttl = DefaultOptions().VisitTTL
	}
	return &ExplorationMemory{ttl: ttl, visits: make(map[Cell]time.Time)}
}

// Record stamps c as visited at now and sweeps entries older than the TTL.
// There is no background timer; the sweep on insert bounds the map.
func (m *ExplorationMemory) Record(c Cell, now time.Time) {
	m.visits[c] = now
	for k, t := range m.visits {
		if now.Sub(t) > m.ttl {
			delete(m.visits, k)
		}
	}
}

// Novelty returns 0 for a tile visited just now, rising linearly to 1 once
// the last visit is TTL old (or the tile was never visited).
func (m *ExplorationMemory) Novelty(c Cell, now time.Time) float64 {
	t, ok := m.visits[c]
	if !ok {
		return 1
	}
	age := now.Sub(t)
	if age <= 0 {
		return 0
	}
	if age >= m.ttl {
		return 1
	}
	return float64(age) / float64(m.ttl)
}

// LastVisit returns when c was last recorded.
func (m *ExplorationMemory) LastVisit(c Cell) (time.Time, bool) {
	t, ok := m.visits[c]
	return t, ok
}

// Len returns the number of remembered tiles.
func (m *ExplorationMemory) Len() int { return len(m.visits) }

// Clear forgets every visit.
func (m *ExplorationMemory) Clear() {
	m.visits = make(map[Cell]time.Time)
}
