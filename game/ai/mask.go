package ai

import "time"

// CellSet is a set of grid cells. A nil set is empty.
type CellSet map[Cell]struct{}

// Has reports whether c is in the set.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// AvoidanceMask holds tiles a brain wants to steer around, each with its own
// expiry. Expired entries are dropped when the mask is read.
type AvoidanceMask struct {
	until map[Cell]time.Time
}

// NewAvoidanceMask creates an empty mask.
func NewAvoidanceMask() *AvoidanceMask {
	return &AvoidanceMask{until: make(map[Cell]time.Time)}
}

// Add avoids c until now+ttl. A later expiry wins over an earlier one.
func (m *AvoidanceMask) Add(c Cell, now time.Time, ttl time.Duration) {
	exp := now.Add(ttl)
	if cur, ok := m.until[c]; ok && cur.After(exp) {
		return
	}
	m.until[c] = exp
}

// Active reports whether c is still avoided at now.
func (m *AvoidanceMask) Active(c Cell, now time.Time) bool {
	exp, ok := m.until[c]
	if !ok {
		return false
	}
	if !now.Before(exp) {
		delete(m.until, c)
		return false
	}
	return true
}

// Build returns the transient set of cells still avoided at now, leaving out
// the given cells (typically the path start and goal). It returns nil when
// nothing is avoided.
func (m *AvoidanceMask) Build(now time.Time, except ...Cell) CellSet {
	var set CellSet
	for c, exp := range m.until {
		if !now.Before(exp) {
			delete(m.until, c)
			continue
		}
		if containsCell(except, c) {
			continue
		}
		if set == nil {
			set = make(CellSet)
		}
		set[c] = struct{}{}
	}
	return set
}

// Len returns the number of entries, expired or not.
func (m *AvoidanceMask) Len() int { return len(m.until) }

// Clear drops every entry.
func (m *AvoidanceMask) Clear() {
	m.until = make(map[Cell]time.Time)
}

func containsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
