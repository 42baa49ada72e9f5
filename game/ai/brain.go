package ai

import "time"

// Brain is one monster's decision unit. Tick is called once per frame by a
// single goroutine; implementations are not safe for concurrent use.
type Brain interface {
	Tick(dt time.Duration) Command
	Type() Type
	State() MonsterState
	Enabled() bool
	SetEnabled(on bool)
	Snapshot() Snapshot
}

// Snapshot is a read-only view of a brain for inspection.
type Snapshot struct {
	Type    Type   `json:"type"`
	State   string `json:"state"`
	Enabled bool   `json:"enabled"`
	Target  *Cell  `json:"target,omitempty"`
	PathLen int    `json:"path_len"`
}
