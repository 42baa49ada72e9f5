package model

import (
	"time"

	"gorm.io/datatypes"
)

// BrainEvent records one notable thing a monster brain did: a spawn, a state
// change, a teleport, a respawn, or an operator action against it.
type BrainEvent struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SimID     string         `gorm:"index:idx_event_sim;size:36;not null" json:"sim_id"`
	MonsterID string         `gorm:"index:idx_event_monster;size:36" json:"monster_id"`
	Brain     string         `gorm:"size:32" json:"brain"`
	Event     string         `gorm:"index:idx_event_kind;size:32;not null" json:"event"`
	State     string         `gorm:"size:16" json:"state"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	SimTimeMs int64          `json:"sim_time_ms"`
	TraceID   string         `gorm:"size:36" json:"trace_id,omitempty"`
	Detail    datatypes.JSON `json:"detail"`
	CreatedAt time.Time      `gorm:"index:idx_event_created" json:"created_at"`
}
