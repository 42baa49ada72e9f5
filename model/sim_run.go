package model

import "time"

// SimRun is one execution of the simulation, keyed by the sim ID carried on
// every BrainEvent.
type SimRun struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Seed      int64      `json:"seed"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Rooms     int        `json:"rooms"`
	Monsters  int        `json:"monsters"`
	Frames    int64      `json:"frames"`
	StartedAt time.Time  `gorm:"index:idx_run_started" json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at"`
}
