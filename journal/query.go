package journal

import (
	"context"
	"time"

	"github.com/Justin21523/procedural-3d-maze/model"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Query filters Recent. Empty fields match everything.
type Query struct {
	SimID     string
	MonsterID string
	Event     string
	Limit     int
}

// Recent returns the newest matching events first.
func Recent(ctx context.Context, db *gorm.DB, q Query) ([]model.BrainEvent, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	tx := db.WithContext(ctx).Model(&model.BrainEvent{})
	if q.SimID != "" {
		tx = tx.Where("sim_id = ?", q.SimID)
	}
	if q.MonsterID != "" {
		tx = tx.Where("monster_id = ?", q.MonsterID)
	}
	if q.Event != "" {
		tx = tx.Where("event = ?", q.Event)
	}
	var out []model.BrainEvent
	if err := tx.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// StartRun records a new simulation run.
func StartRun(ctx context.Context, db *gorm.DB, run *model.SimRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return db.WithContext(ctx).Create(run).Error
}

// FinishRun stamps the stop time and frame count of a run.
func FinishRun(ctx context.Context, db *gorm.DB, id string, frames int64) error {
	return db.WithContext(ctx).Model(&model.SimRun{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stopped_at": time.Now(),
			"frames":     frames,
		}).Error
}

// CheckpointRun updates the frame count of a run that is still going.
func CheckpointRun(ctx context.Context, db *gorm.DB, id string, frames int64) error {
	return db.WithContext(ctx).Model(&model.SimRun{}).Where("id = ?", id).
		Update("frames", frames).Error
}

// Prune deletes events created before cutoff and returns how many went.
func Prune(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.BrainEvent{})
	return res.RowsAffected, res.Error
}
