package journal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/Justin21523/procedural-3d-maze/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event kinds.
const (
	EventSpawn    = "spawn"
	EventState    = "state_change"
	EventTeleport = "teleport"
	EventRespawn  = "respawn"
	EventDeath    = "death"
	EventAdmin    = "admin"
)

// Entry holds one brain event to be persisted.
type Entry struct {
	SimID     string
	MonsterID string
	Brain     ai.Type
	Event     string
	State     ai.MonsterState
	Cell      ai.Cell
	SimTime   time.Duration
	TraceID   string
	Detail    interface{}
}

// Options tunes the writer. Zero fields take the defaults.
type Options struct {
	Buffer        int
	BatchSize     int
	FlushInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Buffer <= 0 {
		o.Buffer = 1024
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 2 * time.Second
	}
	return o
}

// Service writes brain events asynchronously in batches.
type Service struct {
	db     *gorm.DB
	ch     chan *model.BrainEvent
	stopCh chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
	opts   Options
}

// New creates a Service with default options and starts its worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	return NewWithOptions(db, logger, Options{})
}

// NewWithOptions creates a Service and starts its background worker.
func NewWithOptions(db *gorm.DB, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	svc := &Service{
		db:     db,
		ch:     make(chan *model.BrainEvent, opts.Buffer),
		stopCh: make(chan struct{}),
		logger: logger,
		opts:   opts,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Log enqueues an entry. It never blocks; a full buffer drops the entry.
func (svc *Service) Log(entry Entry) {
	detail := datatypes.JSON("{}")
	if entry.Detail != nil {
		raw, err := json.Marshal(entry.Detail)
		if err != nil {
			svc.logger.Warn("journal detail not serialisable",
				zap.String("event", entry.Event), zap.Error(err))
		} else {
			detail = datatypes.JSON(raw)
		}
	}
	record := &model.BrainEvent{
		SimID:     entry.SimID,
		MonsterID: entry.MonsterID,
		Brain:     string(entry.Brain),
		Event:     entry.Event,
		State:     entry.State.String(),
		X:         entry.Cell.X,
		Y:         entry.Cell.Y,
		SimTimeMs: entry.SimTime.Milliseconds(),
		TraceID:   entry.TraceID,
		Detail:    detail,
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("journal channel full, dropping entry",
			zap.String("event", entry.Event),
			zap.String("monster", entry.MonsterID))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(svc.opts.FlushInterval)
	defer ticker.Stop()

	batch := make([]*model.BrainEvent, 0, svc.opts.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("journal batch write failed",
				zap.Int("size", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= svc.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
					if len(batch) >= svc.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
