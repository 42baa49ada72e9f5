package world

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/Justin21523/procedural-3d-maze/journal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTick = 50 * time.Millisecond // 20 TPS

var (
	ErrUnknownMonster = errors.New("world: unknown monster")
	ErrBlocked        = errors.New("world: cell is not walkable")
)

// EventLog receives notable brain events. *journal.Service implements it.
type EventLog interface {
	Log(journal.Entry)
}

// Publisher fans frames and special actions out to observers.
type Publisher interface {
	PublishFrame(ctx context.Context, f Frame) error
	PushFeed(ctx context.Context, item FeedItem) error
}

// SimConfig tunes a Sim. Zero fields take defaults.
type SimConfig struct {
	ID           string
	Seed         int64
	Tick         time.Duration
	PublishEvery int // frames between publishes; 0 = every frame
	Movement     Movement
	Options      ai.Options
}

// Frame is the serialisable state of the sim after one tick.
type Frame struct {
	SimID     string        `json:"sim_id"`
	Frame     int64         `json:"frame"`
	SimTimeMs int64         `json:"sim_time_ms"`
	Player    ai.Cell       `json:"player"`
	Monsters  []MonsterView `json:"monsters"`
}

// FeedItem is one special action in the rolling feed.
type FeedItem struct {
	Frame     int64   `json:"frame"`
	SimTimeMs int64   `json:"sim_time_ms"`
	MonsterID string  `json:"monster_id"`
	Name      string  `json:"name"`
	Brain     ai.Type `json:"brain"`
	Action    string  `json:"action"`
	Cell      ai.Cell `json:"cell"`
}

// Sim owns the maze, the player and every monster, and ticks each brain
// exactly once per frame from one goroutine.
type Sim struct {
	ID string

	cfg    SimConfig
	grid   *Grid
	paths  *ai.GridPathfinder
	player *Player
	clock  *SimClock
	start  time.Time
	rng    *rand.Rand

	journal EventLog
	pub     Publisher
	logger  *zap.Logger

	mu        sync.RWMutex
	monsters  []*Monster
	byID      map[string]*Monster
	lastState map[string]ai.MonsterState
	frame     int64
	last      Frame
}

// NewSim wires a sim over grid. events and pub may be nil.
func NewSim(grid *Grid, player *Player, cfg SimConfig, events EventLog, pub Publisher, logger *zap.Logger) *Sim {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Tick <= 0 {
		cfg.Tick = defaultTick
	}
	if cfg.PublishEvery <= 0 {
		cfg.PublishEvery = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.Movement = cfg.Movement.withDefaults()
	cfg.Options = cfg.Options.WithDefaults()
	cfg.Options.TileSize = cfg.Movement.TileSize

	start := time.Unix(0, 0).UTC()
	s := &Sim{
		ID:        cfg.ID,
		cfg:       cfg,
		grid:      grid,
		paths:     ai.NewGridPathfinder(grid),
		player:    player,
		clock:     NewSimClock(start),
		start:     start,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		journal:   events,
		pub:       pub,
		logger:    logger.With(zap.String("sim", cfg.ID)),
		byID:      make(map[string]*Monster),
		lastState: make(map[string]ai.MonsterState),
	}
	s.last = s.buildFrame()
	return s
}

func (s *Sim) Grid() *Grid { return s.grid }
func (s *Sim) Player() *Player { return s.player }
func (s *Sim) Seed() int64 { return s.cfg.Seed }
func (s *Sim) TickInterval() time.Duration { return s.cfg.Tick }

// Spawn creates a monster on cell with a brain of kind. Each brain gets its
// own rand source derived from the sim seed.
func (s *Sim) Spawn(kind ai.Type, name string, cell ai.Cell, ov ai.Overrides) *Monster {
	s.mu.Lock()
	defer s.mu.Unlock()

	var player ai.PlayerRef
	if s.player != nil {
		player = s.player
	}
	m := NewMonster(name, kind, cell, ov, s.cfg.Movement)
	m.Brain = ai.New(kind, ai.Deps{
		World:      s.grid,
		Pathfinder: s.paths,
		Monster:    m,
		Player:     player,
		Rand:       rand.New(rand.NewSource(s.rng.Int63())),
		Clock:      s.clock,
		Logger:     s.logger.With(zap.String("monster", m.ID), zap.String("brain", string(kind))),
		Options:    s.cfg.Options,
	})
	s.monsters = append(s.monsters, m)
	s.byID[m.ID] = m
	s.lastState[m.ID] = m.Brain.State()

	s.logger.Info("monster spawned",
		zap.String("monster", m.ID), zap.String("name", name),
		zap.String("brain", string(kind)), zap.Int("x", cell.X), zap.Int("y", cell.Y))
	s.record(m, journal.EventSpawn, "", nil)
	return m
}

// Step advances the clock by dt and ticks every brain once, in spawn order.
// Commands are applied to their monsters before the next brain runs.
func (s *Sim) Step(ctx context.Context, dt time.Duration) Frame {
	s.mu.Lock()
	s.clock.Advance(dt)
	s.frame++

	var feed []FeedItem
	for _, m := range s.monsters {
		cmd := m.Brain.Tick(dt)
		m.Apply(cmd, dt, s.grid.IsWalkable)

		if st := m.Brain.State(); st != s.lastState[m.ID] {
			s.record(m, journal.EventState, "", map[string]string{"from": s.lastState[m.ID].String()})
			s.lastState[m.ID] = st
		}
		if cmd.SpecialAction != "" {
			feed = append(feed, s.special(m, cmd.SpecialAction))
		}
	}

	frame := s.buildFrame()
	s.last = frame
	publish := s.frame%int64(s.cfg.PublishEvery) == 0
	s.mu.Unlock()

	if s.pub == nil {
		return frame
	}
	for _, item := range feed {
		if err := s.pub.PushFeed(ctx, item); err != nil {
			s.logger.Warn("feed push failed", zap.Error(err))
		}
	}
	if publish {
		if err := s.pub.PublishFrame(ctx, frame); err != nil {
			s.logger.Warn("frame publish failed", zap.Int64("frame", frame.Frame), zap.Error(err))
		}
	}
	return frame
}

// special journals a special action and returns its feed item.
func (s *Sim) special(m *Monster, action string) FeedItem {
	event := action
	switch action {
	case ai.ActionTeleport:
		event = journal.EventTeleport
	case ai.ActionRespawn:
		event = journal.EventRespawn
	}
	s.logger.Info("special action",
		zap.String("monster", m.ID), zap.String("action", action), zap.Int64("frame", s.frame))
	s.record(m, event, "", nil)
	return FeedItem{
		Frame:     s.frame,
		SimTimeMs: s.elapsed().Milliseconds(),
		MonsterID: m.ID,
		Name:      m.Name,
		Brain:     m.Kind,
		Action:    action,
		Cell:      m.GridPosition(),
	}
}

// Run drives Step on a ticker with a fixed dt until ctx is done.
func (s *Sim) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Step(ctx, s.cfg.Tick)
		case <-ctx.Done():
			return
		}
	}
}

// Frame returns the state after the last step.
func (s *Sim) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// FrameCount returns the number of steps taken.
func (s *Sim) FrameCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Monsters returns a live view of every monster.
func (s *Sim) Monsters() []MonsterView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MonsterView, len(s.monsters))
	for i, m := range s.monsters {
		out[i] = m.view()
	}
	return out
}

// Monster returns a live view of one monster.
func (s *Sim) Monster(id string) (MonsterView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return MonsterView{}, ErrUnknownMonster
	}
	return m.view(), nil
}

// SetBrainEnabled switches one brain on or off.
func (s *Sim) SetBrainEnabled(id string, on bool, traceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return ErrUnknownMonster
	}
	m.Brain.SetEnabled(on)
	s.record(m, journal.EventAdmin, traceID, map[string]interface{}{"op": "set_enabled", "enabled": on})
	return nil
}

// Kill marks a monster dead. Only the critter brain brings itself back.
func (s *Sim) Kill(id, traceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return ErrUnknownMonster
	}
	m.SetDead(true)
	s.record(m, journal.EventDeath, traceID, map[string]string{"op": "kill"})
	return nil
}

// MovePlayer teleports the player onto an open cell.
func (s *Sim) MovePlayer(c ai.Cell) error {
	if s.player == nil || !s.grid.IsWalkable(c) {
		return ErrBlocked
	}
	s.mu.Lock()
	s.player.MoveTo(c)
	s.mu.Unlock()
	return nil
}

func (s *Sim) elapsed() time.Duration { return s.clock.Now().Sub(s.start) }

// buildFrame must be called with s.mu held.
func (s *Sim) buildFrame() Frame {
	f := Frame{
		SimID:     s.ID,
		Frame:     s.frame,
		SimTimeMs: s.elapsed().Milliseconds(),
		Monsters:  make([]MonsterView, len(s.monsters)),
	}
	if s.player != nil {
		f.Player = s.player.GridPosition()
	}
	for i, m := range s.monsters {
		f.Monsters[i] = m.view()
	}
	return f
}

// record must be called with s.mu held.
func (s *Sim) record(m *Monster, event, traceID string, detail interface{}) {
	if s.journal == nil {
		return
	}
	e := journal.Entry{
		SimID:     s.ID,
		MonsterID: m.ID,
		Brain:     m.Kind,
		Event:     event,
		Cell:      m.GridPosition(),
		SimTime:   s.elapsed(),
		TraceID:   traceID,
		Detail:    detail,
	}
	if m.Brain != nil {
		e.State = m.Brain.State()
	}
	s.journal.Log(e)
}
