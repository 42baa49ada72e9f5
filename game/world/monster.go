package world

import (
	"math"
	"sync"
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/google/uuid"
)

// Movement tunes how commands turn into motion.
type Movement struct {
	TileSize     float64
	Speed        float64 // tiles per second
	SprintFactor float64
}

func (mv Movement) withDefaults() Movement {
	if mv.TileSize <= 0 {
		mv.TileSize = 1
	}
	if mv.Speed <= 0 {
		mv.Speed = 3
	}
	if mv.SprintFactor <= 0 {
		mv.SprintFactor = 1.6
	}
	return mv
}

// Monster is the runtime state of one actor. It implements ai.MonsterHandle;
// the brain is its only writer during a tick, the HTTP layer reads it
// through Snapshot.
type Monster struct {
	ID   string
	Name string
	Kind ai.Type

	Brain ai.Brain

	mv        Movement
	overrides ai.Overrides

	mu       sync.Mutex
	cell     ai.Cell
	pos      ai.Vec2
	yaw      float64
	dead     bool
	speedMul float64
	sprint   bool
}

// NewMonster places a fresh monster at the centre of cell.
func NewMonster(name string, kind ai.Type, cell ai.Cell, ov ai.Overrides, mv Movement) *Monster {
	mv = mv.withDefaults()
	return &Monster{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		mv:        mv,
		overrides: ov,
		cell:      cell,
		pos:       ai.CellCenter(cell, mv.TileSize),
		speedMul:  1,
	}
}

func (m *Monster) GridPosition() ai.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cell
}

func (m *Monster) WorldPosition() ai.Vec2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *Monster) Yaw() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.yaw
}

func (m *Monster) IsDead() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dead
}

// SetGridPosition moves the monster to the centre of c.
func (m *Monster) SetGridPosition(c ai.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cell = c
	m.pos = ai.CellCenter(c, m.mv.TileSize)
}

func (m *Monster) SetDead(dead bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dead = dead
}

func (m *Monster) SetSpeedMultiplier(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speedMul = v
}

// SpeedMultiplier returns the pace factor last written by the brain.
func (m *Monster) SpeedMultiplier() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speedMul
}

func (m *Monster) Overrides() ai.Overrides { return m.overrides }

// Apply integrates one command over dt: yaw first, then position. Each axis
// is resolved separately so a blocked move slides along the wall.
func (m *Monster) Apply(cmd ai.Command, dt time.Duration, walkable func(ai.Cell) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yaw = ai.WrapAngle(m.yaw + cmd.LookYaw)
	m.sprint = cmd.Sprint
	if m.dead || cmd.Move.IsZero() {
		return
	}
	speed := m.mv.Speed * m.speedMul
	if cmd.Sprint {
		speed *= m.mv.SprintFactor
	}
	step := cmd.Move.Scale(speed * m.mv.TileSize * dt.Seconds())

	next := ai.Vec2{X: m.pos.X + step.X, Z: m.pos.Z}
	if walkable(ai.CellAt(next, m.mv.TileSize)) {
		m.pos = next
	}
	next = ai.Vec2{X: m.pos.X, Z: m.pos.Z + step.Z}
	if walkable(ai.CellAt(next, m.mv.TileSize)) {
		m.pos = next
	}
	m.cell = ai.CellAt(m.pos, m.mv.TileSize)
}

// MonsterView is the serialisable state of a monster.
type MonsterView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Kind   ai.Type     `json:"kind"`
	Cell   ai.Cell     `json:"cell"`
	Pos    ai.Vec2     `json:"pos"`
	Yaw    float64     `json:"yaw"`
	Dead   bool        `json:"dead"`
	Speed  float64     `json:"speed_multiplier"`
	Sprint bool        `json:"sprint"`
	Brain  ai.Snapshot `json:"brain"`
}

// view copies the monster state. The brain snapshot is not guarded by the
// monster lock; callers hold the sim lock.
func (m *Monster) view() MonsterView {
	m.mu.Lock()
	v := MonsterView{
		ID:     m.ID,
		Name:   m.Name,
		Kind:   m.Kind,
		Cell:   m.cell,
		Pos:    m.pos,
		Yaw:    round3(m.yaw),
		Dead:   m.dead,
		Speed:  m.speedMul,
		Sprint: m.sprint,
	}
	m.mu.Unlock()
	if m.Brain != nil {
		v.Brain = m.Brain.Snapshot()
	}
	return v
}

func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
