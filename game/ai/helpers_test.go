package ai

import (
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"
)

// ---- Fakes ----

// fakeWorld is a '#'/'.' grid with an optional room list.
type fakeWorld struct {
	w, h  int
	walls map[Cell]bool
	rooms []Rect
	rng   *rand.Rand
}

func newFakeWorld(rows ...string) *fakeWorld {
	f := &fakeWorld{h: len(rows), walls: make(map[Cell]bool), rng: rand.New(rand.NewSource(1))}
	for y, row := range rows {
		if len(row) > f.w {
			f.w = len(row)
		}
		for x, ch := range row {
			if ch == '#' {
				f.walls[Cell{x, y}] = true
			}
		}
	}
	return f
}

// openWorld is a w×h box with walls on the border and one room filling the
// interior.
func openWorld(w, h int) *fakeWorld {
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		b := make([]byte, w)
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				b[x] = '#'
			} else {
				b[x] = '.'
			}
		}
		rows[y] = string(b)
	}
	f := newFakeWorld(rows...)
	f.rooms = []Rect{{X: 1, Y: 1, Width: w - 2, Height: h - 2}}
	return f
}

func (f *fakeWorld) IsWalkable(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < f.w && c.Y < f.h && !f.walls[c]
}

func (f *fakeWorld) FindRandomWalkableTile() (Cell, bool) {
	for i := 0; i < 200; i++ {
		c := Cell{f.rng.Intn(f.w), f.rng.Intn(f.h)}
		if f.IsWalkable(c) {
			return c, true
		}
	}
	return Cell{}, false
}

func (f *fakeWorld) RoomType(c Cell) RoomType {
	if !f.IsWalkable(c) {
		return RoomUnknown
	}
	for _, r := range f.rooms {
		if r.Contains(c) {
			return RoomGeneric
		}
	}
	return RoomCorridor
}

func (f *fakeWorld) Rooms() []Rect { return f.rooms }

// sightWorld adds a switchable line-of-sight answer.
type sightWorld struct {
	*fakeWorld
	blind bool
}

func (s *sightWorld) HasLineOfSight(a, b Cell) bool { return !s.blind }

type fakeMonster struct {
	cell  Cell
	pos   Vec2
	yaw   float64
	dead  bool
	speed float64
	ov    Overrides
}

func newFakeMonster(c Cell) *fakeMonster {
	return &fakeMonster{cell: c, pos: CellCenter(c, 1), speed: 1}
}

func (m *fakeMonster) GridPosition() Cell { return m.cell }
func (m *fakeMonster) WorldPosition() Vec2 { return m.pos }
func (m *fakeMonster) Yaw() float64 { return m.yaw }
func (m *fakeMonster) IsDead() bool { return m.dead }
func (m *fakeMonster) SetDead(dead bool) { m.dead = dead }
func (m *fakeMonster) SetSpeedMultiplier(v float64) { m.speed = v }
func (m *fakeMonster) Overrides() Overrides { return m.ov }

func (m *fakeMonster) SetGridPosition(c Cell) {
	m.cell = c
	m.pos = CellCenter(c, 1)
}

// apply moves the monster at 4 tiles/s, refusing wall cells.
func (m *fakeMonster) apply(cmd Command, dt time.Duration, w WorldState) {
	m.yaw = WrapAngle(m.yaw + cmd.LookYaw)
	next := m.pos.Add(cmd.Move.Scale(4 * dt.Seconds()))
	c := CellAt(next, 1)
	if w == nil || w.IsWalkable(c) {
		m.pos, m.cell = next, c
	}
}

type fakePlayer struct{ cell Cell }

func (p *fakePlayer) GridPosition() Cell { return p.cell }
func (p *fakePlayer) WorldPosition() Vec2 { return CellCenter(p.cell, 1) }

type manualClock struct{ t time.Time }

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ---- Helpers ----

const frame = 100 * time.Millisecond

func testDeps(t *testing.T, w WorldState, m *fakeMonster, p PlayerRef, clk *manualClock) Deps {
	t.Helper()
	d := Deps{
		World:   w,
		Monster: m,
		Player:  p,
		Rand:    rand.New(rand.NewSource(7)),
		Logger:  zap.NewNop(),
		Options: DefaultOptions(),
	}
	if clk != nil {
		d.Clock = clk
	}
	return d
}

// run ticks b n times, applying each command to m and advancing clk.
func run(b Brain, m *fakeMonster, w WorldState, clk *manualClock, n int, each func(i int, cmd Command)) {
	for i := 0; i < n; i++ {
		cmd := b.Tick(frame)
		m.apply(cmd, frame, w)
		if each != nil {
			each(i, cmd)
		}
		clk.Advance(frame)
	}
}
