package ai

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Cell is a grid coordinate. X runs east, Y runs south and maps to world Z.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the 4-neighbour distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// cardinal offsets: down, left, right, up.
var cardinals = [4]Cell{{0, 1}, {-1, 0}, {1, 0}, {0, -1}}

// Vec2 is a position or direction on the horizontal world plane.
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Z * f} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Z) }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Z == 0 }

// Normalize returns the unit vector of v, or the zero vector when v is
// (nearly) zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// CellCenter returns the world position of the centre of c.
func CellCenter(c Cell, tileSize float64) Vec2 {
	return Vec2{X: (float64(c.X) + 0.5) * tileSize, Z: (float64(c.Y) + 0.5) * tileSize}
}

// CellAt returns the cell containing world position p.
func CellAt(p Vec2, tileSize float64) Cell {
	return Cell{X: int(math.Floor(p.X / tileSize)), Y: int(math.Floor(p.Z / tileSize))}
}

// WrapAngle maps a to the interval (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Rect is a room footprint in grid cells.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the middle cell of the room.
func (r Rect) Center() Cell {
	return Cell{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether c lies inside the room.
func (r Rect) Contains(c Cell) bool {
	return c.X >= r.X && c.X < r.X+r.Width && c.Y >= r.Y && c.Y < r.Y+r.Height
}

// RoomType classifies a walkable tile.
type RoomType int

const (
	RoomUnknown RoomType = iota
	RoomCorridor
	RoomGeneric
	RoomClassroom
	RoomOffice
	RoomStorage
	RoomLibrary
	RoomBathroom
)

var roomTypeNames = [...]string{"unknown", "corridor", "room", "classroom", "office", "storage", "library", "bathroom"}

func (t RoomType) String() string {
	if t < 0 || int(t) >= len(roomTypeNames) {
		return "unknown"
	}
	return roomTypeNames[t]
}

// WorldState is the read-only maze query surface the brains consume.
type WorldState interface {
	IsWalkable(c Cell) bool
	FindRandomWalkableTile() (Cell, bool)
	RoomType(c Cell) RoomType
	Rooms() []Rect
}

// LineOfSight is implemented by worlds that can answer visibility queries.
// Worlds without it degrade vision checks to distance only.
type LineOfSight interface {
	HasLineOfSight(a, b Cell) bool
}

// Pathfinder plans grid paths. A nil or empty result means no path.
type Pathfinder interface {
	FindPath(start, goal Cell, allowPartial bool, avoid CellSet) []Cell
}

// PathSmoother optionally post-processes a found path.
type PathSmoother interface {
	SmoothPath(path []Cell) []Cell
}

// Actor is the read surface of a monster.
type Actor interface {
	GridPosition() Cell
	WorldPosition() Vec2
	Yaw() float64
	IsDead() bool
}

// Mover is the write surface used by brains that relocate their monster
// (teleport, respawn).
type Mover interface {
	SetGridPosition(c Cell)
}

// Reviver is the write surface used by brains that own a death lifecycle.
type Reviver interface {
	SetDead(dead bool)
}

// Pacer is the write surface used by brains that drive movement speed.
type Pacer interface {
	SetSpeedMultiplier(m float64)
}

// MonsterHandle is everything a brain may see of, or write to, its monster.
type MonsterHandle interface {
	Actor
	Mover
	Reviver
	Pacer
	Overrides() Overrides
}

// Overrides are optional per-monster placement hints read at construction.
type Overrides struct {
	HomeCenter   *Cell  `json:"home_center,omitempty" mapstructure:"home_center"`
	HomeRadius   int    `json:"home_radius,omitempty" mapstructure:"home_radius"`
	HomeTiles    []Cell `json:"home_tiles,omitempty" mapstructure:"home_tiles"`
	CorridorPath []Cell `json:"corridor_path,omitempty" mapstructure:"corridor_path"`
	RoamCenter   *Cell  `json:"roam_center,omitempty" mapstructure:"roam_center"`
	RoamRadius   int    `json:"roam_radius,omitempty" mapstructure:"roam_radius"`
}

// PlayerRef is the player as seen by a brain.
type PlayerRef interface {
	GridPosition() Cell
	WorldPosition() Vec2
}

// Clock supplies the current time. Brains never call time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads wall-clock time.
var SystemClock Clock = systemClock{}

// Deps wires a brain to its collaborators. Only Monster is required; every
// other field has a safe fallback.
type Deps struct {
	World      WorldState
	Pathfinder Pathfinder
	Monster    MonsterHandle
	Player     PlayerRef
	Rand       *rand.Rand
	Clock      Clock
	Logger     *zap.Logger
	Options    Options
}

// MonsterState enumerates the high-level states a brain reports.
type MonsterState int

const (
	StateIdle MonsterState = iota
	StateWander
	StatePatrol
	StateChase
	StateReturning
	StateFlee
	StateGreet
	StateDead
)

var stateNames = [...]string{"idle", "wander", "patrol", "chase", "returning", "flee", "greet", "dead"}

func (s MonsterState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "idle"
	}
	return stateNames[s]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
