package world

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
)

// ErrBadGrid is returned by ParseGrid for empty or ragged input.
var ErrBadGrid = errors.New("world: bad grid")

// Grid is a walled tile maze with typed rooms. It implements ai.WorldState
// and ai.LineOfSight. A Grid is immutable once generated and safe for
// concurrent reads.
type Grid struct {
	Width, Height int

	walls []bool // row-major, true = wall
	types []ai.RoomType
	rooms []ai.Rect
	rng   *rand.Rand
}

// NewGrid returns a grid filled with walls.
func NewGrid(width, height int, rng *rand.Rand) *Grid {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	g := &Grid{
		Width:  width,
		Height: height,
		walls:  make([]bool, width*height),
		types:  make([]ai.RoomType, width*height),
		rng:    rng,
	}
	for i := range g.walls {
		g.walls[i] = true
	}
	return g
}

func (g *Grid) idx(c ai.Cell) (int, bool) {
	if c.X < 0 || c.Y < 0 || c.X >= g.Width || c.Y >= g.Height {
		return 0, false
	}
	return c.Y*g.Width + c.X, true
}

// Carve opens c and tags it with t, unless it is already a room tile.
func (g *Grid) Carve(c ai.Cell, t ai.RoomType) {
	i, ok := g.idx(c)
	if !ok {
		return
	}
	g.walls[i] = false
	if g.types[i] == ai.RoomUnknown || g.types[i] == ai.RoomCorridor {
		g.types[i] = t
	}
}

// AddRoom carves r and registers it.
func (g *Grid) AddRoom(r ai.Rect, t ai.RoomType) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			if i, ok := g.idx(ai.Cell{X: x, Y: y}); ok {
				g.walls[i] = false
				g.types[i] = t
			}
		}
	}
	g.rooms = append(g.rooms, r)
}

// IsWalkable reports whether c is inside the grid and open.
func (g *Grid) IsWalkable(c ai.Cell) bool {
	i, ok := g.idx(c)
	return ok && !g.walls[i]
}

// RoomType returns the tag of c, RoomUnknown for walls and out of bounds.
func (g *Grid) RoomType(c ai.Cell) ai.RoomType {
	i, ok := g.idx(c)
	if !ok || g.walls[i] {
		return ai.RoomUnknown
	}
	return g.types[i]
}

// Rooms returns the registered rooms.
func (g *Grid) Rooms() []ai.Rect {
	out := make([]ai.Rect, len(g.rooms))
	copy(out, g.rooms)
	return out
}

// FindRandomWalkableTile samples random tiles, then falls back to a scan
// from a random offset so sparse maps still answer.
//
// The sampling rng is shared; callers must not call this concurrently.
func (g *Grid) FindRandomWalkableTile() (ai.Cell, bool) {
	n := g.Width * g.Height
	if n == 0 {
		return ai.Cell{}, false
	}
	for i := 0; i < 64; i++ {
		j := g.rng.Intn(n)
		if !g.walls[j] {
			return ai.Cell{X: j % g.Width, Y: j / g.Width}, true
		}
	}
	off := g.rng.Intn(n)
	for k := 0; k < n; k++ {
		j := (off + k) % n
		if !g.walls[j] {
			return ai.Cell{X: j % g.Width, Y: j / g.Width}, true
		}
	}
	return ai.Cell{}, false
}

// HasLineOfSight walks a Bresenham line from a to b; every cell on it,
// endpoints included, must be open.
func (g *Grid) HasLineOfSight(a, b ai.Cell) bool {
	dx, dy := iabs(b.X-a.X), -iabs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if !g.IsWalkable(ai.Cell{X: x, Y: y}) {
			return false
		}
		if x == b.X && y == b.Y {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// WalkableCount returns the number of open tiles.
func (g *Grid) WalkableCount() int {
	n := 0
	for _, w := range g.walls {
		if !w {
			n++
		}
	}
	return n
}

// Rows renders the grid as '#'/'.' strings.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		for x := 0; x < g.Width; x++ {
			if g.walls[y*g.Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// ParseGrid builds a grid from '#' (wall) and '.' (floor) rows. Any other
// rune is an error. Floor cells are tagged as corridor; use AddRoom to
// declare rooms on top.
func ParseGrid(rows []string, rng *rand.Rand) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadGrid)
	}
	w := len(rows[0])
	g := NewGrid(w, len(rows), rng)
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrBadGrid, y, len(row), w)
		}
		for x, ch := range row {
			switch ch {
			case '#':
			case '.':
				g.Carve(ai.Cell{X: x, Y: y}, ai.RoomCorridor)
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %d,%d", ErrBadGrid, ch, x, y)
			}
		}
	}
	return g, nil
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
