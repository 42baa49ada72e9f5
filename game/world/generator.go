package world

import (
	"math/rand"
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
)

// GenConfig drives the room-and-corridor generator.
type GenConfig struct {
	Width, Height int
	RoomCount     int
	RoomMin       int   // smallest room side
	RoomMax       int   // largest room side
	Seed          int64 // 0 = random
}

var roomKinds = []ai.RoomType{
	ai.RoomGeneric,
	ai.RoomClassroom,
	ai.RoomOffice,
	ai.RoomStorage,
	ai.RoomLibrary,
	ai.RoomBathroom,
}

// Generate places up to RoomCount non-overlapping rooms on a solid grid and
// links each to the previous one with an L-shaped corridor, so every open
// tile is reachable from every other.
func Generate(cfg GenConfig) *Grid {
	if cfg.Width < 5 {
		cfg.Width = 5
	}
	if cfg.Height < 5 {
		cfg.Height = 5
	}
	if cfg.RoomMin < 2 {
		cfg.RoomMin = 2
	}
	if cfg.RoomMax < cfg.RoomMin {
		cfg.RoomMax = cfg.RoomMin
	}
	if cfg.RoomCount < 1 {
		cfg.RoomCount = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	g := NewGrid(cfg.Width, cfg.Height, rand.New(rand.NewSource(seed+1)))

	attempts := cfg.RoomCount * 30
	var placed []ai.Rect
	for a := 0; a < attempts && len(placed) < cfg.RoomCount; a++ {
		w := cfg.RoomMin + rng.Intn(cfg.RoomMax-cfg.RoomMin+1)
		h := cfg.RoomMin + rng.Intn(cfg.RoomMax-cfg.RoomMin+1)
		if w > cfg.Width-2 {
			w = cfg.Width - 2
		}
		if h > cfg.Height-2 {
			h = cfg.Height - 2
		}
		r := ai.Rect{
			X:      1 + rng.Intn(cfg.Width-w-1),
			Y:      1 + rng.Intn(cfg.Height-h-1),
			Width:  w,
			Height: h,
		}
		if overlapsAny(r, placed) {
			continue
		}
		g.AddRoom(r, roomKinds[rng.Intn(len(roomKinds))])
		if len(placed) > 0 {
			carveCorridor(g, placed[len(placed)-1].Center(), r.Center(), rng)
		}
		placed = append(placed, r)
	}
	return g
}

// overlapsAny reports whether r, grown by one tile of wall, touches any room.
func overlapsAny(r ai.Rect, rooms []ai.Rect) bool {
	for _, o := range rooms {
		if r.X-1 < o.X+o.Width && r.X+r.Width+1 > o.X &&
			r.Y-1 < o.Y+o.Height && r.Y+r.Height+1 > o.Y {
			return true
		}
	}
	return false
}

// carveCorridor digs an L from a to b, horizontal or vertical leg first at
// random.
func carveCorridor(g *Grid, a, b ai.Cell, rng *rand.Rand) {
	corner := ai.Cell{X: b.X, Y: a.Y}
	if rng.Intn(2) == 0 {
		corner = ai.Cell{X: a.X, Y: b.Y}
	}
	carveLine(g, a, corner)
	carveLine(g, corner, b)
}

func carveLine(g *Grid, a, b ai.Cell) {
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	for c := a; ; c = c.Add(dx, dy) {
		g.Carve(c, ai.RoomCorridor)
		if c == b {
			return
		}
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
