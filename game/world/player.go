package world

import (
	"sync"
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
)

// Player is the single player reference the brains track. It is moved by
// the debug API; nothing in the sim writes it.
type Player struct {
	mu       sync.RWMutex
	cell     ai.Cell
	tileSize float64
}

// NewPlayer places the player on cell.
func NewPlayer(cell ai.Cell, tileSize float64) *Player {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Player{cell: cell, tileSize: tileSize}
}

func (p *Player) GridPosition() ai.Cell {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cell
}

func (p *Player) WorldPosition() ai.Vec2 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ai.CellCenter(p.cell, p.tileSize)
}

// MoveTo teleports the player.
func (p *Player) MoveTo(c ai.Cell) {
	p.mu.Lock()
	p.cell = c
	p.mu.Unlock()
}

// SimClock is a manual clock advanced by the sim loop, one frame at a time.
// Brains read it through ai.Clock so sim time is independent of wall time.
type SimClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewSimClock starts a clock at start.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{now: start}
}

func (c *SimClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
