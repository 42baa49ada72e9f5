package ai

import (
	"time"

	"go.uber.org/zap"
)

// CorridorGuardian walks back and forth along a fixed ordered list of cells
// and only chases a player standing exactly on one of them. It never calls
// the pathfinder; its path is always a slice of the corridor.
type CorridorGuardian struct {
	*Navigator

	state    MonsterState
	corridor []Cell
	index    map[Cell]int
	forward  bool
}

// NewCorridorGuardian builds a guardian over the monster's CorridorPath
// override. Without one it guards its spawn cell.
func NewCorridorGuardian(deps Deps) *CorridorGuardian {
	g := &CorridorGuardian{
		Navigator: newNavigator(deps),
		state:     StatePatrol,
		forward:   true,
	}
	if g.monster != nil {
		g.corridor = append([]Cell(nil), g.monster.Overrides().CorridorPath...)
		if len(g.corridor) == 0 {
			g.corridor = []Cell{g.monster.GridPosition()}
		}
	}
	g.index = make(map[Cell]int, len(g.corridor))
	for i, c := range g.corridor {
		if _, dup := g.index[c]; !dup {
			g.index[c] = i
		}
	}
	g.sprint = func(_, distPlayer int) bool {
		return g.state == StateChase && distPlayer > g.opts.GuardianSprintDistance
	}
	return g
}

func (g *CorridorGuardian) Type() Type { return TypeCorridorGuardian }
func (g *CorridorGuardian) State() MonsterState { return g.state }
func (g *CorridorGuardian) Snapshot() Snapshot { return g.snapshot(g.Type(), g.state) }

// Corridor returns a copy of the guarded cells.
func (g *CorridorGuardian) Corridor() []Cell { return append([]Cell(nil), g.corridor...) }

// Forward reports whether patrol heads toward the last corridor cell.
func (g *CorridorGuardian) Forward() bool { return g.forward }

func (g *CorridorGuardian) Tick(time.Duration) Command {
	if g.inactive() || len(g.corridor) == 0 {
		return Command{}
	}
	cell := g.monster.GridPosition()
	g.recordVisit(cell)
	mine := g.nearestIndex(cell)

	next := StatePatrol
	var goal int
	if pc, ok := g.playerCell(); ok {
		if pi, on := g.index[pc]; on {
			next, goal = StateChase, pi
		}
	}
	if next != g.state {
		g.logger.Debug("state change", zap.Stringer("from", g.state), zap.Stringer("to", next))
		g.state = next
	}
	if next == StatePatrol {
		goal = g.patrolEnd(cell)
	}

	g.path = g.slice(mine, goal)
	g.setTarget(g.corridor[goal])
	return g.follow(cell)
}

// patrolEnd returns the endpoint index patrol is heading to, flipping the
// direction when the monster stands on it.
func (g *CorridorGuardian) patrolEnd(cell Cell) int {
	last := len(g.corridor) - 1
	if last == 0 {
		return 0
	}
	end := 0
	if g.forward {
		end = last
	}
	if cell == g.corridor[end] {
		g.forward = !g.forward
		end = last - end
	}
	return end
}

// nearestIndex returns the corridor index of cell, or of the closest
// corridor cell when the monster has drifted off the line.
func (g *CorridorGuardian) nearestIndex(cell Cell) int {
	if i, ok := g.index[cell]; ok {
		return i
	}
	best, bestD := 0, -1
	for i, c := range g.corridor {
		if d := Manhattan(cell, c); bestD < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// slice returns corridor cells from index a to b inclusive, in walking order.
func (g *CorridorGuardian) slice(a, b int) []Cell {
	if a <= b {
		return append([]Cell(nil), g.corridor[a:b+1]...)
	}
	out := make([]Cell, 0, a-b+1)
	for i := a; i >= b; i-- {
		out = append(out, g.corridor[i])
	}
	return out
}
