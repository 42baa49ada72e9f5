package ai

import (
	"time"

	"go.uber.org/zap"
)

// ShyGreeter roams near home, stops to face a player at greeting distance
// and backs off when the player comes too close.
type ShyGreeter struct {
	*Navigator

	state  MonsterState
	center Cell
	radius int
}

// NewShyGreeter builds a greeter around the RoamCenter override, or the
// spawn cell.
func NewShyGreeter(deps Deps) *ShyGreeter {
	s := &ShyGreeter{
		Navigator: newNavigator(deps),
		state:     StateWander,
	}
	s.radius = s.opts.RoamRadius
	if s.monster != nil {
		ov := s.monster.Overrides()
		s.center = s.monster.GridPosition()
		if ov.RoamCenter != nil {
			s.center = *ov.RoamCenter
		}
		if ov.RoamRadius > 0 {
			s.radius = ov.RoamRadius
		}
	}
	s.pickTarget = s.chooseTarget
	s.fallbackTarget = s.fallback
	return s
}

func (s *ShyGreeter) Type() Type { return TypeShyGreeter }
func (s *ShyGreeter) State() MonsterState { return s.state }
func (s *ShyGreeter) Snapshot() Snapshot { return s.snapshot(s.Type(), s.state) }

func (s *ShyGreeter) Tick(time.Duration) Command {
	if s.inactive() {
		return Command{}
	}
	cell := s.monster.GridPosition()

	next := StateWander
	if d, seen := s.canSee(cell, s.opts.GreetDistance); seen {
		next = StateGreet
		if d <= s.opts.TooCloseDistance {
			next = StateFlee
		}
	}
	if next != s.state {
		s.logger.Debug("state change", zap.Stringer("from", s.state), zap.Stringer("to", next))
		s.state = next
		s.clearPlan()
	}

	if s.state == StateGreet {
		s.recordVisit(cell)
		return Command{LookYaw: s.lookYawToPlayer()}
	}
	return s.navigate(cell)
}

func (s *ShyGreeter) fallback(from Cell) (Cell, bool) {
	if s.state == StateWander {
		return s.fallbackNear(from, s.center, s.radius)
	}
	return s.randomRoomCenter()
}

func (s *ShyGreeter) chooseTarget(from Cell) (Cell, bool) {
	if s.state == StateGreet {
		return Cell{}, false
	}
	if t, ok := s.Target(); ok {
		return t, true
	}
	if pc, ok := s.playerCell(); ok && s.state == StateFlee {
		return s.fleeTarget(from, pc, s.center, 2*s.radius, s.opts.FleeSamples, s.opts.FleeTravelWeight)
	}
	var cands []scored
	for _, c := range s.sampleAround(s.center, s.radius, s.opts.ExploreSamples) {
		if c != from {
			cands = append(cands, scored{c, s.novelty(c)*s.opts.NoveltyWeight + float64(Manhattan(from, c))*s.opts.DistanceWeight})
		}
	}
	return s.bestOf(cands)
}
