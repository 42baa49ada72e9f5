package ai

import (
	"time"

	"go.uber.org/zap"
)

// TeleportStalker wanders and chases like a plain hunter, and when the
// player gets far away it blinks to a ring of cells around them.
type TeleportStalker struct {
	*Navigator

	state        MonsterState
	lastTeleport time.Time
	teleported   bool
}

// NewTeleportStalker builds a stalker.
func NewTeleportStalker(deps Deps) *TeleportStalker {
	s := &TeleportStalker{
		Navigator: newNavigator(deps),
		state:     StateWander,
	}
	s.pickTarget = s.chooseTarget
	s.sprint = func(_, distPlayer int) bool {
		return s.state == StateChase && distPlayer > s.opts.StalkerSprintDistance
	}
	return s
}

func (s *TeleportStalker) Type() Type { return TypeTeleportStalker }
func (s *TeleportStalker) State() MonsterState { return s.state }
func (s *TeleportStalker) Snapshot() Snapshot { return s.snapshot(s.Type(), s.state) }

// LastTeleport returns the time of the most recent teleport.
func (s *TeleportStalker) LastTeleport() (time.Time, bool) { return s.lastTeleport, s.teleported }

func (s *TeleportStalker) Tick(time.Duration) Command {
	if s.inactive() {
		return Command{}
	}
	now := s.now()
	cell := s.monster.GridPosition()

	action := ""
	if to, ok := s.tryTeleport(cell, now); ok {
		cell = to
		action = ActionTeleport
	}
	s.updateState(cell)

	cmd := s.navigate(cell)
	cmd.SpecialAction = action
	return cmd
}

func (s *TeleportStalker) updateState(cell Cell) {
	next := StateWander
	if d := s.distToPlayer(cell); d >= 0 && d <= s.opts.StalkerChaseRange {
		next = StateChase
	}
	if next != s.state {
		s.logger.Debug("state change", zap.Stringer("from", s.state), zap.Stringer("to", next))
		s.state = next
		s.clearPlan()
	}
}

func (s *TeleportStalker) cooldownReady(now time.Time) bool {
	return !s.teleported || now.Sub(s.lastTeleport) >= s.opts.TeleportCooldown
}

func (s *TeleportStalker) tryTeleport(cell Cell, now time.Time) (Cell, bool) {
	pc, ok := s.playerCell()
	if !ok || Manhattan(cell, pc) <= s.opts.TeleportTriggerDistance || !s.cooldownReady(now) {
		return Cell{}, false
	}
	var cands []Cell
	for _, c := range s.sampleRing(pc, s.opts.MinTeleportDist, s.opts.MaxTeleportDist, s.opts.TeleportSamples) {
		if Manhattan(c, cell) >= 2 {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return Cell{}, false
	}
	to := cands[s.rng.Intn(len(cands))]
	s.monster.SetGridPosition(to)
	s.lastTeleport = now
	s.teleported = true
	s.clearPlan()
	s.logger.Info("teleport", zap.Int("from_x", cell.X), zap.Int("from_y", cell.Y),
		zap.Int("to_x", to.X), zap.Int("to_y", to.Y))
	return to, true
}

func (s *TeleportStalker) chooseTarget(from Cell) (Cell, bool) {
	if s.state == StateChase {
		return s.playerCell()
	}
	if t, ok := s.Target(); ok {
		return t, true
	}
	var cands []scored
	for _, c := range s.roomCenters() {
		if Manhattan(from, c) >= 2 {
			cands = append(cands, scored{c, s.exploreScore(from, c, true)})
		}
	}
	for _, c := range s.sampleWalkable(s.opts.ExploreSamples) {
		if Manhattan(from, c) >= 2 {
			cands = append(cands, scored{c, s.exploreScore(from, c, false)})
		}
	}
	return s.bestOf(cands)
}
