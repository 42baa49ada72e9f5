package ai

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// AutopilotWanderer explores the maze and chases the player when close. A
// chase that runs too long locks chasing out until the player leaves range.
// Three stall detectors and an oscillation check keep it from getting stuck.
type AutopilotWanderer struct {
	*Navigator

	state        MonsterState
	chaseStart   time.Time
	chaseLockout bool

	// rejected holds targets given up on after stagnation.
	rejected *AvoidanceMask

	cellSince time.Time
	lastCell  Cell
	seen      bool

	stagTarget Cell
	stagBest   int
	stagSince  time.Time
	stagActive bool

	progTarget Cell
	progAnchor Vec2
	progSince  time.Time
	progActive bool

	recent     []Cell
	nudgeDir   Vec2
	nudgeUntil time.Time
}

// NewAutopilotWanderer builds a wanderer.
func NewAutopilotWanderer(deps Deps) *AutopilotWanderer {
	w := &AutopilotWanderer{
		Navigator: newNavigator(deps),
		state:     StateWander,
		rejected:  NewAvoidanceMask(),
	}
	w.pickTarget = w.chooseTarget
	w.sprint = func(_, distPlayer int) bool {
		return w.state == StateChase && distPlayer > w.opts.WandererSprintDistance
	}
	return w
}

func (w *AutopilotWanderer) Type() Type { return TypeAutopilotWanderer }
func (w *AutopilotWanderer) State() MonsterState { return w.state }
func (w *AutopilotWanderer) Snapshot() Snapshot { return w.snapshot(w.Type(), w.state) }

// ChaseLockout reports whether chasing is currently suppressed.
func (w *AutopilotWanderer) ChaseLockout() bool { return w.chaseLockout }

// Nudging reports whether a direct escape move is in progress.
func (w *AutopilotWanderer) Nudging() bool { return w.now().Before(w.nudgeUntil) }

func (w *AutopilotWanderer) Tick(time.Duration) Command {
	if w.inactive() {
		return Command{}
	}
	now := w.now()
	cell := w.monster.GridPosition()

	w.updateChase(cell, now)
	w.recordVisit(cell)
	w.trackRecent(cell)

	if !now.Before(w.nudgeUntil) {
		w.detectStuck(cell, now)
		w.detectStagnation(cell, now)
		w.detectNoProgress(cell, now)
		if w.shouldNudge() {
			w.startNudge(cell, now)
		}
	}
	if now.Before(w.nudgeUntil) {
		return w.nudgeCommand()
	}

	w.plan(cell)
	return w.follow(cell)
}

func (w *AutopilotWanderer) setState(s MonsterState) {
	if w.state == s {
		return
	}
	w.logger.Debug("state change", zap.Stringer("from", w.state), zap.Stringer("to", s))
	w.state = s
	w.clearPlan()
}

func (w *AutopilotWanderer) updateChase(cell Cell, now time.Time) {
	d := w.distToPlayer(cell)
	if d < 0 {
		w.setState(StateWander)
		return
	}
	if w.chaseLockout && d > w.opts.ChaseRange {
		w.chaseLockout = false
	}
	switch w.state {
	case StateChase:
		if now.Sub(w.chaseStart) > w.opts.MaxChaseDuration {
			w.chaseLockout = true
			w.logger.Info("chase lockout", zap.Duration("chased", now.Sub(w.chaseStart)))
			w.setState(StateWander)
		} else if d > w.opts.ChaseRange+w.opts.ChaseLoseMargin {
			w.setState(StateWander)
		}
	default:
		if d <= w.opts.ChaseRange && !w.chaseLockout {
			w.setState(StateChase)
			w.chaseStart = now
		}
	}
}

func (w *AutopilotWanderer) chooseTarget(from Cell) (Cell, bool) {
	if w.state == StateChase {
		return w.playerCell()
	}
	return w.exploreTarget(from)
}

func (w *AutopilotWanderer) exploreTarget(from Cell) (Cell, bool) {
	if t, ok := w.Target(); ok {
		return t, true
	}
	now := w.now()
	centers := w.roomCenters()
	samples := w.sampleWalkable(w.opts.ExploreSamples)

	collect := func(minDist int) []scored {
		var out []scored
		add := func(c Cell, center bool) {
			if Manhattan(from, c) < minDist || w.rejected.Active(c, now) {
				return
			}
			out = append(out, scored{c, w.exploreScore(from, c, center)})
		}
		for _, c := range centers {
			add(c, true)
		}
		for _, c := range samples {
			add(c, false)
		}
		return out
	}

	cands := collect(w.opts.MinExploreDistance)
	if len(cands) == 0 {
		cands = collect(1)
	}
	return w.bestOf(cands)
}

// detectStuck forces a replan after sitting on one cell too long.
func (w *AutopilotWanderer) detectStuck(cell Cell, now time.Time) {
	if !w.seen || cell != w.lastCell {
		w.lastCell, w.cellSince, w.seen = cell, now, true
		return
	}
	if now.Sub(w.cellSince) >= w.opts.StuckThreshold {
		w.logger.Debug("stuck, replanning", zap.Int("x", cell.X), zap.Int("y", cell.Y))
		w.clearPlan()
		w.cellSince = now
	}
}

// detectStagnation gives up on a target the monster is not closing on.
func (w *AutopilotWanderer) detectStagnation(cell Cell, now time.Time) {
	if !w.hasTarget {
		w.stagActive = false
		return
	}
	d := Manhattan(cell, w.target)
	if !w.stagActive || w.target != w.stagTarget {
		w.stagTarget, w.stagBest, w.stagSince, w.stagActive = w.target, d, now, true
		return
	}
	if d < w.stagBest {
		w.stagBest, w.stagSince = d, now
		return
	}
	if now.Sub(w.stagSince) >= w.opts.StagnateThreshold {
		w.logger.Debug("target stagnated", zap.Int("x", w.target.X), zap.Int("y", w.target.Y))
		if w.state != StateChase {
			w.rejected.Add(w.target, now, 2*w.opts.StagnateThreshold)
		}
		w.clearPlan()
		w.stagActive = false
	}
}

// detectNoProgress marks the cell as avoided and nudges when the world
// position has not moved while pursuing the same target.
func (w *AutopilotWanderer) detectNoProgress(cell Cell, now time.Time) {
	if !w.hasTarget {
		w.progActive = false
		return
	}
	pos := w.monster.WorldPosition()
	if !w.progActive || w.target != w.progTarget || pos.Sub(w.progAnchor).Len() > w.opts.NoProgressEpsilon {
		w.progTarget, w.progAnchor, w.progSince, w.progActive = w.target, pos, now, true
		return
	}
	if now.Sub(w.progSince) >= w.opts.NoProgressThreshold {
		w.avoid.Add(cell, now, w.opts.AvoidTTL)
		w.startNudge(cell, now)
		w.progActive = false
	}
}

// trackRecent keeps the last four distinct cells.
func (w *AutopilotWanderer) trackRecent(cell Cell) {
	if n := len(w.recent); n > 0 && w.recent[n-1] == cell {
		return
	}
	w.recent = append(w.recent, cell)
	if len(w.recent) > 4 {
		w.recent = w.recent[len(w.recent)-4:]
	}
}

// shouldNudge detects an A-B-A-B oscillation.
func (w *AutopilotWanderer) shouldNudge() bool {
	if len(w.recent) < 4 {
		return false
	}
	r := w.recent
	return r[0] == r[2] && r[1] == r[3] && r[0] != r[1]
}

func (w *AutopilotWanderer) startNudge(cell Cell, now time.Time) {
	var open []Cell
	for _, d := range cardinals {
		if w.isWalkable(cell.Add(d.X, d.Y)) {
			open = append(open, d)
		}
	}
	if len(open) > 0 {
		d := open[w.rng.Intn(len(open))]
		w.nudgeDir = Vec2{X: float64(d.X), Z: float64(d.Y)}
	} else {
		a := w.rng.Float64() * 2 * math.Pi
		w.nudgeDir = Vec2{X: math.Sin(a), Z: math.Cos(a)}
	}
	w.nudgeUntil = now.Add(w.opts.NudgeDuration)
	w.recent = w.recent[:0]
	w.clearPlan()
	w.logger.Debug("nudge", zap.Int("x", cell.X), zap.Int("y", cell.Y),
		zap.Float64("dir_x", w.nudgeDir.X), zap.Float64("dir_z", w.nudgeDir.Z))
}

func (w *AutopilotWanderer) nudgeCommand() Command {
	return Command{
		Move:    w.nudgeDir,
		LookYaw: w.lookYawToward(w.monster.WorldPosition().Add(w.nudgeDir)),
	}
}
