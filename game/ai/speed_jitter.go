package ai

import (
	"time"

	"go.uber.org/zap"
)

// SpeedJitter alternates between a slow crawl and a sprint on fixed phase
// durations, writing the pace onto its monster.
type SpeedJitter struct {
	*Navigator

	state      MonsterState
	sprinting  bool
	phaseStart time.Time
	started    bool
}

// NewSpeedJitter builds a jitter brain. It starts in the slow phase.
func NewSpeedJitter(deps Deps) *SpeedJitter {
	j := &SpeedJitter{
		Navigator: newNavigator(deps),
		state:     StateWander,
	}
	j.pickTarget = j.chooseTarget
	j.sprint = func(int, int) bool { return j.sprinting }
	return j
}

func (j *SpeedJitter) Type() Type { return TypeSpeedJitter }
func (j *SpeedJitter) State() MonsterState { return j.state }
func (j *SpeedJitter) Snapshot() Snapshot { return j.snapshot(j.Type(), j.state) }

// Sprinting reports the current phase.
func (j *SpeedJitter) Sprinting() bool { return j.sprinting }

func (j *SpeedJitter) Tick(time.Duration) Command {
	if j.inactive() {
		return Command{}
	}
	now := j.now()
	j.updatePhase(now)

	cell := j.monster.GridPosition()
	next := StateWander
	if j.opts.FollowPlayer {
		if d := j.distToPlayer(cell); d >= 0 && d <= j.opts.JitterVisionRange {
			next = StateChase
		}
	}
	if next != j.state {
		j.logger.Debug("state change", zap.Stringer("from", j.state), zap.Stringer("to", next))
		j.state = next
		j.clearPlan()
	}
	return j.navigate(cell)
}

func (j *SpeedJitter) updatePhase(now time.Time) {
	if !j.started {
		j.started = true
		j.phaseStart = now
		j.monster.SetSpeedMultiplier(j.opts.SlowMultiplier)
		return
	}
	dur := j.opts.SlowDuration
	if j.sprinting {
		dur = j.opts.SprintDuration
	}
	if now.Sub(j.phaseStart) < dur {
		return
	}
	j.sprinting = !j.sprinting
	j.phaseStart = now
	if j.sprinting {
		j.monster.SetSpeedMultiplier(j.opts.SprintMultiplier)
	} else {
		j.monster.SetSpeedMultiplier(j.opts.SlowMultiplier)
	}
}

func (j *SpeedJitter) chooseTarget(from Cell) (Cell, bool) {
	if j.state == StateChase {
		return j.playerCell()
	}
	if t, ok := j.Target(); ok {
		return t, true
	}
	var cands []scored
	for _, c := range j.sampleWalkable(j.opts.ExploreSamples) {
		if Manhattan(from, c) >= j.opts.MinExploreDistance {
			cands = append(cands, scored{c, j.exploreScore(from, c, false)})
		}
	}
	if len(cands) == 0 {
		for _, c := range j.roomCenters() {
			if c != from {
				cands = append(cands, scored{c, j.exploreScore(from, c, true)})
			}
		}
	}
	return j.bestOf(cands)
}
