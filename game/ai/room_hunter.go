package ai

import (
	"time"

	"go.uber.org/zap"
)

// RoomHunter patrols a home area, chases the player on sight and walks back
// home once it has lost the player for ChaseTimeout.
type RoomHunter struct {
	*Navigator

	state     MonsterState
	home      Cell
	radius    int
	homeTiles []Cell
	lastSeen  time.Time
}

// NewRoomHunter builds a hunter. Home is the monster's HomeCenter override,
// else the centre of the room it spawned in, else the spawn cell.
func NewRoomHunter(deps Deps) *RoomHunter {
	h := &RoomHunter{
		Navigator: newNavigator(deps),
		state:     StatePatrol,
	}
	h.radius = h.opts.HomeRadius
	if h.monster != nil {
		ov := h.monster.Overrides()
		spawn := h.monster.GridPosition()
		h.home = spawn
		if ov.HomeCenter != nil {
			h.home = *ov.HomeCenter
		} else if c, ok := h.spawnRoomCenter(spawn); ok {
			h.home = c
		}
		if ov.HomeRadius > 0 {
			h.radius = ov.HomeRadius
		}
		for _, t := range ov.HomeTiles {
			if h.isWalkable(t) {
				h.homeTiles = append(h.homeTiles, t)
			}
		}
	}
	h.pickTarget = h.chooseTarget
	h.fallbackTarget = func(from Cell) (Cell, bool) { return h.fallbackNear(from, h.home, h.radius) }
	h.sprint = func(_, distPlayer int) bool {
		return h.state == StateChase && distPlayer > h.opts.HunterSprintDistance
	}
	return h
}

func (h *RoomHunter) spawnRoomCenter(spawn Cell) (Cell, bool) {
	if h.world == nil {
		return Cell{}, false
	}
	for _, r := range h.world.Rooms() {
		if r.Contains(spawn) && h.isWalkable(r.Center()) {
			return r.Center(), true
		}
	}
	return Cell{}, false
}

func (h *RoomHunter) Type() Type { return TypeRoomHunter }
func (h *RoomHunter) State() MonsterState { return h.state }
func (h *RoomHunter) Snapshot() Snapshot { return h.snapshot(h.Type(), h.state) }

// Home returns the patrol centre and radius.
func (h *RoomHunter) Home() (Cell, int) { return h.home, h.radius }

func (h *RoomHunter) Tick(time.Duration) Command {
	if h.inactive() {
		return Command{}
	}
	now := h.now()
	cell := h.monster.GridPosition()
	_, seen := h.canSee(cell, h.opts.VisionRange)

	switch h.state {
	case StatePatrol:
		if seen {
			h.lastSeen = now
			h.setState(StateChase)
		}
	case StateChase:
		if seen {
			h.lastSeen = now
		} else if now.Sub(h.lastSeen) > h.opts.ChaseTimeout {
			h.setState(StateReturning)
		}
	case StateReturning:
		if seen {
			h.lastSeen = now
			h.setState(StateChase)
		} else if Manhattan(cell, h.home) <= 1 {
			h.setState(StatePatrol)
		}
	}
	return h.navigate(cell)
}

func (h *RoomHunter) setState(s MonsterState) {
	if h.state == s {
		return
	}
	h.logger.Debug("state change", zap.Stringer("from", h.state), zap.Stringer("to", s))
	h.state = s
	h.clearPlan()
}

func (h *RoomHunter) chooseTarget(from Cell) (Cell, bool) {
	switch h.state {
	case StateChase:
		return h.playerCell()
	case StateReturning:
		return h.home, true
	}
	return h.patrolTarget(from)
}

func (h *RoomHunter) patrolTarget(from Cell) (Cell, bool) {
	if t, ok := h.Target(); ok {
		return t, true
	}
	cands := h.homeTiles
	if len(cands) == 0 {
		cands = append(h.sampleAround(h.home, h.radius, h.opts.ExploreSamples), h.home)
	}
	var scoredCands []scored
	for _, c := range cands {
		if c == from || !h.isWalkable(c) {
			continue
		}
		s := h.novelty(c)*h.opts.NoveltyWeight + float64(Manhattan(from, c))*h.opts.DistanceWeight
		scoredCands = append(scoredCands, scored{c, s})
	}
	return h.bestOf(scoredCands)
}
