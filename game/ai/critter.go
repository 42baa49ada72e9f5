package ai

import (
	"time"

	"go.uber.org/zap"
)

// WanderCritter is a harmless wanderer that runs from the player. It owns a
// death lifecycle: once its monster is marked dead it waits RespawnDelay and
// reappears far from the player.
type WanderCritter struct {
	*Navigator

	state     MonsterState
	wasDead   bool
	deathTime time.Time
}

// NewWanderCritter builds a critter.
func NewWanderCritter(deps Deps) *WanderCritter {
	c := &WanderCritter{
		Navigator: newNavigator(deps),
		state:     StateWander,
	}
	c.pickTarget = c.chooseTarget
	return c
}

func (c *WanderCritter) Type() Type { return TypeWanderCritter }
func (c *WanderCritter) State() MonsterState { return c.state }
func (c *WanderCritter) Snapshot() Snapshot { return c.snapshot(c.Type(), c.state) }

func (c *WanderCritter) Tick(time.Duration) Command {
	if !c.enabled || c.monster == nil {
		return Command{}
	}
	now := c.now()

	if c.monster.IsDead() {
		if !c.wasDead {
			c.wasDead = true
			c.deathTime = now
			c.state = StateDead
			c.clearPlan()
			c.logger.Debug("critter died")
			return Command{}
		}
		if now.Sub(c.deathTime) < c.opts.RespawnDelay {
			return Command{}
		}
		return c.respawn()
	}
	c.wasDead = false
	if c.state == StateDead {
		c.state = StateWander
	}

	cell := c.monster.GridPosition()
	next := StateWander
	if d := c.distToPlayer(cell); d >= 0 && d <= c.opts.AvoidPlayerDistance {
		next = StateFlee
	}
	if next != c.state {
		c.state = next
		c.clearPlan()
	}
	return c.navigate(cell)
}

// respawn relocates and revives the monster. With no acceptable tile the
// critter stays dead and retries next tick.
func (c *WanderCritter) respawn() Command {
	pc, hasPlayer := c.playerCell()
	var spot Cell
	found := false
	for _, t := range c.sampleWalkable(c.opts.RespawnSamples) {
		if !hasPlayer || Manhattan(t, pc) >= c.opts.MinRespawnDistance {
			spot, found = t, true
			break
		}
	}
	if !found {
		return Command{}
	}
	c.memory.Clear()
	c.avoid.Clear()
	c.clearPlan()
	c.monster.SetGridPosition(spot)
	c.monster.SetDead(false)
	c.wasDead = false
	c.state = StateWander
	c.logger.Info("critter respawned", zap.Int("x", spot.X), zap.Int("y", spot.Y))
	return Command{SpecialAction: ActionRespawn}
}

func (c *WanderCritter) chooseTarget(from Cell) (Cell, bool) {
	if t, ok := c.Target(); ok {
		return t, true
	}
	pc, hasPlayer := c.playerCell()
	if c.state == StateFlee && hasPlayer {
		r := 2 * c.opts.AvoidPlayerDistance
		if t, ok := c.fleeTarget(from, pc, from, r, c.opts.FleeSamples, c.opts.FleeTravelWeight); ok {
			return t, true
		}
	}
	var cands []scored
	add := func(t Cell, center bool) {
		if t == from || Manhattan(from, t) < 2 {
			return
		}
		s := c.exploreScore(from, t, center)
		if hasPlayer {
			s += float64(Manhattan(t, pc)) * c.opts.PlayerDistanceWeight
		}
		cands = append(cands, scored{t, s})
	}
	for _, t := range c.roomCenters() {
		add(t, true)
	}
	for _, t := range c.sampleWalkable(c.opts.ExploreSamples) {
		add(t, false)
	}
	return c.bestOf(cands)
}
