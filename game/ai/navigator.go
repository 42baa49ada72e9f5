package ai

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Navigator is the navigation base every brain embeds. It owns the plan
// state (target, path, last plan time), the exploration memory and the
// avoidance mask. Variants plug in through pickTarget and sprint.
type Navigator struct {
	world   WorldState
	paths   Pathfinder
	monster MonsterHandle
	player  PlayerRef
	rng     *rand.Rand
	clock   Clock
	logger  *zap.Logger
	opts    Options

	enabled bool
	memory  *ExplorationMemory
	avoid   *AvoidanceMask

	target    Cell
	hasTarget bool
	path      []Cell
	lastPlan  time.Time
	retryAt   time.Time

	// pickTarget chooses the next destination; false means "no target".
	pickTarget func(from Cell) (Cell, bool)
	// sprint decides the sprint flag; distToPlayer is -1 without a player.
	sprint func(distToTarget, distToPlayer int) bool
	// fallbackTarget supplies alternatives when the picked target has no
	// path. Defaults to a random room centre.
	fallbackTarget func(from Cell) (Cell, bool)

	planFailLog rate.Sometimes
}

func newNavigator(deps Deps) *Navigator {
	n := &Navigator{
		world:   deps.World,
		paths:   deps.Pathfinder,
		monster: deps.Monster,
		player:  deps.Player,
		rng:     deps.Rand,
		clock:   deps.Clock,
		logger:  deps.Logger,
		opts:    deps.Options.WithDefaults(),
		enabled: true,

		planFailLog: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if n.clock == nil {
		n.clock = SystemClock
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.paths == nil && n.world != nil {
		n.paths = NewGridPathfinder(n.world)
	}
	n.memory = NewExplorationMemory(n.opts.VisitTTL)
	n.avoid = NewAvoidanceMask()
	n.pickTarget = func(Cell) (Cell, bool) { return Cell{}, false }
	n.sprint = func(int, int) bool { return false }
	n.fallbackTarget = func(Cell) (Cell, bool) { return n.randomRoomCenter() }
	return n
}

// Enabled reports whether the brain produces commands.
func (n *Navigator) Enabled() bool { return n.enabled }

// SetEnabled switches the brain on or off. A disabled brain returns neutral
// commands and forgets its current plan.
func (n *Navigator) SetEnabled(on bool) {
	if !on {
		n.clearPlan()
	}
	n.enabled = on
}

// Target returns the current destination.
func (n *Navigator) Target() (Cell, bool) { return n.target, n.hasTarget }

// Path returns a copy of the remaining path, next waypoint first.
func (n *Navigator) Path() []Cell {
	out := make([]Cell, len(n.path))
	copy(out, n.path)
	return out
}

// Memory exposes the exploration memory.
func (n *Navigator) Memory() *ExplorationMemory { return n.memory }

// Options returns the effective tuning.
func (n *Navigator) Options() Options { return n.opts }

func (n *Navigator) now() time.Time { return n.clock.Now() }

// inactive is true when the brain must emit a neutral command.
func (n *Navigator) inactive() bool {
	return !n.enabled || n.monster == nil || n.monster.IsDead()
}

func (n *Navigator) isWalkable(c Cell) bool {
	if n.world == nil {
		return true
	}
	return n.world.IsWalkable(c)
}

func (n *Navigator) recordVisit(c Cell) {
	n.memory.Record(c, n.now())
}

func (n *Navigator) novelty(c Cell) float64 {
	return n.memory.Novelty(c, n.now())
}

func (n *Navigator) setTarget(c Cell) {
	n.target = c
	n.hasTarget = true
}

// clearPlan drops target and path and opens the cadence gate.
func (n *Navigator) clearPlan() {
	n.hasTarget = false
	n.target = Cell{}
	n.path = nil
	n.lastPlan = time.Time{}
	n.retryAt = time.Time{}
}

func (n *Navigator) playerCell() (Cell, bool) {
	if n.player == nil {
		return Cell{}, false
	}
	return n.player.GridPosition(), true
}

// distToPlayer returns the Manhattan distance to the player, or -1.
func (n *Navigator) distToPlayer(from Cell) int {
	pc, ok := n.playerCell()
	if !ok {
		return -1
	}
	return Manhattan(from, pc)
}

// canSee reports whether the player is within rng tiles and, when the world
// supports it, in line of sight.
func (n *Navigator) canSee(from Cell, rng int) (int, bool) {
	pc, ok := n.playerCell()
	if !ok {
		return -1, false
	}
	d := Manhattan(from, pc)
	if d > rng {
		return d, false
	}
	if los, ok := n.world.(LineOfSight); ok && !los.HasLineOfSight(from, pc) {
		return d, false
	}
	return d, true
}

// plan refreshes target and path, honouring the replan cadence.
func (n *Navigator) plan(from Cell) {
	now := n.now()
	if n.hasTarget && Manhattan(from, n.target) <= 1 {
		n.clearPlan()
	}
	if len(n.path) > 0 && n.hasTarget && now.Sub(n.lastPlan) < n.opts.PlanInterval {
		return
	}
	if now.Before(n.retryAt) {
		return
	}

	target, ok := n.pickTarget(from)
	if !ok {
		n.clearPlan()
		return
	}
	n.lastPlan = now
	n.setTarget(target)

	path := n.findPath(from, target)
	if len(path) == 0 {
		for i := 0; i < n.opts.FallbackRoomSamples; i++ {
			alt, ok := n.fallbackTarget(from)
			if !ok {
				break
			}
			if path = n.findPath(from, alt); len(path) > 0 {
				n.setTarget(alt)
				break
			}
		}
	}
	if len(path) == 0 {
		n.clearPlan()
		n.retryAt = now.Add(n.opts.PlanInterval)
		n.planFailLog.Do(func() {
			n.logger.Debug("no path", zap.Int("x", from.X), zap.Int("y", from.Y),
				zap.Int("target_x", target.X), zap.Int("target_y", target.Y))
		})
		return
	}
	if n.opts.SmoothPaths {
		if s, ok := n.paths.(PathSmoother); ok {
			path = s.SmoothPath(path)
		}
	}
	n.path = path
}

// findPath tries the masked search first and only accepts it when it reaches
// the goal; otherwise it retries unmasked so avoidance never blocks movement.
func (n *Navigator) findPath(from, to Cell) []Cell {
	if n.paths == nil {
		return nil
	}
	if mask := n.buildAvoidanceMask(from, to); mask != nil {
		if p := n.paths.FindPath(from, to, true, mask); len(p) > 0 && p[len(p)-1] == to {
			return p
		}
	}
	return n.paths.FindPath(from, to, true, nil)
}

func (n *Navigator) buildAvoidanceMask(from, to Cell) CellSet {
	return n.avoid.Build(n.now(), from, to)
}

func (n *Navigator) randomRoomCenter() (Cell, bool) {
	if n.world == nil {
		return Cell{}, false
	}
	rooms := n.world.Rooms()
	if len(rooms) == 0 {
		return Cell{}, false
	}
	return rooms[n.rng.Intn(len(rooms))].Center(), true
}

// stepAlongPath consumes reached waypoints and returns a unit move vector
// toward the next one together with that waypoint.
func (n *Navigator) stepAlongPath(from Cell) (Vec2, Cell) {
	if len(n.path) == 0 {
		return Vec2{}, from
	}
	if i := indexOfCell(n.path, from); i >= 0 && i < len(n.path)-1 {
		n.path = n.path[i+1:]
	}
	head := n.path[0]
	dir := CellCenter(head, n.opts.TileSize).Sub(n.monster.WorldPosition())
	if dir.Len() < 1e-3 {
		return Vec2{}, head
	}
	return dir.Normalize(), head
}

// lookYawToward returns the yaw delta that turns the monster to face p.
func (n *Navigator) lookYawToward(p Vec2) float64 {
	m := n.monster.WorldPosition()
	if p.Sub(m).Len() < 1e-9 {
		return 0
	}
	return WrapAngle(math.Atan2(p.X-m.X, p.Z-m.Z) - n.monster.Yaw())
}

func (n *Navigator) lookYawToGrid(c Cell) float64 {
	return n.lookYawToward(CellCenter(c, n.opts.TileSize))
}

func (n *Navigator) lookYawToPlayer() float64 {
	if n.player == nil {
		return 0
	}
	return n.lookYawToward(n.player.WorldPosition())
}

// navigate runs the shared per-tick body: record, plan, step, face, sprint.
func (n *Navigator) navigate(from Cell) Command {
	n.recordVisit(from)
	n.plan(from)
	return n.follow(from)
}

// follow steps the current path without planning.
func (n *Navigator) follow(from Cell) Command {
	move, wp := n.stepAlongPath(from)
	var yaw float64
	if wp != from {
		yaw = n.lookYawToGrid(wp)
	}
	distTarget := 0
	if n.hasTarget {
		distTarget = Manhattan(from, n.target)
	}
	return Command{
		Move:    move,
		LookYaw: yaw,
		Sprint:  n.sprint(distTarget, n.distToPlayer(from)),
	}
}

func (n *Navigator) snapshot(t Type, s MonsterState) Snapshot {
	snap := Snapshot{
		Type:    t,
		State:   s.String(),
		Enabled: n.enabled,
		PathLen: len(n.path),
	}
	if n.hasTarget {
		tc := n.target
		snap.Target = &tc
	}
	return snap
}

func indexOfCell(cells []Cell, c Cell) int {
	for i, x := range cells {
		if x == c {
			return i
		}
	}
	return -1
}
