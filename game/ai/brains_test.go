package ai

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllBrains_NeutralWhenDisabledOrDead(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			clk := newManualClock()
			w := openWorld(16, 16)
			m := newFakeMonster(Cell{3, 3})
			p := &fakePlayer{cell: Cell{5, 3}}
			b := New(typ, testDeps(t, w, m, p, clk))
			require.Equal(t, typ, b.Type())

			b.SetEnabled(false)
			assert.False(t, b.Enabled())
			for i := 0; i < 5; i++ {
				assert.True(t, b.Tick(frame).IsNeutral())
				clk.Advance(frame)
			}

			b.SetEnabled(true)
			m.dead = true
			assert.True(t, b.Tick(frame).IsNeutral())
		})
	}
}

func TestFactory_ParseType(t *testing.T) {
	typ, ok := ParseType("Room-Hunter")
	require.True(t, ok)
	assert.Equal(t, TypeRoomHunter, typ)

	typ, ok = ParseType("stalker")
	require.True(t, ok)
	assert.Equal(t, TypeTeleportStalker, typ)

	_, ok = ParseType("dragon")
	assert.False(t, ok)
}

func TestFactory_UnknownFallsBackToWanderer(t *testing.T) {
	m := newFakeMonster(Cell{2, 2})
	b := NewFromTag("dragon", testDeps(t, openWorld(8, 8), m, nil, newManualClock()))
	assert.Equal(t, TypeAutopilotWanderer, b.Type())
	_, ok := b.(*AutopilotWanderer)
	assert.True(t, ok)
}

// ---- AutopilotWanderer ----

func TestAutopilotWanderer_ChaseLockout(t *testing.T) {
	clk := newManualClock()
	w := openWorld(12, 12)
	m := newFakeMonster(Cell{2, 2})
	p := &fakePlayer{cell: Cell{4, 2}}
	deps := testDeps(t, w, m, p, clk)
	deps.Options.MaxChaseDuration = 2 * time.Second
	b := NewAutopilotWanderer(deps)

	// The monster is held in place so only the chase timer matters.
	for i := 0; i <= 20; i++ {
		b.Tick(frame)
		require.Equal(t, StateChase, b.State(), "tick %d", i)
		require.False(t, b.ChaseLockout(), "tick %d", i)
		clk.Advance(frame)
	}
	b.Tick(frame)
	assert.True(t, b.ChaseLockout())
	assert.Equal(t, StateWander, b.State())

	for i := 0; i < 10; i++ {
		clk.Advance(frame)
		b.Tick(frame)
		assert.True(t, b.ChaseLockout(), "player still in range")
		assert.NotEqual(t, StateChase, b.State())
	}

	p.cell = Cell{10, 10}
	clk.Advance(frame)
	b.Tick(frame)
	assert.False(t, b.ChaseLockout(), "player left chase range")

	p.cell = Cell{4, 2}
	clk.Advance(frame)
	b.Tick(frame)
	assert.Equal(t, StateChase, b.State())
}

func TestAutopilotWanderer_ChasesAndSprints(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{2, 2})
	p := &fakePlayer{cell: Cell{8, 2}}
	b := NewAutopilotWanderer(testDeps(t, openWorld(12, 12), m, p, clk))

	cmd := b.Tick(frame)
	assert.Equal(t, StateChase, b.State())
	target, ok := b.Target()
	require.True(t, ok)
	assert.Equal(t, p.cell, target)
	assert.True(t, cmd.Sprint)
	assert.InDelta(t, 1, cmd.Move.Len(), 1e-9)
}

func TestAutopilotWanderer_ExploresAwayFromStart(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{2, 2})
	b := NewAutopilotWanderer(testDeps(t, openWorld(20, 20), m, nil, clk))

	b.Tick(frame)
	assert.Equal(t, StateWander, b.State())
	target, ok := b.Target()
	require.True(t, ok)
	assert.GreaterOrEqual(t, Manhattan(m.cell, target), b.Options().MinExploreDistance)
}

func TestAutopilotWanderer_OscillationNudges(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{5, 5})
	b := NewAutopilotWanderer(testDeps(t, openWorld(12, 12), m, nil, clk))

	for _, c := range []Cell{{5, 5}, {6, 5}, {5, 5}, {6, 5}} {
		m.SetGridPosition(c)
		b.Tick(frame)
		clk.Advance(frame)
	}
	require.True(t, b.Nudging())
	cmd := b.Tick(frame)
	assert.InDelta(t, 1, cmd.Move.Len(), 1e-9)
	assert.Empty(t, b.Path(), "nudge bypasses pathing")

	clk.Advance(b.Options().NudgeDuration)
	assert.False(t, b.Nudging())
}

func TestAutopilotWanderer_NoProgressAvoidsCell(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{5, 5})
	b := NewAutopilotWanderer(testDeps(t, openWorld(16, 16), m, nil, clk))

	// Never apply movement: the monster keeps its world position.
	for i := 0; i < 40 && !b.Nudging(); i++ {
		b.Tick(frame)
		clk.Advance(frame)
	}
	require.True(t, b.Nudging())
	assert.True(t, b.avoid.Active(Cell{5, 5}, clk.Now()))
}

func TestAutopilotWanderer_StagnationRejectsTarget(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{5, 5})
	deps := testDeps(t, openWorld(16, 16), m, nil, clk)
	deps.Options.NoProgressThreshold = time.Hour
	deps.Options.StuckThreshold = time.Hour
	b := NewAutopilotWanderer(deps)

	b.Tick(frame)
	first, ok := b.Target()
	require.True(t, ok)

	for i := 0; i < 70; i++ {
		clk.Advance(frame)
		b.Tick(frame)
	}
	assert.True(t, b.rejected.Active(first, clk.Now()))
}

func TestAutopilotWanderer_StuckCellForcesReplan(t *testing.T) {
	clk := newManualClock()
	start := clk.Now()
	m := newFakeMonster(Cell{5, 5})
	deps := testDeps(t, openWorld(16, 16), m, nil, clk)
	deps.Options.NoProgressThreshold = time.Hour
	deps.Options.StagnateThreshold = time.Hour
	deps.Options.PlanInterval = time.Hour
	b := NewAutopilotWanderer(deps)
	stuck := b.Options().StuckThreshold

	b.Tick(frame)
	_, ok := b.Target()
	require.True(t, ok)
	require.Equal(t, start, b.lastPlan)

	// The monster never leaves (5,5); the target stays sticky until the
	// threshold, then the plan is thrown away and rebuilt.
	for clk.Now().Sub(start) < stuck-frame {
		clk.Advance(frame)
		b.Tick(frame)
		require.Equal(t, start, b.lastPlan, "replanned early at %v", clk.Now().Sub(start))
	}
	clk.Advance(frame)
	b.Tick(frame)
	assert.Equal(t, start.Add(stuck), b.lastPlan)
	_, ok = b.Target()
	assert.True(t, ok, "a fresh target is picked")
	assert.False(t, b.Nudging())
}

func TestAutopilotWanderer_SprintDistanceOption(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{2, 2})
	p := &fakePlayer{cell: Cell{8, 2}}
	deps := testDeps(t, openWorld(12, 12), m, p, clk)
	deps.Options.WandererSprintDistance = 10
	b := NewAutopilotWanderer(deps)

	cmd := b.Tick(frame)
	require.Equal(t, StateChase, b.State())
	assert.False(t, cmd.Sprint, "player at 6 is inside the sprint distance")
}

// ---- RoomHunter ----

func TestRoomHunter_Transitions(t *testing.T) {
	clk := newManualClock()
	w := &sightWorld{fakeWorld: openWorld(15, 15)}
	m := newFakeMonster(Cell{3, 7})
	home := Cell{7, 7}
	m.ov.HomeCenter = &home
	p := &fakePlayer{cell: Cell{13, 13}}
	b := NewRoomHunter(testDeps(t, w, m, p, clk))

	b.Tick(frame)
	require.Equal(t, StatePatrol, b.State())

	p.cell = Cell{5, 7}
	clk.Advance(frame)
	b.Tick(frame)
	require.Equal(t, StateChase, b.State(), "visible player starts a chase within one tick")

	p.cell = Cell{13, 13}
	timeout := b.Options().ChaseTimeout
	for elapsed := time.Duration(0); elapsed < timeout; elapsed += frame {
		clk.Advance(frame)
		b.Tick(frame)
		require.Equal(t, StateChase, b.State())
	}
	clk.Advance(frame)
	b.Tick(frame)
	require.Equal(t, StateReturning, b.State())
	target, ok := b.Target()
	require.True(t, ok)
	assert.Equal(t, home, target)

	m.SetGridPosition(Cell{7, 8})
	clk.Advance(frame)
	b.Tick(frame)
	assert.Equal(t, StatePatrol, b.State())
}

func TestRoomHunter_LineOfSightGatesVision(t *testing.T) {
	clk := newManualClock()
	w := &sightWorld{fakeWorld: openWorld(15, 15), blind: true}
	m := newFakeMonster(Cell{7, 7})
	p := &fakePlayer{cell: Cell{8, 7}}
	b := NewRoomHunter(testDeps(t, w, m, p, clk))

	b.Tick(frame)
	assert.Equal(t, StatePatrol, b.State())

	w.blind = false
	clk.Advance(frame)
	b.Tick(frame)
	assert.Equal(t, StateChase, b.State())
}

func TestRoomHunter_HomeFromSpawnRoom(t *testing.T) {
	w := openWorld(15, 15)
	w.rooms = []Rect{{X: 2, Y: 2, Width: 5, Height: 5}}
	m := newFakeMonster(Cell{3, 3})
	b := NewRoomHunter(testDeps(t, w, m, nil, newManualClock()))
	home, radius := b.Home()
	assert.Equal(t, Cell{4, 4}, home)
	assert.Equal(t, b.Options().HomeRadius, radius)
}

func TestRoomHunter_PatrolScenario(t *testing.T) {
	clk := newManualClock()
	w := &sightWorld{fakeWorld: openWorld(21, 21), blind: true}
	w.rooms = []Rect{{X: 5, Y: 5, Width: 11, Height: 11}}
	m := newFakeMonster(Cell{10, 10})
	p := &fakePlayer{cell: Cell{1, 1}}
	deps := testDeps(t, w, m, p, clk)
	deps.Options.HomeRadius = 5
	b := NewRoomHunter(deps)
	home, radius := b.Home()
	require.Equal(t, Cell{10, 10}, home)
	require.Equal(t, 5, radius)

	targets := map[Cell]bool{}
	run(b, m, w, clk, 100, func(i int, _ Command) {
		require.Equal(t, StatePatrol, b.State(), "tick %d", i)
		if tgt, ok := b.Target(); ok {
			targets[tgt] = true
			assert.LessOrEqual(t, Manhattan(tgt, home), radius)
		}
		if path := b.Path(); len(path) > 0 {
			assert.LessOrEqual(t, Manhattan(path[len(path)-1], home), radius)
		}
	})
	assert.Greater(t, len(targets), 1, "patrol moves between targets")
}

// walledHome is a 20×10 box split by a full-width wall on row 4, with one
// room far from (5,5) on the lower side.
func walledHome() *fakeWorld {
	w := openWorld(20, 10)
	for x := 1; x < 19; x++ {
		w.walls[Cell{x, 4}] = true
	}
	w.rooms = []Rect{{X: 14, Y: 5, Width: 4, Height: 3}}
	return w
}

func TestRoomHunter_UnreachableHomeTileStaysHome(t *testing.T) {
	clk := newManualClock()
	w := walledHome()
	m := newFakeMonster(Cell{5, 5})
	home := Cell{5, 5}
	m.ov = Overrides{HomeCenter: &home, HomeRadius: 3, HomeTiles: []Cell{{5, 3}}}
	b := NewRoomHunter(testDeps(t, w, m, nil, clk))

	run(b, m, w, clk, 60, func(i int, _ Command) {
		require.Equal(t, StatePatrol, b.State())
		if tgt, ok := b.Target(); ok {
			require.LessOrEqual(t, Manhattan(tgt, home), 3, "tick %d target %v", i, tgt)
		}
	})
}

func TestShyGreeter_UnreachableRoamCellStaysInArea(t *testing.T) {
	clk := newManualClock()
	w := walledHome()
	m := newFakeMonster(Cell{5, 5})
	center := Cell{5, 5}
	m.ov = Overrides{RoamCenter: &center, RoamRadius: 3}
	b := NewShyGreeter(testDeps(t, w, m, nil, clk))

	run(b, m, w, clk, 80, func(i int, _ Command) {
		if tgt, ok := b.Target(); ok {
			require.LessOrEqual(t, Manhattan(tgt, center), 3, "tick %d target %v", i, tgt)
		}
	})
}

// ---- WanderCritter ----

func TestWanderCritter_DeathAndRespawn(t *testing.T) {
	clk := newManualClock()
	w := openWorld(20, 20)
	m := newFakeMonster(Cell{4, 4})
	p := &fakePlayer{cell: Cell{2, 2}}
	b := NewWanderCritter(testDeps(t, w, m, p, clk))
	b.Tick(frame)

	m.dead = true
	clk.Advance(frame)
	assert.True(t, b.Tick(frame).IsNeutral(), "death zeroes movement immediately")
	assert.Equal(t, StateDead, b.State())
	assert.Empty(t, b.Path())

	delay := b.Options().RespawnDelay
	var respawned Command
	for elapsed := time.Duration(0); elapsed <= delay+frame; elapsed += frame {
		clk.Advance(frame)
		cmd := b.Tick(frame)
		if cmd.SpecialAction != "" {
			respawned = cmd
			break
		}
		assert.True(t, cmd.IsNeutral())
		assert.True(t, m.dead)
	}
	assert.Equal(t, ActionRespawn, respawned.SpecialAction)
	assert.False(t, m.dead)
	assert.True(t, w.IsWalkable(m.cell))
	assert.GreaterOrEqual(t, Manhattan(m.cell, p.cell), b.Options().MinRespawnDistance)
	assert.Equal(t, 0, b.Memory().Len())
}

func TestWanderCritter_RespawnWaitsForDelay(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{4, 4})
	b := NewWanderCritter(testDeps(t, openWorld(20, 20), m, nil, clk))
	m.dead = true
	b.Tick(frame)

	clk.Advance(b.Options().RespawnDelay - frame)
	assert.True(t, b.Tick(frame).IsNeutral())
	assert.True(t, m.dead)

	clk.Advance(frame)
	assert.Equal(t, ActionRespawn, b.Tick(frame).SpecialAction)
	assert.False(t, m.dead)
}

func TestWanderCritter_FleesFromPlayer(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{8, 8})
	p := &fakePlayer{cell: Cell{6, 8}}
	b := NewWanderCritter(testDeps(t, openWorld(20, 20), m, p, clk))

	b.Tick(frame)
	assert.Equal(t, StateFlee, b.State())
	target, ok := b.Target()
	require.True(t, ok)
	assert.Greater(t, Manhattan(target, p.cell), Manhattan(m.cell, p.cell))
}

// ---- TeleportStalker ----

func TestTeleportStalker_RingAndCooldown(t *testing.T) {
	clk := newManualClock()
	w := openWorld(30, 30)
	m := newFakeMonster(Cell{1, 1})
	p := &fakePlayer{cell: Cell{20, 20}}
	b := NewTeleportStalker(testDeps(t, w, m, p, clk))
	opts := b.Options()

	cmd := b.Tick(frame)
	require.Equal(t, ActionTeleport, cmd.SpecialAction)
	assertInRing(t, w, m.cell, p.cell, opts.MinTeleportDist, opts.MaxTeleportDist)
	assert.Equal(t, StateChase, b.State())

	m.SetGridPosition(Cell{1, 1})
	for elapsed := frame; elapsed < opts.TeleportCooldown; elapsed += frame {
		clk.Advance(frame)
		require.Empty(t, b.Tick(frame).SpecialAction, "within cooldown")
		m.SetGridPosition(Cell{1, 1})
	}
	clk.Advance(frame)
	cmd = b.Tick(frame)
	require.Equal(t, ActionTeleport, cmd.SpecialAction)
	assertInRing(t, w, m.cell, p.cell, opts.MinTeleportDist, opts.MaxTeleportDist)
}

func TestTeleportStalker_LandsOnOpenRingCells(t *testing.T) {
	player := Cell{20, 20}
	for _, from := range []Cell{{1, 1}, {20, 15}} {
		landed := 0
		for seed := int64(1); seed <= 50; seed++ {
			clk := newManualClock()
			w := openWorld(30, 30)
			// walls cut across the ring on two sides
			for i := 12; i <= 28; i++ {
				w.walls[Cell{i, 17}] = true
				w.walls[Cell{23, i}] = true
			}
			m := newFakeMonster(from)
			deps := testDeps(t, w, m, &fakePlayer{cell: player}, clk)
			deps.Rand = rand.New(rand.NewSource(seed))
			deps.Options.TeleportTriggerDistance = 3
			b := NewTeleportStalker(deps)
			opts := b.Options()

			if b.Tick(frame).SpecialAction != ActionTeleport {
				continue
			}
			landed++
			assertInRing(t, w, m.cell, player, opts.MinTeleportDist, opts.MaxTeleportDist)
			assert.GreaterOrEqual(t, Manhattan(m.cell, from), 2, "seed %d from %v landed %v", seed, from, m.cell)
		}
		assert.Greater(t, landed, 25, "from %v", from)
	}
}

func TestTeleportStalker_SprintDistanceOption(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{5, 5})
	p := &fakePlayer{cell: Cell{11, 5}}
	deps := testDeps(t, openWorld(30, 30), m, p, clk)
	deps.Options.StalkerSprintDistance = 10
	b := NewTeleportStalker(deps)

	cmd := b.Tick(frame)
	require.Equal(t, StateChase, b.State())
	assert.False(t, cmd.Sprint)
}

func TestTeleportStalker_NoTeleportWhenClose(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{5, 5})
	p := &fakePlayer{cell: Cell{12, 5}}
	b := NewTeleportStalker(testDeps(t, openWorld(30, 30), m, p, clk))
	cmd := b.Tick(frame)
	assert.Empty(t, cmd.SpecialAction)
	assert.Equal(t, StateChase, b.State())
	_, ok := b.LastTeleport()
	assert.False(t, ok)
}

func assertInRing(t *testing.T, w WorldState, c, center Cell, lo, hi int) {
	t.Helper()
	assert.True(t, w.IsWalkable(c), "landed on %v", c)
	d := Manhattan(c, center)
	assert.GreaterOrEqual(t, d, lo)
	assert.LessOrEqual(t, d, hi)
}

// ---- SpeedJitter ----

func TestSpeedJitter_Phases(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{3, 3})
	b := NewSpeedJitter(testDeps(t, openWorld(16, 16), m, nil, clk))
	opts := b.Options()

	cmd := b.Tick(frame)
	assert.False(t, cmd.Sprint)
	assert.Equal(t, opts.SlowMultiplier, m.speed)

	clk.Advance(opts.SlowDuration)
	cmd = b.Tick(frame)
	assert.True(t, cmd.Sprint)
	assert.True(t, b.Sprinting())
	assert.Equal(t, opts.SprintMultiplier, m.speed)

	clk.Advance(opts.SprintDuration)
	cmd = b.Tick(frame)
	assert.False(t, cmd.Sprint)
	assert.Equal(t, opts.SlowMultiplier, m.speed)
}

func TestSpeedJitter_FollowPlayer(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{3, 3})
	p := &fakePlayer{cell: Cell{6, 3}}
	deps := testDeps(t, openWorld(16, 16), m, p, clk)
	b := NewSpeedJitter(deps)
	b.Tick(frame)
	assert.Equal(t, StateChase, b.State())

	deps.Options.FollowPlayer = false
	m2 := newFakeMonster(Cell{3, 3})
	deps.Monster = m2
	b2 := NewSpeedJitter(deps)
	b2.Tick(frame)
	assert.Equal(t, StateWander, b2.State())
}

// ---- CorridorGuardian ----

func TestCorridorGuardian_PatrolStaysOnCorridor(t *testing.T) {
	clk := newManualClock()
	w := openWorld(12, 12)
	var corridor []Cell
	for x := 2; x <= 8; x++ {
		corridor = append(corridor, Cell{x, 5})
	}
	onCorridor := map[Cell]bool{}
	for _, c := range corridor {
		onCorridor[c] = true
	}
	m := newFakeMonster(Cell{2, 5})
	m.ov.CorridorPath = corridor
	b := NewCorridorGuardian(testDeps(t, w, m, nil, clk))
	first, last := corridor[0], corridor[len(corridor)-1]

	flips := 0
	prev := b.Forward()
	run(b, m, w, clk, 120, func(i int, _ Command) {
		for _, wp := range b.Path() {
			require.True(t, onCorridor[wp], "waypoint %v off corridor", wp)
		}
		if b.Forward() != prev {
			flips++
			prev = b.Forward()
		}
		assert.Equal(t, StatePatrol, b.State())
	})
	assert.GreaterOrEqual(t, flips, 2)

	// Direction only reverses when standing on an endpoint.
	g := NewCorridorGuardian(testDeps(t, w, newFakeMonster(Cell{5, 5}), nil, clk))
	g.corridor = corridor
	for _, at := range []Cell{{5, 5}, {7, 5}} {
		require.Equal(t, len(corridor)-1, g.patrolEnd(at))
		require.True(t, g.Forward())
	}
	assert.Equal(t, 0, g.patrolEnd(last))
	assert.False(t, g.Forward())
	assert.Equal(t, 0, g.patrolEnd(Cell{4, 5}))
	assert.Equal(t, len(corridor)-1, g.patrolEnd(first))
	assert.True(t, g.Forward())
}

func TestCorridorGuardian_ChasesOnlyOnExactCell(t *testing.T) {
	clk := newManualClock()
	w := openWorld(12, 12)
	corridor := []Cell{{2, 5}, {3, 5}, {4, 5}, {5, 5}, {6, 5}, {7, 5}}
	m := newFakeMonster(Cell{2, 5})
	m.ov.CorridorPath = corridor
	p := &fakePlayer{cell: Cell{5, 5}}
	b := NewCorridorGuardian(testDeps(t, w, m, p, clk))

	b.Tick(frame)
	assert.Equal(t, StateChase, b.State())
	path := b.Path()
	require.NotEmpty(t, path)
	assert.Equal(t, Cell{5, 5}, path[len(path)-1])

	p.cell = Cell{5, 6}
	clk.Advance(frame)
	b.Tick(frame)
	assert.Equal(t, StatePatrol, b.State(), "adjacent but off the line")
}

func TestCorridorGuardian_SingleCell(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{4, 4})
	b := NewCorridorGuardian(testDeps(t, openWorld(10, 10), m, nil, clk))
	require.Equal(t, []Cell{{4, 4}}, b.Corridor())
	cmd := b.Tick(frame)
	assert.True(t, cmd.Move.IsZero())
	assert.True(t, b.Forward())
}

// ---- ShyGreeter ----

func TestShyGreeter_Bands(t *testing.T) {
	clk := newManualClock()
	w := openWorld(24, 24)
	m := newFakeMonster(Cell{8, 8})
	p := &fakePlayer{cell: Cell{8, 12}}
	b := NewShyGreeter(testDeps(t, w, m, p, clk))

	cmd := b.Tick(frame)
	require.Equal(t, StateGreet, b.State())
	assert.True(t, cmd.Move.IsZero())
	assert.InDelta(t, 0, cmd.LookYaw, 1e-9, "player is straight ahead")
	_, ok := b.Target()
	assert.False(t, ok, "greeting has no target")

	p.cell = Cell{10, 8}
	m.yaw = 0
	clk.Advance(frame)
	b.Tick(frame)
	require.Equal(t, StateFlee, b.State())
	target, ok := b.Target()
	require.True(t, ok)
	assert.Greater(t, Manhattan(target, p.cell), Manhattan(m.cell, p.cell))
	assert.LessOrEqual(t, Manhattan(target, Cell{8, 8}), 2*b.Options().RoamRadius)

	p.cell = Cell{20, 20}
	clk.Advance(frame)
	b.Tick(frame)
	require.Equal(t, StateWander, b.State())
	target, ok = b.Target()
	require.True(t, ok)
	assert.LessOrEqual(t, Manhattan(target, Cell{8, 8}), b.Options().RoamRadius)
}

func TestShyGreeter_GreetTurnsTowardPlayer(t *testing.T) {
	clk := newManualClock()
	m := newFakeMonster(Cell{8, 8})
	p := &fakePlayer{cell: Cell{12, 8}}
	b := NewShyGreeter(testDeps(t, openWorld(24, 24), m, p, clk))
	cmd := b.Tick(frame)
	require.Equal(t, StateGreet, b.State())
	assert.Greater(t, cmd.LookYaw, 0.0)
}
