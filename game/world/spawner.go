package world

import (
	"errors"
	"fmt"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"go.uber.org/zap"
)

// ErrNoSpawnTile is returned when a monster has nowhere to stand.
var ErrNoSpawnTile = errors.New("world: no walkable spawn tile")

// SpawnConfig is one group of monsters sharing a brain.
type SpawnConfig struct {
	Brain     string
	Name      string
	Count     int
	At        *ai.Cell // nil = anchor from overrides, else random
	Overrides ai.Overrides
}

// Spawner turns spawn configs into monsters on a Sim.
type Spawner struct {
	sim    *Sim
	logger *zap.Logger
}

// NewSpawner creates a Spawner for sim.
func NewSpawner(sim *Sim, logger *zap.Logger) *Spawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Spawner{sim: sim, logger: logger}
}

// SpawnAll spawns every group in order. It stops at the first group that
// cannot be placed and returns what was spawned so far.
func (sp *Spawner) SpawnAll(cfgs []SpawnConfig) ([]*Monster, error) {
	var out []*Monster
	for i, cfg := range cfgs {
		ms, err := sp.spawnGroup(cfg)
		out = append(out, ms...)
		if err != nil {
			return out, fmt.Errorf("spawn group %d (%s): %w", i, cfg.Brain, err)
		}
	}
	return out, nil
}

func (sp *Spawner) spawnGroup(cfg SpawnConfig) ([]*Monster, error) {
	kind, ok := ai.ParseType(cfg.Brain)
	if !ok {
		sp.logger.Warn("unknown brain type, using wanderer", zap.String("brain", cfg.Brain))
		kind = ai.TypeAutopilotWanderer
	}
	count := cfg.Count
	if count <= 0 {
		count = 1
	}
	out := make([]*Monster, 0, count)
	for i := 0; i < count; i++ {
		cell, err := sp.placement(cfg)
		if err != nil {
			return out, err
		}
		name := cfg.Name
		if name == "" {
			name = string(kind)
		}
		if count > 1 {
			name = fmt.Sprintf("%s-%d", name, i+1)
		}
		out = append(out, sp.sim.Spawn(kind, name, cell, cfg.Overrides))
	}
	return out, nil
}

// placement picks the spawn cell: explicit, then the brain's own anchor
// (corridor start, home, roam centre), then a random open tile.
func (sp *Spawner) placement(cfg SpawnConfig) (ai.Cell, error) {
	g := sp.sim.Grid()
	if cfg.At != nil {
		if !g.IsWalkable(*cfg.At) {
			return ai.Cell{}, fmt.Errorf("%w: %d,%d", ErrBlocked, cfg.At.X, cfg.At.Y)
		}
		return *cfg.At, nil
	}
	ov := cfg.Overrides
	var anchors []ai.Cell
	if len(ov.CorridorPath) > 0 {
		anchors = append(anchors, ov.CorridorPath[0])
	}
	if ov.HomeCenter != nil {
		anchors = append(anchors, *ov.HomeCenter)
	}
	if ov.RoamCenter != nil {
		anchors = append(anchors, *ov.RoamCenter)
	}
	for _, c := range anchors {
		if g.IsWalkable(c) {
			return c, nil
		}
	}

	sp.sim.mu.Lock()
	c, ok := g.FindRandomWalkableTile()
	sp.sim.mu.Unlock()
	if !ok {
		return ai.Cell{}, ErrNoSpawnTile
	}
	return c, nil
}
