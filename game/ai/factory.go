package ai

import (
	"strings"

	"go.uber.org/zap"
)

// Type tags a brain variant.
type Type string

const (
	TypeAutopilotWanderer Type = "autopilot_wanderer"
	TypeRoomHunter        Type = "room_hunter"
	TypeWanderCritter     Type = "wander_critter"
	TypeTeleportStalker   Type = "teleport_stalker"
	TypeSpeedJitter       Type = "speed_jitter"
	TypeCorridorGuardian  Type = "corridor_guardian"
	TypeShyGreeter        Type = "shy_greeter"
)

// Types lists every known variant.
var Types = []Type{
	TypeAutopilotWanderer,
	TypeRoomHunter,
	TypeWanderCritter,
	TypeTeleportStalker,
	TypeSpeedJitter,
	TypeCorridorGuardian,
	TypeShyGreeter,
}

var typeAliases = map[string]Type{
	"wanderer":  TypeAutopilotWanderer,
	"autopilot": TypeAutopilotWanderer,
	"hunter":    TypeRoomHunter,
	"critter":   TypeWanderCritter,
	"stalker":   TypeTeleportStalker,
	"jitter":    TypeSpeedJitter,
	"guardian":  TypeCorridorGuardian,
	"greeter":   TypeShyGreeter,
}

// ParseType resolves a tag or alias, case-insensitively, with '-' and '_'
// treated alike.
func ParseType(s string) (Type, bool) {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, t := range Types {
		if string(t) == k {
			return t, true
		}
	}
	t, ok := typeAliases[k]
	return t, ok
}

// New constructs a brain for tag t. Unknown tags fall back to the
// autopilot wanderer.
func New(t Type, deps Deps) Brain {
	switch t {
	case TypeAutopilotWanderer:
		return NewAutopilotWanderer(deps)
	case TypeRoomHunter:
		return NewRoomHunter(deps)
	case TypeWanderCritter:
		return NewWanderCritter(deps)
	case TypeTeleportStalker:
		return NewTeleportStalker(deps)
	case TypeSpeedJitter:
		return NewSpeedJitter(deps)
	case TypeCorridorGuardian:
		return NewCorridorGuardian(deps)
	case TypeShyGreeter:
		return NewShyGreeter(deps)
	}
	if deps.Logger != nil {
		deps.Logger.Warn("unknown brain type, using wanderer", zap.String("type", string(t)))
	}
	return NewAutopilotWanderer(deps)
}

// NewFromTag parses tag and constructs the brain.
func NewFromTag(tag string, deps Deps) Brain {
	t, ok := ParseType(tag)
	if !ok {
		t = Type(tag)
	}
	return New(t, deps)
}
