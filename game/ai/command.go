package ai

// Special action tags carried on a Command for the caller to react to
// (effects, audio, journal).
const (
	ActionTeleport = "teleport"
	ActionRespawn  = "respawn"
)

// Command is what a brain asks its monster to do this frame. It is built
// fresh every tick and never stored by the brain.
type Command struct {
	Move          Vec2    `json:"move"`     // unit vector or zero
	LookYaw       float64 `json:"look_yaw"` // radians to add to the current yaw
	Sprint        bool    `json:"sprint"`
	SpecialAction string  `json:"special_action,omitempty"`
}

// IsNeutral reports whether the command leaves the monster untouched.
func (c Command) IsNeutral() bool {
	return c.Move.IsZero() && c.LookYaw == 0 && !c.Sprint && c.SpecialAction == ""
}
