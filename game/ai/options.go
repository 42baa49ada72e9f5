package ai

import "time"

// Options is the flat tuning record passed to every brain at construction.
// Distances are in tiles, durations in simulated time.
//
// WithDefaults treats a zero field as unset, so an explicit 0 cannot switch
// a weight or distance off; use a small positive value instead. Negative
// sample counts are treated as unset too.
type Options struct {
	// Navigation core.
	PlanInterval        time.Duration `mapstructure:"plan_interval"`
	VisitTTL            time.Duration `mapstructure:"visit_ttl"`
	TileSize            float64       `mapstructure:"tile_size"`
	SmoothPaths         bool          `mapstructure:"smooth_paths"`
	AvoidTTL            time.Duration `mapstructure:"avoid_ttl"`
	FallbackRoomSamples int           `mapstructure:"fallback_room_samples"`

	// Exploration scoring, shared by every wander/patrol picker.
	ExploreSamples     int     `mapstructure:"explore_samples"`
	MinExploreDistance int     `mapstructure:"min_explore_distance"`
	DistanceWeight     float64 `mapstructure:"distance_weight"`
	NoveltyWeight      float64 `mapstructure:"novelty_weight"`
	RoomBonus          float64 `mapstructure:"room_bonus"`
	CorridorPenalty    float64 `mapstructure:"corridor_penalty"`
	RoomCenterBonus    float64 `mapstructure:"room_center_bonus"`

	// Autopilot wanderer.
	ChaseRange          int           `mapstructure:"chase_range"`
	ChaseLoseMargin     int           `mapstructure:"chase_lose_margin"`
	MaxChaseDuration    time.Duration `mapstructure:"max_chase_duration"`
	StuckThreshold      time.Duration `mapstructure:"stuck_threshold"`
	StagnateThreshold   time.Duration `mapstructure:"stagnate_threshold"`
	NoProgressThreshold time.Duration `mapstructure:"no_progress_threshold"`
	NoProgressEpsilon   float64       `mapstructure:"no_progress_epsilon"`
	NudgeDuration       time.Duration `mapstructure:"nudge_duration"`
	// WandererSprintDistance is the player distance beyond which a chase sprints.
	WandererSprintDistance int `mapstructure:"wanderer_sprint_distance"`

	// Room hunter.
	VisionRange          int           `mapstructure:"vision_range"`
	ChaseTimeout         time.Duration `mapstructure:"chase_timeout"`
	HomeRadius           int           `mapstructure:"home_radius"`
	HunterSprintDistance int           `mapstructure:"hunter_sprint_distance"`

	// Wander critter.
	AvoidPlayerDistance  int           `mapstructure:"avoid_player_distance"`
	FleeSamples          int           `mapstructure:"flee_samples"`
	FleeTravelWeight     float64       `mapstructure:"flee_travel_weight"`
	PlayerDistanceWeight float64       `mapstructure:"player_distance_weight"`
	RespawnDelay         time.Duration `mapstructure:"respawn_delay"`
	MinRespawnDistance   int           `mapstructure:"min_respawn_distance"`
	RespawnSamples       int           `mapstructure:"respawn_samples"`

	// Teleport stalker.
	StalkerChaseRange       int           `mapstructure:"stalker_chase_range"`
	TeleportTriggerDistance int           `mapstructure:"teleport_trigger_distance"`
	TeleportCooldown        time.Duration `mapstructure:"teleport_cooldown"`
	MinTeleportDist         int           `mapstructure:"min_teleport_dist"`
	MaxTeleportDist         int           `mapstructure:"max_teleport_dist"`
	TeleportSamples         int           `mapstructure:"teleport_samples"`
	StalkerSprintDistance   int           `mapstructure:"stalker_sprint_distance"`

	// Speed jitter.
	JitterVisionRange int           `mapstructure:"jitter_vision_range"`
	FollowPlayer      bool          `mapstructure:"follow_player"`
	SlowDuration      time.Duration `mapstructure:"slow_duration"`
	SprintDuration    time.Duration `mapstructure:"sprint_duration"`
	SlowMultiplier    float64       `mapstructure:"slow_multiplier"`
	SprintMultiplier  float64       `mapstructure:"sprint_multiplier"`

	// Corridor guardian.
	GuardianSprintDistance int `mapstructure:"guardian_sprint_distance"`

	// Shy greeter.
	TooCloseDistance int `mapstructure:"too_close_distance"`
	GreetDistance    int `mapstructure:"greet_distance"`
	RoamRadius       int `mapstructure:"roam_radius"`
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		PlanInterval:        500 * time.Millisecond,
		VisitTTL:            45 * time.Second,
		TileSize:            1,
		SmoothPaths:         true,
		AvoidTTL:            3 * time.Second,
		FallbackRoomSamples: 3,

		ExploreSamples:     24,
		MinExploreDistance: 6,
		DistanceWeight:     0.35,
		NoveltyWeight:      4,
		RoomBonus:          1.5,
		CorridorPenalty:    1,
		RoomCenterBonus:    1,

		ChaseRange:          8,
		ChaseLoseMargin:     2,
		MaxChaseDuration:    12 * time.Second,
		StuckThreshold:      2 * time.Second,
		StagnateThreshold:   6 * time.Second,
		NoProgressThreshold: 1200 * time.Millisecond,
		NoProgressEpsilon:   0.05,
		NudgeDuration:       600 * time.Millisecond,

		WandererSprintDistance: 2,

		VisionRange:          8,
		ChaseTimeout:         4 * time.Second,
		HomeRadius:           6,
		HunterSprintDistance: 3,

		AvoidPlayerDistance:  5,
		FleeSamples:          20,
		FleeTravelWeight:     0.3,
		PlayerDistanceWeight: 0.25,
		RespawnDelay:         8 * time.Second,
		MinRespawnDistance:   10,
		RespawnSamples:       40,

		StalkerChaseRange:       10,
		TeleportTriggerDistance: 14,
		TeleportCooldown:        12 * time.Second,
		MinTeleportDist:         4,
		MaxTeleportDist:         8,
		TeleportSamples:         30,
		StalkerSprintDistance:   2,

		JitterVisionRange: 8,
		FollowPlayer:      true,
		SlowDuration:      2500 * time.Millisecond,
		SprintDuration:    1200 * time.Millisecond,
		SlowMultiplier:    0.6,
		SprintMultiplier:  1.7,

		GuardianSprintDistance: 2,

		TooCloseDistance: 2,
		GreetDistance:    5,
		RoamRadius:       6,
	}
}

// WithDefaults fills every zero numeric field from DefaultOptions. Boolean
// fields are taken as given.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()

	for _, n := range []*int{
		&o.FallbackRoomSamples, &o.ExploreSamples, &o.FleeSamples,
		&o.RespawnSamples, &o.TeleportSamples,
	} {
		if *n < 0 {
			*n = 0
		}
	}

	fill(&o.PlanInterval, d.PlanInterval)
	fill(&o.VisitTTL, d.VisitTTL)
	fill(&o.TileSize, d.TileSize)
	fill(&o.AvoidTTL, d.AvoidTTL)
	fill(&o.FallbackRoomSamples, d.FallbackRoomSamples)

	fill(&o.ExploreSamples, d.ExploreSamples)
	fill(&o.MinExploreDistance, d.MinExploreDistance)
	fill(&o.DistanceWeight, d.DistanceWeight)
	fill(&o.NoveltyWeight, d.NoveltyWeight)
	fill(&o.RoomBonus, d.RoomBonus)
	fill(&o.CorridorPenalty, d.CorridorPenalty)
	fill(&o.RoomCenterBonus, d.RoomCenterBonus)

	fill(&o.ChaseRange, d.ChaseRange)
	fill(&o.ChaseLoseMargin, d.ChaseLoseMargin)
	fill(&o.MaxChaseDuration, d.MaxChaseDuration)
	fill(&o.StuckThreshold, d.StuckThreshold)
	fill(&o.StagnateThreshold, d.StagnateThreshold)
	fill(&o.NoProgressThreshold, d.NoProgressThreshold)
	fill(&o.NoProgressEpsilon, d.NoProgressEpsilon)
	fill(&o.NudgeDuration, d.NudgeDuration)
	fill(&o.WandererSprintDistance, d.WandererSprintDistance)

	fill(&o.VisionRange, d.VisionRange)
	fill(&o.ChaseTimeout, d.ChaseTimeout)
	fill(&o.HomeRadius, d.HomeRadius)
	fill(&o.HunterSprintDistance, d.HunterSprintDistance)

	fill(&o.AvoidPlayerDistance, d.AvoidPlayerDistance)
	fill(&o.FleeSamples, d.FleeSamples)
	fill(&o.FleeTravelWeight, d.FleeTravelWeight)
	fill(&o.PlayerDistanceWeight, d.PlayerDistanceWeight)
	fill(&o.RespawnDelay, d.RespawnDelay)
	fill(&o.MinRespawnDistance, d.MinRespawnDistance)
	fill(&o.RespawnSamples, d.RespawnSamples)

	fill(&o.StalkerChaseRange, d.StalkerChaseRange)
	fill(&o.TeleportTriggerDistance, d.TeleportTriggerDistance)
	fill(&o.TeleportCooldown, d.TeleportCooldown)
	fill(&o.MinTeleportDist, d.MinTeleportDist)
	fill(&o.MaxTeleportDist, d.MaxTeleportDist)
	fill(&o.TeleportSamples, d.TeleportSamples)
	fill(&o.StalkerSprintDistance, d.StalkerSprintDistance)

	fill(&o.JitterVisionRange, d.JitterVisionRange)
	fill(&o.SlowDuration, d.SlowDuration)
	fill(&o.SprintDuration, d.SprintDuration)
	fill(&o.SlowMultiplier, d.SlowMultiplier)
	fill(&o.SprintMultiplier, d.SprintMultiplier)

	fill(&o.GuardianSprintDistance, d.GuardianSprintDistance)

	fill(&o.TooCloseDistance, d.TooCloseDistance)
	fill(&o.GreetDistance, d.GreetDistance)
	fill(&o.RoamRadius, d.RoamRadius)

	if o.MaxTeleportDist < o.MinTeleportDist {
		o.MaxTeleportDist = o.MinTeleportDist
	}
	return o
}

func fill[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}
