package config

import (
	"time"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Security SecurityConfig  `mapstructure:"security"`
	Sim      SimConfig       `mapstructure:"sim"`
	AI       ai.Options      `mapstructure:"ai"`
	Monsters []MonsterConfig `mapstructure:"monsters"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"` // empty disables the admin routes
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | memory | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
	// EventRetention bounds how long journal rows are kept; 0 keeps them forever.
	EventRetention time.Duration `mapstructure:"event_retention"`
	PruneInterval  time.Duration `mapstructure:"prune_interval"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	// AllowedOrigins lists the origins permitted on the SSE stream.
	// An empty slice allows all origins (useful for local development only).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SimConfig describes the generated maze and the frame loop.
type SimConfig struct {
	TickMs       int     `mapstructure:"tick_ms"`
	Seed         int64   `mapstructure:"seed"` // 0 = time based
	PublishEvery int     `mapstructure:"publish_every"`
	FeedLength   int     `mapstructure:"feed_length"`
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	RoomCount    int     `mapstructure:"room_count"`
	RoomMin      int     `mapstructure:"room_min"`
	RoomMax      int     `mapstructure:"room_max"`
	TileSize     float64 `mapstructure:"tile_size"`
	MonsterSpeed float64 `mapstructure:"monster_speed"`
	SprintFactor float64 `mapstructure:"sprint_factor"`
	// CheckpointInterval is how often the run row gets its frame count.
	CheckpointInterval time.Duration `mapstructure:"checkpoint_interval"`
	// PlayerStart places the player; nil picks a random walkable tile.
	PlayerStart *ai.Cell `mapstructure:"player_start"`
}

// MonsterConfig is one spawn entry.
type MonsterConfig struct {
	Brain     string       `mapstructure:"brain"`
	Name      string       `mapstructure:"name"`
	Count     int          `mapstructure:"count"`
	At        *ai.Cell     `mapstructure:"at"`
	Overrides ai.Overrides `mapstructure:",squash"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Default returns the configuration Load would produce for an empty file.
func Default() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.AI = cfg.AI.WithDefaults()
	if len(cfg.Monsters) == 0 {
		cfg.Monsters = defaultMonsters()
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/maze.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("database.event_retention", "24h")
	v.SetDefault("database.prune_interval", "10m")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)
	v.SetDefault("sim.tick_ms", 50)
	v.SetDefault("sim.publish_every", 4)
	v.SetDefault("sim.feed_length", 200)
	v.SetDefault("sim.width", 41)
	v.SetDefault("sim.height", 41)
	v.SetDefault("sim.room_count", 9)
	v.SetDefault("sim.room_min", 3)
	v.SetDefault("sim.room_max", 7)
	v.SetDefault("sim.tile_size", 1.0)
	v.SetDefault("sim.monster_speed", 3.0)
	v.SetDefault("sim.sprint_factor", 1.6)
	v.SetDefault("sim.checkpoint_interval", "30s")

	d := ai.DefaultOptions()
	v.SetDefault("ai.plan_interval", d.PlanInterval)
	v.SetDefault("ai.visit_ttl", d.VisitTTL)
	v.SetDefault("ai.smooth_paths", d.SmoothPaths)
	v.SetDefault("ai.follow_player", d.FollowPlayer)
	v.SetDefault("ai.max_chase_duration", d.MaxChaseDuration)
	v.SetDefault("ai.chase_timeout", d.ChaseTimeout)
	v.SetDefault("ai.teleport_cooldown", d.TeleportCooldown)
	v.SetDefault("ai.respawn_delay", d.RespawnDelay)
}

// defaultMonsters spawns one of every brain.
func defaultMonsters() []MonsterConfig {
	out := make([]MonsterConfig, 0, len(ai.Types))
	for _, t := range ai.Types {
		out = append(out, MonsterConfig{Brain: string(t), Count: 1})
	}
	return out
}
