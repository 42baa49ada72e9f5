package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Justin21523/procedural-3d-maze/api/rest"
	"github.com/Justin21523/procedural-3d-maze/api/sse"
	"github.com/Justin21523/procedural-3d-maze/cache"
	"github.com/Justin21523/procedural-3d-maze/config"
	dbadapter "github.com/Justin21523/procedural-3d-maze/db"
	"github.com/Justin21523/procedural-3d-maze/game/world"
	"github.com/Justin21523/procedural-3d-maze/journal"
	mw "github.com/Justin21523/procedural-3d-maze/middleware"
	"github.com/Justin21523/procedural-3d-maze/model"
	"github.com/Justin21523/procedural-3d-maze/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Journal ----
	events := journal.New(db, logger)

	// ---- Cache / PubSub ----
	store, pubsub, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	defer store.Close()
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Maze ----
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	grid := world.Generate(world.GenConfig{
		Width:     cfg.Sim.Width,
		Height:    cfg.Sim.Height,
		RoomCount: cfg.Sim.RoomCount,
		RoomMin:   cfg.Sim.RoomMin,
		RoomMax:   cfg.Sim.RoomMax,
		Seed:      seed,
	})
	start, ok := grid.FindRandomWalkableTile()
	if cfg.Sim.PlayerStart != nil {
		start, ok = *cfg.Sim.PlayerStart, grid.IsWalkable(*cfg.Sim.PlayerStart)
	}
	if !ok {
		log.Fatalf("sim: player start %v is not walkable", start)
	}
	player := world.NewPlayer(start, cfg.Sim.TileSize)

	// ---- Sim ----
	tick := time.Duration(cfg.Sim.TickMs) * time.Millisecond
	simID := uuid.NewString()
	pub := world.NewCachePublisher(store, pubsub, simID, cfg.Sim.FeedLength, 10*tick*time.Duration(cfg.Sim.PublishEvery))
	sim := world.NewSim(grid, player, world.SimConfig{
		ID:           simID,
		Seed:         seed,
		Tick:         tick,
		PublishEvery: cfg.Sim.PublishEvery,
		Movement: world.Movement{
			TileSize:     cfg.Sim.TileSize,
			Speed:        cfg.Sim.MonsterSpeed,
			SprintFactor: cfg.Sim.SprintFactor,
		},
		Options: cfg.AI,
	}, events, pub, logger)

	groups := make([]world.SpawnConfig, len(cfg.Monsters))
	for i, m := range cfg.Monsters {
		groups[i] = world.SpawnConfig{Brain: m.Brain, Name: m.Name, Count: m.Count, At: m.At, Overrides: m.Overrides}
	}
	monsters, err := world.NewSpawner(sim, logger).SpawnAll(groups)
	if err != nil {
		log.Fatalf("spawn: %v", err)
	}

	run := &model.SimRun{
		ID:       simID,
		Seed:     seed,
		Width:    grid.Width,
		Height:   grid.Height,
		Rooms:    len(grid.Rooms()),
		Monsters: len(monsters),
	}
	if err := journal.StartRun(ctx, db, run); err != nil {
		logger.Warn("record sim run failed", zap.Error(err))
	}
	logger.Info("Sim ready",
		zap.String("sim", simID), zap.Int64("seed", seed),
		zap.Int("rooms", run.Rooms), zap.Int("monsters", run.Monsters))

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		sim.Run(ctx)
	}()

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	sched.Every("run_checkpoint", cfg.Sim.CheckpointInterval, func(ctx context.Context) error {
		return journal.CheckpointRun(ctx, db, simID, sim.FrameCount())
	})
	if cfg.Database.EventRetention > 0 {
		sched.Every("prune_events", cfg.Database.PruneInterval, func(ctx context.Context) error {
			n, err := journal.Prune(ctx, db, time.Now().Add(-cfg.Database.EventRetention))
			if n > 0 {
				logger.Info("pruned journal", zap.Int64("rows", n))
			}
			return err
		})
	}

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger, "/api/health", "/api/stream"), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	rest.Register(r.Group("/api"), rest.Deps{
		Sim:       sim,
		Publisher: pub,
		DB:        db,
		Jobs:      sched,
		AdminKey:  cfg.Server.AdminKey,
		Logger:    logger,
	})

	// ---- SSE ----
	sseH := sse.NewHandler(pub, cfg.Security, logger)
	r.GET("/api/stream", sseH.ServeSSE)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	<-simDone
	sched.Stop()

	if err := journal.FinishRun(shutdownCtx, db, simID, sim.FrameCount()); err != nil {
		logger.Warn("finish sim run failed", zap.Error(err))
	}
	if err := pub.Clear(shutdownCtx); err != nil {
		logger.Warn("clear published frames failed", zap.Error(err))
	}
	events.Stop(shutdownCtx)
}
