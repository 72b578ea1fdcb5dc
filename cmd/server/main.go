package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/config"
	"github.com/iliyamo/union-raid-tracker/internal/database"
	"github.com/iliyamo/union-raid-tracker/internal/handler"
	"github.com/iliyamo/union-raid-tracker/internal/logger"
	"github.com/iliyamo/union-raid-tracker/internal/metrics"
	"github.com/iliyamo/union-raid-tracker/internal/middleware"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
	"github.com/iliyamo/union-raid-tracker/internal/realtime"
	"github.com/iliyamo/union-raid-tracker/internal/repository"
	"github.com/iliyamo/union-raid-tracker/internal/router"
	queuepublisher "github.com/iliyamo/union-raid-tracker/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Get().Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Realtime pipeline: mutations publish to the broker, the consumer feeds
	// the hub, the hub fans out to websocket subscribers per union.
	hub := realtime.NewHub()
	defer hub.Close()
	go queue.StartRowChangeConsumer(hub)
	events := queuepublisher.New()

	unions := repository.NewUnionRepo(db)
	seasons := repository.NewSeasonRepo(db)
	bosses := repository.NewBossRepo(db)
	members := repository.NewMemberRepo(db)
	schedules := repository.NewScheduleRepo(db)
	mocks := repository.NewMockBattleRepo(db)
	raids := repository.NewRaidBattleRepo(db)
	sync := repository.NewSyncRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(logger.Get()))
	e.Use(metrics.Middleware())

	// Redis is optional: without it the server runs uncached and unthrottled,
	// which is fine for a single small deployment.
	var cacheMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		logger.Sugar().Warn("redis unavailable: response cache and rate limiting disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Auth:        handler.NewAuthHandler(unions),
		Data:        handler.NewDataHandler(seasons, sync),
		Seasons:     handler.NewSeasonHandler(seasons, events),
		Bosses:      handler.NewBossHandler(bosses, events),
		Members:     handler.NewMemberHandler(members, events),
		Schedules:   handler.NewScheduleHandler(schedules, seasons, events),
		MockBattles: handler.NewMockBattleHandler(mocks, members, seasons, events),
		RaidBattles: handler.NewRaidBattleHandler(raids, members, seasons, events, cfg.RaidLocation),
		Realtime:    handler.NewRealtimeHandler(hub),
	}, cacheMW)
	router.RegisterAdmin(e, handler.NewUnionAdminHandler(unions, cfg.BcryptCost), cfg.SuperAdminToken)

	addr := ":" + cfg.Port
	logger.Sugar().Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
