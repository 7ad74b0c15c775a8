// Command server runs the skill-exchange HTTP API and chat relay.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/xchange/skill-exchange/internal/api"
	"github.com/xchange/skill-exchange/internal/api/handler"
	"github.com/xchange/skill-exchange/internal/api/metrics"
	"github.com/xchange/skill-exchange/internal/core/service"
	"github.com/xchange/skill-exchange/internal/infrastructure/config"
	"github.com/xchange/skill-exchange/internal/infrastructure/db/mongo"
	"github.com/xchange/skill-exchange/internal/infrastructure/db/redis"
	"github.com/xchange/skill-exchange/internal/infrastructure/queue"
	"github.com/xchange/skill-exchange/internal/infrastructure/realtime"
	"github.com/xchange/skill-exchange/internal/infrastructure/storage"
	"github.com/xchange/skill-exchange/pkg/logger"
)

// @title        Skill Exchange API
// @version      1.0
// @description  Users, posts, connections, ratings and direct messages for a skill-exchange community.
// @BasePath     /api

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "skill-exchange",
	})

	// --- Storage ---
	store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	users := mongo.NewUserRepository(store.DB)
	messages := mongo.NewMessageRepository(store.DB)
	if err := mongo.EnsureIndexes(ctx, users, messages); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	checks := map[string]handler.Check{"mongodb": store.Ping}
	hubOpts := []realtime.HubOption{realtime.WithActiveGauge(metrics.WebSocketConnections)}

	var rdb *goredis.Client
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		hubOpts = append(hubOpts, realtime.WithPresence(redis.NewPresence(rdb)))
	} else {
		log.Info().Msg("REDIS_ADDR not set, presence is process-local")
	}

	files, err := storage.NewDisk(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare upload directory")
	}

	// --- Core ---
	serial := queue.NewSerializer(cfg.MutationWorkers, logger.Component("serializer"),
		queue.WithDepthGauge(metrics.MutationQueueDepth))
	// Workers outlive the signal so in-flight requests can finish during shutdown.
	serialCtx, stopSerial := context.WithCancel(context.Background())
	defer stopSerial()
	serial.Start(serialCtx)

	userService := service.NewUserService(users, logger.Component("users"))
	postService := service.NewPostService(users, serial, logger.Component("posts"))
	connectionService := service.NewConnectionService(users, serial, logger.Component("connections"))
	ratingService := service.NewRatingService(users, serial, logger.Component("ratings"))
	chatService := service.NewChatService(messages, users, logger.Component("chat"))

	// --- Relay ---
	hub := realtime.NewHub(logger.Component("hub"), hubOpts...)
	relay := realtime.NewRelay(hub, chatService, logger.Component("relay"),
		realtime.WithAllowedOrigins(cfg.AllowedOrigins()),
		realtime.WithOutcomeCounter(metrics.RelayMessagesTotal))

	e := api.NewRouter(api.Deps{
		Logger:         log,
		Users:          userService,
		Posts:          postService,
		Connections:    connectionService,
		Ratings:        ratingService,
		Chat:           chatService,
		Files:          files,
		UploadDir:      files.Dir(),
		Presence:       hub,
		Relay:          relay,
		Checks:         checks,
		AllowedOrigins: cfg.AllowedOrigins(),
		BodyLimit:      cfg.BodyLimit(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopSerial()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close mongodb")
	}
}
