package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/snapbite/snapbite/config"
	appmodel "github.com/snapbite/snapbite/internal/app/model"
	apprepository "github.com/snapbite/snapbite/internal/app/repository"
	appserver "github.com/snapbite/snapbite/internal/app/server"
	appservice "github.com/snapbite/snapbite/internal/app/service"
	httputil "github.com/snapbite/snapbite/internal/http/util"
	"github.com/snapbite/snapbite/internal/infra/logger"
	infraNATS "github.com/snapbite/snapbite/internal/infra/nats"
	infraPostgres "github.com/snapbite/snapbite/internal/infra/postgres"
	infraPrometheus "github.com/snapbite/snapbite/internal/infra/prometheus"
	infraRedis "github.com/snapbite/snapbite/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.Int("app_port", cfg.App.Port),
		zap.String("postgres_user", cfg.Postgres.User),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
		zap.Duration("sweep_interval", cfg.App.SweepInterval),
	)

	if cfg.App.AuthSecret == "" {
		log.Fatal("AUTH_SECRET must be configured")
	}

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.User{},
		&appmodel.Follow{},
		&appmodel.Establishment{},
		&appmodel.Story{},
		&appmodel.StoryView{},
		&appmodel.Highlight{},
		&appmodel.StoryViewEvent{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	storyRepo := apprepository.NewStoryRepository(gormDB)
	highlightRepo := apprepository.NewHighlightRepository(gormDB)
	userRepo := apprepository.NewUserRepository(gormDB)
	establishmentRepo := apprepository.NewEstablishmentRepository(gormDB)
	viewEventRepo := apprepository.NewViewEventRepository(gormDB)

	feedCache := appservice.NewFeedCache(redisClient, cfg.App.FeedCacheTTL, log)
	viewPublisher := appservice.NewNATSViewPublisher(js)

	storyService := appservice.NewStoryService(appservice.StoryServiceDeps{
		Logger:         log,
		Stories:        storyRepo,
		Establishments: establishmentRepo,
		Publisher:      viewPublisher,
		FeedCache:      feedCache,
	})
	feedService := appservice.NewFeedService(appservice.FeedServiceDeps{
		Logger:     log,
		Stories:    storyRepo,
		Highlights: highlightRepo,
		Users:      userRepo,
		Cache:      feedCache,
	})
	highlightService := appservice.NewHighlightService(highlightRepo, storyRepo, nil)

	viewConsumer := appservice.NewViewConsumer(js, log, viewEventRepo)
	if err := viewConsumer.Start(); err != nil {
		log.Fatal("Failed to start view event consumer", zap.Error(err))
	}

	sweeper := appservice.NewExpirySweeper(log, storyService, cfg.App.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	signer := httputil.NewSessionSigner([]byte(cfg.App.AuthSecret), cfg.App.TokenTTL)

	server := appserver.New(appserver.Dependencies{
		Logger:         log,
		Postgres:       pool,
		Redis:          redisClient,
		Signer:         signer,
		Stories:        storyService,
		Feed:           feedService,
		Highlights:     highlightService,
		Users:          userRepo,
		Establishments: establishmentRepo,
	})

	if err := server.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
