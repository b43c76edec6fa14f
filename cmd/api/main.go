package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/datesafe/verification-backend/internal/api/rest"
	"github.com/datesafe/verification-backend/internal/api/websocket"
	"github.com/datesafe/verification-backend/internal/infrastructure/cache"
	"github.com/datesafe/verification-backend/internal/infrastructure/config"
	"github.com/datesafe/verification-backend/internal/infrastructure/database"
	"github.com/datesafe/verification-backend/internal/infrastructure/repository"
	"github.com/datesafe/verification-backend/internal/infrastructure/telemetry"
	"github.com/datesafe/verification-backend/internal/metrics"
	"github.com/datesafe/verification-backend/internal/patterns"
	"github.com/datesafe/verification-backend/internal/service/conversation"
	"github.com/datesafe/verification-backend/internal/service/fusion"
	"github.com/datesafe/verification-backend/internal/service/photoanalysis"
	"github.com/datesafe/verification-backend/internal/service/profileverify"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    "dsv-api",
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	registry := patterns.Default()
	if cfg.Verification.PatternsFile != "" {
		registry, err = patterns.LoadFile(cfg.Verification.PatternsFile)
		if err != nil {
			logger.Fatal("failed to load pattern registry",
				zap.Error(err),
				zap.String("path", cfg.Verification.PatternsFile))
		}
		logger.Info("loaded pattern registry",
			zap.String("version", registry.Version()),
			zap.String("path", cfg.Verification.PatternsFile))
	}

	handlerOpts := []rest.HandlerOption{}

	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(&cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		handlerOpts = append(handlerOpts,
			rest.WithResultCache(cache.NewResultCache(redisCache, cfg.Redis.CacheTTL, logger)))
	} else {
		logger.Info("redis not configured, result memoization disabled")
	}

	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		handlerOpts = append(handlerOpts,
			rest.WithResultStore(repository.NewVerificationRepository(pool)),
			rest.WithReadinessCheck(pool.Ping))
	} else {
		logger.Info("database not configured, result history disabled")
	}

	// Forensic and web-presence backends plug in here. Without them the
	// providers degrade to neutral signals for the inputs they cannot
	// inspect, which keeps the pipeline total.
	photoSvc := photoanalysis.NewService(nil, nil, nil, logger)
	convSvc := conversation.NewService(registry, logger)
	profileSvc := profileverify.NewService(nil, logger)
	profiles := profileverify.NewBoundVerifier(profileSvc, nil)

	engine := fusion.NewEngine(photoSvc, convSvc, profiles,
		cfg.Verification.ProviderTimeout, logger)

	metricsReg := metrics.NewRegistry()
	engine.OnProviderFailure = func(provider string) {
		metricsReg.ProviderFailures.WithLabelValues(provider).Inc()
	}

	hub := websocket.NewEventHub(logger)
	hub.OnSubscriberCount = func(n int) { metricsReg.EventSubscribers.Set(float64(n)) }
	go hub.Run(ctx)
	defer hub.Stop()
	handlerOpts = append(handlerOpts,
		rest.WithEventPublisher(hub),
		rest.WithMetrics(metricsReg))

	handler := rest.NewHandler(engine, logger, handlerOpts...)
	router := rest.NewRouter(rest.RouterDeps{
		Handler: handler,
		Events:  hub.HandleEvents,
		Metrics: metricsReg,
		Logger:  logger,
		Config:  cfg,
	})

	server := rest.NewServer(&cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
