package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gartstein/onboarding/internal/onboarding/auth"
	"github.com/gartstein/onboarding/internal/onboarding/config"
	"github.com/gartstein/onboarding/internal/onboarding/controller"
	"github.com/gartstein/onboarding/internal/onboarding/db"
	"github.com/gartstein/onboarding/internal/onboarding/events"
	"github.com/gartstein/onboarding/internal/onboarding/handlers"
	"github.com/gartstein/onboarding/internal/onboarding/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
)

type eventProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("internal", "onboarding", "config", "config.yaml")
	}

	cfg, err := config.Load(configPath, ".env", ".env.local")
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to load config", zap.Error(err))
	}

	logger := initLogger(cfg.LogLevel)
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	repo, err := db.NewRepository(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.EnsureRoles(context.Background(), cfg.SeedRoles...); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err), zap.Strings("roles", cfg.SeedRoles))
	}

	producer := initProducer(cfg, logger)
	defer producer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	onboardingSvc := controller.NewOnboardingService(repo, producer, m, logger)

	// Initialize auth interceptor
	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret, handlers.AdminMethods...)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(handlers.NewOnboardingHandler(onboardingSvc, logger))

	httpHandler := handlers.NewHTTPHandler(onboardingSvc, m, logger)
	if err := server.RegisterHTTPGateway(httpHandler, metrics.Handler(reg), cfg.JWTSecret); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger builds a production logger at level, falling back to info.
func initLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

// initProducer publishes to Kafka when brokers are configured and only logs otherwise.
func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, events will not be published")
		return events.NewNopProducer(logger)
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return producer
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
