package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/config"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository/postgres"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/worker"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/logger"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/messaging/redis"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/metrics"
)

// WorkerConfig comes from the environment; the worker runs in
// containers where a config file is not mounted.
type WorkerConfig struct {
	DatabaseHost     string `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DatabaseName     string `envconfig:"DB_NAME" default:"randevu"`
	DatabaseSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	RedisURL         string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
}

func main() {
	var cfg WorkerConfig
	if err := envconfig.Process("worker", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Name:     cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.New("randevu_worker")
	outboxRepo := postgres.NewOutboxRepository(db)
	processor := worker.NewOutboxProcessor(outboxRepo, broker, m, *appLogger.Zerolog())

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)

	log.Info().Msg("outbox worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker...")
	cancel()
	time.Sleep(time.Second)
}
