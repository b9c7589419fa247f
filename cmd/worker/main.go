package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hemovault/bloodbank-api/internal/repository/postgres"
	"github.com/hemovault/bloodbank-api/pkg/logger"
	"github.com/hemovault/bloodbank-api/pkg/messaging/redis"
	"github.com/hemovault/bloodbank-api/pkg/metrics"
	"github.com/hemovault/bloodbank-api/pkg/worker"
)

// Spec holds worker configuration, read from WORKER_* environment variables.
type Spec struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL        string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	HealthAddr      string        `envconfig:"HEALTH_ADDR" default:":8081"`
	BatchSize       int           `envconfig:"BATCH_SIZE" default:"100"`
	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	RetryAttempts   int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay      time.Duration `envconfig:"RETRY_DELAY" default:"5s"`
	SweepSchedule   string        `envconfig:"SWEEP_SCHEDULE" default:"@hourly"`
	OutboxRetention time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`
}

func main() {
	var spec Spec
	if err := envconfig.Process("worker", &spec); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker config")
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	lg := &logger.Logger{ZL: log.Logger}

	db, err := sqlx.Connect("postgres", spec.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: spec.RedisURL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	base := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)
	inventoryRepo := postgres.NewInventoryRepository(base)

	m := metrics.New("bloodbank_worker")

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     spec.BatchSize,
			PollInterval:  spec.PollInterval,
			RetryAttempts: spec.RetryAttempts,
			RetryDelay:    spec.RetryDelay,
		},
		lg,
		m,
	)

	sweeper := worker.NewExpirySweeper(
		inventoryRepo,
		outboxRepo,
		worker.ExpirySweeperConfig{
			Schedule:        spec.SweepSchedule,
			OutboxRetention: spec.OutboxRetention,
		},
		lg,
		m,
	)

	setupHealthCheck(spec.HealthAddr, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("shutting down...")
		cancel()
	}()

	if err := sweeper.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start expiry sweeper")
	}

	processor.Start(ctx)
}

func setupHealthCheck(addr string, lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			lg.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
