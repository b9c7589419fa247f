package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hemovault/bloodbank-api/internal/repository"
	"github.com/hemovault/bloodbank-api/pkg/logger"
	"github.com/hemovault/bloodbank-api/pkg/metrics"
)

type ExpirySweeperConfig struct {
	// Schedule is a cron expression; defaults to hourly when empty.
	Schedule string
	// OutboxRetention controls how long processed outbox rows are kept.
	OutboxRetention time.Duration
}

// ExpirySweeper periodically flips overdue AVAILABLE inventory rows to
// EXPIRED and prunes processed outbox events.
type ExpirySweeper struct {
	inventory repository.InventoryRepository
	outbox    repository.OutboxRepository
	config    ExpirySweeperConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
	cron      *cron.Cron
}

func NewExpirySweeper(
	inventory repository.InventoryRepository,
	outbox repository.OutboxRepository,
	config ExpirySweeperConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ExpirySweeper {
	if config.Schedule == "" {
		config.Schedule = "@hourly"
	}
	if config.OutboxRetention <= 0 {
		config.OutboxRetention = 7 * 24 * time.Hour
	}

	return &ExpirySweeper{
		inventory: inventory,
		outbox:    outbox,
		config:    config,
		logger:    logger,
		metrics:   metrics,
		cron:      cron.New(),
	}
}

func (s *ExpirySweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("starting expiry sweeper", "schedule", s.config.Schedule)
	s.cron.Start()

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.logger.Info("expiry sweeper stopped")
	}()

	return nil
}

// Sweep runs one pass immediately, outside the cron schedule.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	s.sweep(ctx)
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	now := time.Now()

	expired, err := s.inventory.ExpireBefore(ctx, now)
	if err != nil {
		s.logger.Error(err, "failed to expire inventory")
	} else if expired > 0 {
		s.metrics.InventoryExpired.Add(float64(expired))
		s.logger.Info("expired inventory rows", "count", expired)
	}

	pruned, err := s.outbox.DeleteProcessedBefore(ctx, now.Add(-s.config.OutboxRetention))
	if err != nil {
		s.logger.Error(err, "failed to prune outbox events")
	} else if pruned > 0 {
		s.logger.Info("pruned processed outbox events", "count", pruned)
	}
}
