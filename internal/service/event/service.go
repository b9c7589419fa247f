package event

import (
	"context"
	"fmt"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

// Service persists domain events to the outbox table
type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateEvent(ctx context.Context, event *model.OutboxEvent) error {
	if err := s.repo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to persist event: %w", err)
	}
	return nil
}
