package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

// List is a public read, ordered by update time.
func (s *Service) List(ctx context.Context, filter *model.InventoryFilter) ([]*model.BloodInventory, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.BloodInventory, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory row: %w", err)
	}
	return inv, nil
}

func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateInventoryRequest) (*model.BloodInventory, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	inv := &model.BloodInventory{
		BloodType:  req.BloodType,
		Quantity:   req.Quantity,
		ExpiryDate: req.ExpiryDate,
		Status:     req.Status,
	}
	if inv.Status == "" {
		inv.Status = model.InventoryStatusAvailable
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create inventory row: %w", err)
	}
	return inv, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateInventoryRequest) (*model.BloodInventory, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory row: %w", err)
	}

	if req.BloodType != nil {
		inv.BloodType = *req.BloodType
	}
	if req.Quantity != nil {
		inv.Quantity = *req.Quantity
	}
	if req.ExpiryDate != nil {
		inv.ExpiryDate = *req.ExpiryDate
	}
	if req.Status != nil {
		inv.Status = *req.Status
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update inventory row: %w", err)
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.BloodInventory, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory row: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete inventory row: %w", err)
	}
	return inv, nil
}

// ExpireStale flips AVAILABLE rows past their expiry date to EXPIRED.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.ExpireBefore(ctx, now)
}
