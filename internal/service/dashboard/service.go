package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type Service struct {
	userRepo        repository.UserRepository
	inventoryRepo   repository.InventoryRepository
	donationRepo    repository.DonationRepository
	appointmentRepo repository.AppointmentRepository
	requestRepo     repository.BloodRequestRepository
}

func NewService(
	userRepo repository.UserRepository,
	inventoryRepo repository.InventoryRepository,
	donationRepo repository.DonationRepository,
	appointmentRepo repository.AppointmentRepository,
	requestRepo repository.BloodRequestRepository,
) *Service {
	return &Service{
		userRepo:        userRepo,
		inventoryRepo:   inventoryRepo,
		donationRepo:    donationRepo,
		appointmentRepo: appointmentRepo,
		requestRepo:     requestRepo,
	}
}

// Stats recomputes all dashboard aggregates. No caching.
func (s *Service) Stats(ctx context.Context, actor model.Actor) (*model.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	users, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	available, err := s.inventoryRepo.SumAvailableByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inventory: %w", err)
	}

	donations, err := s.donationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}

	appointments, err := s.appointmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	requests, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.appointmentRepo.CountBetween(ctx, startOfDay, startOfDay.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to count today's appointments: %w", err)
	}

	return &model.DashboardStats{
		Users:             *users,
		AvailableByType:   available,
		Donations:         *donations,
		Appointments:      *appointments,
		Requests:          *requests,
		AppointmentsToday: today,
	}, nil
}
