package appointment

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
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	if filter == nil {
		filter = &model.AppointmentFilter{}
	}
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !actor.IsAdmin() && apt.UserID != actor.ID {
		return nil, apperrors.Forbidden("cannot view another user's appointment", nil)
	}
	return apt, nil
}

// Create books an appointment for the calling donor or admin.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if actor.Role != model.RoleDonor && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("donor or admin access required", nil)
	}
	if !req.AppointmentDate.After(time.Now()) {
		return nil, apperrors.BadRequest("appointment date must be in the future", nil)
	}

	apt := &model.Appointment{
		UserID:          actor.ID,
		AppointmentDate: req.AppointmentDate,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !actor.IsAdmin() {
		if apt.UserID != actor.ID {
			return nil, apperrors.Forbidden("cannot edit another user's appointment", nil)
		}
		if req.Status != nil && *req.Status == model.AppointmentStatusCompleted {
			return nil, apperrors.Forbidden("only admins may complete appointments", nil)
		}
	}

	if req.AppointmentDate != nil {
		apt.AppointmentDate = *req.AppointmentDate
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	// Reschedules must stay in the future; cancellations are exempt.
	if req.AppointmentDate != nil && apt.Status != model.AppointmentStatusCancelled {
		if !apt.AppointmentDate.After(time.Now()) {
			return nil, apperrors.BadRequest("appointment date must be in the future", nil)
		}
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !actor.IsAdmin() && apt.UserID != actor.ID {
		return nil, apperrors.Forbidden("cannot delete another user's appointment", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete appointment: %w", err)
	}
	return apt, nil
}
