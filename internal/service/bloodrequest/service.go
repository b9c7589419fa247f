package bloodrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hemovault/bloodbank-api/internal/email"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type Service struct {
	repo     repository.BloodRequestRepository
	userRepo repository.UserRepository
	emailSvc email.Service
}

func NewService(repo repository.BloodRequestRepository, userRepo repository.UserRepository, emailSvc email.Service) *Service {
	return &Service{repo: repo, userRepo: userRepo, emailSvc: emailSvc}
}

func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.BloodRequestFilter) ([]*model.BloodRequest, error) {
	if filter == nil {
		filter = &model.BloodRequestFilter{}
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleRecipient:
		filter.RequesterID = actor.ID
	default:
		return nil, apperrors.Forbidden("recipient or admin access required", nil)
	}

	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}
	return requests, nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.BloodRequest, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get blood request: %w", err)
	}
	if !actor.IsAdmin() && req.RequesterID != actor.ID {
		return nil, apperrors.Forbidden("cannot view another user's request", nil)
	}
	return req, nil
}

// Create opens a new request for the calling recipient. Status is always
// PENDING regardless of input.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateBloodRequestRequest) (*model.BloodRequest, error) {
	if actor.Role != model.RoleRecipient && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("recipient or admin access required", nil)
	}

	request := &model.BloodRequest{
		RequesterID: actor.ID,
		BloodType:   req.BloodType,
		Quantity:    req.Quantity,
		Urgency:     req.Urgency,
		Status:      model.RequestStatusPending,
		Notes:       req.Notes,
		RequestDate: time.Now(),
	}
	if request.Urgency == "" {
		request.Urgency = model.UrgencyNormal
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create blood request: %w", err)
	}
	return request, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateBloodRequestRequest) (*model.BloodRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get blood request: %w", err)
	}

	if !actor.IsAdmin() {
		if request.RequesterID != actor.ID {
			return nil, apperrors.Forbidden("cannot edit another user's request", nil)
		}
		if request.Status != model.RequestStatusPending {
			return nil, apperrors.Forbidden("only pending requests can be edited", nil)
		}
		// Recipients may adjust urgency, notes, or cancel. Nothing else.
		if req.BloodInventoryID != nil || req.BloodType != nil || req.Quantity != nil {
			return nil, apperrors.Forbidden("recipients may only change urgency, notes, or cancel", nil)
		}
		if req.Status != nil && *req.Status != model.RequestStatusCancelled {
			return nil, apperrors.Forbidden("recipients may only cancel", nil)
		}
	}

	if req.BloodInventoryID != nil {
		request.BloodInventoryID = req.BloodInventoryID
	}
	if req.BloodType != nil {
		request.BloodType = *req.BloodType
	}
	if req.Quantity != nil {
		request.Quantity = *req.Quantity
	}
	if req.Urgency != nil {
		request.Urgency = *req.Urgency
	}
	if req.Notes != nil {
		request.Notes = *req.Notes
	}

	fulfilling := req.Status != nil &&
		*req.Status == model.RequestStatusFulfilled &&
		request.Status != model.RequestStatusFulfilled

	if req.Status != nil {
		request.Status = *req.Status
	}

	if fulfilling {
		if request.BloodInventoryID == nil {
			return nil, apperrors.BadRequest("fulfilling a request requires blood_inventory_id", nil)
		}
		if err := s.repo.Fulfill(ctx, request, *request.BloodInventoryID); err != nil {
			return nil, fmt.Errorf("failed to fulfill blood request: %w", err)
		}
		s.notifyFulfilled(ctx, request)
		return request, nil
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update blood request: %w", err)
	}
	return request, nil
}

func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.BloodRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get blood request: %w", err)
	}

	if !actor.IsAdmin() {
		if request.RequesterID != actor.ID {
			return nil, apperrors.Forbidden("cannot delete another user's request", nil)
		}
		if request.Status != model.RequestStatusPending {
			return nil, apperrors.Forbidden("only pending requests can be deleted", nil)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete blood request: %w", err)
	}
	return request, nil
}

func (s *Service) notifyFulfilled(ctx context.Context, request *model.BloodRequest) {
	requester, err := s.userRepo.Get(ctx, request.RequesterID)
	if err != nil {
		log.Warn().Err(err).Str("request_id", request.ID.String()).Msg("failed to load requester for notification")
		return
	}
	if err := s.emailSvc.SendRequestFulfilled(requester.Email, requester.Name, string(request.BloodType)); err != nil {
		log.Warn().Err(err).Str("email", requester.Email).Msg("failed to send fulfillment notice")
	}
}
