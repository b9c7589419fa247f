package donation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type Service struct {
	repo     repository.DonationRepository
	userRepo repository.UserRepository
}

func NewService(repo repository.DonationRepository, userRepo repository.UserRepository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// List returns all donations for admins and own donations for donors.
func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.DonationFilter) ([]*model.Donation, error) {
	if filter == nil {
		filter = &model.DonationFilter{}
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleDonor:
		filter.DonorID = actor.ID
	default:
		return nil, apperrors.Forbidden("donor or admin access required", nil)
	}

	donations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Donation, error) {
	donation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	if !actor.IsAdmin() && donation.DonorID != actor.ID {
		return nil, apperrors.Forbidden("cannot view another donor's donation", nil)
	}
	return donation, nil
}

func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateDonationRequest) (*model.Donation, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	donor, err := s.userRepo.Get(ctx, req.DonorID)
	if err != nil {
		return nil, apperrors.BadRequest("donor not found", err)
	}
	if donor.Role != model.RoleDonor {
		return nil, apperrors.BadRequest("donor_id must reference a user with the DONOR role", nil)
	}

	donation := &model.Donation{
		DonorID:      req.DonorID,
		BloodType:    req.BloodType,
		DonationDate: req.DonationDate,
		Quantity:     req.Quantity,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if donation.Status == "" {
		donation.Status = model.DonationStatusScheduled
	}

	// A known blood type means the unit is banked right away.
	if donation.BloodType != nil {
		inv := s.inventoryFor(donation)
		if err := s.repo.CreateWithInventory(ctx, donation, inv); err != nil {
			return nil, fmt.Errorf("failed to create donation: %w", err)
		}
		return donation, nil
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	return donation, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateDonationRequest) (*model.Donation, error) {
	donation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	if !actor.IsAdmin() {
		if donation.DonorID != actor.ID {
			return nil, apperrors.Forbidden("cannot edit another donor's donation", nil)
		}
		// Donors may cancel a scheduled donation or edit notes, nothing else.
		if req.BloodType != nil || req.DonationDate != nil || req.Quantity != nil {
			return nil, apperrors.Forbidden("donors may only cancel or edit notes", nil)
		}
		if req.Status != nil {
			if *req.Status != model.DonationStatusCancelled {
				return nil, apperrors.Forbidden("donors may only cancel", nil)
			}
			if donation.Status != model.DonationStatusScheduled {
				return nil, apperrors.BadRequest("only scheduled donations can be cancelled", nil)
			}
		}
	}

	wasCompleted := donation.Status == model.DonationStatusCompleted

	if req.BloodType != nil {
		donation.BloodType = req.BloodType
	}
	if req.DonationDate != nil {
		donation.DonationDate = *req.DonationDate
	}
	if req.Quantity != nil {
		donation.Quantity = *req.Quantity
	}
	if req.Status != nil {
		donation.Status = *req.Status
	}
	if req.Notes != nil {
		donation.Notes = *req.Notes
	}

	completing := donation.Status == model.DonationStatusCompleted && !wasCompleted

	// Completing a donation banks the unit, once.
	if completing && donation.BloodInventoryID == nil && donation.BloodType != nil {
		inv := s.inventoryFor(donation)
		if err := s.repo.CompleteWithInventory(ctx, donation, inv); err != nil {
			return nil, fmt.Errorf("failed to complete donation: %w", err)
		}
		return donation, nil
	}

	if err := s.repo.Update(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	return donation, nil
}

// Delete removes a donation and its linked inventory row, reserved or not.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Donation, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	donation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete donation: %w", err)
	}
	return donation, nil
}

func (s *Service) inventoryFor(donation *model.Donation) *model.BloodInventory {
	return &model.BloodInventory{
		BloodType:  *donation.BloodType,
		Quantity:   donation.Quantity,
		ExpiryDate: donation.DonationDate.Add(model.ShelfLife),
		Status:     model.InventoryStatusAvailable,
	}
}
