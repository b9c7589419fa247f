package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
	"github.com/hemovault/bloodbank-api/pkg/security"
)

const bcryptCost = 12

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{
		repo:   repo,
		hasher: security.NewBcryptHasher(bcryptCost),
	}
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperrors.Forbidden("cannot view another user", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.UserFilter) ([]*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, apperrors.Forbidden("cannot edit another user", nil)
	}
	if req.Role != nil && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins may change roles", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user. Admin only; admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("admin access required", nil)
	}
	if actor.ID == id {
		return apperrors.Forbidden("cannot delete own account", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
