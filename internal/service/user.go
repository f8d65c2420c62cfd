package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/repository"
)

// UserService handles account-state logic: status changes and the
// consumption side of activation links
type UserService struct {
	userRepo repository.UserRepository
	tokens   *TokenGenerator
	notify   *NotifyService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, tokens *TokenGenerator, notify *NotifyService) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		notify:   notify,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// SetIsActive updates the user's active flag and enqueues the status
// notification email
func (s *UserService) SetIsActive(ctx context.Context, userID int64, isActive bool, changedBy string) (*domain.User, error) {
	// Update status
	if err := s.userRepo.SetIsActive(ctx, userID, isActive); err != nil {
		return nil, err
	}

	// Get updated user
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.notify.UserStatusChanged(ctx, userID, changedBy); err != nil {
		return nil, err
	}

	return user, nil
}

// Activate consumes an activation link: the token must match the user's
// current state and the stored key must not be expired. On success the
// account becomes active and the key is cleared, making the link single-use.
func (s *UserService) Activate(ctx context.Context, uid, token string) (*domain.User, error) {
	userID, err := DecodeUID(uid)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ActivationKey == "" {
		return nil, domain.ErrInvalidToken
	}
	if user.KeyExpires != nil && time.Now().After(*user.KeyExpires) {
		return nil, domain.ErrTokenExpired
	}

	if err := s.tokens.VerifyActivationToken(user, token); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetIsActive(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	if err := s.userRepo.ClearActivationKey(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear activation key: %w", err)
	}

	user.IsActive = true
	user.ActivationKey = ""
	user.KeyExpires = nil

	return user, nil
}
