package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aidar/crm-notify/internal/domain"
)

// EventPublisher puts notification events onto the task queue
type EventPublisher interface {
	Publish(ctx context.Context, event domain.NotificationEvent) error
}

// NotifyService accepts lifecycle events from API clients and enqueues
// them for asynchronous dispatch. Only primitive identifiers cross this
// boundary so events serialize safely.
type NotifyService struct {
	publisher EventPublisher
}

// NewNotifyService creates a new NotifyService
func NewNotifyService(publisher EventPublisher) *NotifyService {
	return &NotifyService{publisher: publisher}
}

// UserRegistered enqueues the activation email for a new user
func (s *NotifyService) UserRegistered(ctx context.Context, userID int64) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:   domain.EventUserRegistered,
		UserID: userID,
	})
}

// UserStatusChanged enqueues the account (de)activation email
func (s *NotifyService) UserStatusChanged(ctx context.Context, userID int64, changedBy string) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:            domain.EventUserStatusChange,
		UserID:          userID,
		StatusChangedBy: changedBy,
	})
}

// UserDeleted enqueues the account-deleted email
func (s *NotifyService) UserDeleted(ctx context.Context, userEmail, deletedBy string) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:      domain.EventUserDeleted,
		UserEmail: userEmail,
		DeletedBy: deletedBy,
	})
}

// UserMentioned enqueues mention emails for a comment
func (s *NotifyService) UserMentioned(ctx context.Context, commentID int64, calledFrom string) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:       domain.EventUserMentioned,
		CommentID:  commentID,
		CalledFrom: calledFrom,
	})
}

// PasswordResetRequested enqueues the password-reset email
func (s *NotifyService) PasswordResetRequested(ctx context.Context, userEmail string) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:      domain.EventPasswordReset,
		UserEmail: userEmail,
	})
}

// ActivationResendRequested enqueues a fresh activation link.
// Deliberately not idempotent: every call issues a new token and a new email.
func (s *NotifyService) ActivationResendRequested(ctx context.Context, userEmail string) (string, error) {
	return s.publish(ctx, domain.NotificationEvent{
		Kind:      domain.EventActivationResend,
		UserEmail: userEmail,
	})
}

func (s *NotifyService) publish(ctx context.Context, event domain.NotificationEvent) (string, error) {
	event.EventID = uuid.NewString()
	if err := s.publisher.Publish(ctx, event); err != nil {
		return "", fmt.Errorf("failed to enqueue %s event: %w", event.Kind, err)
	}
	return event.EventID, nil
}
