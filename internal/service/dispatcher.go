package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/mailer"
	"github.com/aidar/crm-notify/internal/repository"
)

// Dispatcher is the orchestrator for lifecycle notification emails.
// One method per event kind: resolve the subject user(s), persist any
// token state, select content, render and hand off to the mail transport.
//
// Failure semantics are uniform: a missing subject is a logged no-op,
// a transport failure is returned to the caller so the task queue can
// retry. The dispatcher itself never panics the worker.
type Dispatcher struct {
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	tokens      *TokenGenerator
	links       *LinkBuilder
	content     *ContentSelector
	renderer    *mailer.Renderer
	mailer      mailer.Mailer
	from        string
	logger      *slog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	tokens *TokenGenerator,
	links *LinkBuilder,
	content *ContentSelector,
	renderer *mailer.Renderer,
	m mailer.Mailer,
	from string,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		userRepo:    userRepo,
		commentRepo: commentRepo,
		tokens:      tokens,
		links:       links,
		content:     content,
		renderer:    renderer,
		mailer:      m,
		from:        from,
		logger:      logger,
	}
}

// Dispatch routes a notification event to the matching handler
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) error {
	switch event.Kind {
	case domain.EventUserRegistered:
		return d.SendRegistrationEmail(ctx, event.UserID)
	case domain.EventUserStatusChange:
		return d.SendStatusEmail(ctx, event.UserID, event.StatusChangedBy)
	case domain.EventUserDeleted:
		return d.SendDeletionEmail(ctx, event.UserEmail, event.DeletedBy)
	case domain.EventUserMentioned:
		return d.SendMentionEmails(ctx, event.CommentID, event.CalledFrom)
	case domain.EventPasswordReset:
		return d.SendPasswordResetEmail(ctx, event.UserEmail)
	case domain.EventActivationResend:
		return d.ResendActivationLink(ctx, event.UserEmail)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownEvent, event.Kind)
	}
}

// SendRegistrationEmail sends the activation email to a newly registered
// user. The generated token and expiry are stored on the user record
// before the email goes out.
func (d *Dispatcher) SendRegistrationEmail(ctx context.Context, userID int64) error {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			d.logger.Warn("registration email: user not found", "user_id", userID)
			return nil
		}
		return err
	}

	uid, token, expiresAt := d.tokens.ActivationToken(user)

	if err := d.userRepo.SetActivationKey(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store activation key: %w", err)
	}

	completeURL := d.links.Activation(uid, token)
	content := d.content.Activation(uid, token, token, completeURL, expiresAt)

	if err := d.send(ctx, content, []string{user.Email}); err != nil {
		return err
	}

	d.logger.Info("activation email sent", "email", user.Email)
	return nil
}

// SendStatusEmail notifies a user that their account was activated or
// deactivated
func (d *Dispatcher) SendStatusEmail(ctx context.Context, userID int64, statusChangedBy string) error {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			d.logger.Warn("status email: user not found", "user_id", userID)
			return nil
		}
		return err
	}

	content := d.content.StatusChange(user, statusChangedBy)

	if err := d.send(ctx, content, []string{user.Email}); err != nil {
		return err
	}

	d.logger.Info("status email sent", "email", user.Email, "is_active", user.IsActive)
	return nil
}

// SendDeletionEmail notifies a user that their account was deleted.
// The user record is already gone, so only the email address is used.
func (d *Dispatcher) SendDeletionEmail(ctx context.Context, userEmail, deletedBy string) error {
	if userEmail == "" {
		d.logger.Warn("deletion email: empty recipient")
		return nil
	}

	content := d.content.Deleted(userEmail, deletedBy)

	if err := d.send(ctx, content, []string{userEmail}); err != nil {
		return err
	}

	d.logger.Info("deletion email sent", "email", userEmail)
	return nil
}

// SendMentionEmails notifies every active user mentioned as "@username"
// in the comment body. The email is rendered once per recipient because
// the context carries mentioned_user.
func (d *Dispatcher) SendMentionEmails(ctx context.Context, commentID int64, calledFrom string) error {
	comment, err := d.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			d.logger.Warn("mention emails: comment not found", "comment_id", commentID)
			return nil
		}
		return err
	}

	usernames := ExtractMentions(comment.Comment)
	if len(usernames) == 0 {
		return nil
	}

	users, err := d.userRepo.GetActiveByUsernames(ctx, usernames)
	if err != nil {
		return err
	}

	var firstErr error
	for _, user := range users {
		content := d.content.Mention(calledFrom, comment, user.Username)
		if err := d.send(ctx, content, []string{user.Email}); err != nil {
			d.logger.Error("mention email failed", "email", user.Email, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.logger.Info("mention email sent", "email", user.Email)
	}

	return firstErr
}

// ResendActivationLink deactivates the user and sends a fresh activation
// link. The stored activation key is the token concatenated with the
// formatted expiry; the three-segment link shape depends on it.
func (d *Dispatcher) ResendActivationLink(ctx context.Context, userEmail string) error {
	user, err := d.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			d.logger.Warn("resend activation: user not found", "email", userEmail)
			return nil
		}
		return err
	}

	if err := d.userRepo.SetIsActive(ctx, user.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	user.IsActive = false

	uid, token, expiresAt := d.tokens.ActivationToken(user)
	activationKey := token + expiresAt.Format("2006-01-02-15-04-05")

	if err := d.userRepo.SetActivationKey(ctx, user.ID, activationKey, expiresAt); err != nil {
		return fmt.Errorf("failed to store activation key: %w", err)
	}

	completeURL := d.links.ResendActivation(uid, token, activationKey)
	content := d.content.Activation(uid, token, activationKey, completeURL, expiresAt)
	content.Context["user_email"] = userEmail

	if err := d.send(ctx, content, []string{userEmail}); err != nil {
		return err
	}

	d.logger.Info("activation link resent", "email", userEmail)
	return nil
}

// SendPasswordResetEmail sends a one-time password-reset link.
// Nothing is persisted: the token carries its own timestamp.
func (d *Dispatcher) SendPasswordResetEmail(ctx context.Context, userEmail string) error {
	user, err := d.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			d.logger.Warn("password reset email: user not found", "email", userEmail)
			return nil
		}
		return err
	}

	uid, token := d.tokens.ResetToken(user)
	completeURL := d.links.PasswordReset(uid, token)
	content := d.content.PasswordReset(user.Email, uid, token, completeURL)

	if err := d.send(ctx, content, []string{user.Email}); err != nil {
		return err
	}

	d.logger.Info("password reset email sent", "email", user.Email)
	return nil
}

// send renders the selected content and hands it to the mail transport
func (d *Dispatcher) send(ctx context.Context, content Content, to []string) error {
	body, err := d.renderer.Render(content.TemplateID, content.Context)
	if err != nil {
		return err
	}

	if err := d.mailer.Send(ctx, content.Subject, body, d.from, to); err != nil {
		return fmt.Errorf("failed to send %q to %v: %w", content.Subject, to, err)
	}

	return nil
}
