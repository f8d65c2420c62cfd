package service

import (
	"strings"
	"time"

	"github.com/aidar/crm-notify/internal/domain"
)

// Template identifiers understood by the mail renderer
const (
	TemplateActivation       = "activation-email"
	TemplateStatusActivate   = "status-activate"
	TemplateStatusDeactivate = "status-deactivate"
	TemplateAccountDeleted   = "account-deleted"
	TemplateCommentMention   = "comment-mention"
	TemplatePasswordReset    = "password-reset"
)

// marketingPath is appended to the base URL for users with marketing access
const marketingPath = "/marketing"

// mentionSubjects maps the record category a comment was left on to the
// subject line of the mention email
var mentionSubjects = map[string]string{
	"accounts":    "New comment on Account.",
	"contacts":    "New comment on Contact.",
	"leads":       "New comment on Lead.",
	"opportunity": "New comment on Opportunity.",
	"cases":       "New comment on Case.",
	"tasks":       "New comment on Task.",
	"invoices":    "New comment on Invoice.",
	"events":      "New comment on Event.",
}

// mentionSubjectFallback is used when the category is not recognized
const mentionSubjectFallback = "New comment."

// Content is the selected subject, template and rendering context for
// one notification email
type Content struct {
	Subject    string
	TemplateID string
	Context    map[string]any
}

// ContentSelector maps lifecycle events to email subject, template and
// context. The mapping is a fixed table; unknown mention categories
// degrade to a generic subject instead of failing.
type ContentSelector struct {
	productName string
	baseURL     string
}

// NewContentSelector creates a new ContentSelector
func NewContentSelector(productName, baseURL string) *ContentSelector {
	return &ContentSelector{
		productName: productName,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Activation selects content for the registration (and resend) emails
func (s *ContentSelector) Activation(uid, token, activationKey, completeURL string, expiresAt time.Time) Content {
	return Content{
		Subject:    "Welcome to " + s.productName,
		TemplateID: TemplateActivation,
		Context: map[string]any{
			"url":            s.baseURL,
			"uid":            uid,
			"token":          token,
			"activation_key": activationKey,
			"complete_url":   completeURL,
			"expires_at":     expiresAt,
		},
	}
}

// StatusChange selects content for the account (de)activation email.
// Users with marketing access get the marketing path appended to the URL.
func (s *ContentSelector) StatusChange(user *domain.User, statusChangedBy string) Content {
	url := s.baseURL
	if user.HasMarketingAccess {
		url += marketingPath
	}

	subject := "Account Deactivated"
	templateID := TemplateStatusDeactivate
	message := "deactivated"
	if user.IsActive {
		subject = "Account Activated"
		templateID = TemplateStatusActivate
		message = "activated"
	}

	return Content{
		Subject:    subject,
		TemplateID: templateID,
		Context: map[string]any{
			"message":             message,
			"email":               user.Email,
			"url":                 url,
			"status_changed_user": statusChangedBy,
		},
	}
}

// Deleted selects content for the account-deleted email
func (s *ContentSelector) Deleted(email, deletedBy string) Content {
	return Content{
		Subject:    "Your account is deleted",
		TemplateID: TemplateAccountDeleted,
		Context: map[string]any{
			"message":    "deleted",
			"deleted_by": deletedBy,
			"email":      email,
		},
	}
}

// Mention selects content for a comment-mention email.
// The context is built once per recipient since it carries mentioned_user.
func (s *ContentSelector) Mention(calledFrom string, comment *domain.Comment, mentionedUser string) Content {
	subject, ok := mentionSubjects[calledFrom]
	if !ok {
		subject = mentionSubjectFallback
	}

	return Content{
		Subject:    subject,
		TemplateID: TemplateCommentMention,
		Context: map[string]any{
			"commented_by":        comment.CommentedBy,
			"comment_description": comment.Comment,
			"url":                 s.baseURL,
			"mentioned_user":      mentionedUser,
		},
	}
}

// PasswordReset selects content for the password-reset email
func (s *ContentSelector) PasswordReset(email, uid, token, completeURL string) Content {
	return Content{
		Subject:    "Set a New Password",
		TemplateID: TemplatePasswordReset,
		Context: map[string]any{
			"user_email":   email,
			"url":          s.baseURL,
			"uid":          uid,
			"token":        token,
			"complete_url": completeURL,
		},
	}
}

// ExtractMentions returns the candidate usernames mentioned in a comment
// body as "@name" tokens. The leading "@" and a trailing comma are
// stripped; matching against usernames is case-sensitive.
func ExtractMentions(body string) []string {
	seen := make(map[string]struct{})
	var usernames []string

	for _, word := range strings.Fields(body) {
		if !strings.HasPrefix(word, "@") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(word, "@"), ",")
		name = strings.TrimRight(name, ".!?;:")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		usernames = append(usernames, name)
	}

	return usernames
}
