package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_AllTemplates(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		templateID string
		context    map[string]any
		wantParts  []string
	}{
		{
			templateID: "activation-email",
			context: map[string]any{
				"url":            "https://crm.example.com",
				"uid":            "dWlk",
				"token":          "tok",
				"activation_key": "tok",
				"complete_url":   "https://crm.example.com/auth/activate-user/dWlk/tok/",
				"expires_at":     time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
			},
			wantParts: []string{"activate-user/dWlk/tok/", "2026-08-29 12:00"},
		},
		{
			templateID: "status-activate",
			context: map[string]any{
				"message":             "activated",
				"email":               "a@b.c",
				"url":                 "https://crm.example.com",
				"status_changed_user": "admin",
			},
			wantParts: []string{"activated", "admin"},
		},
		{
			templateID: "status-deactivate",
			context: map[string]any{
				"message":             "deactivated",
				"email":               "a@b.c",
				"url":                 "https://crm.example.com",
				"status_changed_user": "admin",
			},
			wantParts: []string{"deactivated"},
		},
		{
			templateID: "account-deleted",
			context: map[string]any{
				"message":    "deleted",
				"deleted_by": "admin",
				"email":      "a@b.c",
			},
			wantParts: []string{"deleted", "admin"},
		},
		{
			templateID: "comment-mention",
			context: map[string]any{
				"commented_by":        "alice",
				"comment_description": "hello there",
				"url":                 "https://crm.example.com",
				"mentioned_user":      "bob",
			},
			wantParts: []string{"alice", "hello there", "bob"},
		},
		{
			templateID: "password-reset",
			context: map[string]any{
				"user_email":   "a@b.c",
				"url":          "https://crm.example.com",
				"uid":          "dWlk",
				"token":        "tok",
				"complete_url": "https://crm.example.com/auth/reset-password/dWlk/tok/",
			},
			wantParts: []string{"reset-password/dWlk/tok/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.templateID, func(t *testing.T) {
			body, err := r.Render(tt.templateID, tt.context)
			require.NoError(t, err)
			assert.Contains(t, body, "<html>")
			for _, part := range tt.wantParts {
				assert.Contains(t, body, part)
			}
		})
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render("no-such-template", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown email template")
}

func TestRenderer_EscapesHTML(t *testing.T) {
	r := NewRenderer()

	body, err := r.Render("comment-mention", map[string]any{
		"commented_by":        "alice",
		"comment_description": "<script>alert(1)</script>",
		"url":                 "https://crm.example.com",
		"mentioned_user":      "bob",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
