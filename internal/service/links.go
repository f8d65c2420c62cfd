package service

import "strings"

// Route path segments for one-time links.
// The exact shapes are load-bearing: links already delivered by email
// must keep resolving.
const (
	routeActivate       = "auth/activate-user"
	routeActivateResend = "auth/activate_user"
	routeResetPassword  = "auth/reset-password"
)

// LinkBuilder builds the one-time links embedded in notification emails.
// All path construction goes through here.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder creates a new LinkBuilder for the given public base URL
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured public base URL
func (b *LinkBuilder) BaseURL() string {
	return b.baseURL
}

// Activation returns the activation link for a newly registered user
func (b *LinkBuilder) Activation(uid, token string) string {
	return b.build(routeActivate, uid, token)
}

// ResendActivation returns the three-segment activation link used by the
// resend path
func (b *LinkBuilder) ResendActivation(uid, token, activationKey string) string {
	return b.build(routeActivateResend, uid, token, activationKey)
}

// PasswordReset returns the password-reset link
func (b *LinkBuilder) PasswordReset(uid, token string) string {
	return b.build(routeResetPassword, uid, token)
}

// build joins the route with its ordered path segments, with a trailing slash
func (b *LinkBuilder) build(route string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteByte('/')
	sb.WriteString(route)
	for _, segment := range segments {
		sb.WriteByte('/')
		sb.WriteString(segment)
	}
	sb.WriteByte('/')
	return sb.String()
}
