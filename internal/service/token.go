package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aidar/crm-notify/internal/domain"
)

// HMAC salts keep activation and reset tokens from validating for each other
const (
	activationSalt = "crm-notify.account-activation"
	resetSalt      = "crm-notify.password-reset"
)

// tokenHashLen is the number of hex digits kept from the HMAC digest
const tokenHashLen = 32

// TokenGenerator produces one-time activation and password-reset tokens.
// A token embeds a base36 timestamp and an HMAC over the user's mutable
// state, so changing that state (e.g. activating the account) invalidates
// previously issued tokens. Pure computation: callers persist the results.
type TokenGenerator struct {
	secret string
	window time.Duration
	now    func() time.Time
}

// NewTokenGenerator creates a new TokenGenerator.
// window is the validity period of activation links.
func NewTokenGenerator(secret string, window time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret: secret,
		window: window,
		now:    time.Now,
	}
}

// EncodeUID returns a URL-safe reversible encoding of a user ID
func EncodeUID(userID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
}

// DecodeUID reverses EncodeUID
func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

// ActivationToken generates an activation token for the user.
// Returns the encoded uid, the token and the expiry timestamp.
func (g *TokenGenerator) ActivationToken(user *domain.User) (uid, token string, expiresAt time.Time) {
	now := g.now()
	return EncodeUID(user.ID), g.makeToken(activationSalt, user, now.Unix()), now.Add(g.window)
}

// ResetToken generates a password-reset token for the user.
// Expiry is not tracked by the caller: the embedded timestamp is checked
// at consumption time.
func (g *TokenGenerator) ResetToken(user *domain.User) (uid, token string) {
	return EncodeUID(user.ID), g.makeToken(resetSalt, user, g.now().Unix())
}

// VerifyActivationToken checks an activation token against the user's
// current state and the configured validity window.
func (g *TokenGenerator) VerifyActivationToken(user *domain.User, token string) error {
	return g.verify(activationSalt, user, token)
}

// VerifyResetToken checks a password-reset token against the user's
// current state and the configured validity window.
func (g *TokenGenerator) VerifyResetToken(user *domain.User, token string) error {
	return g.verify(resetSalt, user, token)
}

func (g *TokenGenerator) verify(salt string, user *domain.User, token string) error {
	tsPart, _, ok := strings.Cut(token, "-")
	if !ok {
		return domain.ErrInvalidToken
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return domain.ErrInvalidToken
	}

	expected := g.makeToken(salt, user, ts)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return domain.ErrInvalidToken
	}

	if g.now().After(time.Unix(ts, 0).Add(g.window)) {
		return domain.ErrTokenExpired
	}

	return nil
}

// makeToken builds "<base36 timestamp>-<hmac hash>" over the user's ID,
// email and active flag
func (g *TokenGenerator) makeToken(salt string, user *domain.User, ts int64) string {
	state := fmt.Sprintf("%d:%s:%t:%d", user.ID, user.Email, user.IsActive, ts)

	mac := hmac.New(sha256.New, []byte(g.secret+salt))
	mac.Write([]byte(state))
	hash := hex.EncodeToString(mac.Sum(nil))[:tokenHashLen]

	return strconv.FormatInt(ts, 36) + "-" + hash
}
