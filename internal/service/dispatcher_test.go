package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/mailer"
)

// fakeUserRepo is an in-memory repository.UserRepository
type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetActiveByUsernames(_ context.Context, usernames []string) ([]*domain.User, error) {
	var result []*domain.User
	for _, user := range r.users {
		if user.IsActive && slices.Contains(usernames, user.Username) {
			copied := *user
			result = append(result, &copied)
		}
	}
	slices.SortFunc(result, func(a, b *domain.User) int {
		return int(a.ID - b.ID)
	})
	return result, nil
}

func (r *fakeUserRepo) SetActivationKey(_ context.Context, userID int64, key string, expires time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.ActivationKey = key
	user.KeyExpires = &expires
	return nil
}

func (r *fakeUserRepo) ClearActivationKey(_ context.Context, userID int64) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.ActivationKey = ""
	user.KeyExpires = nil
	return nil
}

func (r *fakeUserRepo) SetIsActive(_ context.Context, userID int64, isActive bool) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.IsActive = isActive
	return nil
}

// fakeCommentRepo is an in-memory repository.CommentRepository
type fakeCommentRepo struct {
	comments map[int64]*domain.Comment
}

func (r *fakeCommentRepo) GetByID(_ context.Context, commentID int64) (*domain.Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, _ *domain.Comment) (int64, error) {
	return 0, errors.New("not implemented")
}

// sentMail records one Send call
type sentMail struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// fakeMailer records sent emails and optionally fails
type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, subject, htmlBody, from string, to []string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Subject: subject, Body: htmlBody, From: from, To: to})
	return nil
}

func newTestDispatcher(users *fakeUserRepo, comments *fakeCommentRepo, m *fakeMailer) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(
		users,
		comments,
		NewTokenGenerator("test-secret", 2*time.Hour),
		NewLinkBuilder("https://crm.example.com"),
		NewContentSelector("Bottle CRM", "https://crm.example.com"),
		mailer.NewRenderer(),
		m,
		"no-reply@crm.example.com",
		logger,
	)
}

func TestSendRegistrationEmail(t *testing.T) {
	user := &domain.User{ID: 7, Email: "new@example.com", Username: "newbie"}
	users := newFakeUserRepo(user)
	m := &fakeMailer{}
	d := newTestDispatcher(users, &fakeCommentRepo{}, m)

	require.NoError(t, d.SendRegistrationEmail(context.Background(), 7))

	// Token and expiry persisted before sending
	stored := users.users[7]
	assert.NotEmpty(t, stored.ActivationKey)
	require.NotNil(t, stored.KeyExpires)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), *stored.KeyExpires, time.Second)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Welcome to Bottle CRM", m.sent[0].Subject)
	assert.Equal(t, []string{"new@example.com"}, m.sent[0].To)
	assert.Equal(t, "no-reply@crm.example.com", m.sent[0].From)
	assert.Contains(t, m.sent[0].Body, "/auth/activate-user/")
	assert.Contains(t, m.sent[0].Body, stored.ActivationKey)
}

func TestSendRegistrationEmail_MissingUser(t *testing.T) {
	m := &fakeMailer{}
	d := newTestDispatcher(newFakeUserRepo(), &fakeCommentRepo{}, m)

	// Missing user is a logged no-op, not an error
	require.NoError(t, d.SendRegistrationEmail(context.Background(), 999))
	assert.Empty(t, m.sent)
}

func TestSendRegistrationEmail_TransportFailure(t *testing.T) {
	user := &domain.User{ID: 7, Email: "new@example.com"}
	m := &fakeMailer{err: errors.New("smtp down")}
	d := newTestDispatcher(newFakeUserRepo(user), &fakeCommentRepo{}, m)

	err := d.SendRegistrationEmail(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestSendStatusEmail(t *testing.T) {
	tests := []struct {
		name        string
		user        *domain.User
		wantSubject string
		wantURL     string
	}{
		{
			name:        "activated",
			user:        &domain.User{ID: 1, Email: "a@b.c", IsActive: true},
			wantSubject: "Account Activated",
			wantURL:     "https://crm.example.com",
		},
		{
			name:        "deactivated with marketing access",
			user:        &domain.User{ID: 1, Email: "a@b.c", HasMarketingAccess: true},
			wantSubject: "Account Deactivated",
			wantURL:     "https://crm.example.com/marketing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMailer{}
			d := newTestDispatcher(newFakeUserRepo(tt.user), &fakeCommentRepo{}, m)

			require.NoError(t, d.SendStatusEmail(context.Background(), 1, "admin"))

			require.Len(t, m.sent, 1)
			assert.Equal(t, tt.wantSubject, m.sent[0].Subject)
			assert.Equal(t, []string{"a@b.c"}, m.sent[0].To)
			assert.Contains(t, m.sent[0].Body, tt.wantURL)
		})
	}
}

func TestSendDeletionEmail(t *testing.T) {
	m := &fakeMailer{}
	d := newTestDispatcher(newFakeUserRepo(), &fakeCommentRepo{}, m)

	require.NoError(t, d.SendDeletionEmail(context.Background(), "gone@example.com", "admin"))

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Your account is deleted", m.sent[0].Subject)
	assert.Equal(t, []string{"gone@example.com"}, m.sent[0].To)

	// Empty recipient is a no-op
	require.NoError(t, d.SendDeletionEmail(context.Background(), "", "admin"))
	assert.Len(t, m.sent, 1)
}

func TestSendMentionEmails(t *testing.T) {
	alice := &domain.User{ID: 1, Email: "alice@example.com", Username: "alice", IsActive: true}
	bob := &domain.User{ID: 2, Email: "bob@example.com", Username: "bob", IsActive: true}
	carol := &domain.User{ID: 3, Email: "carol@example.com", Username: "carol", IsActive: false}
	users := newFakeUserRepo(alice, bob, carol)

	comments := &fakeCommentRepo{comments: map[int64]*domain.Comment{
		5: {ID: 5, Comment: "Hello @alice, please review @bob. Also cc @carol", CommentedBy: "dave"},
	}}

	m := &fakeMailer{}
	d := newTestDispatcher(users, comments, m)

	require.NoError(t, d.SendMentionEmails(context.Background(), 5, "leads"))

	// carol is inactive and gets nothing; one email per active recipient
	require.Len(t, m.sent, 2)
	assert.Equal(t, "New comment on Lead.", m.sent[0].Subject)
	assert.Equal(t, []string{"alice@example.com"}, m.sent[0].To)
	assert.Contains(t, m.sent[0].Body, "alice")
	assert.Equal(t, []string{"bob@example.com"}, m.sent[1].To)
	assert.Contains(t, m.sent[1].Body, "bob")
}

func TestSendMentionEmails_MissingComment(t *testing.T) {
	m := &fakeMailer{}
	d := newTestDispatcher(newFakeUserRepo(), &fakeCommentRepo{}, m)

	require.NoError(t, d.SendMentionEmails(context.Background(), 404, "leads"))
	assert.Empty(t, m.sent)
}

func TestResendActivationLink_NotIdempotent(t *testing.T) {
	user := &domain.User{ID: 9, Email: "again@example.com", Username: "again", IsActive: true}
	users := newFakeUserRepo(user)
	m := &fakeMailer{}
	d := newTestDispatcher(users, &fakeCommentRepo{}, m)

	require.NoError(t, d.ResendActivationLink(context.Background(), "again@example.com"))
	firstKey := users.users[9].ActivationKey
	require.NotEmpty(t, firstKey)
	assert.False(t, users.users[9].IsActive)

	// Second resend issues a distinct token and a second email
	d.tokens.now = func() time.Time { return time.Now().Add(time.Minute) }
	require.NoError(t, d.ResendActivationLink(context.Background(), "again@example.com"))
	secondKey := users.users[9].ActivationKey

	assert.NotEqual(t, firstKey, secondKey)
	assert.Len(t, m.sent, 2)
	assert.Contains(t, m.sent[1].Body, "/auth/activate_user/")
}

func TestSendPasswordResetEmail(t *testing.T) {
	user := &domain.User{ID: 4, Email: "reset@example.com", Username: "resetter", IsActive: true}
	users := newFakeUserRepo(user)
	m := &fakeMailer{}
	d := newTestDispatcher(users, &fakeCommentRepo{}, m)

	require.NoError(t, d.SendPasswordResetEmail(context.Background(), "reset@example.com"))

	require.Len(t, m.sent, 1)
	assert.Equal(t, "Set a New Password", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].Body, "/auth/reset-password/")

	// Nothing persisted for the reset path
	assert.Empty(t, users.users[4].ActivationKey)
}

func TestDispatch_RoutesByKind(t *testing.T) {
	user := &domain.User{ID: 7, Email: "new@example.com"}
	m := &fakeMailer{}
	d := newTestDispatcher(newFakeUserRepo(user), &fakeCommentRepo{}, m)

	err := d.Dispatch(context.Background(), domain.NotificationEvent{
		Kind:   domain.EventUserRegistered,
		UserID: 7,
	})
	require.NoError(t, err)
	require.Len(t, m.sent, 1)

	err = d.Dispatch(context.Background(), domain.NotificationEvent{Kind: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
}
