package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/auth"
	"github.com/baharkarakas/inventory-backend/internal/repository/memory"
)

type sentMail struct {
	kind, to, token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendActivation(_ context.Context, to, token string) error {
	return m.record("activation", to, token)
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, token string) error {
	return m.record("reset", to, token)
}

func (m *recordingMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind, to, token})
	return nil
}

func (m *recordingMailer) last(t *testing.T, kind string) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i]
		}
	}
	t.Fatalf("no %s mail sent", kind)
	return sentMail{}
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type authFixture struct {
	svc    *AuthService
	users  *memory.Users
	tokens *auth.TokenManager
	mail   *recordingMailer
	clock  *clock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	tm := auth.NewTokenManager(auth.TokenConfig{
		Issuer:           "test",
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
		ResetSecret:      "reset-secret",
		SessionTTL:       24 * time.Hour,
		ActivationTTL:    15 * time.Minute,
		ResetTTL:         10 * time.Minute,
	}).WithClock(c.Now)
	users := memory.NewUsers()
	mail := &recordingMailer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(users, tm, auth.NewPasswordHasher(bcrypt.MinCost), mail, log)
	return &authFixture{svc: svc, users: users, tokens: tm, mail: mail, clock: c}
}

func (f *authFixture) register(t *testing.T, email, password string) string {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{Name: "A", Email: email, Password: password})
	require.NoError(t, err)
	return u.ID
}

func TestRegister_StoresInactiveUserAndMailsToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, RegisterInput{Name: " A ", Email: " A@X.com ", Password: "p1"})
	require.NoError(t, err)

	assert.Equal(t, "A", u.Name)
	assert.Equal(t, "a@x.com", u.Email)
	assert.False(t, u.IsActivated)
	assert.Empty(t, u.Password.Hash, "hash must not leave the service")

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Password.IsHashed)
	assert.NotEqual(t, "p1", stored.Password.Hash)

	m := f.mail.last(t, "activation")
	assert.Equal(t, "a@x.com", m.to)
	id, err := f.tokens.Verify(auth.PurposeActivation, m.token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "a@x.com", "p1")

	_, err := f.svc.Register(context.Background(), RegisterInput{Name: "B", Email: "A@x.com", Password: "p2"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestRegister_MailFailureKeepsAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.mail.err = errors.New("smtp down")

	u, err := f.svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	_, err = f.users.GetByID(context.Background(), u.ID)
	assert.NoError(t, err)
}

func TestActivate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "p1")
	tok := f.mail.last(t, "activation").token

	u, err := f.svc.Activate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.True(t, u.IsActivated)

	_, err = f.svc.Activate(ctx, tok)
	assert.ErrorIs(t, err, ErrAlreadyActivated)
}

func TestActivate_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "p1")
	tok := f.mail.last(t, "activation").token

	_, err := f.svc.Activate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	session, _, err := f.tokens.Issue(auth.PurposeSession, id)
	require.NoError(t, err)
	_, err = f.svc.Activate(ctx, session)
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	f.clock.Advance(16 * time.Minute)
	_, err = f.svc.Activate(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	fresh, _, err := f.tokens.Issue(auth.PurposeActivation, id)
	require.NoError(t, err)
	f.users.Delete(id)
	_, err = f.svc.Activate(ctx, fresh)
	assert.ErrorIs(t, err, ErrActivationUserNotFound)

	for _, e := range []error{ErrInvalidActivationToken, ErrActivationUserNotFound, ErrAlreadyActivated} {
		assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(e))
	}
}

func TestLogin_EnumerationResistance(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "p1")
	_, err := f.svc.Activate(ctx, f.mail.last(t, "activation").token)
	require.NoError(t, err)

	_, wrongPw := f.svc.Login(ctx, "a@x.com", "nope")
	_, unknown := f.svc.Login(ctx, "b@x.com", "p1")

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, apperr.Message(wrongPw), apperr.Message(unknown))
}

func TestLogin_NotActivatedThenActivated(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "p1")

	_, err := f.svc.Login(ctx, "a@x.com", "p1")
	assert.ErrorIs(t, err, ErrNotActivated)

	// wrong password on an inactive account does not reveal the state
	_, err = f.svc.Login(ctx, "a@x.com", "p2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Activate(ctx, f.mail.last(t, "activation").token)
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "A@X.COM", "p1")
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Empty(t, res.User.Password.Hash)

	sub, err := f.tokens.Verify(auth.PurposeSession, res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, sub)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "old")
	_, err := f.svc.Activate(ctx, f.mail.last(t, "activation").token)
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com"))
	tok := f.mail.last(t, "reset").token

	require.NoError(t, f.svc.ResetPassword(ctx, tok, "new"))

	_, err = f.svc.Login(ctx, "a@x.com", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "a@x.com", "new")
	assert.NoError(t, err)
}

func TestForgotPassword_ReportsInternally(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.ForgotPassword(ctx, "ghost@x.com"), ErrUserNotFound)

	f.register(t, "a@x.com", "p1")
	f.mail.err = errors.New("smtp down")
	err := f.svc.ForgotPassword(ctx, "a@x.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestResetPassword_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "p1")

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "x", ""), ErrPasswordRequired)

	session, _, err := f.tokens.Issue(auth.PurposeSession, id)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, session, "new"), ErrInvalidResetToken)

	reset, _, err := f.tokens.Issue(auth.PurposeReset, id)
	require.NoError(t, err)
	f.clock.Advance(11 * time.Minute)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, reset, "new"), ErrInvalidResetToken)

	reset, _, err = f.tokens.Issue(auth.PurposeReset, id)
	require.NoError(t, err)
	f.users.Delete(id)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, reset, "new"), ErrInvalidResetToken)
}

func TestUserService_Profile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := f.register(t, "a@x.com", "p1")
	svc := NewUserService(f.users)

	u, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
	assert.Nil(t, u.ProfilePicture)

	pic := "/uploads/me.png"
	u, err = svc.UpdateProfile(ctx, id, "  ", &pic)
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name, "blank name keeps the old one")
	require.NotNil(t, u.ProfilePicture)
	assert.Equal(t, pic, *u.ProfilePicture)

	u, err = svc.UpdateProfile(ctx, id, "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, pic, *u.ProfilePicture)
	assert.Empty(t, u.Password.Hash)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.UpdateProfile(ctx, "missing", "x", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
