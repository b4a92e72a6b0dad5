package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/inventory-backend/internal/auth"
	"github.com/baharkarakas/inventory-backend/internal/metrics"
	"github.com/baharkarakas/inventory-backend/internal/models"
	repo "github.com/baharkarakas/inventory-backend/internal/repository"
)

type TokenIssuer interface {
	Issue(p auth.Purpose, userID string) (string, time.Time, error)
	Verify(p auth.Purpose, token string) (string, error)
}

type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AccountMailer sends the token-bearing account mails.
type AccountMailer interface {
	SendActivation(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

type AuthService struct {
	users  repo.Users
	tokens TokenIssuer
	hasher Hasher
	mail   AccountMailer
	log    *slog.Logger

	// compared against on unknown emails so both login failures cost one bcrypt run
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.Users, tokens TokenIssuer, hasher Hasher, mail AccountMailer, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, hasher: hasher, mail: mail, log: log}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register stores a new inactive user and mails an activation link.
// A failed mail is logged; the account is kept.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (u models.User, err error) {
	defer func() { metrics.Registrations.WithLabelValues(registerResult(err)).Inc() }()

	email := models.NormalizeEmail(in.Email)
	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, ErrDuplicateEmail
	case !errors.Is(err, repo.ErrNotFound):
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err = s.users.Create(ctx, models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: models.Password{Hash: hash, IsHashed: true},
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// lost a race with a concurrent registration
		return models.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendActivation(ctx, u); err != nil {
		s.log.Error("activation email failed", "user_id", u.ID, "err", err)
	}
	return u.Public(), nil
}

func registerResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicateEmail):
		return "duplicate"
	default:
		return "error"
	}
}

func (s *AuthService) sendActivation(ctx context.Context, u models.User) error {
	tok, err := s.issue(auth.PurposeActivation, u.ID)
	if err != nil {
		return err
	}
	return s.mail.SendActivation(ctx, u.Email, tok)
}

func (s *AuthService) issue(p auth.Purpose, userID string) (string, error) {
	tok, _, err := s.tokens.Issue(p, userID)
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", p, err)
	}
	metrics.TokensIssued.WithLabelValues(string(p)).Inc()
	return tok, nil
}

// Activate flips isActivated for the user the token was issued to.
func (s *AuthService) Activate(ctx context.Context, token string) (models.User, error) {
	id, err := s.tokens.Verify(auth.PurposeActivation, token)
	if err != nil {
		return models.User{}, ErrInvalidActivationToken
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrActivationUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if u.IsActivated {
		return models.User{}, ErrAlreadyActivated
	}

	changed, err := s.users.SetActivated(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return models.User{}, ErrActivationUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("activate user: %w", err)
	case !changed:
		// a concurrent request activated it first
		return models.User{}, ErrAlreadyActivated
	}
	u.IsActivated = true
	return u.Public(), nil
}

type LoginResult struct {
	User  models.User
	Token string
}

// Login checks credentials before activation so an inactive account is only
// revealed to someone who knows its password.
func (s *AuthService) Login(ctx context.Context, email, password string) (res LoginResult, err error) {
	defer func() { metrics.Logins.WithLabelValues(loginResult(err)).Inc() }()

	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		_ = s.hasher.Compare(s.dummy(), password)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := s.hasher.Compare(u.Password.Hash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("compare password: %w", err)
	}
	if !u.IsActivated {
		return LoginResult{}, ErrNotActivated
	}

	tok, err := s.issue(auth.PurposeSession, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: u.Public(), Token: tok}, nil
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNotActivated):
		return "not_activated"
	default:
		return "error"
	}
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

// ForgotPassword mails a reset link. Unlike the HTTP response, the returned
// error does say whether the account exists; callers must not forward it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	tok, err := s.issue(auth.PurposeReset, u.ID)
	if err != nil {
		return err
	}
	if err := s.mail.SendPasswordReset(ctx, u.Email, tok); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword replaces the stored hash. Every token or lookup failure
// collapses into ErrInvalidResetToken.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	id, err := s.tokens.Verify(auth.PurposeReset, token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("load user: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.users.UpdatePassword(ctx, id, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
