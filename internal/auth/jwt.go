// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose selects the secret and TTL a token is signed with.
type Purpose string

const (
	PurposeActivation Purpose = "activation"
	PurposeSession    Purpose = "session"
	PurposeReset      Purpose = "reset"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrUnknownPurpose = errors.New("unknown token purpose")
)

type TokenConfig struct {
	Issuer           string
	SessionSecret    string
	ActivationSecret string
	ResetSecret      string
	SessionTTL       time.Duration
	ActivationTTL    time.Duration
	ResetTTL         time.Duration
}

type TokenManager struct {
	issuer  string
	secrets map[Purpose][]byte
	ttls    map[Purpose]time.Duration
	now     func() time.Time
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{
		issuer: cfg.Issuer,
		secrets: map[Purpose][]byte{
			PurposeSession:    []byte(cfg.SessionSecret),
			PurposeActivation: []byte(cfg.ActivationSecret),
			PurposeReset:      []byte(cfg.ResetSecret),
		},
		ttls: map[Purpose]time.Duration{
			PurposeSession:    cfg.SessionTTL,
			PurposeActivation: cfg.ActivationTTL,
			PurposeReset:      cfg.ResetTTL,
		},
		now: time.Now,
	}
}

// WithClock replaces the time source; used by tests to step past expiry.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

type Claims struct {
	UserID string `json:"uid"`
	Type   string `json:"typ"` // activation | session | reset
	jwt.RegisteredClaims
}

// Issue signs a token for userID with the purpose's configured TTL.
func (tm *TokenManager) Issue(p Purpose, userID string) (string, time.Time, error) {
	return tm.IssueWithTTL(p, userID, tm.ttls[p])
}

func (tm *TokenManager) IssueWithTTL(p Purpose, userID string, ttl time.Duration) (string, time.Time, error) {
	secret, ok := tm.secrets[p]
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPurpose, p)
	}
	now := tm.now()
	claims := Claims{
		UserID: userID,
		Type:   string(p),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, claims.ExpiresAt.Time, nil
}

// Verify returns the user id carried by a token of the given purpose.
// Failures are ErrExpiredToken or ErrInvalidToken; callers should not
// reveal which one to clients.
func (tm *TokenManager) Verify(p Purpose, tokenStr string) (string, error) {
	secret, ok := tm.secrets[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, p)
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpiredToken
	case err != nil:
		return "", ErrInvalidToken
	}
	// same secret configured twice must still not cross purposes
	if claims.Type != string(p) || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	if tm.issuer != "" && claims.Issuer != tm.issuer {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
