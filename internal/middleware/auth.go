// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/baharkarakas/inventory-backend/internal/api/httpx"
	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/auth"
	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/repository"
)

var (
	errNoToken      = apperr.New(apperr.KindUnauthorized, "Not authorized, no token provided")
	errBadToken     = apperr.New(apperr.KindUnauthorized, "Not authorized, token verification failed")
	errUserNotFound = apperr.New(apperr.KindUnauthorized, "Not authorized, user not found")
)

type SessionVerifier interface {
	Verify(p auth.Purpose, token string) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthMiddleware struct {
	tokens SessionVerifier
	users  UserLookup
}

func NewAuthMiddleware(tokens SessionVerifier, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Auth requires "Authorization: Bearer <session token>" and a user that
// still exists. The resolved user is available through ActorFrom.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			httpx.WriteErr(w, r, errNoToken)
			return
		}
		uid, err := m.tokens.Verify(auth.PurposeSession, token)
		if err != nil {
			httpx.WriteErr(w, r, errBadToken)
			return
		}
		u, err := m.users.GetByID(r.Context(), uid)
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteErr(w, r, errUserNotFound)
			return
		}
		if err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		ctx := WithActor(r.Context(), Actor{UserID: u.ID, User: u.Public()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
