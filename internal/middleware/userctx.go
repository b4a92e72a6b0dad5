package middleware

import (
	"context"

	"github.com/baharkarakas/inventory-backend/internal/models"
)

type actorKey struct{}

// Actor is the authenticated user a request acts as.
type Actor struct {
	UserID string
	User   models.User
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
