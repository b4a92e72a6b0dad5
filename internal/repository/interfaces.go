package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/inventory-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")

	// ErrConstraint is a value the column cannot hold (range or check).
	ErrConstraint = errors.New("value out of range")
)

// Users is the credential store. Emails are expected already normalized.
type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// SetActivated reports false when the user was already active.
	SetActivated(ctx context.Context, id string) (bool, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateProfile(ctx context.Context, id, name string, picture *string) (models.User, error)
}

type Items interface {
	Create(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (models.InventoryItem, error)
	List(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}
