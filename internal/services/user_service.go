package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baharkarakas/inventory-backend/internal/models"
	repo "github.com/baharkarakas/inventory-backend/internal/repository"
)

type UserService struct {
	r repo.Users
}

func NewUserService(r repo.Users) *UserService { return &UserService{r: r} }

func (s *UserService) GetProfile(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return u.Public(), nil
}

// UpdateProfile keeps the current name when name is blank and the current
// picture when picture is nil. The replaced picture is not removed from storage.
func (s *UserService) UpdateProfile(ctx context.Context, id, name string, picture *string) (models.User, error) {
	cur, err := s.GetProfile(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = cur.Name
	}
	u, err := s.r.UpdateProfile(ctx, id, name, picture)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u.Public(), nil
}
