// internal/repository/postgres/users_repo.go
package postgres

import (
	"context"

	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

const userColumns = `id, name, email, password_hash, password_is_hashed, is_activated, profile_picture, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password.Hash, &u.Password.IsHashed,
		&u.IsActivated, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, name, email, password_hash, password_is_hashed, is_activated, profile_picture)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Password.Hash, u.Password.IsHashed, u.IsActivated, u.ProfilePicture,
	)
	return scanUser(row)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, repository.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
}

func (r *usersRepo) SetActivated(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_activated=true, updated_at=now() WHERE id=$1 AND is_activated=false`, id)
	if err != nil {
		return false, mapErr(err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, mapErr(err)
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash=$2, password_is_hashed=true, updated_at=now() WHERE id=$1`, id, hash)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateProfile keeps the stored picture when picture is nil.
func (r *usersRepo) UpdateProfile(ctx context.Context, id, name string, picture *string) (models.User, error) {
	if !validID(id) {
		return models.User{}, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET name=$2,
		        profile_picture=COALESCE($3, profile_picture),
		        updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		id, name, picture,
	)
	return scanUser(row)
}
