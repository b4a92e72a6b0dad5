package postgres

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation   = "23505"
	checkViolation    = "23514"
	numericOutOfRange = "22003"
)

// mapErr turns driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrDuplicate
		case checkViolation, numericOutOfRange:
			return fmt.Errorf("%w: %s", repository.ErrConstraint, pgErr.Message)
		}
	}
	return err
}

// validID keeps malformed ids from reaching postgres as a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
