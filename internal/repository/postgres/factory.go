package postgres

import (
	repo "github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users repo.Users
	Items repo.Items
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users: NewUsers(pool),
		Items: NewItems(pool),
	}
}
