package postgres

import (
	"context"

	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type itemsRepo struct{ pool *pgxpool.Pool }

func NewItems(pool *pgxpool.Pool) repository.Items {
	return &itemsRepo{pool: pool}
}

const itemColumns = `id, item_name, price, stock, item_image, created_at, updated_at`

func scanItem(row pgx.Row) (models.InventoryItem, error) {
	var it models.InventoryItem
	err := row.Scan(&it.ID, &it.ItemName, &it.Price, &it.Stock, &it.ItemImage, &it.CreatedAt, &it.UpdatedAt)
	return it, mapErr(err)
}

func (r *itemsRepo) Create(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO inventory_items(id, item_name, price, stock, item_image)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+itemColumns,
		it.ID, it.ItemName, it.Price, it.Stock, it.ItemImage,
	)
	return scanItem(row)
}

func (r *itemsRepo) GetByID(ctx context.Context, id string) (models.InventoryItem, error) {
	if !validID(id) {
		return models.InventoryItem{}, repository.ErrNotFound
	}
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id=$1`, id))
}

func (r *itemsRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *itemsRepo) Update(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	if !validID(it.ID) {
		return models.InventoryItem{}, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE inventory_items
		    SET item_name=$2, price=$3, stock=$4, item_image=$5, updated_at=now()
		  WHERE id=$1
		  RETURNING `+itemColumns,
		it.ID, it.ItemName, it.Price, it.Stock, it.ItemImage,
	)
	return scanItem(row)
}

func (r *itemsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
