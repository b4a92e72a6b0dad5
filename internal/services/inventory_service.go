package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/baharkarakas/inventory-backend/internal/metrics"
	"github.com/baharkarakas/inventory-backend/internal/models"
	repo "github.com/baharkarakas/inventory-backend/internal/repository"
)

type InventoryService struct {
	r repo.Items
}

func NewInventoryService(r repo.Items) *InventoryService { return &InventoryService{r: r} }

func observe(op string, err error) {
	metrics.InventoryOps.WithLabelValues(op, metrics.Result(err)).Inc()
}

func checkItem(it models.InventoryItem) error {
	switch {
	case it.ItemName == "":
		return ErrItemNameRequired
	case it.Price < 0:
		return ErrNegativePrice
	case it.Price > models.MaxPrice:
		return ErrPriceTooLarge
	case models.PriceDecimals(it.Price) > 2:
		return ErrPricePrecision
	case it.Stock < 0:
		return ErrNegativeStock
	case it.ItemImage == "":
		return ErrItemImageRequired
	}
	return nil
}

func (s *InventoryService) Create(ctx context.Context, in models.InventoryItem) (it models.InventoryItem, err error) {
	defer func() { observe("create", err) }()

	in.ID = ""
	in.ItemName = strings.TrimSpace(in.ItemName)
	if err := checkItem(in); err != nil {
		return models.InventoryItem{}, err
	}
	it, err = s.r.Create(ctx, in)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return models.InventoryItem{}, ErrDuplicateItem
	case errors.Is(err, repo.ErrConstraint):
		return models.InventoryItem{}, ErrItemOutOfRange
	case err != nil:
		return models.InventoryItem{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// List returns newest first.
func (s *InventoryService) List(ctx context.Context) (items []models.InventoryItem, err error) {
	defer func() { observe("list", err) }()
	items, err = s.r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	it, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.InventoryItem{}, ErrItemNotFound
	}
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("load item: %w", err)
	}
	return it, nil
}

// Update applies only the fields set on p.
func (s *InventoryService) Update(ctx context.Context, id string, p models.ItemPatch) (it models.InventoryItem, err error) {
	defer func() { observe("update", err) }()

	it, err = s.Get(ctx, id)
	if err != nil {
		return models.InventoryItem{}, err
	}
	if p.ItemName != nil {
		name := strings.TrimSpace(*p.ItemName)
		p.ItemName = &name
	}
	it.Apply(p)
	if err := checkItem(it); err != nil {
		return models.InventoryItem{}, err
	}

	it, err = s.r.Update(ctx, it)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return models.InventoryItem{}, ErrItemNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return models.InventoryItem{}, ErrDuplicateItem
	case errors.Is(err, repo.ErrConstraint):
		return models.InventoryItem{}, ErrItemOutOfRange
	case err != nil:
		return models.InventoryItem{}, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()
	err = s.r.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
