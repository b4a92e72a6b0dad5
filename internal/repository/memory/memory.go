// Package memory implements the repository contracts over maps. It backs
// service and handler tests and mirrors the uniqueness rules of the schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/repository"
	"github.com/google/uuid"
)

type Users struct {
	mu   sync.Mutex
	byID map[string]models.User
	now  func() time.Time
}

func NewUsers() *Users {
	return &Users{byID: map[string]models.User{}, now: time.Now}
}

func (r *Users) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	return u, nil
}

func (r *Users) GetByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *Users) SetActivated(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if u.IsActivated {
		return false, nil
	}
	u.IsActivated = true
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return true, nil
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = models.Password{Hash: hash, IsHashed: true}
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return nil
}

func (r *Users) UpdateProfile(_ context.Context, id, name string, picture *string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	u.Name = name
	if picture != nil {
		p := *picture
		u.ProfilePicture = &p
	}
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return u, nil
}

// Delete is not part of repository.Users; tests use it to simulate a user
// removed after a token was issued.
func (r *Users) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type Items struct {
	mu   sync.Mutex
	byID map[string]models.InventoryItem
	seq  int64
	now  func() time.Time
}

func NewItems() *Items {
	return &Items{byID: map[string]models.InventoryItem{}, now: time.Now}
}

func (r *Items) nameTaken(name, exceptID string) bool {
	for id, it := range r.byID {
		if id != exceptID && it.ItemName == name {
			return true
		}
	}
	return false
}

// stamp keeps creation order stable even when the clock does not advance.
func (r *Items) stamp() time.Time {
	r.seq++
	return r.now().Add(time.Duration(r.seq) * time.Nanosecond)
}

// fit applies the price column's rounding and the table's checks.
func fit(it *models.InventoryItem) error {
	it.Price = models.RoundPrice(it.Price)
	if it.Price < 0 || it.Price > models.MaxPrice || it.Stock < 0 {
		return repository.ErrConstraint
	}
	return nil
}

func (r *Items) Create(_ context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := fit(&it); err != nil {
		return models.InventoryItem{}, err
	}
	if r.nameTaken(it.ItemName, "") {
		return models.InventoryItem{}, repository.ErrDuplicate
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.CreatedAt = r.stamp()
	it.UpdatedAt = it.CreatedAt
	r.byID[it.ID] = it
	return it, nil
}

func (r *Items) GetByID(_ context.Context, id string) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.byID[id]
	if !ok {
		return models.InventoryItem{}, repository.ErrNotFound
	}
	return it, nil
}

func (r *Items) List(_ context.Context) ([]models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.InventoryItem, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Items) Update(_ context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[it.ID]
	if !ok {
		return models.InventoryItem{}, repository.ErrNotFound
	}
	if r.nameTaken(it.ItemName, it.ID) {
		return models.InventoryItem{}, repository.ErrDuplicate
	}
	if err := fit(&it); err != nil {
		return models.InventoryItem{}, err
	}
	it.CreatedAt = prev.CreatedAt
	it.UpdatedAt = r.stamp()
	r.byID[it.ID] = it
	return it, nil
}

func (r *Items) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	_ repository.Users = (*Users)(nil)
	_ repository.Items = (*Items)(nil)
)
