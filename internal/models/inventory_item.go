package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxPrice is the largest value the numeric(12,2) price column holds.
const MaxPrice = 9999999999.99

type InventoryItem struct {
	ID        string    `json:"_id"`
	ItemName  string    `json:"itemName"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	ItemImage string    `json:"itemImage"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemPatch carries the fields of an update; nil means keep the stored value.
type ItemPatch struct {
	ItemName  *string
	Price     *float64
	Stock     *int64
	ItemImage *string
}

func (it *InventoryItem) Apply(p ItemPatch) {
	if p.ItemName != nil && *p.ItemName != "" {
		it.ItemName = *p.ItemName
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Stock != nil {
		it.Stock = *p.Stock
	}
	if p.ItemImage != nil && *p.ItemImage != "" {
		it.ItemImage = *p.ItemImage
	}
}

// PriceDecimals counts the fractional digits of p's shortest decimal form.
func PriceDecimals(p float64) int {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// RoundPrice rounds to cents the way the price column does.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
