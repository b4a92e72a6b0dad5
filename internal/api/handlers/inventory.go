package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/inventory-backend/internal/api/httpx"
	"github.com/baharkarakas/inventory-backend/internal/api/validate"
	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/services"
)

type InventoryHandler struct {
	svc    *services.InventoryService
	images ImageSaver
}

func NewInventoryHandler(svc *services.InventoryService, images ImageSaver) *InventoryHandler {
	return &InventoryHandler{svc: svc, images: images}
}

// itemFields holds the raw text fields; "" means not supplied.
type itemFields struct {
	ItemName string
	Price    string
	Stock    string
}

func (f itemFields) patch() (models.ItemPatch, error) {
	var p models.ItemPatch
	if name := validate.CleanText(f.ItemName); name != "" {
		p.ItemName = &name
	}
	if s := strings.TrimSpace(f.Price); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return p, apperr.Validation("Price must be a number")
		}
		p.Price = &v
	}
	if s := strings.TrimSpace(f.Stock); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return p, apperr.Validation("Stock must be an integer")
		}
		p.Stock = &v
	}
	return p, checkNumbers(p)
}

// checkNumbers reports per-field errors for the supplied price and stock.
func checkNumbers(p models.ItemPatch) error {
	var checks []*validate.ErrField
	if p.Price != nil {
		checks = append(checks,
			validate.MinFloat("price", *p.Price, 0),
			validate.MaxFloat("price", *p.Price, models.MaxPrice))
	}
	if p.Stock != nil {
		checks = append(checks, validate.MinInt("stock", *p.Stock, 0))
	}
	return validate.Collect(checks...)
}

func readItemForm(w http.ResponseWriter, r *http.Request, maxImage int64) (itemFields, error) {
	if err := parseMultipart(w, r, maxImage); err != nil {
		return itemFields{}, err
	}
	return itemFields{
		ItemName: r.FormValue("itemName"),
		Price:    r.FormValue("price"),
		Stock:    r.FormValue("stock"),
	}, nil
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		httpx.WriteErr(w, r, services.ErrItemImageRequired)
		return
	}
	f, err := readItemForm(w, r, h.images.MaxBytes())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	p, err := f.patch()
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	if err := validate.Collect(
		validate.Required("itemName", f.ItemName),
		validate.Required("price", f.Price),
		validate.Required("stock", f.Stock),
	); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	fh := formImage(r, "itemImage")
	if fh == nil {
		httpx.WriteErr(w, r, services.ErrItemImageRequired)
		return
	}
	img, err := h.images.Save(r.Context(), fh)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}

	var it models.InventoryItem
	p.ItemImage = &img
	it.Apply(p)
	it, err = h.svc.Create(r.Context(), it)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, it)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

// Update takes multipart like Create, or JSON without an image.
// Omitted fields keep their stored values.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p models.ItemPatch
	if isMultipart(r) {
		f, err := readItemForm(w, r, h.images.MaxBytes())
		if err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		if p, err = f.patch(); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		// fail before storing an image for an item that does not exist
		if _, err := h.svc.Get(r.Context(), id); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		if fh := formImage(r, "itemImage"); fh != nil {
			img, err := h.images.Save(r.Context(), fh)
			if err != nil {
				httpx.WriteErr(w, r, err)
				return
			}
			p.ItemImage = &img
		}
	} else {
		var req struct {
			ItemName *string  `json:"itemName"`
			Price    *float64 `json:"price"`
			Stock    *int64   `json:"stock"`
		}
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		if req.ItemName != nil {
			name := validate.CleanText(*req.ItemName)
			req.ItemName = &name
		}
		p = models.ItemPatch{ItemName: req.ItemName, Price: req.Price, Stock: req.Stock}
		if err := checkNumbers(p); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
	}

	it, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
