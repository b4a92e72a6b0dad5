package handlers

import (
	"net/http"

	"github.com/baharkarakas/inventory-backend/internal/api/httpx"
	"github.com/baharkarakas/inventory-backend/internal/api/validate"
	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/middleware"
	"github.com/baharkarakas/inventory-backend/internal/services"
)

var errNoActor = apperr.New(apperr.KindUnauthorized, "Not authorized")

type UserHandler struct {
	svc    *services.UserService
	images ImageSaver
}

func NewUserHandler(svc *services.UserService, images ImageSaver) *UserHandler {
	return &UserHandler{svc: svc, images: images}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		httpx.WriteErr(w, r, errNoActor)
		return
	}
	u, err := h.svc.GetProfile(r.Context(), a.UserID)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// UpdateProfile accepts multipart (name, profilePicture) or a JSON {"name"}.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		httpx.WriteErr(w, r, errNoActor)
		return
	}

	var name string
	var picture *string
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.images.MaxBytes()); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		name = r.FormValue("name")
		if fh := formImage(r, "profilePicture"); fh != nil {
			p, err := h.images.Save(r.Context(), fh)
			if err != nil {
				httpx.WriteErr(w, r, err)
				return
			}
			picture = &p
		}
	} else {
		var req struct {
			Name string `json:"name"`
		}
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteErr(w, r, err)
			return
		}
		name = req.Name
	}

	name = validate.CleanText(name)
	if err := validate.Collect(validate.MaxLen("name", name, 100)); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), a.UserID, name, picture)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}
