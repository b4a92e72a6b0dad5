// internal/api/handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/inventory-backend/internal/api/httpx"
	"github.com/baharkarakas/inventory-backend/internal/api/validate"
	"github.com/baharkarakas/inventory-backend/internal/models"
	"github.com/baharkarakas/inventory-backend/internal/services"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

type AuthHandler struct {
	svc *services.AuthService
	log *slog.Logger
}

func NewAuthHandler(svc *services.AuthService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{svc: svc, log: log}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Message string             `json:"message"`
	User    models.UserSummary `json:"user"`
	Token   string             `json:"token,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	req.Name = validate.CleanText(req.Name)
	if err := validate.Collect(
		validate.Required("name", req.Name),
		validate.MaxLen("name", req.Name, 100),
		validate.Email("email", req.Email),
		validate.Required("password", req.Password),
		validate.MaxBytes("password", req.Password, 72), // bcrypt input limit
	); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), services.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, authResp{
		Message: "Registration successful! Please check your email to activate your account.",
		User:    u.Summary(),
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	if err := validate.Collect(
		validate.Required("email", req.Email),
		validate.Required("password", req.Password),
	); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authResp{
		Message: "Login successful!",
		User:    res.User.Summary(),
		Token:   res.Token,
	})
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Activate(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authResp{
		Message: "Account activated successfully!",
		User:    models.UserSummary{ID: u.ID, Email: u.Email},
	})
}

type forgotReq struct {
	Email string `json:"email"`
}

// ForgotPassword answers the same way whether or not the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotReq
	err := httpx.DecodeJSON(r, &req)
	if err == nil {
		err = h.svc.ForgotPassword(r.Context(), req.Email)
	}
	if err != nil {
		h.log.WarnContext(r.Context(), "forgot password suppressed", "err", err)
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: forgotPasswordMessage})
}

type resetReq struct {
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	if req.Password == "" {
		httpx.WriteErr(w, r, services.ErrPasswordRequired)
		return
	}
	if err := validate.Collect(validate.MaxBytes("password", req.Password, 72)); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{
		Message: "Password reset successfully! You can now login with your new password.",
	})
}
