package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/inventory-backend/internal/api/validate"
	"github.com/baharkarakas/inventory-backend/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details any) {
	WriteJSON(w, status, APIError{
		Message: msg,
		Code:    code,
		Details: details,
	})
}

// Message is the body of responses that carry nothing but a message.
type Message struct {
	Message string `json:"message"`
}

func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindDuplicate, apperr.KindInvalidToken:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindNotActivated, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteErr maps err to a status and a client-safe message. Internal errors
// are logged and replaced with a generic text.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
	var details any
	var fields validate.Errs
	if errors.As(err, &fields) {
		details = fields
	}
	WriteError(w, status, kind.String(), apperr.Message(err), details)
}

// DecodeJSON reads a JSON body of at most 1 MiB into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Wrap(apperr.KindValidation, "invalid JSON body", err)
	}
	return nil
}
