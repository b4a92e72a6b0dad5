package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/baharkarakas/inventory-backend/internal/storage"
)

// ImageSaver stores a validated image and returns its public path.
type ImageSaver interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	MaxBytes() int64
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart caps the whole body at the image limit plus room for fields.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxImage int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxImage+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return storage.ErrImageTooBig
		}
		return apperr.Wrap(apperr.KindValidation, "invalid multipart form", err)
	}
	return nil
}

// formImage returns the uploaded file under field, or nil when none was sent.
func formImage(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}
