// Package storage keeps uploaded images and serves them back under /uploads.
package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// PublicPrefix is the URL prefix stored paths start with.
const PublicPrefix = "/uploads/"

var ErrNotFound = errors.New("image not found")

// ImageStore persists image bytes under a flat name.
type ImageStore interface {
	Put(ctx context.Context, name, contentType string, r io.ReadSeeker, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// PublicPath is what gets stored on users and items.
func PublicPath(name string) string { return PublicPrefix + name }

// validName rejects anything that could escape the flat namespace.
func validName(name string) bool {
	return name != "" && name == path.Base(name) && !strings.HasPrefix(name, ".") && !strings.ContainsAny(name, `/\`)
}

// Handler serves stored images. Mount it behind http.StripPrefix(PublicPrefix, ...).
func Handler(store ImageStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if !validName(name) {
			http.NotFound(w, r)
			return
		}
		rc, ct, err := store.Open(r.Context(), name)
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("open upload", "name", name, "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		if ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(w, rc); err != nil {
			slog.Debug("serve upload", "name", name, "err", err)
		}
	})
}
