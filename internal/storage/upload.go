package storage

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/inventory-backend/internal/apperr"
	"github.com/google/uuid"
)

// allowed extensions and the sniffed content type each must carry
var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

var (
	ErrBadImageType = apperr.Validation("only image files (.jpeg, .jpg, .png, .gif) are allowed")
	ErrImageTooBig  = apperr.Validation("file too large (max 5MB)")
)

var nonSlug = regexp.MustCompile(`[^a-z0-9_-]+`)

// Uploader validates multipart images and stores them under unique names.
type Uploader struct {
	store    ImageStore
	maxBytes int64
	now      func() time.Time
}

func NewUploader(store ImageStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Uploader{store: store, maxBytes: maxBytes, now: time.Now}
}

func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Save returns the public path of the stored image.
func (u *Uploader) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxBytes {
		return "", ErrImageTooBig
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := allowedTypes[ext]
	if !ok {
		return "", ErrBadImageType
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if http.DetectContentType(head[:n]) != want {
		return "", ErrBadImageType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := u.fileName(fh.Filename, ext)
	if err := u.store.Put(ctx, name, want, f, fh.Size); err != nil {
		return "", err
	}
	return PublicPath(name), nil
}

// fileName: "<slug>-<unix millis>-<8 hex><ext>"
func (u *Uploader) fileName(original, ext string) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	base = strings.Join(strings.Fields(base), "-")
	base = nonSlug.ReplaceAllString(base, "")
	if base == "" {
		base = "image"
	}
	if len(base) > 40 {
		base = base[:40]
	}
	return base + "-" + strconv.FormatInt(u.now().UnixMilli(), 10) + "-" + uuid.NewString()[:8] + ext
}
