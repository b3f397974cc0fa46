// Package upload checks image uploads and stores them with their WebP variant.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/imaging"
	"github.com/neillmakeup/studio-api/internal/logger"
	"github.com/neillmakeup/studio-api/internal/storage"
	"github.com/neillmakeup/studio-api/internal/validators"
)

// extension -> accepted sniffed type
var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".avif": "image/avif",
}

// sniffed type -> extension used when the client's extension lies
var canonicalExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

type File struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	WebPURL  string `json:"webpUrl,omitempty"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type Options struct {
	MaxBytes     int64
	WebPVariants bool
	VariantWidth int
}

type Service struct {
	store storage.Store
	opts  Options
	log   *logger.Logger
}

func NewService(store storage.Store, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, opts: opts, log: log}
}

// Filename slugifies name (or the original basename when empty) and keeps
// the lower-cased extension. A missing extension defaults to .jpg.
func Filename(original, name string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	base := validators.Slugify(name)
	if base == "" {
		base = validators.Slugify(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	}
	if base == "" {
		base = "image"
	}
	return base + ext
}

// Check validates extension, size and sniffed content.
func (s *Service) Check(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	want, ok := allowed[ext]
	if !ok {
		return "", httperr.ErrBusiness("invalid_file_type")
	}
	if len(data) == 0 {
		return "", httperr.ErrBusiness("missing_file")
	}
	if s.opts.MaxBytes > 0 && int64(len(data)) > s.opts.MaxBytes {
		return "", httperr.ErrBusiness("file_too_large")
	}

	detected := mimetype.Detect(data)
	if !detected.Is(want) {
		// content wins over a mismatched extension
		for _, m := range allowed {
			if detected.Is(m) {
				return m, nil
			}
		}
		return "", httperr.ErrBusiness("invalid_file_type")
	}
	return want, nil
}

// Save reads the multipart file, checks it and stores it with its variant.
func (s *Service) Save(ctx context.Context, fh *multipart.FileHeader, name string) (*File, error) {
	if fh == nil {
		return nil, httperr.ErrBusiness("missing_file")
	}
	if s.opts.MaxBytes > 0 && fh.Size > s.opts.MaxBytes {
		return nil, httperr.ErrBusiness("file_too_large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	limit := s.opts.MaxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return s.SaveBytes(ctx, fh.Filename, name, data)
}

// SaveBytes stores data under its slugified name. The extension follows the
// sniffed content when the two disagree.
func (s *Service) SaveBytes(ctx context.Context, original, name string, data []byte) (*File, error) {
	filename := Filename(original, name)
	mimeType, err := s.Check(filename, data)
	if err != nil {
		return nil, err
	}
	if ext := filepath.Ext(filename); allowed[ext] != mimeType {
		filename = strings.TrimSuffix(filename, ext) + canonicalExt[mimeType]
	}

	url, err := s.store.Put(ctx, filename, mimeType, data)
	if err != nil {
		return nil, err
	}
	out := &File{Filename: filename, URL: url, MimeType: mimeType, Size: int64(len(data))}

	if s.opts.WebPVariants && mimeType != "image/webp" {
		variant, err := imaging.WebPVariant(data, mimeType, s.opts.VariantWidth)
		switch {
		case errors.Is(err, imaging.ErrUnsupported):
		case err != nil:
			s.log.Error(ctx, "webp variant failed", err)
		default:
			key := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".webp"
			if vurl, err := s.store.Put(ctx, key, "image/webp", variant); err == nil {
				out.WebPURL = vurl
			} else {
				s.log.Error(ctx, "store webp variant failed", err)
			}
		}
	}
	return out, nil
}
