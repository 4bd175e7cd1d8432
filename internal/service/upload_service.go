package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path"
	"strings"
	"unicode"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/storage"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Upload directories inside the file store.
const (
	FeatureDir      = "features"
	ProfileImageDir = "profile_images"
	thumbDir        = "thumbs"
)

const (
	DefaultUploadMaxSizeMB = 6
	ThumbnailMaxSide       = 320
	ThumbnailWebPQuality   = 70
	maxBaseNameLen         = 64
)

// UploadedFile is a file received from a multipart form.
type UploadedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadService owns the naming, validation and lifecycle of stored images.
// A stored name of models.NoImage means no file exists and is never sent to the store.
type UploadService struct {
	store      storage.FileStore
	maxBytes   int64
	thumbnails bool
}

func NewUploadService(store storage.FileStore, cfg *config.Config) *UploadService {
	maxMB := DefaultUploadMaxSizeMB
	thumbnails := true
	if cfg != nil {
		if cfg.UploadMaxSizeMB > 0 {
			maxMB = cfg.UploadMaxSizeMB
		}
		thumbnails = cfg.ThumbnailsEnabled
	}
	return &UploadService{
		store:      store,
		maxBytes:   int64(maxMB) * 1024 * 1024,
		thumbnails: thumbnails,
	}
}

// Store validates and writes f under dir and returns its stored name.
// A nil or empty file yields models.NoImage without touching the store.
func (s *UploadService) Store(ctx context.Context, dir string, f *UploadedFile) (string, error) {
	if f == nil || len(f.Content) == 0 {
		return models.NoImage, nil
	}

	decoded, ext, err := s.validate(f)
	if err != nil {
		observability.UploadsTotal.WithLabelValues(dir, "rejected").Inc()
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s", baseName(f.Filename), uuid.NewString(), ext)
	key := path.Join(dir, name)
	contentType := http.DetectContentType(f.Content)

	if err := s.store.Put(ctx, key, bytes.NewReader(f.Content), int64(len(f.Content)), contentType); err != nil {
		observability.UploadsTotal.WithLabelValues(dir, "error").Inc()
		return "", models.NewStorageError(err)
	}

	if s.thumbnails {
		if err := s.putThumbnail(ctx, dir, name, decoded); err != nil {
			_ = s.store.Delete(ctx, key)
			observability.UploadsTotal.WithLabelValues(dir, "error").Inc()
			return "", models.NewStorageError(err)
		}
	}

	observability.UploadsTotal.WithLabelValues(dir, "stored").Inc()
	observability.UploadBytes.Observe(float64(len(f.Content)))
	return name, nil
}

// Replace swaps previous for f around persist. The new file is stored, then
// persist records its name; only after persist succeeds is previous removed.
// If persist fails the new file is removed and previous stays. With no new
// file persist receives previous and the store is not touched.
func (s *UploadService) Replace(ctx context.Context, dir, previous string, f *UploadedFile, persist func(name string) error) (string, error) {
	if f == nil || len(f.Content) == 0 {
		if err := persist(previous); err != nil {
			return "", err
		}
		return previous, nil
	}

	name, err := s.Store(ctx, dir, f)
	if err != nil {
		return "", err
	}
	if err := persist(name); err != nil {
		s.discard(ctx, dir, name)
		return "", err
	}
	s.discard(ctx, dir, previous)
	return name, nil
}

// Remove deletes name and its thumbnail from dir. The placeholder and
// missing files are ignored.
func (s *UploadService) Remove(ctx context.Context, dir, name string) error {
	if name == "" || name == models.NoImage {
		return nil
	}
	if err := s.store.Delete(ctx, path.Join(dir, name)); err != nil {
		return models.NewStorageError(err)
	}
	if s.thumbnails {
		if err := s.store.Delete(ctx, thumbnailKey(dir, name)); err != nil {
			return models.NewStorageError(err)
		}
	}
	observability.StoredFilesDeleted.Inc()
	return nil
}

// discard removes a file whose owning row no longer needs it. Failures only
// leave an orphan behind, so they are logged rather than returned.
func (s *UploadService) discard(ctx context.Context, dir, name string) {
	if err := s.Remove(ctx, dir, name); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to remove stored file",
			"dir", dir, "name", name, "error", err)
	}
}

// URL returns the public address of a stored name.
func (s *UploadService) URL(dir, name string) string {
	return s.store.URL(path.Join(dir, name))
}

// ThumbnailURL returns the public address of name's thumbnail, or "" when
// name is the placeholder or thumbnails are off.
func (s *UploadService) ThumbnailURL(dir, name string) string {
	if !s.thumbnails || name == "" || name == models.NoImage {
		return ""
	}
	return s.store.URL(thumbnailKey(dir, name))
}

func (s *UploadService) validate(f *UploadedFile) (image.Image, string, error) {
	if int64(len(f.Content)) > s.maxBytes {
		return nil, "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(f.Content)) {
		return nil, "", models.NewValidationError("Invalid image type")
	}
	decoded, format, err := image.Decode(bytes.NewReader(f.Content))
	if err != nil {
		return nil, "", models.NewValidationError("Invalid image file")
	}
	ext, ok := extensionFor(format)
	if !ok {
		return nil, "", models.NewValidationError("Unsupported image format")
	}
	return decoded, ext, nil
}

func (s *UploadService) putThumbnail(ctx context.Context, dir, name string, img image.Image) error {
	encoded, err := storage.EncodeWebP(storage.Thumbnail(img, ThumbnailMaxSide), ThumbnailWebPQuality)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, thumbnailKey(dir, name), bytes.NewReader(encoded), int64(len(encoded)), "image/webp")
}

func thumbnailKey(dir, name string) string {
	return path.Join(dir, thumbDir, strings.TrimSuffix(name, path.Ext(name))+".webp")
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func extensionFor(format string) (string, bool) {
	switch format {
	case "jpeg":
		return "jpg", true
	case "png", "gif", "webp":
		return format, true
	default:
		return "", false
	}
}

// baseName keeps the client's file name, minus extension, as letters,
// digits, dashes and underscores.
func baseName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= maxBaseNameLen {
			break
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
