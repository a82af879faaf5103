package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Image folders used by the service.
const (
	FolderBlogs    = "blogs"
	FolderProfiles = "profiles"
)

var allowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Image is an uploaded file waiting to be hosted.
type Image struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ImageStore hosts uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, folder string, img Image) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	return strings.ToLower(ext)
}

// ValidateImage enforces the size cap and the extension allow-list.
func ValidateImage(img Image, maxBytes int64) error {
	if maxBytes > 0 && img.Size > maxBytes {
		return apperrors.NewPayloadTooLarge(fmt.Sprintf("file size exceeds the maximum limit of %d MB", maxBytes/(1024*1024)))
	}
	ext := Extension(img.Filename)
	if _, ok := allowedExtensions[ext]; !ok {
		return apperrors.NewValidationError("invalid image type, must be jpg, jpeg, png, or gif", map[string]any{"filename": img.Filename})
	}
	return nil
}

// ObjectKey builds a collision-free key for an image under folder.
func ObjectKey(folder, filename string) string {
	return fmt.Sprintf("%s/%s.%s", folder, uuid.NewString(), Extension(filename))
}

// KeyFromURL recovers the object key from a hosted image URL. Keys are
// always "<folder>/<name>", so the last two path segments are used.
func KeyFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" {
		return "", fmt.Errorf("no object key in %q", imageURL)
	}
	return strings.Join(segments[len(segments)-2:], "/"), nil
}
