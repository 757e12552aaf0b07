package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"rentalhub/pkg/config"
)

// Storage stores uploaded files and returns their public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Driver() string
}

var (
	ErrInvalidPath     = errors.New("invalid file path")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// AllowedExtensions upload whitelist, lower case with dot.
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// CleanKey checks an object key supplied by a client: relative, no "..", no
// empty segments. The returned key is normalized.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return "", ErrInvalidPath
		}
	}
	cleaned := path.Clean(key)
	if cleaned != strings.TrimSuffix(key, "/") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// ContentTypeFor returns the content type for an allowed extension.
func ContentTypeFor(key string) (string, error) {
	ext := strings.ToLower(path.Ext(key))
	ct, ok := AllowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return ct, nil
}

// New builds the storage selected in config.
func New(ctx context.Context, cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
