package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/metrics"
	"rentalhub/pkg/storage"

	"github.com/google/uuid"
)

type UploadService struct {
	store    storage.Storage
	maxBytes int64
}

func NewUploadService(store storage.Storage, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes}
}

// ObjectKey resolves the stored key for filePath. A path ending in "/" is a
// directory and gets a random file name with the original extension.
func ObjectKey(filePath, originalName string) (string, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return "", apperrors.BadRequest("filePath is required")
	}

	if strings.HasSuffix(filePath, "/") {
		dir, err := storage.CleanKey(filePath)
		if err != nil {
			return "", apperrors.BadRequest("invalid filePath")
		}
		ext := strings.ToLower(path.Ext(originalName))
		return dir + "/" + uuid.NewString() + ext, nil
	}

	key, err := storage.CleanKey(filePath)
	if err != nil {
		return "", apperrors.BadRequest("invalid filePath")
	}
	return key, nil
}

// Upload stores the file and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, filePath string, fh *multipart.FileHeader) (string, error) {
	driver := s.store.Driver()

	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		metrics.Uploads.WithLabelValues(driver, "rejected").Inc()
		return "", apperrors.BadRequest(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	key, err := ObjectKey(filePath, fh.Filename)
	if err != nil {
		metrics.Uploads.WithLabelValues(driver, "rejected").Inc()
		return "", err
	}
	contentType, err := storage.ContentTypeFor(key)
	if err != nil {
		metrics.Uploads.WithLabelValues(driver, "rejected").Inc()
		return "", apperrors.BadRequest("file type not allowed")
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := s.store.Put(ctx, key, contentType, f, fh.Size)
	if err != nil {
		metrics.Uploads.WithLabelValues(driver, "failed").Inc()
		logger.WithModule("upload").WithError(err).WithField("key", key).Error("Upload failed")
		return "", err
	}
	metrics.Uploads.WithLabelValues(driver, "stored").Inc()
	return url, nil
}
