package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"rentalhub/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Uploader interface {
	Upload(ctx context.Context, filePath string, fh *multipart.FileHeader) (string, error)
}

// UploadHandler answers with a bare {url} or {error} object instead of the
// usual envelope; the upload widgets expect that shape.
type UploadHandler struct {
	uploader Uploader
}

func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	filePath := c.PostForm("filePath")
	if filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filePath is required"})
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), filePath, fh)
	if err != nil {
		if appErr, ok := errors.As(err); ok && appErr.Code < errors.CodeServerError {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
