package handlers

import (
	"context"
	"io"

	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type DraftAPI interface {
	Save(ctx context.Context, userID uint, key string, payload []byte) (*services.DraftSaveResult, error)
	Get(ctx context.Context, userID uint, key string) (*models.FormDraft, error)
	Delete(ctx context.Context, userID uint, key string) error
}

type DraftHandler struct {
	drafts  DraftAPI
	maxBody int64
}

func NewDraftHandler(drafts DraftAPI) *DraftHandler {
	return &DraftHandler{drafts: drafts, maxBody: 1 << 20}
}

func draftKey(c *gin.Context) (string, bool) {
	key := c.Param("key")
	if key == "" || len(key) > 100 {
		response.BadRequest(c, "invalid draft key")
		return "", false
	}
	return key, true
}

// Save stores the body as the draft; an unchanged payload is not rewritten.
func (h *DraftHandler) Save(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBody+1))
	if err != nil {
		response.BadRequest(c, "failed to read body")
		return
	}
	if int64(len(payload)) > h.maxBody {
		response.BadRequest(c, "draft too large")
		return
	}
	res, err := h.drafts.Save(c.Request.Context(), middleware.CurrentActor(c).UserID, key, payload)
	if err != nil {
		response.FromError(c, err, "failed to save draft")
		return
	}
	response.Success(c, res)
}

func (h *DraftHandler) Get(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	draft, err := h.drafts.Get(c.Request.Context(), middleware.CurrentActor(c).UserID, key)
	if err != nil {
		response.FromError(c, err, "failed to load draft")
		return
	}
	response.Success(c, draft)
}

func (h *DraftHandler) Delete(c *gin.Context) {
	key, ok := draftKey(c)
	if !ok {
		return
	}
	if err := h.drafts.Delete(c.Request.Context(), middleware.CurrentActor(c).UserID, key); err != nil {
		response.FromError(c, err, "failed to delete draft")
		return
	}
	response.SuccessWithMessage(c, "draft deleted", nil)
}
