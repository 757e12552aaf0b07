package handlers

import (
	"context"

	"rentalhub/internal/forms"
	"rentalhub/internal/middleware"
	"rentalhub/internal/services"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type EditorAPI interface {
	Check(values forms.Values) *services.EditorResult
	Load(ctx context.Context, actor services.Actor, id uint) (*services.EditorResult, error)
	Save(ctx context.Context, actor services.Actor, id uint, values forms.Values) (*services.EditorResult, error)
}

// EditorHandler serves the full property editor form.
type EditorHandler struct {
	editor EditorAPI
}

func NewEditorHandler(editor EditorAPI) *EditorHandler {
	return &EditorHandler{editor: editor}
}

func bindValues(c *gin.Context) (forms.Values, bool) {
	var values forms.Values
	if err := c.ShouldBindJSON(&values); err != nil {
		response.BadRequest(c, "body must be a JSON object of field values")
		return nil, false
	}
	if values == nil {
		values = forms.Values{}
	}
	return values, true
}

// Validate checks a value map without saving; errors are part of the data.
func (h *EditorHandler) Validate(c *gin.Context) {
	values, ok := bindValues(c)
	if !ok {
		return
	}
	response.Success(c, h.editor.Check(values))
}

func (h *EditorHandler) Load(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	res, err := h.editor.Load(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.FromError(c, err, "failed to load editor")
		return
	}
	response.Success(c, res)
}

func (h *EditorHandler) Save(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}
	res, err := h.editor.Save(c.Request.Context(), middleware.CurrentActor(c), id, values)
	if err != nil {
		response.FromError(c, err, "failed to save property")
		return
	}
	response.SuccessWithMessage(c, "property saved", res)
}
