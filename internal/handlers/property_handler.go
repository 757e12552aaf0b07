package handlers

import (
	"context"

	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// PropertyAPI is implemented by services.PropertyService.
type PropertyAPI interface {
	List(ctx context.Context, f services.PropertyFilter, page *pagination.PageParams) ([]models.Property, int64, error)
	Get(ctx context.Context, id uint) (*models.Property, error)
	Create(ctx context.Context, actor services.Actor, in services.PropertyInput) (*models.Property, error)
	Update(ctx context.Context, actor services.Actor, id uint, in services.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, actor services.Actor, id uint) error
	AddImage(ctx context.Context, actor services.Actor, propertyID uint, in services.ImageInput) (*models.PropertyImage, error)
	RemoveImage(ctx context.Context, actor services.Actor, propertyID, imageID uint) error
	SetPrimaryImage(ctx context.Context, actor services.Actor, propertyID, imageID uint) error
}

type PropertyHandler struct {
	properties PropertyAPI
}

func NewPropertyHandler(properties PropertyAPI) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// List public listing with filters and paging.
func (h *PropertyHandler) List(c *gin.Context) {
	var filter services.PropertyFilter
	if !bindQuery(c, &filter) {
		return
	}
	page := pagination.ParsePageParams(c, services.PropertySorts...)

	items, total, err := h.properties.List(c.Request.Context(), filter, page)
	if err != nil {
		response.FromError(c, err, "failed to list properties")
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load property")
		return
	}
	response.Success(c, p)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req services.PropertyInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.properties.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.FromError(c, err, "failed to create property")
		return
	}
	response.SuccessWithMessage(c, "property created", p)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.PropertyInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.properties.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.FromError(c, err, "failed to update property")
		return
	}
	response.SuccessWithMessage(c, "property updated", p)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.properties.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.FromError(c, err, "failed to delete property")
		return
	}
	response.SuccessWithMessage(c, "property deleted", nil)
}

func (h *PropertyHandler) AddImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.ImageInput
	if !bindJSON(c, &req) {
		return
	}
	img, err := h.properties.AddImage(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.FromError(c, err, "failed to add image")
		return
	}
	response.Success(c, img)
}

func (h *PropertyHandler) RemoveImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "image_id")
	if !ok {
		return
	}
	if err := h.properties.RemoveImage(c.Request.Context(), middleware.CurrentActor(c), id, imageID); err != nil {
		response.FromError(c, err, "failed to remove image")
		return
	}
	response.SuccessWithMessage(c, "image removed", nil)
}

func (h *PropertyHandler) SetPrimaryImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "image_id")
	if !ok {
		return
	}
	if err := h.properties.SetPrimaryImage(c.Request.Context(), middleware.CurrentActor(c), id, imageID); err != nil {
		response.FromError(c, err, "failed to set primary image")
		return
	}
	response.SuccessWithMessage(c, "primary image updated", nil)
}
