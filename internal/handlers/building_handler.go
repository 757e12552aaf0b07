package handlers

import (
	"context"

	"rentalhub/internal/building"
	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// BuildingAPI is implemented by services.BuildingService.
type BuildingAPI interface {
	Preview(layout *building.Layout) (*building.Plan, error)
	CreateBuilding(ctx context.Context, actor services.Actor, layout *building.Layout, landlordID *uint, mode string) (*services.BuildingReport, error)
	GetBlock(ctx context.Context, id uint) (*services.BlockView, error)
	ListBlocks(ctx context.Context, actor services.Actor, page *pagination.PageParams) ([]models.PropertyBlock, int64, error)
	UpdateBlock(ctx context.Context, actor services.Actor, id uint, in services.BlockUpdate) (*models.PropertyBlock, error)
	DeleteBlock(ctx context.Context, actor services.Actor, id uint) error
}

type BuildingHandler struct {
	buildings BuildingAPI
}

func NewBuildingHandler(buildings BuildingAPI) *BuildingHandler {
	return &BuildingHandler{buildings: buildings}
}

// CreateBuildingRequest is the wizard submission. Mode overrides the
// configured creation mode ("atomic" or "best_effort").
type CreateBuildingRequest struct {
	building.Layout
	LandlordID *uint  `json:"landlord_id"`
	Mode       string `json:"mode"`
}

// Create expands the layout and persists block, properties, units and images.
// A best-effort run that skipped unit types still answers 200; the report
// lists what failed.
func (h *BuildingHandler) Create(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed layout: "+err.Error())
		return
	}

	report, err := h.buildings.CreateBuilding(c.Request.Context(), middleware.CurrentActor(c), &req.Layout, req.LandlordID, req.Mode)
	if err != nil {
		response.FromError(c, err, "failed to create building")
		return
	}
	if report.Partial() {
		response.SuccessWithMessage(c, "building created with failures", report)
		return
	}
	response.SuccessWithMessage(c, "building created", report)
}

// Preview returns the expansion without writing anything.
func (h *BuildingHandler) Preview(c *gin.Context) {
	var layout building.Layout
	if err := c.ShouldBindJSON(&layout); err != nil {
		response.BadRequest(c, "malformed layout: "+err.Error())
		return
	}
	plan, err := h.buildings.Preview(&layout)
	if err != nil {
		response.FromError(c, err, "failed to expand layout")
		return
	}
	response.Success(c, plan)
}

func (h *BuildingHandler) List(c *gin.Context) {
	page := pagination.ParsePageParams(c, "created_at", "name", "total_units")
	blocks, total, err := h.buildings.ListBlocks(c.Request.Context(), middleware.CurrentActor(c), page)
	if err != nil {
		response.FromError(c, err, "failed to list blocks")
		return
	}
	response.SuccessWithPage(c, blocks, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *BuildingHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.buildings.GetBlock(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load block")
		return
	}
	response.Success(c, view)
}

func (h *BuildingHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.BlockUpdate
	if !bindJSON(c, &req) {
		return
	}
	block, err := h.buildings.UpdateBlock(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.FromError(c, err, "failed to update block")
		return
	}
	response.SuccessWithMessage(c, "block updated", block)
}

func (h *BuildingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.buildings.DeleteBlock(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.FromError(c, err, "failed to delete block")
		return
	}
	response.SuccessWithMessage(c, "block deleted", nil)
}
