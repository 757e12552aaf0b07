package handlers

import (
	"context"

	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/response"
	"rentalhub/pkg/unitcode"

	"github.com/gin-gonic/gin"
)

type UnitAPI interface {
	List(ctx context.Context, f services.UnitFilter) ([]models.PropertyUnit, error)
	FindByNumber(ctx context.Context, blockID uint, number string) (*models.PropertyUnit, error)
	Update(ctx context.Context, actor services.Actor, id uint, in services.UnitUpdate) (*models.PropertyUnit, error)
}

type UnitHandler struct {
	units UnitAPI
}

func NewUnitHandler(units UnitAPI) *UnitHandler {
	return &UnitHandler{units: units}
}

// UnitView adds the grouped display form of the unit number.
type UnitView struct {
	models.PropertyUnit
	DisplayNumber string `json:"display_number"`
}

func unitView(u models.PropertyUnit) UnitView {
	return UnitView{PropertyUnit: u, DisplayNumber: unitcode.Format(u.UnitNumber)}
}

// List requires block_id or property_id.
func (h *UnitHandler) List(c *gin.Context) {
	var filter services.UnitFilter
	if !bindQuery(c, &filter) {
		return
	}
	units, err := h.units.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err, "failed to list units")
		return
	}
	views := make([]UnitView, 0, len(units))
	for _, u := range units {
		views = append(views, unitView(u))
	}
	response.Success(c, views)
}

// Lookup finds a unit of a block by its printed number.
func (h *UnitHandler) Lookup(c *gin.Context) {
	blockID, ok := parseID(c, "id")
	if !ok {
		return
	}
	unit, err := h.units.FindByNumber(c.Request.Context(), blockID, c.Param("number"))
	if err != nil {
		response.FromError(c, err, "failed to look up unit")
		return
	}
	response.Success(c, unitView(*unit))
}

func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.UnitUpdate
	if !bindJSON(c, &req) {
		return
	}
	unit, err := h.units.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.FromError(c, err, "failed to update unit")
		return
	}
	response.SuccessWithMessage(c, "unit updated", unitView(*unit))
}
