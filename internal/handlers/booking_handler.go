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

type BookingAPI interface {
	Create(ctx context.Context, tenantUserID uint, in services.BookingInput) (*models.Booking, error)
	ListMine(ctx context.Context, tenantUserID uint, page *pagination.PageParams) ([]models.Booking, int64, error)
	ListForProperty(ctx context.Context, actor services.Actor, propertyID uint, page *pagination.PageParams) ([]models.Booking, int64, error)
	Transition(ctx context.Context, actor services.Actor, bookingID uint, to string) (*models.Booking, error)
}

type BookingHandler struct {
	bookings BookingAPI
}

func NewBookingHandler(bookings BookingAPI) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req services.BookingInput
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), middleware.CurrentActor(c).UserID, req)
	if err != nil {
		response.FromError(c, err, "failed to create booking")
		return
	}
	response.SuccessWithMessage(c, "booking requested", b)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	page := pagination.ParsePageParams(c, "created_at", "move_in_date")
	items, total, err := h.bookings.ListMine(c.Request.Context(), middleware.CurrentActor(c).UserID, page)
	if err != nil {
		response.FromError(c, err, "failed to list bookings")
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *BookingHandler) ListForProperty(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page := pagination.ParsePageParams(c, "created_at", "move_in_date", "status")
	items, total, err := h.bookings.ListForProperty(c.Request.Context(), middleware.CurrentActor(c), id, page)
	if err != nil {
		response.FromError(c, err, "failed to list bookings")
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *BookingHandler) Transition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.bookings.Transition(c.Request.Context(), middleware.CurrentActor(c), id, req.Status)
	if err != nil {
		response.FromError(c, err, "failed to update booking")
		return
	}
	response.Success(c, b)
}
