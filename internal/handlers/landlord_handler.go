package handlers

import (
	"context"

	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type LandlordAPI interface {
	List(ctx context.Context, f services.LandlordFilter, page *pagination.PageParams) ([]models.LandlordProfile, int64, error)
	Get(ctx context.Context, id uint) (*models.LandlordProfile, error)
	Create(ctx context.Context, in services.LandlordAccountInput) (*models.LandlordProfile, error)
	CreateAccount(ctx context.Context, in services.LandlordAccountInput) (*models.LandlordProfile, error)
	Update(ctx context.Context, id uint, in services.LandlordInput) (*models.LandlordProfile, error)
	Delete(ctx context.Context, id uint) error
	ChangeStatus(ctx context.Context, id uint, to string) (*models.LandlordProfile, error)
	ChangeVerification(ctx context.Context, id uint, to string) (*models.LandlordProfile, error)
	AddDocument(ctx context.Context, landlordID uint, in services.DocumentInput) (*models.LandlordDocument, error)
	ReviewDocument(ctx context.Context, landlordID, docID uint, in services.ReviewInput) (*models.LandlordDocument, error)
	RecordPayment(ctx context.Context, landlordID uint, in services.PaymentInput) (*models.LandlordPayment, error)
	TransitionPayment(ctx context.Context, landlordID, paymentID uint, to string) (*models.LandlordPayment, error)
	Stats(ctx context.Context) (*services.LandlordStats, error)
}

// LandlordHandler back-office landlord manager, admin only.
type LandlordHandler struct {
	landlords LandlordAPI
}

func NewLandlordHandler(landlords LandlordAPI) *LandlordHandler {
	return &LandlordHandler{landlords: landlords}
}

// StatusRequest target state of a transition.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *LandlordHandler) List(c *gin.Context) {
	var filter services.LandlordFilter
	if !bindQuery(c, &filter) {
		return
	}
	page := pagination.ParsePageParams(c, "created_at", "business_name", "status")
	items, total, err := h.landlords.List(c.Request.Context(), filter, page)
	if err != nil {
		response.FromError(c, err, "failed to list landlords")
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *LandlordHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	profile, err := h.landlords.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load landlord")
		return
	}
	response.Success(c, profile)
}

// Create attaches a profile to an existing user, or creates the account when
// a password is supplied.
func (h *LandlordHandler) Create(c *gin.Context) {
	var req services.LandlordAccountInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.landlords.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "failed to create landlord")
		return
	}
	response.SuccessWithMessage(c, "landlord created", profile)
}

// CreateAccount always creates a new landlord login.
func (h *LandlordHandler) CreateAccount(c *gin.Context) {
	var req services.LandlordAccountInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.landlords.CreateAccount(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "failed to create landlord account")
		return
	}
	response.SuccessWithMessage(c, "landlord account created", profile)
}

func (h *LandlordHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.LandlordInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.landlords.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err, "failed to update landlord")
		return
	}
	response.SuccessWithMessage(c, "landlord updated", profile)
}

func (h *LandlordHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.landlords.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "failed to delete landlord")
		return
	}
	response.SuccessWithMessage(c, "landlord deleted", nil)
}

func (h *LandlordHandler) ChangeStatus(c *gin.Context) {
	h.transition(c, h.landlords.ChangeStatus)
}

func (h *LandlordHandler) ChangeVerification(c *gin.Context) {
	h.transition(c, h.landlords.ChangeVerification)
}

func (h *LandlordHandler) transition(c *gin.Context, fn func(context.Context, uint, string) (*models.LandlordProfile, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := fn(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err, "failed to change status")
		return
	}
	response.Success(c, profile)
}

func (h *LandlordHandler) AddDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.DocumentInput
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.landlords.AddDocument(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err, "failed to add document")
		return
	}
	response.Success(c, doc)
}

func (h *LandlordHandler) ReviewDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	docID, ok := parseID(c, "doc_id")
	if !ok {
		return
	}
	var req services.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.landlords.ReviewDocument(c.Request.Context(), id, docID, req)
	if err != nil {
		response.FromError(c, err, "failed to review document")
		return
	}
	response.Success(c, doc)
}

func (h *LandlordHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.PaymentInput
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.landlords.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err, "failed to record payment")
		return
	}
	response.Success(c, payment)
}

func (h *LandlordHandler) TransitionPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := parseID(c, "payment_id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.landlords.TransitionPayment(c.Request.Context(), id, paymentID, req.Status)
	if err != nil {
		response.FromError(c, err, "failed to change payment status")
		return
	}
	response.Success(c, payment)
}

func (h *LandlordHandler) Stats(c *gin.Context) {
	stats, err := h.landlords.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to load stats")
		return
	}
	response.Success(c, stats)
}
