package handlers

import (
	"context"

	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/scoring"
	"rentalhub/internal/services"
	"rentalhub/pkg/pagination"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type TenantAPI interface {
	ProfileByUser(ctx context.Context, userID uint) (*models.TenantProfile, error)
	UpsertProfile(ctx context.Context, userID uint, in services.TenantProfileInput) (*models.TenantProfile, error)
	Bundle(ctx context.Context, profileID uint) (*services.TenantBundle, error)
	BundleByUser(ctx context.Context, userID uint) (*services.TenantBundle, error)
	Completion(ctx context.Context, profileID uint) (*scoring.Result, error)
	AddDocument(ctx context.Context, profileID uint, in services.DocumentInput) (*models.TenantDocument, error)
	DeleteDocument(ctx context.Context, profileID, docID uint) error
	AddReference(ctx context.Context, profileID uint, in services.ReferenceInput) (*models.TenantReference, error)
	DeleteReference(ctx context.Context, profileID, refID uint) error
	List(ctx context.Context, f services.TenantFilter, page *pagination.PageParams) ([]models.TenantProfile, int64, error)
	ChangeStatus(ctx context.Context, id uint, to string) (*models.TenantProfile, error)
	ChangeVerification(ctx context.Context, id uint, to string) (*models.TenantProfile, error)
	ReviewDocument(ctx context.Context, profileID, docID uint, in services.ReviewInput) (*models.TenantDocument, error)
	CheckReference(ctx context.Context, profileID, refID uint, in services.ReviewInput) (*models.TenantReference, error)
	Delete(ctx context.Context, id uint) error
}

// TenantHandler covers both tenant self-service (/tenants/me) and the admin
// tenant manager.
type TenantHandler struct {
	tenants TenantAPI
}

func NewTenantHandler(tenants TenantAPI) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// ========== self service ==========

func (h *TenantHandler) Me(c *gin.Context) {
	bundle, err := h.tenants.BundleByUser(c.Request.Context(), middleware.CurrentActor(c).UserID)
	if err != nil {
		response.FromError(c, err, "failed to load profile")
		return
	}
	response.Success(c, bundle)
}

func (h *TenantHandler) UpsertMe(c *gin.Context) {
	var req services.TenantProfileInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.tenants.UpsertProfile(c.Request.Context(), middleware.CurrentActor(c).UserID, req)
	if err != nil {
		response.FromError(c, err, "failed to save profile")
		return
	}
	response.SuccessWithMessage(c, "profile saved", profile)
}

func (h *TenantHandler) MyCompletion(c *gin.Context) {
	profileID, ok := h.myProfileID(c)
	if !ok {
		return
	}
	h.renderCompletion(c, profileID)
}

func (h *TenantHandler) AddMyDocument(c *gin.Context) {
	profileID, ok := h.myProfileID(c)
	if !ok {
		return
	}
	var req services.DocumentInput
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.tenants.AddDocument(c.Request.Context(), profileID, req)
	if err != nil {
		response.FromError(c, err, "failed to add document")
		return
	}
	response.Success(c, doc)
}

func (h *TenantHandler) DeleteMyDocument(c *gin.Context) {
	profileID, ok := h.myProfileID(c)
	if !ok {
		return
	}
	docID, ok := parseID(c, "doc_id")
	if !ok {
		return
	}
	if err := h.tenants.DeleteDocument(c.Request.Context(), profileID, docID); err != nil {
		response.FromError(c, err, "failed to delete document")
		return
	}
	response.SuccessWithMessage(c, "document deleted", nil)
}

func (h *TenantHandler) AddMyReference(c *gin.Context) {
	profileID, ok := h.myProfileID(c)
	if !ok {
		return
	}
	var req services.ReferenceInput
	if !bindJSON(c, &req) {
		return
	}
	ref, err := h.tenants.AddReference(c.Request.Context(), profileID, req)
	if err != nil {
		response.FromError(c, err, "failed to add reference")
		return
	}
	response.Success(c, ref)
}

func (h *TenantHandler) DeleteMyReference(c *gin.Context) {
	profileID, ok := h.myProfileID(c)
	if !ok {
		return
	}
	refID, ok := parseID(c, "ref_id")
	if !ok {
		return
	}
	if err := h.tenants.DeleteReference(c.Request.Context(), profileID, refID); err != nil {
		response.FromError(c, err, "failed to delete reference")
		return
	}
	response.SuccessWithMessage(c, "reference deleted", nil)
}

func (h *TenantHandler) myProfileID(c *gin.Context) (uint, bool) {
	profile, err := h.tenants.ProfileByUser(c.Request.Context(), middleware.CurrentActor(c).UserID)
	if err != nil {
		response.FromError(c, err, "failed to load profile")
		return 0, false
	}
	return profile.ID, true
}

func (h *TenantHandler) renderCompletion(c *gin.Context, profileID uint) {
	res, err := h.tenants.Completion(c.Request.Context(), profileID)
	if err != nil {
		response.FromError(c, err, "failed to score profile")
		return
	}
	response.Success(c, res)
}

// ========== admin ==========

func (h *TenantHandler) List(c *gin.Context) {
	var filter services.TenantFilter
	if !bindQuery(c, &filter) {
		return
	}
	page := pagination.ParsePageParams(c, "created_at", "full_name", "status")
	items, total, err := h.tenants.List(c.Request.Context(), filter, page)
	if err != nil {
		response.FromError(c, err, "failed to list tenants")
		return
	}
	response.SuccessWithPage(c, items, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bundle, err := h.tenants.Bundle(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load tenant")
		return
	}
	response.Success(c, bundle)
}

func (h *TenantHandler) Completion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.renderCompletion(c, id)
}

func (h *TenantHandler) ChangeStatus(c *gin.Context) {
	h.transition(c, h.tenants.ChangeStatus)
}

func (h *TenantHandler) ChangeVerification(c *gin.Context) {
	h.transition(c, h.tenants.ChangeVerification)
}

func (h *TenantHandler) transition(c *gin.Context, fn func(context.Context, uint, string) (*models.TenantProfile, error)) {
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

func (h *TenantHandler) ReviewDocument(c *gin.Context) {
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
	doc, err := h.tenants.ReviewDocument(c.Request.Context(), id, docID, req)
	if err != nil {
		response.FromError(c, err, "failed to review document")
		return
	}
	response.Success(c, doc)
}

func (h *TenantHandler) CheckReference(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	refID, ok := parseID(c, "ref_id")
	if !ok {
		return
	}
	var req services.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	ref, err := h.tenants.CheckReference(c.Request.Context(), id, refID, req)
	if err != nil {
		response.FromError(c, err, "failed to update reference")
		return
	}
	response.Success(c, ref)
}

func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tenants.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "failed to delete tenant")
		return
	}
	response.SuccessWithMessage(c, "tenant deleted", nil)
}
