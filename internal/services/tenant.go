package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"rentalhub/internal/lifecycle"
	"rentalhub/internal/models"
	"rentalhub/internal/scoring"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/pagination"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// TenantService covers tenant self-service and the admin tenant manager.
type TenantService struct {
	db *gorm.DB
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

type TenantProfileInput struct {
	FullName      string  `json:"full_name" binding:"max=100"`
	Email         string  `json:"email" binding:"omitempty,email"`
	Phone         string  `json:"phone" binding:"max=20"`
	DateOfBirth   *string `json:"date_of_birth"` // 2006-01-02
	AddressLine   string  `json:"address_line" binding:"max=200"`
	City          string  `json:"city" binding:"max=100"`
	Country       string  `json:"country" binding:"max=100"`
	Employer      string  `json:"employer" binding:"max=150"`
	JobTitle      string  `json:"job_title" binding:"max=100"`
	MonthlyIncome int64   `json:"monthly_income" binding:"gte=0"`
}

// TenantBundle is everything the profile screen shows.
type TenantBundle struct {
	Profile    *models.TenantProfile    `json:"profile"`
	Documents  []models.TenantDocument  `json:"documents"`
	References []models.TenantReference `json:"references"`
	Completion scoring.Result           `json:"completion"`
}

// ProfileByUser returns the profile of a user, or 404 when none exists yet.
func (s *TenantService) ProfileByUser(ctx context.Context, userID uint) (*models.TenantProfile, error) {
	var profile models.TenantProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFoundOr(err, "tenant profile")
	}
	return &profile, nil
}

// UpsertProfile creates or updates the caller's profile.
func (s *TenantService) UpsertProfile(ctx context.Context, userID uint, in TenantProfileInput) (*models.TenantProfile, error) {
	var dob *time.Time
	if in.DateOfBirth != nil && strings.TrimSpace(*in.DateOfBirth) != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(*in.DateOfBirth))
		if err != nil {
			return nil, apperrors.Validation("invalid profile", map[string]string{"date_of_birth": "must be a date like 1990-04-02"})
		}
		dob = &t
	}

	var profile models.TenantProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if profile.ID == 0 {
			profile = models.TenantProfile{
				UserID:             userID,
				Status:             models.AccountStatusPending,
				VerificationStatus: models.VerificationUnverified,
			}
		}
		profile.FullName = strings.TrimSpace(in.FullName)
		profile.Email = strings.TrimSpace(in.Email)
		profile.Phone = strings.TrimSpace(in.Phone)
		profile.DateOfBirth = dob
		profile.AddressLine = in.AddressLine
		profile.City = in.City
		profile.Country = in.Country
		profile.Employer = in.Employer
		profile.JobTitle = in.JobTitle
		profile.MonthlyIncome = in.MonthlyIncome
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Bundle loads profile, documents and references concurrently.
func (s *TenantService) Bundle(ctx context.Context, profileID uint) (*TenantBundle, error) {
	bundle := &TenantBundle{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var profile models.TenantProfile
		if err := s.db.WithContext(gctx).First(&profile, profileID).Error; err != nil {
			return notFoundOr(err, "tenant")
		}
		bundle.Profile = &profile
		return nil
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("tenant_id = ?", profileID).
			Order("created_at DESC").Find(&bundle.Documents).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("tenant_id = ?", profileID).
			Order("created_at DESC").Find(&bundle.References).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	docs, refs := 0, 0
	for _, d := range bundle.Documents {
		if d.Status != models.DocumentRejected {
			docs++
		}
	}
	for _, r := range bundle.References {
		if r.Status != models.ReferenceFailed {
			refs++
		}
	}
	bundle.Completion = scoring.Score(scoringProfile(bundle.Profile, docs, refs))
	return bundle, nil
}

// BundleByUser is Bundle for the caller's own profile.
func (s *TenantService) BundleByUser(ctx context.Context, userID uint) (*TenantBundle, error) {
	profile, err := s.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Bundle(ctx, profile.ID)
}

// Completion scores a profile. Rejected documents and failed references do
// not count.
func (s *TenantService) Completion(ctx context.Context, profileID uint) (*scoring.Result, error) {
	var profile models.TenantProfile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		return nil, notFoundOr(err, "tenant")
	}
	var docs, refs int64
	if err := s.db.WithContext(ctx).Model(&models.TenantDocument{}).
		Where("tenant_id = ? AND status <> ?", profileID, models.DocumentRejected).Count(&docs).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.TenantReference{}).
		Where("tenant_id = ? AND status <> ?", profileID, models.ReferenceFailed).Count(&refs).Error; err != nil {
		return nil, err
	}
	res := scoring.Score(scoringProfile(&profile, int(docs), int(refs)))
	return &res, nil
}

func scoringProfile(p *models.TenantProfile, documents, references int) scoring.Profile {
	return scoring.Profile{
		FullName:      p.FullName,
		Email:         p.Email,
		Phone:         p.Phone,
		DateOfBirth:   p.DateOfBirth,
		AddressLine:   p.AddressLine,
		City:          p.City,
		Country:       p.Country,
		Employer:      p.Employer,
		JobTitle:      p.JobTitle,
		MonthlyIncome: p.MonthlyIncome,
		Documents:     documents,
		References:    references,
	}
}

func (s *TenantService) AddDocument(ctx context.Context, profileID uint, in DocumentInput) (*models.TenantDocument, error) {
	doc := &models.TenantDocument{
		TenantID:     profileID,
		DocumentType: in.DocumentType,
		FileURL:      in.FileURL,
		Status:       models.DocumentPending,
		Notes:        in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument lets a tenant withdraw a document that was not approved.
func (s *TenantService) DeleteDocument(ctx context.Context, profileID, docID uint) error {
	var doc models.TenantDocument
	if err := s.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", docID, profileID).First(&doc).Error; err != nil {
		return notFoundOr(err, "document")
	}
	if doc.Status == models.DocumentApproved {
		return apperrors.Conflict("approved documents cannot be removed")
	}
	return s.db.WithContext(ctx).Delete(&doc).Error
}

type ReferenceInput struct {
	Name         string `json:"name" binding:"required,max=100"`
	Relationship string `json:"relationship" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"max=20"`
}

func (s *TenantService) AddReference(ctx context.Context, profileID uint, in ReferenceInput) (*models.TenantReference, error) {
	ref := &models.TenantReference{
		TenantID:     profileID,
		Name:         in.Name,
		Relationship: in.Relationship,
		Email:        in.Email,
		Phone:        in.Phone,
		Status:       models.ReferencePending,
	}
	if err := s.db.WithContext(ctx).Create(ref).Error; err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *TenantService) DeleteReference(ctx context.Context, profileID, refID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", refID, profileID).Delete(&models.TenantReference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("reference not found")
	}
	return nil
}

// ========== admin ==========

type TenantFilter struct {
	Status       string `form:"status"`
	Verification string `form:"verification_status"`
	Keyword      string `form:"q"`
}

func (s *TenantService) List(ctx context.Context, f TenantFilter, page *pagination.PageParams) ([]models.TenantProfile, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.TenantProfile{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Verification != "" {
		q = q.Where("verification_status = ?", f.Verification)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ? OR city ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.TenantProfile
	err := q.Order(page.OrderClause()).Offset(page.GetOffset()).Limit(page.GetLimit()).Find(&list).Error
	return list, total, err
}

func (s *TenantService) ChangeStatus(ctx context.Context, id uint, to string) (*models.TenantProfile, error) {
	return s.transitionProfile(ctx, id, false, to)
}

func (s *TenantService) ChangeVerification(ctx context.Context, id uint, to string) (*models.TenantProfile, error) {
	return s.transitionProfile(ctx, id, true, to)
}

func (s *TenantService) transitionProfile(ctx context.Context, id uint, verification bool, to string) (*models.TenantProfile, error) {
	var profile models.TenantProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&profile, id).Error; err != nil {
			return notFoundOr(err, "tenant")
		}
		if verification {
			if err := lifecycle.Verification.Transition(profile.VerificationStatus, to); err != nil {
				return err
			}
			return tx.Model(&profile).Update("verification_status", to).Error
		}
		if err := lifecycle.Account.Transition(profile.Status, to); err != nil {
			return err
		}
		return tx.Model(&profile).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *TenantService) ReviewDocument(ctx context.Context, profileID, docID uint, in ReviewInput) (*models.TenantDocument, error) {
	var doc models.TenantDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND tenant_id = ?", docID, profileID).First(&doc).Error; err != nil {
			return notFoundOr(err, "document")
		}
		if err := lifecycle.Document.Transition(doc.Status, in.Status); err != nil {
			return err
		}
		return tx.Model(&doc).Updates(map[string]interface{}{"status": in.Status, "notes": in.Notes}).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *TenantService) CheckReference(ctx context.Context, profileID, refID uint, in ReviewInput) (*models.TenantReference, error) {
	var ref models.TenantReference
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND tenant_id = ?", refID, profileID).First(&ref).Error; err != nil {
			return notFoundOr(err, "reference")
		}
		if err := lifecycle.Reference.Transition(ref.Status, in.Status); err != nil {
			return err
		}
		return tx.Model(&ref).Updates(map[string]interface{}{"status": in.Status, "notes": in.Notes}).Error
	})
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Delete removes a tenant profile with its documents and references.
func (s *TenantService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.TenantProfile
		if err := tx.First(&profile, id).Error; err != nil {
			return notFoundOr(err, "tenant")
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&models.TenantDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&models.TenantReference{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
}
