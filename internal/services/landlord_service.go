package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"rentalhub/internal/lifecycle"
	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/pagination"

	"gorm.io/gorm"
)

// LandlordService is the admin landlord manager.
type LandlordService struct {
	db    *gorm.DB
	users *UserService
}

func NewLandlordService(db *gorm.DB, users *UserService) *LandlordService {
	return &LandlordService{db: db, users: users}
}

type LandlordFilter struct {
	Status       string `form:"status"`
	Verification string `form:"verification_status"`
	Keyword      string `form:"q"`
}

type LandlordInput struct {
	BusinessName string `json:"business_name" binding:"max=150"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=20"`
	Address      string `json:"address" binding:"max=200"`
	City         string `json:"city" binding:"max=100"`
	Country      string `json:"country" binding:"max=100"`
	Notes        string `json:"notes"`
}

// LandlordAccountInput creates a landlord. When Password is empty the email
// must belong to an existing user.
type LandlordAccountInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"omitempty,min=8"`
	FullName string  `json:"full_name" binding:"required_with=Password,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	LandlordInput
}

func (s *LandlordService) List(ctx context.Context, f LandlordFilter, page *pagination.PageParams) ([]models.LandlordProfile, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.LandlordProfile{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Verification != "" {
		q = q.Where("verification_status = ?", f.Verification)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("business_name ILIKE ? OR contact_name ILIKE ? OR contact_email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.LandlordProfile
	err := q.Preload("User").Order(page.OrderClause()).Offset(page.GetOffset()).Limit(page.GetLimit()).Find(&list).Error
	return list, total, err
}

func (s *LandlordService) Get(ctx context.Context, id uint) (*models.LandlordProfile, error) {
	var profile models.LandlordProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&profile, id).Error
	if err != nil {
		return nil, notFoundOr(err, "landlord")
	}
	return &profile, nil
}

// Create attaches a landlord profile to an existing account found by email,
// or creates a new landlord account when a password is given.
func (s *LandlordService) Create(ctx context.Context, in LandlordAccountInput) (*models.LandlordProfile, error) {
	var profile *models.LandlordProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", normalizeEmail(in.Email)).First(&user).Error
		switch {
		case err == nil:
			if in.Password != "" {
				return apperrors.Conflict("email already registered")
			}
		case stderrors.Is(err, gorm.ErrRecordNotFound):
			if in.Password == "" {
				return apperrors.NotFound("no account with this email, provide a password to create one")
			}
			created, cerr := s.users.Create(tx, NewUser{
				Email: in.Email, Password: in.Password, FullName: in.FullName, Phone: in.Phone, Role: models.RoleLandlord,
			})
			if cerr != nil {
				return cerr
			}
			user = *created
		default:
			return err
		}

		var count int64
		if err := tx.Model(&models.LandlordProfile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("this user already has a landlord profile")
		}

		if user.Role == models.RoleTenant {
			if err := tx.Model(&user).Update("role", models.RoleLandlord).Error; err != nil {
				return err
			}
		}

		profile = &models.LandlordProfile{
			UserID:             user.ID,
			Status:             models.AccountStatusPending,
			VerificationStatus: models.VerificationUnverified,
		}
		applyLandlordInput(profile, in.LandlordInput)
		if profile.ContactName == "" {
			profile.ContactName = user.FullName
		}
		if profile.ContactEmail == "" {
			profile.ContactEmail = user.Email
		}
		return conflictOr(tx.Create(profile).Error, "this user already has a landlord profile")
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateAccount is the new-account-only path.
func (s *LandlordService) CreateAccount(ctx context.Context, in LandlordAccountInput) (*models.LandlordProfile, error) {
	if in.Password == "" {
		return nil, apperrors.Validation("invalid account", map[string]string{"password": "password is required"})
	}
	return s.Create(ctx, in)
}

func applyLandlordInput(p *models.LandlordProfile, in LandlordInput) {
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.ContactName = strings.TrimSpace(in.ContactName)
	p.ContactEmail = strings.TrimSpace(in.ContactEmail)
	p.ContactPhone = strings.TrimSpace(in.ContactPhone)
	p.Address = in.Address
	p.City = in.City
	p.Country = in.Country
	p.Notes = in.Notes
}

func (s *LandlordService) Update(ctx context.Context, id uint, in LandlordInput) (*models.LandlordProfile, error) {
	var profile models.LandlordProfile
	if err := s.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, notFoundOr(err, "landlord")
	}
	applyLandlordInput(&profile, in)
	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Delete removes the profile with its documents and payments. The user
// account stays.
func (s *LandlordService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.LandlordProfile
		if err := tx.First(&profile, id).Error; err != nil {
			return notFoundOr(err, "landlord")
		}
		if err := tx.Where("landlord_id = ?", id).Delete(&models.LandlordDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("landlord_id = ?", id).Delete(&models.LandlordPayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
}

func (s *LandlordService) ChangeStatus(ctx context.Context, id uint, to string) (*models.LandlordProfile, error) {
	return s.transitionProfile(ctx, id, "status", lifecycle.Account, to)
}

func (s *LandlordService) ChangeVerification(ctx context.Context, id uint, to string) (*models.LandlordProfile, error) {
	return s.transitionProfile(ctx, id, "verification_status", lifecycle.Verification, to)
}

func (s *LandlordService) transitionProfile(ctx context.Context, id uint, column string, m *lifecycle.Machine, to string) (*models.LandlordProfile, error) {
	var profile models.LandlordProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&profile, id).Error; err != nil {
			return notFoundOr(err, "landlord")
		}
		from := profile.Status
		if column == "verification_status" {
			from = profile.VerificationStatus
		}
		if err := m.Transition(from, to); err != nil {
			return err
		}
		return tx.Model(&profile).Update(column, to).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type DocumentInput struct {
	DocumentType string `json:"document_type" binding:"required,max=50"`
	FileURL      string `json:"file_url" binding:"required,max=500"`
	Notes        string `json:"notes"`
}

func (s *LandlordService) AddDocument(ctx context.Context, landlordID uint, in DocumentInput) (*models.LandlordDocument, error) {
	if err := s.exists(ctx, landlordID); err != nil {
		return nil, err
	}
	doc := &models.LandlordDocument{
		LandlordID:   landlordID,
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

type ReviewInput struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (s *LandlordService) ReviewDocument(ctx context.Context, landlordID, docID uint, in ReviewInput) (*models.LandlordDocument, error) {
	var doc models.LandlordDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND landlord_id = ?", docID, landlordID).First(&doc).Error; err != nil {
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

type PaymentInput struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Currency  string `json:"currency" binding:"omitempty,len=3"`
	Method    string `json:"method" binding:"max=30"`
	Reference string `json:"reference" binding:"max=100"`
	Period    string `json:"period" binding:"max=20"`
}

func (s *LandlordService) RecordPayment(ctx context.Context, landlordID uint, in PaymentInput) (*models.LandlordPayment, error) {
	if err := s.exists(ctx, landlordID); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}
	payment := &models.LandlordPayment{
		LandlordID: landlordID,
		Amount:     in.Amount,
		Currency:   currency,
		Method:     in.Method,
		Reference:  in.Reference,
		Period:     in.Period,
		Status:     models.PaymentPending,
	}
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *LandlordService) TransitionPayment(ctx context.Context, landlordID, paymentID uint, to string) (*models.LandlordPayment, error) {
	var payment models.LandlordPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND landlord_id = ?", paymentID, landlordID).First(&payment).Error; err != nil {
			return notFoundOr(err, "payment")
		}
		if err := lifecycle.Payment.Transition(payment.Status, to); err != nil {
			return err
		}
		updates := map[string]interface{}{"status": to}
		if to == models.PaymentCompleted {
			updates["paid_at"] = time.Now()
		}
		return tx.Model(&payment).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type LandlordStats struct {
	Total          int64         `json:"total"`
	ByStatus       []StatusCount `json:"by_status"`
	ByVerification []StatusCount `json:"by_verification"`
}

func (s *LandlordService) Stats(ctx context.Context) (*LandlordStats, error) {
	stats := &LandlordStats{}
	db := s.db.WithContext(ctx).Model(&models.LandlordProfile{})
	if err := db.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.LandlordProfile{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&stats.ByStatus).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.LandlordProfile{}).
		Select("verification_status AS status, COUNT(*) AS count").Group("verification_status").Scan(&stats.ByVerification).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *LandlordService) exists(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.LandlordProfile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("landlord not found")
	}
	return nil
}
