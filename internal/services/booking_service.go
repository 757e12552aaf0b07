package services

import (
	"context"
	"time"

	"rentalhub/internal/lifecycle"
	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/pagination"

	"gorm.io/gorm"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

type BookingInput struct {
	PropertyID uint   `json:"property_id" binding:"required"`
	UnitID     *uint  `json:"unit_id"`
	MoveInDate string `json:"move_in_date" binding:"required"` // 2006-01-02
	Months     int    `json:"months" binding:"omitempty,gte=1,lte=60"`
	Message    string `json:"message" binding:"max=1000"`
}

func (s *BookingService) Create(ctx context.Context, tenantUserID uint, in BookingInput) (*models.Booking, error) {
	moveIn, err := time.Parse("2006-01-02", in.MoveInDate)
	if err != nil {
		return nil, apperrors.Validation("invalid booking", map[string]string{"move_in_date": "must be a date like 2024-06-01"})
	}
	months := in.Months
	if months == 0 {
		months = 12
	}

	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, in.PropertyID).Error; err != nil {
		return nil, notFoundOr(err, "property")
	}
	if !property.IsAvailable {
		return nil, apperrors.Conflict("property is not available")
	}
	if in.UnitID != nil {
		var unit models.PropertyUnit
		if err := s.db.WithContext(ctx).Where("id = ? AND property_id = ?", *in.UnitID, in.PropertyID).First(&unit).Error; err != nil {
			return nil, notFoundOr(err, "unit")
		}
		if !unit.IsAvailable {
			return nil, apperrors.Conflict("unit is not available")
		}
	}

	booking := &models.Booking{
		PropertyID: in.PropertyID,
		UnitID:     in.UnitID,
		TenantID:   tenantUserID,
		MoveInDate: moveIn,
		Months:     months,
		Status:     models.BookingPending,
		Message:    in.Message,
	}
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, tenantUserID uint, page *pagination.PageParams) ([]models.Booking, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Booking{}).Where("tenant_id = ?", tenantUserID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Booking
	err := q.Preload("Property").Order(page.OrderClause()).Offset(page.GetOffset()).Limit(page.GetLimit()).Find(&list).Error
	return list, total, err
}

func (s *BookingService) ListForProperty(ctx context.Context, actor Actor, propertyID uint, page *pagination.PageParams) ([]models.Booking, int64, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).Select("id", "landlord_id").First(&property, propertyID).Error; err != nil {
		return nil, 0, notFoundOr(err, "property")
	}
	if !actor.CanManage(property.LandlordID) {
		return nil, 0, apperrors.Forbidden("you do not manage this property")
	}

	q := s.db.WithContext(ctx).Model(&models.Booking{}).Where("property_id = ?", propertyID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Booking
	err := q.Order(page.OrderClause()).Offset(page.GetOffset()).Limit(page.GetLimit()).Find(&list).Error
	return list, total, err
}

// Transition moves a booking to another status. Tenants may only cancel their
// own bookings; the managing landlord or an admin decides the rest. A confirmed
// booking holds its unit until it is cancelled or completed.
func (s *BookingService) Transition(ctx context.Context, actor Actor, bookingID uint, to string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, "booking")
		}
		if err := s.authorize(tx, actor, &booking, to); err != nil {
			return err
		}
		if err := lifecycle.Booking.Transition(booking.Status, to); err != nil {
			return err
		}

		from := booking.Status
		if err := tx.Model(&booking).Update("status", to).Error; err != nil {
			return err
		}
		if booking.UnitID == nil {
			return nil
		}

		switch {
		case to == models.BookingConfirmed:
			res := tx.Model(&models.PropertyUnit{}).
				Where("id = ? AND is_available = ?", *booking.UnitID, true).
				Update("is_available", false)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.Conflict("unit is already taken")
			}
		case from == models.BookingConfirmed && (to == models.BookingCancelled || to == models.BookingCompleted):
			return tx.Model(&models.PropertyUnit{}).Where("id = ?", *booking.UnitID).Update("is_available", true).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) authorize(tx *gorm.DB, actor Actor, b *models.Booking, to string) error {
	if actor.IsAdmin() {
		return nil
	}
	if b.TenantID == actor.UserID {
		if to == models.BookingCancelled {
			return nil
		}
		return apperrors.Forbidden("tenants can only cancel their bookings")
	}
	var property models.Property
	if err := tx.Select("id", "landlord_id").First(&property, b.PropertyID).Error; err != nil {
		return notFoundOr(err, "property")
	}
	if !actor.CanManage(property.LandlordID) {
		return apperrors.Forbidden("you do not manage this booking")
	}
	return nil
}
