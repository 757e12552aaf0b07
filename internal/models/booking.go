package models

import (
	"time"
)

// booking status
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	BaseModel
	PropertyID uint      `json:"property_id" gorm:"not null;index"`
	UnitID     *uint     `json:"unit_id" gorm:"index"`
	TenantID   uint      `json:"tenant_id" gorm:"not null;index"` // user id of the tenant
	MoveInDate time.Time `json:"move_in_date"`
	Months     int       `json:"months" gorm:"not null;default:12"`
	Status     string    `json:"status" gorm:"size:20;default:'pending';index"`
	Message    string    `json:"message" gorm:"type:text"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// PropertyInterest one row per (property, user) who marked the listing.
type PropertyInterest struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	PropertyID uint      `json:"property_id" gorm:"not null;uniqueIndex:idx_property_user"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_property_user"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PropertyInterest) TableName() string {
	return "property_interests"
}
