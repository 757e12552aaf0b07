package models

import (
	"time"
)

// account status shared by landlord and tenant profiles
const (
	AccountStatusPending     = "pending"
	AccountStatusActive      = "active"
	AccountStatusInactive    = "inactive"
	AccountStatusSuspended   = "suspended"
	AccountStatusBlacklisted = "blacklisted"
)

// verification status shared by landlord and tenant profiles
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// document review status
const (
	DocumentPending  = "pending"
	DocumentApproved = "approved"
	DocumentRejected = "rejected"
)

// LandlordProfile business record attached to a landlord account.
type LandlordProfile struct {
	BaseModel
	UserID             uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName       string `json:"business_name" gorm:"size:150"`
	ContactName        string `json:"contact_name" gorm:"size:100"`
	ContactEmail       string `json:"contact_email" gorm:"size:100"`
	ContactPhone       string `json:"contact_phone" gorm:"size:20"`
	Address            string `json:"address" gorm:"size:200"`
	City               string `json:"city" gorm:"size:100"`
	Country            string `json:"country" gorm:"size:100"`
	Status             string `json:"status" gorm:"size:20;default:'pending';index"`
	VerificationStatus string `json:"verification_status" gorm:"size:20;default:'unverified';index"`
	Notes              string `json:"notes" gorm:"type:text"`

	User      *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Documents []LandlordDocument `json:"documents,omitempty" gorm:"foreignKey:LandlordID"`
	Payments  []LandlordPayment  `json:"payments,omitempty" gorm:"foreignKey:LandlordID"`
}

func (LandlordProfile) TableName() string {
	return "landlord_profiles"
}

// payment status
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

type LandlordPayment struct {
	BaseModel
	LandlordID uint       `json:"landlord_id" gorm:"not null;index"`
	Amount     int64      `json:"amount" gorm:"not null"`
	Currency   string     `json:"currency" gorm:"size:3;default:'USD'"`
	Method     string     `json:"method" gorm:"size:30"`
	Reference  string     `json:"reference" gorm:"size:100"`
	Status     string     `json:"status" gorm:"size:20;default:'pending';index"`
	Period     string     `json:"period" gorm:"size:20"` // e.g. 2024-05
	PaidAt     *time.Time `json:"paid_at"`
}

func (LandlordPayment) TableName() string {
	return "landlord_payments"
}

type LandlordDocument struct {
	BaseModel
	LandlordID   uint   `json:"landlord_id" gorm:"not null;index"`
	DocumentType string `json:"document_type" gorm:"size:50;not null"`
	FileURL      string `json:"file_url" gorm:"size:500;not null"`
	Status       string `json:"status" gorm:"size:20;default:'pending'"`
	Notes        string `json:"notes" gorm:"type:text"`
}

func (LandlordDocument) TableName() string {
	return "landlord_documents"
}
