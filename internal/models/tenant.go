package models

import (
	"time"
)

// TenantProfile personal record used for screening.
type TenantProfile struct {
	BaseModel
	UserID             uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName           string     `json:"full_name" gorm:"size:100"`
	Email              string     `json:"email" gorm:"size:100"`
	Phone              string     `json:"phone" gorm:"size:20"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	AddressLine        string     `json:"address_line" gorm:"size:200"`
	City               string     `json:"city" gorm:"size:100"`
	Country            string     `json:"country" gorm:"size:100"`
	Employer           string     `json:"employer" gorm:"size:150"`
	JobTitle           string     `json:"job_title" gorm:"size:100"`
	MonthlyIncome      int64      `json:"monthly_income"`
	Status             string     `json:"status" gorm:"size:20;default:'pending';index"`
	VerificationStatus string     `json:"verification_status" gorm:"size:20;default:'unverified';index"`
	Notes              string     `json:"notes" gorm:"type:text"`
}

func (TenantProfile) TableName() string {
	return "tenant_profiles"
}

type TenantDocument struct {
	BaseModel
	TenantID     uint   `json:"tenant_id" gorm:"not null;index"`
	DocumentType string `json:"document_type" gorm:"size:50;not null"`
	FileURL      string `json:"file_url" gorm:"size:500;not null"`
	Status       string `json:"status" gorm:"size:20;default:'pending'"`
	Notes        string `json:"notes" gorm:"type:text"`
}

func (TenantDocument) TableName() string {
	return "tenant_documents"
}

// reference check status
const (
	ReferencePending   = "pending"
	ReferenceContacted = "contacted"
	ReferenceVerified  = "verified"
	ReferenceFailed    = "failed"
)

type TenantReference struct {
	BaseModel
	TenantID     uint   `json:"tenant_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"size:100;not null"`
	Relationship string `json:"relationship" gorm:"size:50"`
	Email        string `json:"email" gorm:"size:100"`
	Phone        string `json:"phone" gorm:"size:20"`
	Status       string `json:"status" gorm:"size:20;default:'pending'"`
	Notes        string `json:"notes" gorm:"type:text"`
}

func (TenantReference) TableName() string {
	return "tenant_references"
}
