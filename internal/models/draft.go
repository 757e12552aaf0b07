package models

import (
	"time"

	"gorm.io/datatypes"
)

// FormDraft server copy of an in-progress form.
type FormDraft struct {
	BaseModel
	UserID   uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_draft_user_key"`
	Key      string         `json:"key" gorm:"not null;size:100;uniqueIndex:idx_draft_user_key"`
	Payload  datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	Checksum string         `json:"-" gorm:"size:64"`
	SavedAt  time.Time      `json:"saved_at" gorm:"index"`
}

func (FormDraft) TableName() string {
	return "form_drafts"
}
