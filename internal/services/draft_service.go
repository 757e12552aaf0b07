package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/metrics"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftService keeps server copies of in-progress forms. A save whose payload
// matches the stored one is skipped.
type DraftService struct {
	db *gorm.DB
}

func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{db: db}
}

type DraftSaveResult struct {
	Saved bool              `json:"saved"`
	Draft *models.FormDraft `json:"draft"`
}

// Checksum hashes the canonical JSON encoding of payload. Numbers keep their
// literal text so large integers survive the round trip.
func Checksum(payload []byte) (string, []byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", nil, apperrors.BadRequest("draft payload must be JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", nil, apperrors.BadRequest("draft payload must be a single JSON value")
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), canonical, nil
}

func (s *DraftService) Save(ctx context.Context, userID uint, key string, payload []byte) (*DraftSaveResult, error) {
	sum, canonical, err := Checksum(payload)
	if err != nil {
		return nil, err
	}

	var existing models.FormDraft
	err = s.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).First(&existing).Error
	switch {
	case err == nil && existing.Checksum == sum:
		metrics.DraftSaves.WithLabelValues("unchanged").Inc()
		return &DraftSaveResult{Saved: false, Draft: &existing}, nil
	case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	draft := &models.FormDraft{
		UserID:   userID,
		Key:      key,
		Payload:  datatypes.JSON(canonical),
		Checksum: sum,
		SavedAt:  time.Now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "checksum", "saved_at", "updated_at"}),
	}).Create(draft).Error
	if err != nil {
		return nil, err
	}
	metrics.DraftSaves.WithLabelValues("stored").Inc()
	return &DraftSaveResult{Saved: true, Draft: draft}, nil
}

func (s *DraftService) Get(ctx context.Context, userID uint, key string) (*models.FormDraft, error) {
	var draft models.FormDraft
	if err := s.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).First(&draft).Error; err != nil {
		return nil, notFoundOr(err, "draft")
	}
	return &draft, nil
}

func (s *DraftService) Delete(ctx context.Context, userID uint, key string) error {
	return s.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).Delete(&models.FormDraft{}).Error
}

// PurgeOlderThan deletes drafts last saved before cutoff.
func (s *DraftService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("saved_at < ?", cutoff).Delete(&models.FormDraft{})
	return res.RowsAffected, res.Error
}
