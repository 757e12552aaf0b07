package services

import (
	"context"
	"time"

	"rentalhub/internal/models"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewCounter buffers view counts outside Postgres.
type ViewCounter interface {
	Incr(ctx context.Context, propertyID uint) (int64, error)
	Pending(ctx context.Context, propertyID uint) (int64, error)
	Drain(ctx context.Context) (map[uint]int64, error)
	Restore(ctx context.Context, propertyID uint, n int64) error
}

type EngagementService struct {
	db      *gorm.DB
	counter ViewCounter
}

func NewEngagementService(db *gorm.DB, counter ViewCounter) *EngagementService {
	return &EngagementService{db: db, counter: counter}
}

type ViewStats struct {
	PropertyID uint  `json:"property_id"`
	Persisted  int64 `json:"persisted"`
	Pending    int64 `json:"pending"`
	Total      int64 `json:"total"`
}

// RecordView counts one view of a property.
func (s *EngagementService) RecordView(ctx context.Context, propertyID uint) (*ViewStats, error) {
	persisted, err := s.persistedViews(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	pending, err := s.counter.Incr(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return &ViewStats{PropertyID: propertyID, Persisted: persisted, Pending: pending, Total: persisted + pending}, nil
}

func (s *EngagementService) Views(ctx context.Context, propertyID uint) (*ViewStats, error) {
	persisted, err := s.persistedViews(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	pending, err := s.counter.Pending(ctx, propertyID)
	if err != nil {
		// Redis down: show what Postgres has
		logger.WithModule("engagement").WithError(err).Warn("Reading pending views failed")
		pending = 0
	}
	return &ViewStats{PropertyID: propertyID, Persisted: persisted, Pending: pending, Total: persisted + pending}, nil
}

func (s *EngagementService) persistedViews(ctx context.Context, propertyID uint) (int64, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).Select("id", "view_count").First(&p, propertyID).Error; err != nil {
		return 0, notFoundOr(err, "property")
	}
	return p.ViewCount, nil
}

// FlushViews moves buffered counts into properties.view_count and returns the
// number of properties touched.
func (s *EngagementService) FlushViews(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.ViewFlushDuration.Observe(time.Since(start).Seconds()) }()

	counts, err := s.counter.Drain(ctx)
	if err != nil && len(counts) == 0 {
		return 0, err
	}

	log := logger.WithModule("engagement")
	flushed := 0
	for id, n := range counts {
		res := s.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", n))
		if res.Error != nil {
			entry := log.WithError(res.Error).WithField("property_id", id)
			// put the drained views back so the next flush retries them
			if rerr := s.counter.Restore(context.WithoutCancel(ctx), id, n); rerr != nil {
				entry.WithField("restore_error", rerr.Error()).Errorf("Dropping %d views", n)
				continue
			}
			entry.Warnf("Flush failed, %d views kept for the next run", n)
			continue
		}
		flushed++
	}
	return flushed, err
}

type InterestStats struct {
	PropertyID   uint  `json:"property_id"`
	Count        int64 `json:"count"`
	IsInterested bool  `json:"is_interested"`
}

// Interest returns the interest count; userID 0 means anonymous.
func (s *EngagementService) Interest(ctx context.Context, propertyID, userID uint) (*InterestStats, error) {
	if _, err := s.persistedViews(ctx, propertyID); err != nil {
		return nil, err
	}
	stats := &InterestStats{PropertyID: propertyID}
	if err := s.db.WithContext(ctx).Model(&models.PropertyInterest{}).
		Where("property_id = ?", propertyID).Count(&stats.Count).Error; err != nil {
		return nil, err
	}
	if userID != 0 {
		var mine int64
		s.db.WithContext(ctx).Model(&models.PropertyInterest{}).
			Where("property_id = ? AND user_id = ?", propertyID, userID).Count(&mine)
		stats.IsInterested = mine > 0
	}
	return stats, nil
}

// MarkInterested is idempotent.
func (s *EngagementService) MarkInterested(ctx context.Context, propertyID, userID uint) (*InterestStats, error) {
	if _, err := s.persistedViews(ctx, propertyID); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PropertyInterest{PropertyID: propertyID, UserID: userID}).Error
	if err != nil {
		return nil, err
	}
	return s.Interest(ctx, propertyID, userID)
}

func (s *EngagementService) UnmarkInterested(ctx context.Context, propertyID, userID uint) (*InterestStats, error) {
	if err := s.db.WithContext(ctx).Where("property_id = ? AND user_id = ?", propertyID, userID).
		Delete(&models.PropertyInterest{}).Error; err != nil {
		return nil, err
	}
	return s.Interest(ctx, propertyID, userID)
}
