package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentalhub/pkg/logger"

	"github.com/robfig/cron/v3"
)

const draftPurgeSpec = "30 3 * * *"

// MaintenanceScheduler runs the periodic jobs: flushing buffered view counts
// and purging stale drafts.
type MaintenanceScheduler struct {
	engagement     *EngagementService
	drafts         *DraftService
	viewFlushSpec  string
	draftRetention time.Duration

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

func NewMaintenanceScheduler(engagement *EngagementService, drafts *DraftService, viewFlushSpec string, draftRetention time.Duration) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		engagement:     engagement,
		drafts:         drafts,
		viewFlushSpec:  viewFlushSpec,
		draftRetention: draftRetention,
		cron:           cron.New(),
	}
}

func (s *MaintenanceScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("maintenance scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.viewFlushSpec, s.flushViews); err != nil {
		return fmt.Errorf("invalid view flush schedule %q: %w", s.viewFlushSpec, err)
	}
	if s.draftRetention > 0 {
		if _, err := s.cron.AddFunc(draftPurgeSpec, s.purgeDrafts); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.running = true
	logger.WithModule("scheduler").Infof("Maintenance scheduler started with %d jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs, then flushes views one last time.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.flushViews()
	logger.WithModule("scheduler").Info("Maintenance scheduler stopped")
}

func (s *MaintenanceScheduler) flushViews() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.engagement.FlushViews(ctx)
	log := logger.WithModule("scheduler")
	if err != nil {
		log.WithError(err).Error("View flush failed")
		return
	}
	if n > 0 {
		log.Debugf("Flushed views of %d properties", n)
	}
}

func (s *MaintenanceScheduler) purgeDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.drafts.PurgeOlderThan(ctx, time.Now().Add(-s.draftRetention))
	log := logger.WithModule("scheduler")
	if err != nil {
		log.WithError(err).Error("Draft purge failed")
		return
	}
	if n > 0 {
		log.Infof("Purged %d stale drafts", n)
	}
}
