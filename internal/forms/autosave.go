package forms

import (
	"bytes"
	"context"
	"sync"
	"time"

	"rentalhub/pkg/logger"

	"github.com/sirupsen/logrus"
)

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

const (
	DefaultInterval  = 30 * time.Second
	DefaultIdleReset = 3 * time.Second
)

// SnapshotFunc returns the current serialized form state.
type SnapshotFunc func() ([]byte, error)

// SaveFunc persists a snapshot.
type SaveFunc func(ctx context.Context, snapshot []byte) error

// AutoSaver periodically saves a form when its serialized state differs from
// the last saved one.
type AutoSaver struct {
	snapshot  SnapshotFunc
	save      SaveFunc
	interval  time.Duration
	idleReset time.Duration
	log       *logrus.Entry

	saveMu sync.Mutex // one save at a time

	mu         sync.Mutex
	lastSaved  []byte
	status     Status
	lastErr    error
	savedAt    time.Time
	resetTimer *time.Timer
}

type Option func(*AutoSaver)

func WithInterval(d time.Duration) Option {
	return func(a *AutoSaver) {
		if d > 0 {
			a.interval = d
		}
	}
}

func WithIdleReset(d time.Duration) Option {
	return func(a *AutoSaver) {
		if d > 0 {
			a.idleReset = d
		}
	}
}

func NewAutoSaver(snapshot SnapshotFunc, save SaveFunc, opts ...Option) *AutoSaver {
	a := &AutoSaver{
		snapshot:  snapshot,
		save:      save,
		interval:  DefaultInterval,
		idleReset: DefaultIdleReset,
		status:    StatusIdle,
		log:       logger.WithModule("autosave"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MarkSaved records snap as already persisted, e.g. the state loaded from
// the server.
func (a *AutoSaver) MarkSaved(snap []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSaved = append([]byte(nil), snap...)
}

// Tick saves only when the state changed since the last save.
func (a *AutoSaver) Tick(ctx context.Context) (bool, error) {
	return a.persist(ctx, false)
}

// SaveNow saves unconditionally.
func (a *AutoSaver) SaveNow(ctx context.Context) error {
	_, err := a.persist(ctx, true)
	return err
}

// Pending reports whether the current state differs from the last save.
func (a *AutoSaver) Pending() bool {
	snap, err := a.snapshot()
	if err != nil {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return !bytes.Equal(snap, a.lastSaved)
}

func (a *AutoSaver) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *AutoSaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *AutoSaver) SavedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.savedAt
}

// Run ticks every interval until ctx is cancelled.
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer a.stopReset()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Tick(ctx); err != nil {
				a.log.WithError(err).Warn("auto-save failed")
			}
		}
	}
}

func (a *AutoSaver) persist(ctx context.Context, force bool) (bool, error) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	snap, err := a.snapshot()
	if err != nil {
		a.fail(err)
		return false, err
	}

	a.mu.Lock()
	if !force && bytes.Equal(snap, a.lastSaved) {
		a.mu.Unlock()
		return false, nil
	}
	a.stopResetLocked()
	a.status = StatusSaving
	a.mu.Unlock()

	if err := a.save(ctx, snap); err != nil {
		a.fail(err)
		return false, err
	}

	a.mu.Lock()
	a.lastSaved = snap
	a.status = StatusSaved
	a.lastErr = nil
	a.savedAt = time.Now()
	a.resetTimer = time.AfterFunc(a.idleReset, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.status == StatusSaved {
			a.status = StatusIdle
		}
	})
	a.mu.Unlock()
	return true, nil
}

func (a *AutoSaver) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = StatusError
	a.lastErr = err
}

func (a *AutoSaver) stopReset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopResetLocked()
}

func (a *AutoSaver) stopResetLocked() {
	if a.resetTimer != nil {
		a.resetTimer.Stop()
		a.resetTimer = nil
	}
}
