package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu         sync.Mutex
	counts     map[uint]int64
	err        error
	restoreErr error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[uint]int64{}}
}

func (m *memCounter) Incr(ctx context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[id]++
	return m.counts[id], nil
}

func (m *memCounter) Pending(ctx context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[id], m.err
}

func (m *memCounter) Drain(ctx context.Context) (map[uint]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.counts
	m.counts = map[uint]int64{}
	return out, m.err
}

func (m *memCounter) Restore(ctx context.Context, id uint, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restoreErr != nil {
		return m.restoreErr
	}
	m.counts[id] += n
	return nil
}

func TestFlushViews(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)

	counter := newMemCounter()
	counter.counts[1] = 3
	counter.counts[2] = 5
	svc := NewEngagementService(db, counter)

	update := regexp.QuoteMeta(`UPDATE "properties" SET "view_count"=view_count + $1 WHERE id = $2`)
	mock.ExpectExec(update).WithArgs(int64(3), uint(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(int64(5), uint(2)).WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := svc.FlushViews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())

	pending, _ := counter.Pending(context.Background(), 1)
	assert.Zero(t, pending)
}

func TestFlushViews_CounterDown(t *testing.T) {
	db, mock := newMockDB(t)
	counter := newMemCounter()
	counter.err = errors.New("redis: connection refused")
	svc := NewEngagementService(db, counter)

	_, err := svc.FlushViews(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView(t *testing.T) {
	db, mock := newMockDB(t)
	counter := newMemCounter()
	counter.counts[9] = 4
	svc := NewEngagementService(db, counter)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","view_count" FROM "properties"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "view_count"}).AddRow(9, 100))

	stats, err := svc.RecordView(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stats.Persisted)
	assert.Equal(t, int64(5), stats.Pending)
	assert.Equal(t, int64(105), stats.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlushViews_FailedUpdateKeepsViews(t *testing.T) {
	db, mock := newMockDB(t)
	counter := newMemCounter()
	counter.counts[4] = 7
	svc := NewEngagementService(db, counter)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "properties" SET "view_count"=view_count + $1 WHERE id = $2`)).
		WithArgs(int64(7), uint(4)).
		WillReturnError(errors.New("deadlock detected"))

	n, err := svc.FlushViews(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())

	pending, _ := counter.Pending(context.Background(), 4)
	assert.Equal(t, int64(7), pending)

	// next run picks them up
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "properties" SET "view_count"=view_count + $1 WHERE id = $2`)).
		WithArgs(int64(7), uint(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err = svc.FlushViews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
