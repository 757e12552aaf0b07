package services

import (
	"context"
	"testing"
	"time"

	apperrors "rentalhub/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCreate_BadMoveInDate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	_, err := svc.Create(context.Background(), 4, BookingInput{PropertyID: 1, MoveInDate: "next week"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate_PropertyUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "title", "is_available"}).
			AddRow(1, now, now, "Riverside 2BR", false))

	_, err := svc.Create(context.Background(), 4, BookingInput{PropertyID: 1, MoveInDate: "2025-03-01"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate_PropertyMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBookingService(db)

	mock.ExpectQuery(`SELECT \* FROM "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(context.Background(), 4, BookingInput{PropertyID: 99, MoveInDate: "2025-03-01"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
