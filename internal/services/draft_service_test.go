package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	apperrors "rentalhub/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_IgnoresKeyOrderAndSpacing(t *testing.T) {
	a, _, err := Checksum([]byte(`{"title":"Flat","price":1200}`))
	require.NoError(t, err)
	b, canonical, err := Checksum([]byte("{ \"price\": 1200,\n  \"title\": \"Flat\" }"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.JSONEq(t, `{"price":1200,"title":"Flat"}`, string(canonical))

	c, _, err := Checksum([]byte(`{"title":"Flat","price":1300}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestChecksum_RejectsInvalidJSON(t *testing.T) {
	_, _, err := Checksum([]byte(`{"title":`))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}

func TestChecksum_KeepsLargeIntegers(t *testing.T) {
	_, canonical, err := Checksum([]byte(`{"price":9007199254740993,"id":12345678901234567,"ratio":0.25}`))
	require.NoError(t, err)
	assert.Equal(t, `{"id":12345678901234567,"price":9007199254740993,"ratio":0.25}`, string(canonical))

	a, _, err := Checksum([]byte(`{"price":9007199254740993}`))
	require.NoError(t, err)
	b, _, err := Checksum([]byte(`{"price":9007199254740992}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestChecksum_RejectsTrailingData(t *testing.T) {
	_, _, err := Checksum([]byte(`{"title":"Flat"} {"title":"Loft"}`))
	assert.Error(t, err)
}

func TestDraftSave_SkipsUnchangedPayload(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewDraftService(db)

	sum, canonical, err := Checksum([]byte(`{"title":"Flat"}`))
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "form_drafts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "user_id", "key", "payload", "checksum", "saved_at"}).
			AddRow(1, now, now, 5, "property-editor", canonical, sum, now))

	res, err := svc.Save(context.Background(), 5, "property-editor", []byte(`{ "title": "Flat" }`))
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftSave_StoresChangedPayload(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewDraftService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "form_drafts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "form_drafts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	res, err := svc.Save(context.Background(), 5, "property-editor", []byte(`{"title":"Loft"}`))
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, uint(2), res.Draft.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
