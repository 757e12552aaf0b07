package services

import (
	"testing"
	"time"

	"rentalhub/internal/forms"
	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDetailFromValues(t *testing.T) {
	d, err := detailFromValues(3, forms.Values{
		forms.FieldDepositMonths: float64(2),
		forms.FieldSizeSqm:       "64.5",
		forms.FieldAmenities:     []interface{}{"wifi", "parking"},
		forms.FieldAvailableFrom: "2024-06-01",
		forms.FieldContactPhone:  " +254700111222 ",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(3), d.PropertyID)
	assert.Equal(t, 2, d.DepositMonths)
	assert.Equal(t, 64.5, d.SizeSqm)
	assert.JSONEq(t, `["wifi","parking"]`, string(d.Amenities))
	require.NotNil(t, d.AvailableFrom)
	assert.Equal(t, time.June, d.AvailableFrom.Month())
	assert.Equal(t, "+254700111222", d.ContactPhone)
}

func TestDetailFromValues_BadDate(t *testing.T) {
	_, err := detailFromValues(1, forms.Values{forms.FieldAvailableFrom: "next week"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEditorValues_RoundTripCompletion(t *testing.T) {
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	p := &models.Property{
		Title: "Sunny flat", Description: "Bright flat with a balcony and views", Location: "Kilimani",
		Price: 85000, Category: "apartment", Bedrooms: 2, Bathrooms: 1,
		Detail: &models.PropertyDetail{
			DepositMonths: 2, SizeSqm: 70, Furnishing: "furnished",
			Amenities: datatypes.JSON(`["wifi"]`), AvailableFrom: &from, ContactPhone: "0700111222",
		},
	}

	values := editorValues(p)
	assert.Equal(t, []string{"wifi"}, values[forms.FieldAmenities])
	assert.Equal(t, "2024-07-01", values[forms.FieldAvailableFrom])
	// image_url is the only empty field
	assert.Equal(t, 93, forms.Completion(values))
	assert.Empty(t, forms.ValidateAll(values))
}

func TestEditorCheck(t *testing.T) {
	svc := &EditorService{}
	res := svc.Check(forms.Values{forms.FieldTitle: "abc", forms.FieldPrice: -1})
	assert.Contains(t, res.Errors, forms.FieldTitle)
	assert.Contains(t, res.Errors, forms.FieldPrice)
	assert.Equal(t, 14, res.Completion)
}
