package forms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   interface{}
		wantErr bool
	}{
		{"title ok", FieldTitle, "Sunny flat", false},
		{"title short", FieldTitle, "Flat", true},
		{"title missing", FieldTitle, "  ", true},
		{"title long", FieldTitle, strings.Repeat("a", 101), true},
		{"description short", FieldDescription, "too short", true},
		{"description ok", FieldDescription, "A bright two bedroom flat near the park.", false},
		{"location ok", FieldLocation, "Kilimani", false},
		{"price negative", FieldPrice, -1, true},
		{"price zero", FieldPrice, 0, false},
		{"price json number", FieldPrice, json.Number("150000"), false},
		{"price text", FieldPrice, "abc", true},
		{"price missing", FieldPrice, nil, true},
		{"price fraction", FieldPrice, 1200.5, true},
		{"price fractional text", FieldPrice, json.Number("99.99"), true},
		{"price too large", FieldPrice, float64(1 << 60), true},
		{"category ok", FieldCategory, "House", false},
		{"category bad", FieldCategory, "castle", true},
		{"bedrooms max", FieldBedrooms, 20, false},
		{"bedrooms over", FieldBedrooms, 21, true},
		{"bathrooms fraction", FieldBathrooms, 1.5, true},
		{"deposit empty", FieldDepositMonths, nil, false},
		{"deposit zero", FieldDepositMonths, 0, true},
		{"deposit max", FieldDepositMonths, 24, false},
		{"deposit over", FieldDepositMonths, 25, true},
		{"size ok", FieldSizeSqm, 54.5, false},
		{"size zero", FieldSizeSqm, 0, true},
		{"phone ok", FieldContactPhone, "+254 (700) 123-456", false},
		{"phone letters", FieldContactPhone, "call me maybe", true},
		{"phone short", FieldContactPhone, "12345", true},
		{"unknown field", "colour", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateField(tt.field, tt.value)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateField_Pure(t *testing.T) {
	first := ValidateField(FieldPrice, -500)
	second := ValidateField(FieldPrice, -500)
	assert.Equal(t, "Price cannot be negative", first)
	assert.Equal(t, first, second)
}

func TestValidateAll(t *testing.T) {
	errs := ValidateAll(Values{
		FieldTitle:    "Sunny flat",
		FieldPrice:    -5,
		FieldCategory: "apartment",
	})
	assert.Contains(t, errs, FieldPrice)
	assert.Contains(t, errs, FieldDescription)
	assert.Contains(t, errs, FieldBedrooms)
	assert.NotContains(t, errs, FieldTitle)
	assert.NotContains(t, errs, FieldDepositMonths)
}

func TestCompletion(t *testing.T) {
	assert.Equal(t, 0, Completion(Values{}))

	half := Values{
		FieldTitle: "Sunny flat", FieldDescription: "x", FieldLocation: "y",
		FieldPrice: 0, FieldCategory: "house", FieldBedrooms: 0, FieldBathrooms: 1,
	}
	assert.Equal(t, 50, Completion(half))

	half[FieldAmenities] = []string{}
	assert.Equal(t, 50, Completion(half))

	half[FieldAmenities] = []string{"wifi"}
	assert.Equal(t, 57, Completion(half))
}
