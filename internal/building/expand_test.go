package building

import (
	"math"
	"testing"

	apperrors "rentalhub/pkg/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() *Layout {
	return &Layout{
		BlockName:   "Palm Court",
		Location:    "Westlands",
		Description: "Three storey block close to the mall",
		TotalFloors: 3,
		Floors: []Floor{
			{Number: 1, Units: []UnitEntry{
				{UnitType: "Studio", Count: 2, MonthlyFee: 1_000_000},
				{UnitType: "2BR", Count: 1, MonthlyFee: 2_000_000},
			}},
			{Number: 2, Units: []UnitEntry{
				{UnitType: "Studio", Count: 3, MonthlyFee: 1_200_000},
				{UnitType: "Loft", Count: 1, MonthlyFee: 3_000_000},
			}},
			{Number: 3, Units: []UnitEntry{
				{UnitType: "2BR", Count: 2, MonthlyFee: 1_900_000},
			}},
		},
		SharedImages: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
	}
}

func TestExpand_UnitCountMatchesInput(t *testing.T) {
	layout := sampleLayout()
	plan, err := Expand(layout)
	require.NoError(t, err)

	assert.Equal(t, layout.TotalUnits(), plan.UnitCount())
	assert.Equal(t, 9, plan.TotalUnits)
}

func TestExpand_OnePropertyPerType(t *testing.T) {
	plan, err := Expand(sampleLayout())
	require.NoError(t, err)

	var types []string
	for _, p := range plan.Properties {
		types = append(types, p.UnitType)
	}
	// first seen order
	assert.Equal(t, []string{"Studio", "2BR", "Loft"}, types)
}

func TestExpand_FeeIsMaximum(t *testing.T) {
	plan, err := Expand(sampleLayout())
	require.NoError(t, err)

	prices := map[string]int64{}
	for _, p := range plan.Properties {
		prices[p.UnitType] = p.Price
	}
	assert.Equal(t, int64(1_200_000), prices["Studio"])
	assert.Equal(t, int64(2_000_000), prices["2BR"])
}

func TestRooms(t *testing.T) {
	tests := []struct {
		unitType  string
		bedrooms  int
		bathrooms int
	}{
		{"Studio", 0, 1},
		{"1BR", 1, 1},
		{"2BR", 2, 2},
		{"3BR", 3, 2},
		{"4BR", 4, 3},
		{"Penthouse", 4, 3},
		{"2br", 2, 2},
		{"Loft", 1, 1},
		{"", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.unitType, func(t *testing.T) {
			b, ba := Rooms(tt.unitType)
			assert.Equal(t, tt.bedrooms, b)
			assert.Equal(t, tt.bathrooms, ba)
		})
	}
}

func TestExpand_TitlesAndMetadata(t *testing.T) {
	layout := sampleLayout()
	layout.UnitTypes = map[string]TypeMetadata{
		"2BR":    {Title: "Garden two bed", Description: "Faces the garden", ImageURL: "https://cdn/2br.jpg"},
		"Duplex": {Title: "ignored"},
	}

	plan, err := Expand(layout)
	require.NoError(t, err)
	require.Len(t, plan.Properties, 3)

	studio, twoBed, loft := plan.Properties[0], plan.Properties[1], plan.Properties[2]
	assert.Equal(t, "Palm Court - Studio", studio.Title)
	assert.Equal(t, layout.Description, studio.Description)
	assert.Equal(t, "Garden two bed", twoBed.Title)
	assert.Equal(t, "Faces the garden", twoBed.Description)
	assert.Equal(t, "Palm Court - Loft", loft.Title)
	assert.Equal(t, "apartment", loft.Category)
}

func TestExpand_Images(t *testing.T) {
	layout := sampleLayout()
	layout.SharedImages = []string{"https://cdn/2br.jpg", "https://cdn/a.jpg", "https://cdn/a.jpg", " "}
	layout.UnitTypes = map[string]TypeMetadata{"2BR": {ImageURL: "https://cdn/2br.jpg"}}

	plan, err := Expand(layout)
	require.NoError(t, err)

	want := []PlannedImage{
		{URL: "https://cdn/2br.jpg", IsPrimary: true, SortOrder: 0},
		{URL: "https://cdn/a.jpg", IsPrimary: false, SortOrder: 1},
	}
	if diff := cmp.Diff(want, plan.Properties[1].Images); diff != "" {
		t.Errorf("2BR images mismatch (-want +got):\n%s", diff)
	}

	// no type image: first shared image becomes primary
	want = []PlannedImage{
		{URL: "https://cdn/2br.jpg", IsPrimary: true, SortOrder: 0},
		{URL: "https://cdn/a.jpg", IsPrimary: false, SortOrder: 1},
	}
	if diff := cmp.Diff(want, plan.Properties[0].Images); diff != "" {
		t.Errorf("Studio images mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "https://cdn/2br.jpg", plan.Properties[0].ImageURL)
}

func TestExpand_Sequences(t *testing.T) {
	plan, err := Expand(sampleLayout())
	require.NoError(t, err)

	studio := plan.Properties[0]
	want := []PlannedUnit{
		{Floor: 1, TypeSequence: 1, BlockSequence: 1},
		{Floor: 1, TypeSequence: 2, BlockSequence: 2},
		{Floor: 2, TypeSequence: 3, BlockSequence: 3},
		{Floor: 2, TypeSequence: 4, BlockSequence: 4},
		{Floor: 2, TypeSequence: 5, BlockSequence: 5},
	}
	if diff := cmp.Diff(want, studio.Units); diff != "" {
		t.Errorf("studio units mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, plan.Properties[1].Units[0].BlockSequence)
}

func TestNumberUnits_UniqueWithinBlock(t *testing.T) {
	plan, err := Expand(sampleLayout())
	require.NoError(t, err)
	require.NoError(t, plan.NumberUnits("42"))

	seen := map[string]bool{}
	for _, p := range plan.Properties {
		for _, u := range p.Units {
			require.Len(t, u.UnitNumber, 10)
			assert.False(t, seen[u.UnitNumber], "duplicate %s", u.UnitNumber)
			seen[u.UnitNumber] = true
		}
	}
	assert.Len(t, seen, 9)
}

func TestValidate(t *testing.T) {
	layout := &Layout{
		TotalFloors: 2,
		Floors: []Floor{
			{Number: 3, Units: []UnitEntry{{UnitType: "", Count: 0, MonthlyFee: -1}}},
		},
	}

	_, err := Expand(layout)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	fields := appErr.Details.(map[string]string)
	assert.Contains(t, fields, "block_name")
	assert.Contains(t, fields, "floors[0].floor_number")
	assert.Contains(t, fields, "floors[0].units[0].unit_type")
	assert.Contains(t, fields, "floors[0].units[0].count")
	assert.Contains(t, fields, "floors[0].units[0].monthly_fee")
}

func TestValidate_TooManyUnits(t *testing.T) {
	layout := &Layout{
		BlockName:   "Tower",
		TotalFloors: 1,
		Floors:      []Floor{{Number: 1, Units: []UnitEntry{{UnitType: "Studio", Count: 10000}}}},
	}
	err := Validate(layout)
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	assert.Contains(t, appErr.Details.(map[string]string), "floors")
}

func TestValidate_HugeCountsDoNotWrap(t *testing.T) {
	layout := &Layout{
		BlockName:   "Tower",
		TotalFloors: 1,
		Floors: []Floor{{Number: 1, Units: []UnitEntry{
			{UnitType: "Studio", Count: math.MaxInt64/2 + 1},
			{UnitType: "1BR", Count: math.MaxInt64/2 + 1},
		}}},
	}
	assert.Greater(t, layout.TotalUnits(), 9999)

	err := Validate(layout)
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	details := appErr.Details.(map[string]string)
	assert.Contains(t, details, "floors")
	assert.Contains(t, details, "floors[0].units[0].count")
	assert.Contains(t, details, "floors[0].units[1].count")

	_, err = Expand(layout)
	assert.Error(t, err)
}

func TestValidate_DuplicateFloor(t *testing.T) {
	layout := &Layout{
		BlockName:   "Tower",
		TotalFloors: 2,
		Floors: []Floor{
			{Number: 1, Units: []UnitEntry{{UnitType: "Studio", Count: 1}}},
			{Number: 1, Units: []UnitEntry{{UnitType: "1BR", Count: 1}}},
		},
	}
	err := Validate(layout)
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	assert.Equal(t, "floor configured twice", appErr.Details.(map[string]string)["floors[1].floor_number"])
}
