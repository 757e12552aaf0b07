package forms

import "math"

var (
	RequiredFields = []string{
		FieldTitle, FieldDescription, FieldLocation, FieldPrice,
		FieldCategory, FieldBedrooms, FieldBathrooms,
	}
	OptionalFields = []string{
		FieldDepositMonths, FieldSizeSqm, FieldFurnishing, FieldAmenities,
		FieldAvailableFrom, FieldImageURL, FieldContactPhone,
	}
)

// Completion is the rounded share of required and optional fields that are
// filled in, 0..100.
func Completion(values Values) int {
	total := len(RequiredFields) + len(OptionalFields)
	filled := 0
	for _, f := range RequiredFields {
		if !IsEmpty(values[f]) {
			filled++
		}
	}
	for _, f := range OptionalFields {
		if !IsEmpty(values[f]) {
			filled++
		}
	}
	return int(math.Round(float64(filled) * 100 / float64(total)))
}
