// Package forms holds the property editor form model: field rules, the
// completion meter, auto-save and the unsaved-changes guard.
package forms

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Values raw form input keyed by field name.
type Values map[string]interface{}

// form field names
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldLocation      = "location"
	FieldPrice         = "price"
	FieldCategory      = "category"
	FieldBedrooms      = "bedrooms"
	FieldBathrooms     = "bathrooms"
	FieldDepositMonths = "deposit_months"
	FieldSizeSqm       = "size_sqm"
	FieldFurnishing    = "furnishing"
	FieldAmenities     = "amenities"
	FieldAvailableFrom = "available_from"
	FieldImageURL      = "image_url"
	FieldContactPhone  = "contact_phone"
)

var Categories = []string{"apartment", "house", "studio", "room", "commercial", "land"}

// maxPrice is the largest minor-unit price a float64 still holds exactly.
const maxPrice = 1 << 53

type rule func(value interface{}) string

var rules = map[string]rule{
	FieldTitle:         textRule("Title", true, 5, 100),
	FieldDescription:   textRule("Description", true, 20, 2000),
	FieldLocation:      textRule("Location", true, 3, 200),
	FieldPrice:         numberRule("Price", true, 0, maxPrice, true),
	FieldCategory:      oneOfRule("Category", Categories),
	FieldBedrooms:      numberRule("Bedrooms", true, 0, 20, true),
	FieldBathrooms:     numberRule("Bathrooms", true, 0, 20, true),
	FieldDepositMonths: numberRule("Deposit months", false, 1, 24, true),
	FieldSizeSqm:       numberRule("Size", false, 1, 100000, false),
	FieldContactPhone:  phoneRule,
}

// RuleFields lists every field that has a validation rule.
func RuleFields() []string {
	return []string{
		FieldTitle, FieldDescription, FieldLocation, FieldPrice, FieldCategory,
		FieldBedrooms, FieldBathrooms, FieldDepositMonths, FieldSizeSqm, FieldContactPhone,
	}
}

// ValidateField returns the error message for one field, or "" when the value
// is acceptable. Fields without a rule always pass.
func ValidateField(field string, value interface{}) string {
	r, ok := rules[field]
	if !ok {
		return ""
	}
	return r(value)
}

// ValidateAll runs every rule against values.
func ValidateAll(values Values) map[string]string {
	errs := make(map[string]string)
	for _, field := range RuleFields() {
		if msg := ValidateField(field, values[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func textRule(name string, required bool, min, max int) rule {
	return func(value interface{}) string {
		if IsEmpty(value) {
			if required {
				return name + " is required"
			}
			return ""
		}
		s, ok := value.(string)
		if !ok {
			return name + " must be text"
		}
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		if n < min {
			return fmt.Sprintf("%s must be at least %d characters", name, min)
		}
		if n > max {
			return fmt.Sprintf("%s must be at most %d characters", name, max)
		}
		return ""
	}
}

func numberRule(name string, required bool, min, max float64, integer bool) rule {
	return func(value interface{}) string {
		if IsEmpty(value) {
			if required {
				return name + " is required"
			}
			return ""
		}
		n, ok := toNumber(value)
		if !ok {
			return name + " must be a number"
		}
		if integer && n != math.Trunc(n) {
			return name + " must be a whole number"
		}
		if n < min {
			if min == 0 {
				return name + " cannot be negative"
			}
			return fmt.Sprintf("%s must be at least %s", name, formatBound(min))
		}
		if n > max {
			return fmt.Sprintf("%s must be at most %s", name, formatBound(max))
		}
		return ""
	}
}

func oneOfRule(name string, allowed []string) rule {
	return func(value interface{}) string {
		if IsEmpty(value) {
			return name + " is required"
		}
		s, _ := value.(string)
		for _, a := range allowed {
			if strings.EqualFold(strings.TrimSpace(s), a) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", name, strings.Join(allowed, ", "))
	}
}

func phoneRule(value interface{}) string {
	if IsEmpty(value) {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return "Contact phone must be text"
	}
	s = strings.TrimSpace(s)
	if len(s) < 7 || len(s) > 20 {
		return "Contact phone must be between 7 and 20 characters"
	}
	for _, r := range s {
		if (r < '0' || r > '9') && !strings.ContainsRune("+-() ", r) {
			return "Contact phone may only contain digits, spaces and + - ( )"
		}
	}
	return ""
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// IsEmpty treats nil, blank strings and empty collections as not filled in.
// Zero numbers count as filled.
func IsEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Number reads a numeric form value.
func Number(value interface{}) (float64, bool) {
	if IsEmpty(value) {
		return 0, false
	}
	return toNumber(value)
}

// Text reads a string form value, trimmed. Non-strings give "".
func Text(value interface{}) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}
