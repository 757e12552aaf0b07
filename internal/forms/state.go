package forms

import (
	"encoding/json"
)

// FormState is the editor view model. It is plain data so it can be sent to
// and restored from a client; it is not safe for concurrent use.
type FormState struct {
	Values  Values            `json:"values"`
	Touched map[string]bool   `json:"touched"`
	Errors  map[string]string `json:"errors"`
	Dirty   bool              `json:"dirty"`
}

func NewFormState(initial Values) *FormState {
	values := make(Values, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &FormState{
		Values:  values,
		Touched: make(map[string]bool),
		Errors:  make(map[string]string),
	}
}

// Set stores a value. The field is re-validated only once it has been touched.
func (s *FormState) Set(field string, value interface{}) {
	s.Values[field] = value
	s.Dirty = true
	if s.Touched[field] {
		s.validate(field)
	}
}

// Blur marks the field as touched and validates it.
func (s *FormState) Blur(field string) {
	s.Touched[field] = true
	s.validate(field)
}

// ValidateAll touches and validates every ruled field. Used at submit time.
func (s *FormState) ValidateAll() bool {
	for _, field := range RuleFields() {
		s.Touched[field] = true
		s.validate(field)
	}
	return len(s.Errors) == 0
}

func (s *FormState) Valid() bool {
	return len(s.Errors) == 0
}

func (s *FormState) Completion() int {
	return Completion(s.Values)
}

// MarkSaved clears the dirty flag after a successful save.
func (s *FormState) MarkSaved() {
	s.Dirty = false
}

// Snapshot serializes the values. encoding/json sorts map keys, so equal
// values always give equal bytes.
func (s *FormState) Snapshot() ([]byte, error) {
	return json.Marshal(s.Values)
}

func (s *FormState) validate(field string) {
	if msg := ValidateField(field, s.Values[field]); msg != "" {
		s.Errors[field] = msg
	} else {
		delete(s.Errors, field)
	}
}
