package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormState_ValidatesOnlyAfterBlur(t *testing.T) {
	s := NewFormState(nil)

	s.Set(FieldTitle, "abc")
	assert.Empty(t, s.Errors)
	assert.True(t, s.Dirty)

	s.Blur(FieldTitle)
	assert.Contains(t, s.Errors, FieldTitle)

	s.Set(FieldTitle, "A proper title")
	assert.NotContains(t, s.Errors, FieldTitle)
}

func TestFormState_ValidateAll(t *testing.T) {
	s := NewFormState(Values{FieldTitle: "A proper title"})
	assert.False(t, s.ValidateAll())
	assert.True(t, s.Touched[FieldPrice])
	assert.Contains(t, s.Errors, FieldPrice)
	assert.False(t, s.Valid())
}

func TestFormState_SnapshotStable(t *testing.T) {
	a := NewFormState(Values{FieldTitle: "x", FieldPrice: 10})
	b := NewFormState(Values{FieldPrice: 10, FieldTitle: "x"})

	sa, err := a.Snapshot()
	require.NoError(t, err)
	sb, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}
