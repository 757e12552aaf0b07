package unitcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("block-42", 3, 12)
	require.NoError(t, err)
	b, err := Generate("block-42", 3, 12)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, Length)
	assert.Equal(t, "03", a[4:6])
	assert.Equal(t, "0012", a[6:])
	assert.NotEqual(t, byte('0'), a[0])
}

func TestGenerate_UniqueWithinBlock(t *testing.T) {
	seen := make(map[string]bool)
	seq := 0
	for floor := 1; floor <= 20; floor++ {
		for i := 0; i < 25; i++ {
			seq++
			code, err := Generate("7", floor, seq)
			require.NoError(t, err)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	}
	assert.Len(t, seen, 500)
}

func TestGenerate_Ranges(t *testing.T) {
	_, err := Generate("1", 1, 0)
	assert.ErrorIs(t, err, ErrSequenceRange)

	_, err = Generate("1", 1, MaxSequence+1)
	assert.ErrorIs(t, err, ErrSequenceRange)

	_, err = Generate("1", -1, 1)
	assert.ErrorIs(t, err, ErrFloorRange)
}

func TestFormatAndParse(t *testing.T) {
	assert.Equal(t, "4821-03-0012", Format("4821030012"))
	assert.Equal(t, "not-a-code", Format("not-a-code"))

	code, err := Parse("4821 03 0012")
	require.NoError(t, err)
	assert.Equal(t, "4821030012", code)

	code, err = Parse("4821-03-0012")
	require.NoError(t, err)
	assert.Equal(t, "4821030012", code)

	_, err = Parse("48210300AB")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = Parse("123")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
