package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func basicOnly() Profile {
	dob := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)
	return Profile{
		FullName:    "Amina Otieno",
		Email:       "amina@example.com",
		Phone:       "+254700000001",
		DateOfBirth: &dob,
	}
}

func TestScore_BasicInfoOnly(t *testing.T) {
	res := Score(basicOnly())
	assert.Equal(t, 30, res.Score)
	assert.Equal(t, "Fair", res.Label)
}

func TestScore_Complete(t *testing.T) {
	p := basicOnly()
	p.AddressLine = "12 Ngong Rd"
	p.City = "Nairobi"
	p.Country = "Kenya"
	p.Employer = "Acme"
	p.JobTitle = "Engineer"
	p.MonthlyIncome = 250000
	p.Documents = 3
	p.References = 2

	res := Score(p)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, "Excellent", res.Label)
}

func TestScore_HalfCredit(t *testing.T) {
	res := Score(Profile{Documents: 1, References: 1})
	// 10 + 5
	assert.Equal(t, 15, res.Score)
	assert.Equal(t, "Weak", res.Label)
}

func TestScore_Rounding(t *testing.T) {
	// one of three address fields: 20/3 = 6.67
	res := Score(Profile{City: "Mombasa"})
	assert.Equal(t, 7, res.Score)
}

func TestScore_Empty(t *testing.T) {
	res := Score(Profile{})
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, "Weak", res.Label)
	assert.Len(t, res.Groups, 5)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "Weak"}, {29, "Weak"}, {30, "Fair"}, {49, "Fair"}, {50, "Good"},
		{69, "Good"}, {70, "Strong"}, {89, "Strong"}, {90, "Excellent"}, {100, "Excellent"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %d", tt.score)
	}
}
