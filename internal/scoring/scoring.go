// Package scoring rates how complete a tenant profile is.
package scoring

import (
	"math"
	"strings"
	"time"
)

// group weights, summing to 100
const (
	WeightBasic      = 30
	WeightAddress    = 20
	WeightEmployment = 20
	WeightDocuments  = 20
	WeightReferences = 10
)

// Profile is the input of Score. It is decoupled from the database model so
// the calculation stays pure.
type Profile struct {
	FullName      string
	Email         string
	Phone         string
	DateOfBirth   *time.Time
	AddressLine   string
	City          string
	Country       string
	Employer      string
	JobTitle      string
	MonthlyIncome int64
	Documents     int
	References    int
}

type GroupScore struct {
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Filled int     `json:"filled"`
	Total  int     `json:"total"`
	Score  float64 `json:"score"`
}

type Result struct {
	Score  int          `json:"score"`
	Label  string       `json:"label"`
	Groups []GroupScore `json:"groups"`
}

func filled(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func group(name string, weight, have, total int) GroupScore {
	return GroupScore{
		Name:   name,
		Weight: weight,
		Filled: have,
		Total:  total,
		Score:  float64(weight) * float64(have) / float64(total),
	}
}

// Score computes the weighted completion. Documents and references count fully
// from two items and half for one.
func Score(p Profile) Result {
	groups := []GroupScore{
		group("basic", WeightBasic, filled(present(p.FullName), present(p.Email), present(p.Phone), p.DateOfBirth != nil), 4),
		group("address", WeightAddress, filled(present(p.AddressLine), present(p.City), present(p.Country)), 3),
		group("employment", WeightEmployment, filled(present(p.Employer), present(p.JobTitle), p.MonthlyIncome > 0), 3),
		group("documents", WeightDocuments, min(p.Documents, 2), 2),
		group("references", WeightReferences, min(p.References, 2), 2),
	}

	var total float64
	for _, g := range groups {
		total += g.Score
	}
	score := int(math.Round(total))

	return Result{Score: score, Label: Label(score), Groups: groups}
}

// Label maps a score to its tier.
func Label(score int) string {
	switch {
	case score < 30:
		return "Weak"
	case score < 50:
		return "Fair"
	case score < 70:
		return "Good"
	case score < 90:
		return "Strong"
	default:
		return "Excellent"
	}
}
