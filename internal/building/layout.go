// Package building turns a floor by floor building configuration into the
// listings and unit rows that get persisted for it.
package building

import "rentalhub/pkg/unitcode"

// UnitEntry is one (unit type, count, fee) tuple on a floor.
type UnitEntry struct {
	UnitType   string `json:"unit_type" yaml:"unit_type"`
	Count      int    `json:"count" yaml:"count"`
	MonthlyFee int64  `json:"monthly_fee" yaml:"monthly_fee"`
}

type Floor struct {
	Number int         `json:"floor_number" yaml:"floor"`
	Units  []UnitEntry `json:"units" yaml:"units"`
}

// TypeMetadata optional listing overrides for one unit type.
type TypeMetadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Layout is what the building wizard submits.
type Layout struct {
	BlockName    string                  `json:"block_name" yaml:"block_name"`
	Location     string                  `json:"location" yaml:"location"`
	Description  string                  `json:"description" yaml:"description"`
	Category     string                  `json:"category" yaml:"category"`
	TotalFloors  int                     `json:"total_floors" yaml:"total_floors"`
	Floors       []Floor                 `json:"floors" yaml:"floors"`
	UnitTypes    map[string]TypeMetadata `json:"unit_types,omitempty" yaml:"unit_types,omitempty"`
	SharedImages []string                `json:"shared_images,omitempty" yaml:"shared_images,omitempty"`
}

// TotalUnits sums every count in the layout. The sum stops growing once it
// passes unitcode.MaxSequence, so oversized counts cannot wrap around.
func (l *Layout) TotalUnits() int {
	total := 0
	for _, f := range l.Floors {
		for _, u := range f.Units {
			if u.Count > 0 {
				total += min(u.Count, unitcode.MaxSequence+1)
			}
			if total > unitcode.MaxSequence {
				return unitcode.MaxSequence + 1
			}
		}
	}
	return total
}
