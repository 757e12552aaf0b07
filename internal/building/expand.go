package building

import (
	"fmt"
	"strings"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/unitcode"
)

type PlannedImage struct {
	URL       string `json:"url" yaml:"url"`
	IsPrimary bool   `json:"is_primary" yaml:"is_primary"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
}

// PlannedUnit one physical unit. TypeSequence counts within the unit type,
// BlockSequence within the whole building and feeds the unit code.
type PlannedUnit struct {
	Floor         int    `json:"floor" yaml:"floor"`
	TypeSequence  int    `json:"type_sequence" yaml:"type_sequence"`
	BlockSequence int    `json:"block_sequence" yaml:"block_sequence"`
	UnitNumber    string `json:"unit_number,omitempty" yaml:"unit_number,omitempty"`
}

// PlannedProperty is the listing created for one unit type.
type PlannedProperty struct {
	UnitType    string         `json:"unit_type" yaml:"unit_type"`
	Label       string         `json:"label" yaml:"label"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Category    string         `json:"category" yaml:"category"`
	Location    string         `json:"location" yaml:"location"`
	Price       int64          `json:"price" yaml:"price"`
	Bedrooms    int            `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms   int            `json:"bathrooms" yaml:"bathrooms"`
	ImageURL    string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Units       []PlannedUnit  `json:"units" yaml:"units"`
	Images      []PlannedImage `json:"images,omitempty" yaml:"images,omitempty"`
}

type Plan struct {
	BlockName   string            `json:"block_name" yaml:"block_name"`
	Location    string            `json:"location" yaml:"location"`
	Description string            `json:"description" yaml:"description"`
	TotalFloors int               `json:"total_floors" yaml:"total_floors"`
	TotalUnits  int               `json:"total_units" yaml:"total_units"`
	Properties  []PlannedProperty `json:"properties" yaml:"properties"`
}

type contribution struct {
	floor int
	count int
}

type accumulator struct {
	unitType      string
	total         int
	contributions []contribution
	fee           int64
	meta          TypeMetadata
}

// Validate checks a layout and returns a 422 AppError listing every bad field.
func Validate(l *Layout) error {
	fields := make(map[string]string)

	if strings.TrimSpace(l.BlockName) == "" {
		fields["block_name"] = "block name is required"
	}
	if l.TotalFloors < 1 {
		fields["total_floors"] = "must be at least 1"
	}
	if len(l.Floors) == 0 {
		fields["floors"] = "at least one floor is required"
	}

	seenFloor := make(map[int]bool)
	for i, f := range l.Floors {
		prefix := fmt.Sprintf("floors[%d]", i)
		if f.Number < 1 || (l.TotalFloors >= 1 && f.Number > l.TotalFloors) {
			fields[prefix+".floor_number"] = fmt.Sprintf("must be between 1 and %d", l.TotalFloors)
		} else if seenFloor[f.Number] {
			fields[prefix+".floor_number"] = "floor configured twice"
		}
		seenFloor[f.Number] = true

		for j, u := range f.Units {
			up := fmt.Sprintf("%s.units[%d]", prefix, j)
			if strings.TrimSpace(u.UnitType) == "" {
				fields[up+".unit_type"] = "unit type is required"
			}
			if u.Count < 1 {
				fields[up+".count"] = "must be at least 1"
			} else if u.Count > unitcode.MaxSequence {
				fields[up+".count"] = fmt.Sprintf("must be at most %d", unitcode.MaxSequence)
			}
			if u.MonthlyFee < 0 {
				fields[up+".monthly_fee"] = "must not be negative"
			}
		}
	}

	if total := l.TotalUnits(); total > unitcode.MaxSequence {
		fields["floors"] = fmt.Sprintf("a building holds at most %d units", unitcode.MaxSequence)
	}

	if len(fields) > 0 {
		return apperrors.Validation("invalid building layout", fields)
	}
	return nil
}

// Expand validates the layout and builds the plan. Unit numbers are left empty
// until NumberUnits is called with the persisted block reference.
func Expand(l *Layout) (*Plan, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}

	// accumulate by unit type, first seen first
	var order []string
	acc := make(map[string]*accumulator)
	for _, f := range l.Floors {
		for _, u := range f.Units {
			key := strings.TrimSpace(u.UnitType)
			a, ok := acc[key]
			if !ok {
				a = &accumulator{unitType: key, fee: u.MonthlyFee}
				acc[key] = a
				order = append(order, key)
			}
			a.total += u.Count
			a.contributions = append(a.contributions, contribution{floor: f.Number, count: u.Count})
			if u.MonthlyFee > a.fee {
				a.fee = u.MonthlyFee
			}
		}
	}

	// metadata for types that do not appear on any floor is ignored
	for key, meta := range l.UnitTypes {
		if a, ok := acc[strings.TrimSpace(key)]; ok {
			a.meta = meta
		}
	}

	category := strings.TrimSpace(l.Category)
	if category == "" {
		category = models.CategoryApartment
	}

	plan := &Plan{
		BlockName:   strings.TrimSpace(l.BlockName),
		Location:    l.Location,
		Description: l.Description,
		TotalFloors: l.TotalFloors,
	}

	blockSeq := 0
	for _, key := range order {
		a := acc[key]
		bedrooms, bathrooms := Rooms(a.unitType)
		label := Label(a.unitType)

		p := PlannedProperty{
			UnitType:    a.unitType,
			Label:       label,
			Title:       plan.BlockName + " - " + label,
			Description: l.Description,
			Category:    category,
			Location:    l.Location,
			Price:       a.fee,
			Bedrooms:    bedrooms,
			Bathrooms:   bathrooms,
		}
		if t := strings.TrimSpace(a.meta.Title); t != "" {
			p.Title = t
		}
		if d := strings.TrimSpace(a.meta.Description); d != "" {
			p.Description = d
		}

		typeSeq := 0
		for _, c := range a.contributions {
			for i := 0; i < c.count; i++ {
				typeSeq++
				blockSeq++
				p.Units = append(p.Units, PlannedUnit{
					Floor:         c.floor,
					TypeSequence:  typeSeq,
					BlockSequence: blockSeq,
				})
			}
		}

		p.Images = planImages(strings.TrimSpace(a.meta.ImageURL), l.SharedImages)
		if len(p.Images) > 0 {
			p.ImageURL = p.Images[0].URL
		}

		plan.Properties = append(plan.Properties, p)
	}
	plan.TotalUnits = blockSeq

	return plan, nil
}

// planImages puts the type image first as primary, then the shared images
// without duplicates. Without a type image the first shared image is primary.
func planImages(primary string, shared []string) []PlannedImage {
	var images []PlannedImage
	seen := make(map[string]bool)

	if primary != "" {
		images = append(images, PlannedImage{URL: primary, IsPrimary: true})
		seen[primary] = true
	}
	for _, raw := range shared {
		url := strings.TrimSpace(raw)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		images = append(images, PlannedImage{URL: url, IsPrimary: len(images) == 0})
	}
	for i := range images {
		images[i].SortOrder = i
	}
	return images
}

// NumberUnits fills in unit codes for the given block reference.
func (p *Plan) NumberUnits(blockRef string) error {
	for i := range p.Properties {
		units := p.Properties[i].Units
		for j := range units {
			code, err := unitcode.Generate(blockRef, units[j].Floor, units[j].BlockSequence)
			if err != nil {
				return fmt.Errorf("number unit %d of %s: %w", units[j].TypeSequence, p.Properties[i].UnitType, err)
			}
			units[j].UnitNumber = code
		}
	}
	return nil
}

// UnitCount total planned units.
func (p *Plan) UnitCount() int {
	n := 0
	for _, prop := range p.Properties {
		n += len(prop.Units)
	}
	return n
}
