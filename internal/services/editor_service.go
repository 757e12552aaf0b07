package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"rentalhub/internal/forms"
	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EditorService backs the property editor: one form covering the property
// row and its detail row.
type EditorService struct {
	db         *gorm.DB
	properties *PropertyService
}

func NewEditorService(db *gorm.DB, properties *PropertyService) *EditorService {
	return &EditorService{db: db, properties: properties}
}

type EditorResult struct {
	Values     forms.Values      `json:"values"`
	Errors     map[string]string `json:"errors,omitempty"`
	Completion int               `json:"completion"`
}

// Check validates values without saving.
func (s *EditorService) Check(values forms.Values) *EditorResult {
	return &EditorResult{
		Values:     values,
		Errors:     forms.ValidateAll(values),
		Completion: forms.Completion(values),
	}
}

// Load returns the current editor values of a property.
func (s *EditorService) Load(ctx context.Context, actor Actor, id uint) (*EditorResult, error) {
	if _, err := s.properties.manageable(ctx, actor, id); err != nil {
		return nil, err
	}
	p, err := s.properties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	values := editorValues(p)
	return &EditorResult{Values: values, Completion: forms.Completion(values)}, nil
}

// Save validates every field and writes property and detail together.
func (s *EditorService) Save(ctx context.Context, actor Actor, id uint, values forms.Values) (*EditorResult, error) {
	if errs := forms.ValidateAll(values); len(errs) > 0 {
		return nil, apperrors.Validation("property form has errors", errs)
	}
	p, err := s.properties.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	price, _ := forms.Number(values[forms.FieldPrice])
	bedrooms, _ := forms.Number(values[forms.FieldBedrooms])
	bathrooms, _ := forms.Number(values[forms.FieldBathrooms])

	updates := map[string]interface{}{
		"title":       forms.Text(values[forms.FieldTitle]),
		"description": forms.Text(values[forms.FieldDescription]),
		"location":    forms.Text(values[forms.FieldLocation]),
		"price":       int64(price),
		"category":    strings.ToLower(forms.Text(values[forms.FieldCategory])),
		"bedrooms":    int(bedrooms),
		"bathrooms":   int(bathrooms),
	}
	if img := forms.Text(values[forms.FieldImageURL]); img != "" {
		updates["image_url"] = img
	}

	detail, err := detailFromValues(p.ID, values)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(p).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "property_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"deposit_months", "size_sqm", "furnishing", "amenities",
				"available_from", "contact_phone", "updated_at",
			}),
		}).Omit(clause.Associations).Create(detail).Error
	})
	if err != nil {
		return nil, err
	}

	return &EditorResult{Values: values, Completion: forms.Completion(values)}, nil
}

func detailFromValues(propertyID uint, values forms.Values) (*models.PropertyDetail, error) {
	d := &models.PropertyDetail{
		PropertyID:   propertyID,
		Furnishing:   forms.Text(values[forms.FieldFurnishing]),
		ContactPhone: forms.Text(values[forms.FieldContactPhone]),
	}
	if n, ok := forms.Number(values[forms.FieldDepositMonths]); ok {
		d.DepositMonths = int(n)
	} else {
		d.DepositMonths = 1
	}
	if n, ok := forms.Number(values[forms.FieldSizeSqm]); ok {
		d.SizeSqm = n
	}

	if raw, ok := values[forms.FieldAmenities]; ok && !forms.IsEmpty(raw) {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, apperrors.Validation("property form has errors", map[string]string{forms.FieldAmenities: "must be a list"})
		}
		d.Amenities = datatypes.JSON(b)
	}

	if s := forms.Text(values[forms.FieldAvailableFrom]); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, apperrors.Validation("property form has errors", map[string]string{forms.FieldAvailableFrom: "must be a date like 2024-06-01"})
		}
		d.AvailableFrom = &t
	}
	return d, nil
}

func editorValues(p *models.Property) forms.Values {
	values := forms.Values{
		forms.FieldTitle:       p.Title,
		forms.FieldDescription: p.Description,
		forms.FieldLocation:    p.Location,
		forms.FieldPrice:       p.Price,
		forms.FieldCategory:    p.Category,
		forms.FieldBedrooms:    p.Bedrooms,
		forms.FieldBathrooms:   p.Bathrooms,
		forms.FieldImageURL:    p.ImageURL,
	}
	if d := p.Detail; d != nil {
		values[forms.FieldDepositMonths] = d.DepositMonths
		if d.SizeSqm > 0 {
			values[forms.FieldSizeSqm] = d.SizeSqm
		}
		values[forms.FieldFurnishing] = d.Furnishing
		values[forms.FieldContactPhone] = d.ContactPhone
		if len(d.Amenities) > 0 {
			var amenities []string
			if err := json.Unmarshal(d.Amenities, &amenities); err == nil {
				values[forms.FieldAmenities] = amenities
			}
		}
		if d.AvailableFrom != nil {
			values[forms.FieldAvailableFrom] = d.AvailableFrom.Format("2006-01-02")
		}
	}
	return values
}
