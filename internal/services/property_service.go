package services

import (
	"context"
	stderrors "errors"
	"strings"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

// PropertyFilter public listing filters. Zero values are ignored.
type PropertyFilter struct {
	Category    string `form:"category"`
	Location    string `form:"location"`
	Keyword     string `form:"q"`
	MinPrice    *int64 `form:"min_price"`
	MaxPrice    *int64 `form:"max_price"`
	Bedrooms    *int   `form:"bedrooms"`
	BlockID     *uint  `form:"block_id"`
	LandlordID  *uint  `form:"landlord_id"`
	IsAvailable *bool  `form:"available"`
}

// PropertySorts columns a listing may be sorted by.
var PropertySorts = []string{"created_at", "price", "view_count", "bedrooms", "title"}

type PropertyInput struct {
	Title       string `json:"title" binding:"required,min=5,max=100"`
	Location    string `json:"location" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Price       int64  `json:"price" binding:"gte=0"`
	Category    string `json:"category" binding:"required,oneof=apartment house studio room commercial land"`
	Bedrooms    int    `json:"bedrooms" binding:"gte=0,lte=20"`
	Bathrooms   int    `json:"bathrooms" binding:"gte=0,lte=20"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=500"`
	UnitType    string `json:"unit_type" binding:"max=50"`
	IsAvailable *bool  `json:"is_available"`
	LandlordID  *uint  `json:"landlord_id"`
}

func (s *PropertyService) List(ctx context.Context, f PropertyFilter, page *pagination.PageParams) ([]models.Property, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", like, like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		q = q.Where("bedrooms = ?", *f.Bedrooms)
	}
	if f.BlockID != nil {
		q = q.Where("block_id = ?", *f.BlockID)
	}
	if f.LandlordID != nil {
		q = q.Where("landlord_id = ?", *f.LandlordID)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	err := q.Order(page.OrderClause()).
		Offset(page.GetOffset()).
		Limit(page.GetLimit()).
		Find(&properties).Error
	return properties, total, err
}

// Get loads a property with its gallery and detail.
func (s *PropertyService) Get(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Detail").
		Preload("Detail.Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&p, id).Error
	if err != nil {
		return nil, notFoundOr(err, "property")
	}
	return &p, nil
}

func (s *PropertyService) Create(ctx context.Context, actor Actor, in PropertyInput) (*models.Property, error) {
	p := &models.Property{
		Title:       strings.TrimSpace(in.Title),
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		ImageURL:    in.ImageURL,
		UnitType:    in.UnitType,
		IsAvailable: true,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}

	switch {
	case actor.IsAdmin():
		p.LandlordID = in.LandlordID
	case actor.IsLandlord():
		id := actor.UserID
		p.LandlordID = &id
	default:
		return nil, apperrors.Forbidden("only landlords and admins can list properties")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		if p.ImageURL != "" {
			return tx.Create(&models.PropertyImage{PropertyID: p.ID, URL: p.ImageURL, IsPrimary: true}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PropertyService) Update(ctx context.Context, actor Actor, id uint, in PropertyInput) (*models.Property, error) {
	p, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       strings.TrimSpace(in.Title),
		"location":    strings.TrimSpace(in.Location),
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
		"bedrooms":    in.Bedrooms,
		"bathrooms":   in.Bathrooms,
		"unit_type":   in.UnitType,
	}
	if in.ImageURL != "" {
		updates["image_url"] = in.ImageURL
	}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}
	if actor.IsAdmin() && in.LandlordID != nil {
		updates["landlord_id"] = *in.LandlordID
	}

	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the property with its images, detail and units.
func (s *PropertyService) Delete(ctx context.Context, actor Actor, id uint) error {
	p, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detailIDs []uint
		if err := tx.Model(&models.PropertyDetail{}).Where("property_id = ?", p.ID).Pluck("id", &detailIDs).Error; err != nil {
			return err
		}
		if len(detailIDs) > 0 {
			if err := tx.Where("detail_id IN ?", detailIDs).Delete(&models.PropertyDetailImage{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&models.PropertyDetail{}, &models.PropertyImage{}, &models.PropertyUnit{}, &models.PropertyInterest{}} {
			if err := tx.Where("property_id = ?", p.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(p).Error
	})
}

type ImageInput struct {
	URL       string `json:"url" binding:"required,max=500"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder *int   `json:"sort_order"`
}

func (s *PropertyService) AddImage(ctx context.Context, actor Actor, propertyID uint, in ImageInput) (*models.PropertyImage, error) {
	if _, err := s.manageable(ctx, actor, propertyID); err != nil {
		return nil, err
	}

	img := &models.PropertyImage{PropertyID: propertyID, URL: in.URL}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.SortOrder != nil {
			img.SortOrder = *in.SortOrder
		} else {
			var max *int
			if err := tx.Model(&models.PropertyImage{}).Where("property_id = ?", propertyID).
				Select("MAX(sort_order)").Scan(&max).Error; err != nil {
				return err
			}
			if max != nil {
				img.SortOrder = *max + 1
			}
		}

		var count int64
		tx.Model(&models.PropertyImage{}).Where("property_id = ?", propertyID).Count(&count)
		img.IsPrimary = in.IsPrimary || count == 0
		if err := tx.Create(img).Error; err != nil {
			return err
		}
		if img.IsPrimary {
			return markPrimary(tx, propertyID, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *PropertyService) RemoveImage(ctx context.Context, actor Actor, propertyID, imageID uint) error {
	if _, err := s.manageable(ctx, actor, propertyID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img models.PropertyImage
		if err := tx.Where("id = ? AND property_id = ?", imageID, propertyID).First(&img).Error; err != nil {
			return notFoundOr(err, "image")
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsPrimary {
			return nil
		}
		// promote the next image, or clear the cover
		var next models.PropertyImage
		err := tx.Where("property_id = ?", propertyID).Order("sort_order ASC, id ASC").First(&next).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Model(&models.Property{}).Where("id = ?", propertyID).Update("image_url", "").Error
		}
		if err != nil {
			return err
		}
		return markPrimary(tx, propertyID, &next)
	})
}

func (s *PropertyService) SetPrimaryImage(ctx context.Context, actor Actor, propertyID, imageID uint) error {
	if _, err := s.manageable(ctx, actor, propertyID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img models.PropertyImage
		if err := tx.Where("id = ? AND property_id = ?", imageID, propertyID).First(&img).Error; err != nil {
			return notFoundOr(err, "image")
		}
		return markPrimary(tx, propertyID, &img)
	})
}

// markPrimary makes img the only primary image and mirrors it to image_url.
func markPrimary(tx *gorm.DB, propertyID uint, img *models.PropertyImage) error {
	if err := tx.Model(&models.PropertyImage{}).
		Where("property_id = ? AND id <> ?", propertyID, img.ID).
		Update("is_primary", false).Error; err != nil {
		return err
	}
	if err := tx.Model(img).Update("is_primary", true).Error; err != nil {
		return err
	}
	return tx.Model(&models.Property{}).Where("id = ?", propertyID).Update("image_url", img.URL).Error
}

func (s *PropertyService) manageable(ctx context.Context, actor Actor, id uint) (*models.Property, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "property")
	}
	if !actor.CanManage(p.LandlordID) {
		return nil, apperrors.Forbidden("you do not manage this property")
	}
	return &p, nil
}
