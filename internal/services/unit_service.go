package services

import (
	"context"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/unitcode"

	"gorm.io/gorm"
)

type UnitService struct {
	db *gorm.DB
}

func NewUnitService(db *gorm.DB) *UnitService {
	return &UnitService{db: db}
}

type UnitFilter struct {
	BlockID     *uint `form:"block_id"`
	PropertyID  *uint `form:"property_id"`
	Floor       *int  `form:"floor"`
	IsAvailable *bool `form:"available"`
}

func (s *UnitService) List(ctx context.Context, f UnitFilter) ([]models.PropertyUnit, error) {
	if f.BlockID == nil && f.PropertyID == nil {
		return nil, apperrors.BadRequest("block_id or property_id is required")
	}

	q := s.db.WithContext(ctx).Model(&models.PropertyUnit{})
	if f.BlockID != nil {
		q = q.Where("block_id = ?", *f.BlockID)
	}
	if f.PropertyID != nil {
		q = q.Where("property_id = ?", *f.PropertyID)
	}
	if f.Floor != nil {
		q = q.Where("floor_number = ?", *f.Floor)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}

	var units []models.PropertyUnit
	err := q.Order("floor_number ASC, unit_number ASC").Find(&units).Error
	return units, err
}

// FindByNumber looks a unit up by its printed code, grouped or not.
func (s *UnitService) FindByNumber(ctx context.Context, blockID uint, number string) (*models.PropertyUnit, error) {
	code, err := unitcode.Parse(number)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	var unit models.PropertyUnit
	if err := s.db.WithContext(ctx).Where("block_id = ? AND unit_number = ?", blockID, code).First(&unit).Error; err != nil {
		return nil, notFoundOr(err, "unit")
	}
	return &unit, nil
}

type UnitUpdate struct {
	IsAvailable *bool  `json:"is_available"`
	Price       *int64 `json:"price" binding:"omitempty,gte=0"`
}

func (s *UnitService) Update(ctx context.Context, actor Actor, id uint, in UnitUpdate) (*models.PropertyUnit, error) {
	var unit models.PropertyUnit
	if err := s.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, notFoundOr(err, "unit")
	}

	var block models.PropertyBlock
	if err := s.db.WithContext(ctx).Select("id", "landlord_id").First(&block, unit.BlockID).Error; err != nil {
		return nil, notFoundOr(err, "block")
	}
	if !actor.CanManage(block.LandlordID) {
		return nil, apperrors.Forbidden("you do not manage this unit")
	}

	updates := map[string]interface{}{}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if len(updates) == 0 {
		return &unit, nil
	}
	if err := s.db.WithContext(ctx).Model(&unit).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}
