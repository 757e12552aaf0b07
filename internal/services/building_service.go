package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"rentalhub/internal/building"
	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/metrics"
	"rentalhub/pkg/pagination"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// building creation modes
const (
	CreationAtomic     = "atomic"
	CreationBestEffort = "best_effort"
)

// BuildingStore is the set of inserts a building creation issues.
type BuildingStore interface {
	CreateBlock(ctx context.Context, block *models.PropertyBlock) error
	CreateProperty(ctx context.Context, p *models.Property) error
	CreateUnits(ctx context.Context, units []models.PropertyUnit) error
	CreateImages(ctx context.Context, images []models.PropertyImage) error
}

type gormBuildingStore struct {
	db *gorm.DB
}

func (s *gormBuildingStore) CreateBlock(ctx context.Context, block *models.PropertyBlock) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(block).Error
}

func (s *gormBuildingStore) CreateProperty(ctx context.Context, p *models.Property) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (s *gormBuildingStore) CreateUnits(ctx context.Context, units []models.PropertyUnit) error {
	if len(units) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(units, 200).Error
}

func (s *gormBuildingStore) CreateImages(ctx context.Context, images []models.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&images).Error
}

// TypeFailure one unit type that could not be created in best-effort mode.
// PropertyID is set when the listing row was inserted before the failure, so
// the caller can repair or delete it.
type TypeFailure struct {
	UnitType   string `json:"unit_type"`
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	PropertyID *uint  `json:"property_id,omitempty"`
}

// BuildingReport is the outcome of a building creation.
type BuildingReport struct {
	Mode         string                `json:"mode"`
	Block        *models.PropertyBlock `json:"block"`
	PropertyIDs  []uint                `json:"property_ids"`
	CreatedTypes []string              `json:"created_types"`
	FailedTypes  []TypeFailure         `json:"failed_types,omitempty"`
	UnitsCreated int                   `json:"units_created"`
	UnitsPlanned int                   `json:"units_planned"`
}

func (r *BuildingReport) Partial() bool {
	return len(r.FailedTypes) > 0
}

type BuildingService struct {
	db          *gorm.DB
	defaultMode string
}

func NewBuildingService(db *gorm.DB, defaultMode string) *BuildingService {
	if defaultMode != CreationBestEffort {
		defaultMode = CreationAtomic
	}
	return &BuildingService{db: db, defaultMode: defaultMode}
}

// Preview expands a layout without touching the database. Unit numbers use a
// placeholder block reference.
func (s *BuildingService) Preview(layout *building.Layout) (*building.Plan, error) {
	plan, err := building.Expand(layout)
	if err != nil {
		return nil, err
	}
	if err := plan.NumberUnits("preview"); err != nil {
		return nil, err
	}
	return plan, nil
}

// CreateBuilding expands layout and persists block, properties, units and
// images. In atomic mode everything runs in one transaction. In best-effort
// mode a unit type whose inserts fail is skipped and reported.
func (s *BuildingService) CreateBuilding(ctx context.Context, actor Actor, layout *building.Layout, landlordID *uint, mode string) (*BuildingReport, error) {
	if mode == "" {
		mode = s.defaultMode
	}
	if mode != CreationAtomic && mode != CreationBestEffort {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown creation mode %q", mode))
	}

	owner, err := resolveOwner(actor, landlordID)
	if err != nil {
		return nil, err
	}

	plan, err := building.Expand(layout)
	if err != nil {
		metrics.BuildingCreations.WithLabelValues(mode, "invalid").Inc()
		return nil, err
	}

	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	var report *BuildingReport
	if mode == CreationAtomic {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			report, txErr = persistPlan(ctx, &gormBuildingStore{db: tx}, plan, layoutJSON, owner, false)
			return txErr
		})
	} else {
		report, err = persistPlan(ctx, &gormBuildingStore{db: s.db}, plan, layoutJSON, owner, true)
	}

	if err != nil {
		metrics.BuildingCreations.WithLabelValues(mode, "failed").Inc()
		logger.WithModule("building").WithError(err).WithField("block", plan.BlockName).Error("Building creation failed")
		return nil, err
	}

	report.Mode = mode
	outcome := "created"
	if report.Partial() {
		outcome = "partial"
	}
	metrics.BuildingCreations.WithLabelValues(mode, outcome).Inc()
	metrics.BuildingUnitsCreated.Add(float64(report.UnitsCreated))
	return report, nil
}

// persistPlan writes a plan through store. With continueOnError a failing unit
// type is logged and skipped; otherwise the first error is returned.
func persistPlan(ctx context.Context, store BuildingStore, plan *building.Plan, layoutJSON []byte, landlordID *uint, continueOnError bool) (*BuildingReport, error) {
	log := logger.WithModule("building")

	block := &models.PropertyBlock{
		Name:        plan.BlockName,
		Location:    plan.Location,
		Description: plan.Description,
		TotalFloors: plan.TotalFloors,
		TotalUnits:  plan.TotalUnits,
		LandlordID:  landlordID,
		Layout:      datatypes.JSON(layoutJSON),
	}
	if err := store.CreateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}

	if err := plan.NumberUnits(strconv.FormatUint(uint64(block.ID), 10)); err != nil {
		return nil, err
	}

	report := &BuildingReport{Block: block, UnitsPlanned: plan.UnitCount()}
	blockID := block.ID

	fail := func(unitType, stage string, propertyID *uint, err error) error {
		if !continueOnError {
			return fmt.Errorf("%s %s: %w", stage, unitType, err)
		}
		log.WithError(err).WithFields(logrus.Fields{
			"block_id":  blockID,
			"unit_type": unitType,
			"stage":     stage,
		}).Warn("Skipping unit type")
		report.FailedTypes = append(report.FailedTypes, TypeFailure{UnitType: unitType, Stage: stage, Error: err.Error(), PropertyID: propertyID})
		return nil
	}

	for _, pp := range plan.Properties {
		property := &models.Property{
			Title:       pp.Title,
			Location:    pp.Location,
			Description: pp.Description,
			Price:       pp.Price,
			Category:    pp.Category,
			Bedrooms:    pp.Bedrooms,
			Bathrooms:   pp.Bathrooms,
			ImageURL:    pp.ImageURL,
			BlockID:     &blockID,
			LandlordID:  landlordID,
			UnitType:    pp.UnitType,
			IsAvailable: true,
		}
		if err := store.CreateProperty(ctx, property); err != nil {
			if ferr := fail(pp.UnitType, "property", nil, err); ferr != nil {
				return nil, ferr
			}
			continue
		}

		units := make([]models.PropertyUnit, 0, len(pp.Units))
		for _, u := range pp.Units {
			units = append(units, models.PropertyUnit{
				BlockID:     blockID,
				PropertyID:  property.ID,
				FloorNumber: u.Floor,
				UnitNumber:  u.UnitNumber,
				UnitType:    pp.UnitType,
				IsAvailable: true,
				Price:       pp.Price,
			})
		}
		if err := store.CreateUnits(ctx, units); err != nil {
			if ferr := fail(pp.UnitType, "units", &property.ID, err); ferr != nil {
				return nil, ferr
			}
			continue
		}

		images := make([]models.PropertyImage, 0, len(pp.Images))
		for _, img := range pp.Images {
			images = append(images, models.PropertyImage{
				PropertyID: property.ID,
				URL:        img.URL,
				IsPrimary:  img.IsPrimary,
				SortOrder:  img.SortOrder,
			})
		}
		if err := store.CreateImages(ctx, images); err != nil {
			// listing and units exist, only the gallery is missing
			report.UnitsCreated += len(units)
			if ferr := fail(pp.UnitType, "images", &property.ID, err); ferr != nil {
				return nil, ferr
			}
			continue
		}

		report.PropertyIDs = append(report.PropertyIDs, property.ID)
		report.CreatedTypes = append(report.CreatedTypes, pp.UnitType)
		report.UnitsCreated += len(units)
	}

	return report, nil
}

func resolveOwner(actor Actor, landlordID *uint) (*uint, error) {
	switch {
	case actor.IsAdmin():
		return landlordID, nil
	case actor.IsLandlord():
		id := actor.UserID
		return &id, nil
	default:
		return nil, apperrors.Forbidden("only landlords and admins can create buildings")
	}
}

// FloorUnits units of one floor.
type FloorUnits struct {
	Floor int                   `json:"floor"`
	Units []models.PropertyUnit `json:"units"`
}

type BlockView struct {
	Block      models.PropertyBlock `json:"block"`
	Floors     []FloorUnits         `json:"floors"`
	Properties []models.Property    `json:"properties"`
}

// GetBlock returns a block with its units grouped by floor.
func (s *BuildingService) GetBlock(ctx context.Context, id uint) (*BlockView, error) {
	var block models.PropertyBlock
	if err := s.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, notFoundOr(err, "block")
	}

	var units []models.PropertyUnit
	if err := s.db.WithContext(ctx).Where("block_id = ?", id).
		Order("floor_number ASC, unit_number ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	var properties []models.Property
	if err := s.db.WithContext(ctx).Where("block_id = ?", id).Order("id ASC").Find(&properties).Error; err != nil {
		return nil, err
	}

	return &BlockView{Block: block, Floors: groupByFloor(units), Properties: properties}, nil
}

func groupByFloor(units []models.PropertyUnit) []FloorUnits {
	byFloor := make(map[int][]models.PropertyUnit)
	for _, u := range units {
		byFloor[u.FloorNumber] = append(byFloor[u.FloorNumber], u)
	}
	floors := make([]FloorUnits, 0, len(byFloor))
	for f, us := range byFloor {
		floors = append(floors, FloorUnits{Floor: f, Units: us})
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i].Floor < floors[j].Floor })
	return floors
}

func (s *BuildingService) ListBlocks(ctx context.Context, actor Actor, page *pagination.PageParams) ([]models.PropertyBlock, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.PropertyBlock{})
	if !actor.IsAdmin() {
		q = q.Where("landlord_id = ?", actor.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var blocks []models.PropertyBlock
	err := q.Omit("layout").Order(page.OrderClause()).Offset(page.GetOffset()).Limit(page.GetLimit()).Find(&blocks).Error
	return blocks, total, err
}

type BlockUpdate struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Location    *string `json:"location" binding:"omitempty,max=200"`
	Description *string `json:"description"`
}

func (s *BuildingService) UpdateBlock(ctx context.Context, actor Actor, id uint, in BlockUpdate) (*models.PropertyBlock, error) {
	block, err := s.manageableBlock(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return block, nil
	}
	if err := s.db.WithContext(ctx).Model(block).Updates(updates).Error; err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes the block and everything created for it.
func (s *BuildingService) DeleteBlock(ctx context.Context, actor Actor, id uint) error {
	block, err := s.manageableBlock(ctx, actor, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var propertyIDs []uint
		if err := tx.Model(&models.Property{}).Where("block_id = ?", block.ID).Pluck("id", &propertyIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("block_id = ?", block.ID).Delete(&models.PropertyUnit{}).Error; err != nil {
			return err
		}
		if len(propertyIDs) > 0 {
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.PropertyImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id IN ?", propertyIDs).Delete(&models.PropertyInterest{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", propertyIDs).Delete(&models.Property{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(block).Error
	})
}

func (s *BuildingService) manageableBlock(ctx context.Context, actor Actor, id uint) (*models.PropertyBlock, error) {
	var block models.PropertyBlock
	if err := s.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, notFoundOr(err, "block")
	}
	if !actor.CanManage(block.LandlordID) {
		return nil, apperrors.Forbidden("you do not manage this block")
	}
	return &block, nil
}
