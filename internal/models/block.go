package models

import (
	"gorm.io/datatypes"
)

// PropertyBlock a building. Layout keeps the floor configuration it was
// created from.
type PropertyBlock struct {
	BaseModel
	Name        string         `json:"name" gorm:"not null;size:100"`
	Location    string         `json:"location" gorm:"size:200"`
	Description string         `json:"description" gorm:"type:text"`
	TotalFloors int            `json:"total_floors" gorm:"not null"`
	TotalUnits  int            `json:"total_units" gorm:"not null"`
	LandlordID  *uint          `json:"landlord_id" gorm:"index"`
	Layout      datatypes.JSON `json:"layout,omitempty" gorm:"type:jsonb"`

	Units      []PropertyUnit `json:"units,omitempty" gorm:"foreignKey:BlockID"`
	Properties []Property     `json:"properties,omitempty" gorm:"foreignKey:BlockID"`
}

func (PropertyBlock) TableName() string {
	return "property_blocks"
}

// PropertyUnit one physical unit. UnitNumber is unique inside its block.
type PropertyUnit struct {
	BaseModel
	BlockID     uint   `json:"block_id" gorm:"not null;uniqueIndex:idx_block_unit_number"`
	PropertyID  uint   `json:"property_id" gorm:"not null;index"`
	FloorNumber int    `json:"floor_number" gorm:"not null"`
	UnitNumber  string `json:"unit_number" gorm:"not null;size:10;uniqueIndex:idx_block_unit_number"`
	UnitType    string `json:"unit_type" gorm:"size:50"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`
	Price       int64  `json:"price" gorm:"not null;default:0"`
}

func (PropertyUnit) TableName() string {
	return "property_units"
}
