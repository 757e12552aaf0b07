package models

import (
	"time"

	"gorm.io/datatypes"
)

// Property a rentable listing. Buildings created through the wizard get one
// Property per unit type.
type Property struct {
	BaseModel
	Title       string `json:"title" gorm:"not null;size:100"`
	Location    string `json:"location" gorm:"not null;size:200;index"`
	Description string `json:"description" gorm:"type:text"`
	Price       int64  `json:"price" gorm:"not null;default:0;index"` // minor currency units
	Category    string `json:"category" gorm:"size:20;default:'apartment';index"`
	Bedrooms    int    `json:"bedrooms" gorm:"default:0"`
	Bathrooms   int    `json:"bathrooms" gorm:"default:0"`
	ImageURL    string `json:"image_url" gorm:"size:500"`
	BlockID     *uint  `json:"block_id" gorm:"index"`
	LandlordID  *uint  `json:"landlord_id" gorm:"index"`
	UnitType    string `json:"unit_type" gorm:"size:50"`
	IsAvailable bool   `json:"is_available" gorm:"default:true;index"`
	ViewCount   int64  `json:"view_count" gorm:"default:0"`

	Images []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID"`
	Detail *PropertyDetail `json:"detail,omitempty" gorm:"foreignKey:PropertyID"`
	Block  *PropertyBlock  `json:"block,omitempty" gorm:"foreignKey:BlockID"`
}

func (Property) TableName() string {
	return "properties"
}

// property categories
const (
	CategoryApartment  = "apartment"
	CategoryHouse      = "house"
	CategoryStudio     = "studio"
	CategoryRoom       = "room"
	CategoryCommercial = "commercial"
	CategoryLand       = "land"
)

// PropertyImage gallery entry. At most one image per property is primary.
type PropertyImage struct {
	BaseModel
	PropertyID uint   `json:"property_id" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null;size:500"`
	IsPrimary  bool   `json:"is_primary" gorm:"default:false"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

// PropertyDetail extended listing data edited in the property editor.
type PropertyDetail struct {
	BaseModel
	PropertyID    uint           `json:"property_id" gorm:"uniqueIndex;not null"`
	DepositMonths int            `json:"deposit_months" gorm:"default:1"`
	SizeSqm       float64        `json:"size_sqm"`
	Furnishing    string         `json:"furnishing" gorm:"size:30"`
	Amenities     datatypes.JSON `json:"amenities" gorm:"type:jsonb"`
	AvailableFrom *time.Time     `json:"available_from"`
	HouseRules    string         `json:"house_rules" gorm:"type:text"`
	ContactPhone  string         `json:"contact_phone" gorm:"size:20"`

	Images []PropertyDetailImage `json:"images,omitempty" gorm:"foreignKey:DetailID"`
}

func (PropertyDetail) TableName() string {
	return "property_details"
}

type PropertyDetailImage struct {
	BaseModel
	DetailID  uint   `json:"detail_id" gorm:"not null;index"`
	URL       string `json:"url" gorm:"not null;size:500"`
	Caption   string `json:"caption" gorm:"size:200"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}

func (PropertyDetailImage) TableName() string {
	return "property_detail_images"
}
