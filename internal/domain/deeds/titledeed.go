package deeds

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResolutionStatus string

const (
	ResolutionPending      ResolutionStatus = "pending"
	ResolutionAutoResolved ResolutionStatus = "auto_resolved"
	ResolutionNeedsReview  ResolutionStatus = "needs_review"
	ResolutionConfirmed    ResolutionStatus = "confirmed"
	ResolutionFailed       ResolutionStatus = "failed"
)

// TitleDeed is one uploaded chanote image plus everything the resolution
// pipeline learned about it: extracted fields, resolved reference codes,
// and the land-registry record when the lookup succeeded.
type TitleDeed struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	ApplicationID *uuid.UUID `gorm:"type:uuid;index;column:application_id" json:"application_id,omitempty"`

	ImageKey  string `gorm:"not null;column:image_key" json:"image_key"`
	ImageURL  string `gorm:"not null;column:image_url" json:"image_url"`
	IsPrimary bool   `gorm:"not null;default:false;column:is_primary" json:"is_primary"`
	SortOrder int    `gorm:"not null;default:0;column:sort_order" json:"sort_order"`

	// Extracted straight off the image. Empty string means the extractor
	// could not read the field, not that the field is absent on the deed.
	ParcelNo     string `gorm:"column:parcel_no" json:"parcel_no"`
	ProvinceName string `gorm:"column:province_name" json:"province_name"`
	DistrictName string `gorm:"column:district_name" json:"district_name"`

	ProvinceCode string `gorm:"column:province_code" json:"province_code"`
	DistrictCode string `gorm:"column:district_code" json:"district_code"`

	OwnerName          string         `gorm:"column:owner_name" json:"owner_name"`
	LandClassification string         `gorm:"column:land_classification" json:"land_classification"`
	AreaRai            string         `gorm:"column:area_rai" json:"area_rai"`
	AreaNgan           string         `gorm:"column:area_ngan" json:"area_ngan"`
	AreaWa             string         `gorm:"column:area_wa" json:"area_wa"`
	Latitude           float64        `gorm:"column:latitude" json:"latitude"`
	Longitude          float64        `gorm:"column:longitude" json:"longitude"`
	RawRegistry        datatypes.JSON `gorm:"column:raw_registry" json:"raw_registry,omitempty"`

	Status     ResolutionStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	StatusNote string           `gorm:"column:status_note" json:"status_note"`

	EstimatedValueTHB float64 `gorm:"column:estimated_value_thb" json:"estimated_value_thb"`
	ConfidencePercent float64 `gorm:"column:confidence_percent" json:"confidence_percent"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TitleDeed) TableName() string { return "title_deed" }
