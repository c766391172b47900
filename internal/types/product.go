package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryCleanser    = "cleanser"
	CategoryToner       = "toner"
	CategorySerum       = "serum"
	CategoryMoisturizer = "moisturizer"
	CategorySunscreen   = "sunscreen"
	CategoryMask        = "mask"
	CategoryTreatment   = "treatment"
	CategoryEyeCream    = "eye_cream"
	CategoryOther       = "other"
)

type Product struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company         *Company   `gorm:"constraint:OnDelete:SET NULL;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Name            string     `gorm:"column:name;not null;index" json:"name"`
	Brand           string     `gorm:"column:brand" json:"brand"`
	Category        string     `gorm:"column:category;index" json:"category"`
	IngredientsText string     `gorm:"column:ingredients_text" json:"ingredients_text"`
	Barcode         string     `gorm:"column:barcode" json:"barcode"`
	ImageURL        string     `gorm:"column:image_url" json:"image_url"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }
