package types

import (
	"time"

	"github.com/google/uuid"
)

// Shelf item statuses.
const (
	ShelfStatusOpened   = "opened"
	ShelfStatusWishlist = "wishlist"
	ShelfStatusEmpty    = "empty"
)

// UserProduct is one shelf item: a user's record of owning, wanting or having
// finished a catalog product.
type UserProduct struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Status         string     `gorm:"column:status;not null;index" json:"status"`
	DateOpened     *time.Time `gorm:"column:date_opened" json:"date_opened,omitempty"`
	ExpirationDate *time.Time `gorm:"column:expiration_date" json:"expiration_date,omitempty"`
	Price          *float64   `gorm:"column:price" json:"price,omitempty"`
	Rating         *int       `gorm:"column:rating" json:"rating,omitempty"`
	Review         string     `gorm:"column:review" json:"review"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserProduct) TableName() string { return "user_product" }

func ValidShelfStatus(status string) bool {
	switch status {
	case ShelfStatusOpened, ShelfStatusWishlist, ShelfStatusEmpty:
		return true
	}
	return false
}
