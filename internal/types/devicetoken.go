package types

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken records a push-capable device for a user. A user with at least
// one row is considered to have granted notification permission.
type DeviceToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Platform  string    `gorm:"column:platform;not null" json:"platform"`
	Token     string    `gorm:"column:token;not null;uniqueIndex" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DeviceToken) TableName() string { return "device_token" }
