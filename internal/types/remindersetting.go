package types

import (
	"time"

	"github.com/google/uuid"
)

// ReminderSetting controls the daily routine reminder for one user and one
// routine type. Exactly one row exists per (user, routine type); it is
// upserted on every toggle or time change.
type ReminderSetting struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uidx_reminder_user_type" json:"user_id"`
	RoutineType string    `gorm:"column:routine_type;not null;uniqueIndex:uidx_reminder_user_type" json:"routine_type"`
	Enabled     bool      `gorm:"column:enabled;not null;default:false" json:"enabled"`
	Hour        int       `gorm:"column:hour;not null" json:"hour"`
	Minute      int       `gorm:"column:minute;not null" json:"minute"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (ReminderSetting) TableName() string { return "reminder_setting" }
