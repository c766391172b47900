package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoutineLog holds the set of step ids completed for one routine on one
// calendar day. Day is the caller's local date in YYYY-MM-DD form; one logical
// row exists per (user, routine, day) and is replaced wholesale on write.
type RoutineLog struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uidx_routine_log_day" json:"user_id"`
	RoutineID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uidx_routine_log_day" json:"routine_id"`
	Day              string         `gorm:"column:day;not null;uniqueIndex:uidx_routine_log_day" json:"day"`
	CompletedStepIDs datatypes.JSON `gorm:"column:completed_step_ids;type:jsonb" json:"completed_step_ids"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (RoutineLog) TableName() string { return "routine_log" }

func (l *RoutineLog) StepIDs() ([]string, error) {
	if len(l.CompletedStepIDs) == 0 {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(l.CompletedStepIDs, &ids); err != nil {
		return nil, fmt.Errorf("decode completed step ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (l *RoutineLog) SetStepIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode completed step ids: %w", err)
	}
	l.CompletedStepIDs = datatypes.JSON(raw)
	return nil
}
