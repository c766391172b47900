package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Routine types (time-of-day categories).
const (
	RoutineTypeAM = "AM"
	RoutineTypePM = "PM"
)

// RoutineStep is one entry of a routine's ordered step list. Steps live
// inside the routine row as a JSON document, not as their own table, so the
// whole list is read and written as a unit.
type RoutineStep struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
}

type Routine struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Steps     datatypes.JSON `gorm:"column:steps;type:jsonb" json:"steps"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Routine) TableName() string { return "routine" }

func ValidRoutineType(t string) bool {
	return t == RoutineTypeAM || t == RoutineTypePM
}

// StepList decodes the steps document. A null or empty column yields an empty
// slice, never nil-vs-error ambiguity.
func (r *Routine) StepList() ([]RoutineStep, error) {
	if len(r.Steps) == 0 {
		return []RoutineStep{}, nil
	}
	var steps []RoutineStep
	if err := json.Unmarshal(r.Steps, &steps); err != nil {
		return nil, fmt.Errorf("decode routine steps: %w", err)
	}
	if steps == nil {
		steps = []RoutineStep{}
	}
	return steps, nil
}

func (r *Routine) SetStepList(steps []RoutineStep) error {
	if steps == nil {
		steps = []RoutineStep{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode routine steps: %w", err)
	}
	r.Steps = datatypes.JSON(raw)
	return nil
}
