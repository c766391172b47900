package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

const dayLayout = "2006-01-02"

type RoutineLogService interface {
	// Completed returns the step ids marked done for the given day. Read
	// failures degrade to an empty set so the checklist renders unchecked
	// rather than erroring.
	Completed(ctx context.Context, userID, routineID uuid.UUID, day string) []string
	// SetCompleted replaces the day's completed set. Errors surface to the
	// caller since this is a user-initiated write.
	SetCompleted(ctx context.Context, userID, routineID uuid.UUID, day string, stepIDs []string) error
}

type routineLogService struct {
	db      *gorm.DB
	log     *logger.Logger
	logRepo repos.RoutineLogRepo
}

func NewRoutineLogService(db *gorm.DB, log *logger.Logger, logRepo repos.RoutineLogRepo) RoutineLogService {
	return &routineLogService{
		db:      db,
		log:     log.With("service", "RoutineLogService"),
		logRepo: logRepo,
	}
}

// normalizeDay validates a YYYY-MM-DD day string, defaulting to the server's
// local date when empty. The client sends its own local date so that "today"
// follows the user's calendar, not the server's.
func normalizeDay(day string) (string, error) {
	if day == "" {
		return time.Now().Format(dayLayout), nil
	}
	if _, err := time.Parse(dayLayout, day); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", day, err)
	}
	return day, nil
}

func (s *routineLogService) Completed(ctx context.Context, userID, routineID uuid.UUID, day string) []string {
	normalized, err := normalizeDay(day)
	if err != nil {
		s.log.Warn("Bad day value on log read, returning empty set", "day", day, "error", err)
		return []string{}
	}
	row, err := s.logRepo.GetByDay(ctx, nil, userID, routineID, normalized)
	if err != nil {
		s.log.Warn("Failed to read routine log, returning empty set", "routineID", routineID, "day", normalized, "error", err)
		return []string{}
	}
	if row == nil {
		return []string{}
	}
	ids, err := row.StepIDs()
	if err != nil {
		s.log.Warn("Failed to decode routine log, returning empty set", "routineID", routineID, "day", normalized, "error", err)
		return []string{}
	}
	return ids
}

func (s *routineLogService) SetCompleted(ctx context.Context, userID, routineID uuid.UUID, day string, stepIDs []string) error {
	normalized, err := normalizeDay(day)
	if err != nil {
		return err
	}
	row := &types.RoutineLog{
		ID:        uuid.New(),
		UserID:    userID,
		RoutineID: routineID,
		Day:       normalized,
	}
	if err := row.SetStepIDs(stepIDs); err != nil {
		return err
	}
	if err := s.logRepo.Upsert(ctx, nil, row); err != nil {
		return fmt.Errorf("save routine log: %w", err)
	}
	return nil
}
