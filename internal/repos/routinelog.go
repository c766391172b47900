package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

type RoutineLogRepo interface {
	GetByDay(ctx context.Context, tx *gorm.DB, userID, routineID uuid.UUID, day string) (*types.RoutineLog, error)
	// Upsert replaces the day's row for the (user, routine, day) key.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.RoutineLog) error
}

type routineLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoutineLogRepo(db *gorm.DB, baseLog *logger.Logger) RoutineLogRepo {
	return &routineLogRepo{db: db, log: baseLog.With("repo", "RoutineLogRepo")}
}

func (r *routineLogRepo) GetByDay(ctx context.Context, tx *gorm.DB, userID, routineID uuid.UUID, day string) (*types.RoutineLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || routineID == uuid.Nil || day == "" {
		return nil, nil
	}
	var result types.RoutineLog
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND routine_id = ? AND day = ?", userID, routineID, day).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *routineLogRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RoutineLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique user_id + routine_id + day
	return transaction.WithContext(ctx).
		Where("user_id = ? AND routine_id = ? AND day = ?", row.UserID, row.RoutineID, row.Day).
		Assign(map[string]interface{}{
			"completed_step_ids": row.CompletedStepIDs,
		}).
		FirstOrCreate(row).Error
}
