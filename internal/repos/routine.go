package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

type RoutineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Routine) (*types.Routine, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Routine, error)
	// GetLatestByUserAndType returns the most recently created routine for the
	// pair, or nil when none exists. Historical rows may remain in the table;
	// only the newest one is operated on.
	GetLatestByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, routineType string) (*types.Routine, error)
	UpdateSteps(ctx context.Context, tx *gorm.DB, id uuid.UUID, steps []types.RoutineStep) (*types.Routine, error)
}

type routineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoutineRepo(db *gorm.DB, baseLog *logger.Logger) RoutineRepo {
	return &routineRepo{db: db, log: baseLog.With("repo", "RoutineRepo")}
}

func (r *routineRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Routine) (*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *routineRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.Routine
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *routineRepo) GetLatestByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, routineType string) (*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var results []*types.Routine
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, routineType).
		Order("created_at desc").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *routineRepo) UpdateSteps(ctx context.Context, tx *gorm.DB, id uuid.UUID, steps []types.RoutineStep) (*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Routine
	if err := row.SetStepList(steps); err != nil {
		return nil, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Routine{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"steps":      row.Steps,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, transaction, id)
}
