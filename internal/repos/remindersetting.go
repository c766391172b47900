package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

type ReminderSettingRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReminderSetting, error)
	GetByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, routineType string) (*types.ReminderSetting, error)
	// Upsert writes the setting for the (user, routine type) key, one row per pair.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ReminderSetting) error
}

type reminderSettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReminderSettingRepo(db *gorm.DB, baseLog *logger.Logger) ReminderSettingRepo {
	return &reminderSettingRepo{db: db, log: baseLog.With("repo", "ReminderSettingRepo")}
}

func (r *reminderSettingRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReminderSetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ReminderSetting
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reminderSettingRepo) GetByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, routineType string) (*types.ReminderSetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || routineType == "" {
		return nil, nil
	}
	var result types.ReminderSetting
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND routine_type = ?", userID, routineType).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reminderSettingRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ReminderSetting) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique user_id + routine_type
	return transaction.WithContext(ctx).
		Where("user_id = ? AND routine_type = ?", row.UserID, row.RoutineType).
		Assign(map[string]interface{}{
			"enabled": row.Enabled,
			"hour":    row.Hour,
			"minute":  row.Minute,
		}).
		FirstOrCreate(row).Error
}
