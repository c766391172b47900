package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

type DeviceTokenRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DeviceToken) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DeviceToken, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type deviceTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeviceTokenRepo(db *gorm.DB, baseLog *logger.Logger) DeviceTokenRepo {
	return &deviceTokenRepo{db: db, log: baseLog.With("repo", "DeviceTokenRepo")}
}

func (r *deviceTokenRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DeviceToken) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique token value
	return transaction.WithContext(ctx).
		Where("token = ?", row.Token).
		Assign(map[string]interface{}{
			"user_id":  row.UserID,
			"platform": row.Platform,
		}).
		FirstOrCreate(row).Error
}

func (r *deviceTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DeviceToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DeviceToken
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

func (r *deviceTokenRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DeviceToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *deviceTokenRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.DeviceToken{}).Error
}
