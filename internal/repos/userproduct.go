package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

type UserProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.UserProduct) (*types.UserProduct, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserProduct, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) ([]*types.UserProduct, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type userProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProductRepo(db *gorm.DB, baseLog *logger.Logger) UserProductRepo {
	return &userProductRepo{db: db, log: baseLog.With("repo", "UserProductRepo")}
}

func (r *userProductRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserProduct) (*types.UserProduct, error) {
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

func (r *userProductRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.UserProduct
	err := transaction.WithContext(ctx).
		Preload("Product").
		Preload("Product.Company").
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

func (r *userProductRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) ([]*types.UserProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProduct
	if userID == uuid.Nil {
		return results, nil
	}
	query := transaction.WithContext(ctx).
		Preload("Product").
		Preload("Product.Company").
		Where("user_id = ?", userID).
		Order("updated_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProductRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProduct{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *userProductRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.UserProduct{}).Error
}
