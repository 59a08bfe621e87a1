package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type GenerationUsageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, usages []*types.GenerationUsage) ([]*types.GenerationUsage, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.GenerationUsage, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type generationUsageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationUsageRepo(db *gorm.DB, baseLog *logger.Logger) GenerationUsageRepo {
	return &generationUsageRepo{
		db:  db,
		log: baseLog.With("repo", "GenerationUsageRepo"),
	}
}

func (r *generationUsageRepo) Create(ctx context.Context, tx *gorm.DB, usages []*types.GenerationUsage) ([]*types.GenerationUsage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(usages) == 0 {
		return []*types.GenerationUsage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

func (r *generationUsageRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.GenerationUsage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var usage types.GenerationUsage
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *generationUsageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.GenerationUsage{}).
		Where("id = ?", id).
		Updates(updates).Error
}
