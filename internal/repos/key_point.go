package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type KeyPointRepo interface {
	Create(ctx context.Context, tx *gorm.DB, points []*types.KeyPoint) ([]*types.KeyPoint, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.KeyPoint, error)
}

type keyPointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKeyPointRepo(db *gorm.DB, baseLog *logger.Logger) KeyPointRepo {
	return &keyPointRepo{
		db:  db,
		log: baseLog.With("repo", "KeyPointRepo"),
	}
}

func (r *keyPointRepo) Create(ctx context.Context, tx *gorm.DB, points []*types.KeyPoint) ([]*types.KeyPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(points) == 0 {
		return []*types.KeyPoint{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *keyPointRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.KeyPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.KeyPoint
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order(`"index" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
