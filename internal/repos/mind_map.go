package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type MindMapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, maps []*types.MindMap) ([]*types.MindMap, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.MindMap, error)
}

type mindMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMindMapRepo(db *gorm.DB, baseLog *logger.Logger) MindMapRepo {
	return &mindMapRepo{
		db:  db,
		log: baseLog.With("repo", "MindMapRepo"),
	}
}

func (r *mindMapRepo) Create(ctx context.Context, tx *gorm.DB, maps []*types.MindMap) ([]*types.MindMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(maps) == 0 {
		return []*types.MindMap{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}

func (r *mindMapRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.MindMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.MindMap
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
