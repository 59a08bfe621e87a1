package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type LessonContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.LessonContent) ([]*types.LessonContent, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonContent, error)
}

type lessonContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonContentRepo(db *gorm.DB, baseLog *logger.Logger) LessonContentRepo {
	return &lessonContentRepo{
		db:  db,
		log: baseLog.With("repo", "LessonContentRepo"),
	}
}

func (r *lessonContentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.LessonContent) ([]*types.LessonContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(contents) == 0 {
		return []*types.LessonContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *lessonContentRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.LessonContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.LessonContent
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
