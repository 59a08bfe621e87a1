package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

type FlashcardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cards []*types.Flashcard) ([]*types.Flashcard, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Flashcard, error)
}

type flashcardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardRepo {
	return &flashcardRepo{
		db:  db,
		log: baseLog.With("repo", "FlashcardRepo"),
	}
}

func (r *flashcardRepo) Create(ctx context.Context, tx *gorm.DB, cards []*types.Flashcard) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(cards) == 0 {
		return []*types.Flashcard{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *flashcardRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Flashcard
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
