package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/types"
)

// Lookup repos resolve human-readable names from generation requests. Names
// match exactly; there is no fuzzy matching.

type AcademicLevelRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AcademicLevel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.AcademicLevel, error)
}

type academicLevelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAcademicLevelRepo(db *gorm.DB, baseLog *logger.Logger) AcademicLevelRepo {
	return &academicLevelRepo{
		db:  db,
		log: baseLog.With("repo", "AcademicLevelRepo"),
	}
}

func (r *academicLevelRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AcademicLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if name == "" {
		return nil, nil
	}
	var level types.AcademicLevel
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *academicLevelRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.AcademicLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AcademicLevel
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type SubjectRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Subject, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Subject, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{
		db:  db,
		log: baseLog.With("repo", "SubjectRepo"),
	}
}

func (r *subjectRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Subject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if name == "" {
		return nil, nil
	}
	var subject types.Subject
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Subject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Subject
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
