package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Quiz struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson         *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	Questions      datatypes.JSON `gorm:"column:questions;type:jsonb" json:"questions"`
	TotalQuestions int            `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	PassingScore   int            `gorm:"column:passing_score;not null;default:70" json:"passing_score"`
	TimeLimit      *int           `gorm:"column:time_limit" json:"time_limit,omitempty"` // minutes
	Instructions   string         `gorm:"column:instructions" json:"instructions"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }
