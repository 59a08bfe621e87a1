package types

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson      *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Index       int       `gorm:"column:index;not null" json:"index"` // 1-based position within the lesson
	Front       string    `gorm:"column:front;type:text;not null" json:"front"`
	Back        string    `gorm:"column:back;type:text;not null" json:"back"`
	Difficulty  string    `gorm:"column:difficulty;not null;default:medium" json:"difficulty"` // easy|medium|hard
	Hint        string    `gorm:"column:hint" json:"hint,omitempty"`
	Explanation string    `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Flashcard) TableName() string { return "flashcard" }
