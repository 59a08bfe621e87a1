package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type KeyPoint struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson      *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Index       int            `gorm:"column:index;not null" json:"index"` // 1-based position within the lesson
	Point       string         `gorm:"column:point;type:text;not null" json:"point"`
	Explanation string         `gorm:"column:explanation;type:text" json:"explanation"`
	Importance  string         `gorm:"column:importance;not null;default:medium" json:"importance"` // low|medium|high
	Category    string         `gorm:"column:category" json:"category,omitempty"`
	Examples    datatypes.JSON `gorm:"column:examples;type:jsonb" json:"examples,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (KeyPoint) TableName() string { return "key_point" }
