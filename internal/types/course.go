package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AcademicLevelID *uuid.UUID     `gorm:"type:uuid;index" json:"academic_level_id,omitempty"`
	SubjectID       *uuid.UUID     `gorm:"type:uuid;index" json:"subject_id,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description" json:"description"`
	Difficulty      string         `gorm:"column:difficulty" json:"difficulty"`
	EstimatedHours  int            `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
	Objectives      datatypes.JSON `gorm:"column:objectives;type:jsonb" json:"objectives"`
	Prerequisites   datatypes.JSON `gorm:"column:prerequisites;type:jsonb" json:"prerequisites"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
