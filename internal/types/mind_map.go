package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MindMap stores the full node list under Data and, derived at write time,
// the subset of nodes that have children under Connections. Parent/child id
// references are carried as-is; they are not validated against the node set.
type MindMap struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson      *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Data        datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	Connections datatypes.JSON `gorm:"column:connections;type:jsonb" json:"connections"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (MindMap) TableName() string { return "mind_map" }
