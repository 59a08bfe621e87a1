package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationUsage is the per-user quota counter. The increment is a plain
// read-modify-write; concurrent completions for the same user can under-count.
type GenerationUsage struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	FreeGenerationsUsed int       `gorm:"column:free_generations_used;not null;default:0" json:"free_generations_used"`
	CreatedAt           time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GenerationUsage) TableName() string { return "generation_usage" }
