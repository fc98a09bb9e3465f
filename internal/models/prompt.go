package models

import (
	"time"

	"gorm.io/datatypes"
)

type PromptCategory string

const (
	CategoryCoding       PromptCategory = "Coding"
	CategoryWriting      PromptCategory = "Writing"
	CategoryArt          PromptCategory = "Art"
	CategoryProductivity PromptCategory = "Productivity"
	CategoryOther        PromptCategory = "Other"
)

// PromptCategories lists every accepted category value. Payloads carrying
// anything else are rejected at the boundary, not coerced.
var PromptCategories = []PromptCategory{
	CategoryCoding,
	CategoryWriting,
	CategoryArt,
	CategoryProductivity,
	CategoryOther,
}

// IsValid reports whether the category is one of the fixed enum values.
func (c PromptCategory) IsValid() bool {
	switch c {
	case CategoryCoding, CategoryWriting, CategoryArt, CategoryProductivity, CategoryOther:
		return true
	}
	return false
}

// Prompt is a single catalog entry. LikeCount is server-controlled and only
// moves through the atomic increment in the prompt repository.
type Prompt struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	Title       string                      `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string                      `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Content     string                      `json:"content" gorm:"type:text;not null" validate:"required"`
	Tags        datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	Author      string                      `json:"author" gorm:"size:100"`
	LikeCount   int                         `json:"like_count" gorm:"not null;default:0;check:like_count >= 0"`
	Category    PromptCategory              `json:"category" gorm:"not null;size:20;index" validate:"required,oneof=Coding Writing Art Productivity Other"`

	// Owning identity; nullable because seeded prompts have no owner.
	UserID *string `json:"user_id" gorm:"size:255;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Prompt) TableName() string {
	return "prompts"
}
