package validator

import (
	"time"

	"github.com/promptshare/prompt-service/internal/models"
)

// PromptCreateRequest represents the request structure for creating prompts.
// Likes and id are server-controlled and therefore absent.
type PromptCreateRequest struct {
	Title       string                `json:"title" validate:"required,prompt_title"`
	Description string                `json:"description" validate:"omitempty,prompt_description"`
	Content     string                `json:"content" validate:"required,min=1"`
	Tags        []string              `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	Author      string                `json:"author" validate:"omitempty,max=100"`
	Category    models.PromptCategory `json:"category" validate:"required,prompt_category"`
}

// PromptUpdateRequest represents the request structure for updating prompts
type PromptUpdateRequest struct {
	Title       *string                `json:"title" validate:"omitempty,prompt_title"`
	Description *string                `json:"description" validate:"omitempty,prompt_description"`
	Content     *string                `json:"content" validate:"omitempty,min=1"`
	Tags        []string               `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	Author      *string                `json:"author" validate:"omitempty,max=100"`
	Category    *models.PromptCategory `json:"category" validate:"omitempty,prompt_category"`
}

// ProfileUpdateRequest is the self-service profile update. Role and expiry
// are not part of this contract; a payload carrying them is rejected by the
// decoder, not silently applied.
type ProfileUpdateRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// RoleAssignRequest is the privileged role change accepted only on the admin
// path.
type RoleAssignRequest struct {
	Role      models.UserRole `json:"role" validate:"required,user_role"`
	ExpiresAt *time.Time      `json:"expires_at" validate:"omitempty,future_date"`
}
