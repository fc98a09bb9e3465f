package services

import (
	"context"

	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreatePromptRequest = validator.PromptCreateRequest
type UpdatePromptRequest = validator.PromptUpdateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type AssignRoleRequest = validator.RoleAssignRequest

type PromptResponse struct {
	*models.Prompt
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type PromptListResponse struct {
	Prompts []*models.Prompt `json:"prompts"`
	Total   int64            `json:"total"`
}

// ListPromptsQuery carries the optional category and free-text filters. Both
// are applied after retrieval as a pure function over the full catalog.
type ListPromptsQuery struct {
	Category string `json:"category"`
	Query    string `json:"q"`
}

type ProfileResponse struct {
	*models.UserProfile
	// EffectiveRole is the resolved role at response time, after applying
	// expiration rules to the assigned role.
	EffectiveRole models.UserRole `json:"effective_role"`
	Active        bool            `json:"active"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// ===== SERVICE INTERFACES =====

type PromptService interface {
	// Admin-gated mutations
	Create(ctx context.Context, req *CreatePromptRequest, actorID string) (*PromptResponse, error)
	Update(ctx context.Context, id uint, req *UpdatePromptRequest, actorID string) (*PromptResponse, error)
	Delete(ctx context.Context, id uint, actorID string) error

	// Public reads
	GetByID(ctx context.Context, id uint, actorID string) (*PromptResponse, error)
	List(ctx context.Context, query ListPromptsQuery) (*PromptListResponse, error)

	// Like bumps the counter atomically; no identity required.
	Like(ctx context.Context, id uint) error
}

type ProfileService interface {
	// EnsureProfile provisions a profile the first time an identity is
	// observed. Idempotent; safe to call on every authenticated request.
	EnsureProfile(ctx context.Context, userID, displayName string, avatarURL *string) error

	// EffectiveRole resolves the caller's role with server-side time.
	EffectiveRole(ctx context.Context, userID string) (models.UserRole, error)

	GetByUserID(ctx context.Context, userID string) (*ProfileResponse, error)

	// UpdateSelf writes non-role fields for the owning identity only.
	UpdateSelf(ctx context.Context, userID string, req *UpdateProfileRequest, actorID string) (*ProfileResponse, error)

	// AssignRole is the privileged path: admin-gated at entry, then writes
	// role/expiry bypassing the owner-only restriction.
	AssignRole(ctx context.Context, targetUserID string, req *AssignRoleRequest, actorID string) (*ProfileResponse, error)

	// ListUsers exposes the identity directory to the admin role panel.
	ListUsers(ctx context.Context, filters repositories.UserFilters, actorID string) (*UserListResponse, error)
}

type ExportService interface {
	// ExportPrompts renders the whole catalog as an XLSX workbook.
	ExportPrompts(ctx context.Context, actorID string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Prompt() PromptService
	Profile() ProfileService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
