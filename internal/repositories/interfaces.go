package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/models"
)

// ErrNotFound marks lookups for rows that do not exist. Implementations wrap
// it so callers match with IsNotFoundError regardless of the storage engine.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the referenced row is absent.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type PromptFilters struct {
	Category  *models.PromptCategory `json:"category"`
	UserID    *string                `json:"user_id"`
	DateFrom  *time.Time             `json:"date_from"`
	DateTo    *time.Time             `json:"date_to"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	SortBy    string                 `json:"sort_by"`    // "created_at", "title", "like_count"
	SortOrder string                 `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// PromptRepository persists the prompt catalog. Mutations take an optional
// transaction handle; nil falls back to the pool connection.
type PromptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Prompt, error)
	Update(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// List returns prompts ordered by the filters (created_at desc by
	// default) together with the total count.
	List(ctx context.Context, filters PromptFilters) ([]*models.Prompt, int64, error)

	// IncrementLikes bumps the like counter by one in a single atomic
	// storage operation. Returns a not-found error when the prompt is gone.
	IncrementLikes(ctx context.Context, tx *gorm.DB, id uint) error

	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ProfileRepository is the role store. Role and expiry writes only happen
// through AssignRole; UpdateSelf is restricted to non-role columns.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)

	// EnsureProfile provisions a profile for a newly observed identity.
	// Idempotent: inserting an existing user_id is a no-op (ON CONFLICT DO
	// NOTHING), never an error.
	EnsureProfile(ctx context.Context, profile *models.UserProfile) error

	// UpdateSelf writes the owner-editable columns only. The assigned role
	// and expiry are never touched by this path.
	UpdateSelf(ctx context.Context, userID string, displayName string, avatarURL *string) error

	// AssignRole is the privileged write path for role and expiry. Callers
	// must have passed the admin gate before reaching it.
	AssignRole(ctx context.Context, userID string, role models.UserRole, expiresAt *time.Time) error
}
