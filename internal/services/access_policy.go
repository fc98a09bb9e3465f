package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
)

// AccessPolicy evaluates every authorization guard before a storage
// mutation. It resolves the acting identity's effective role with a
// server-side clock; a client can neither supply the time nor the role,
// so an expired vip cannot forge its way past the expiration rule.
type AccessPolicy struct {
	profiles repositories.ProfileRepository
	logger   *slog.Logger

	// now is injectable for tests; production uses time.Now.
	now func() time.Time
}

func NewAccessPolicy(profiles repositories.ProfileRepository, logger *slog.Logger) *AccessPolicy {
	return &AccessPolicy{
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// EffectiveRole resolves the role a permission check actually uses. A
// missing profile (or no identity at all) resolves to normal, the baseline,
// never an error.
func (p *AccessPolicy) EffectiveRole(ctx context.Context, userID string) (models.UserRole, error) {
	if userID == "" {
		return models.RoleNormal, nil
	}

	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.RoleNormal, nil
		}
		return "", NewStorageError("resolve role", err)
	}

	return models.EffectiveRole(profile, p.now()), nil
}

// CanMutatePrompt permits create/update/delete on the catalog only for an
// effective admin. Reads are unconditionally public and never pass through
// here.
func (p *AccessPolicy) CanMutatePrompt(ctx context.Context, actorID, action string, promptID uint) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	role, err := p.EffectiveRole(ctx, actorID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		p.logger.Info("Prompt mutation denied", "actor_id", actorID, "action", action, "effective_role", role)
		return NewPermissionError(actorID, promptID, "prompt", action, "admin role required")
	}

	return nil
}

// CanUpdateOwnProfile permits the self-service profile update for the owning
// identity only. Role and expiry are excluded from that contract at the
// request-type level, so there is nothing role-related to check here.
func (p *AccessPolicy) CanUpdateOwnProfile(actorID, targetUserID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	if actorID != targetUserID {
		return NewPermissionError(actorID, 0, "profile", "update", "profiles are editable by their owner only")
	}

	return nil
}

// CanAssignRole gates the privileged role-change path. This is the explicit
// trust boundary: past this check the write proceeds with elevated trust and
// ignores the owner-only restriction.
func (p *AccessPolicy) CanAssignRole(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	role, err := p.EffectiveRole(ctx, actorID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		p.logger.Info("Role assignment denied", "actor_id", actorID, "effective_role", role)
		return NewPermissionError(actorID, 0, "profile", "assign_role", "admin role required")
	}

	return nil
}

// CanReadDirectory gates identity-directory reads (admin panel).
func (p *AccessPolicy) CanReadDirectory(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	role, err := p.EffectiveRole(ctx, actorID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		return NewPermissionError(actorID, 0, "user", "list", "admin role required")
	}

	return nil
}
