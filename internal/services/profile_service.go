package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/events"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/validator"
)

// profileService implements ProfileService over the role store. Role and
// expiry writes only ever flow through AssignRole; every other write path is
// structurally unable to touch them.
type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	publisher events.EventPublisher

	now func() time.Time
}

func NewProfileService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	v *validator.Validator,
	policy *AccessPolicy,
	publisher events.EventPublisher,
) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		policy:    policy,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *profileService) EnsureProfile(ctx context.Context, userID, displayName string, avatarURL *string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	profile := &models.UserProfile{
		UserID:      userID,
		Role:        models.RoleNormal,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}

	if err := s.repo.Profile().EnsureProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to provision profile", "error", err, "user_id", userID)
		return NewStorageError("ensure profile", err)
	}

	return nil
}

func (s *profileService) EffectiveRole(ctx context.Context, userID string) (models.UserRole, error) {
	return s.policy.EffectiveRole(ctx, userID)
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, NewStorageError("load profile", err)
	}

	return s.toResponse(profile), nil
}

func (s *profileService) UpdateSelf(ctx context.Context, userID string, req *UpdateProfileRequest, actorID string) (*ProfileResponse, error) {
	if err := s.policy.CanUpdateOwnProfile(actorID, userID); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Profile().UpdateSelf(ctx, userID, req.DisplayName, req.AvatarURL); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Failed to update profile", "error", err, "user_id", userID)
		return nil, NewStorageError("update profile", err)
	}

	return s.GetByUserID(ctx, userID)
}

func (s *profileService) AssignRole(ctx context.Context, targetUserID string, req *AssignRoleRequest, actorID string) (*ProfileResponse, error) {
	if err := s.policy.CanAssignRole(ctx, actorID); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateRoleAssign(req); len(errs) > 0 {
		return nil, errs
	}

	// Provision the target first so an admin can grant a role to an
	// identity that has never opened the app.
	if err := s.repo.Profile().EnsureProfile(ctx, &models.UserProfile{
		UserID: targetUserID,
		Role:   models.RoleNormal,
	}); err != nil {
		return nil, NewStorageError("ensure profile", err)
	}

	expiresAt := req.ExpiresAt
	if !req.Role.Expirable() {
		// normal and admin do not expire; clear any stale expiry.
		expiresAt = nil
	}

	if err := s.repo.Profile().AssignRole(ctx, targetUserID, req.Role, expiresAt); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Failed to assign role", "error", err, "user_id", targetUserID, "role", req.Role)
		return nil, NewStorageError("assign role", err)
	}

	event := events.NewEvent(events.EventProfileRoleAssigned, &events.RoleAssignedEvent{
		UserID:     targetUserID,
		Role:       string(req.Role),
		ExpiresAt:  expiresAt,
		AssignedBy: actorID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "error", err, "event_type", events.EventProfileRoleAssigned)
	}

	s.logger.Info("Role assigned", "user_id", targetUserID, "role", req.Role, "assigned_by", actorID)
	return s.GetByUserID(ctx, targetUserID)
}

func (s *profileService) ListUsers(ctx context.Context, filters repositories.UserFilters, actorID string) (*UserListResponse, error) {
	if err := s.policy.CanReadDirectory(ctx, actorID); err != nil {
		return nil, err
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, NewStorageError("list users", err)
	}

	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *profileService) toResponse(profile *models.UserProfile) *ProfileResponse {
	now := s.now()
	return &ProfileResponse{
		UserProfile:   profile,
		EffectiveRole: models.EffectiveRole(profile, now),
		Active:        models.IsActive(profile, now),
	}
}
