package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promptshare/prompt-service/internal/cache"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// GetByUserID retrieves the profile for one identity, cached because it is
// consulted on every authorization check.
func (r *ProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	cacheKey := fmt.Sprintf("user:%s", userID)
	var profile models.UserProfile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.UserProfile
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbProfile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("profile for user %s: %w", userID, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return &dbProfile, nil
	})

	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// EnsureProfile provisions a profile the first time an identity is observed.
// ON CONFLICT DO NOTHING keeps it exactly-once: a concurrent insert for the
// same user_id is absorbed, never surfaced as an error.
func (r *ProfilePostgreSQL) EnsureProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile.Role == "" {
		profile.Role = models.RoleNormal
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}

	return nil
}

// UpdateSelf writes only the owner-editable columns. Role and expiry are
// excluded from the column list, so a payload carrying them cannot promote
// its own row.
func (r *ProfilePostgreSQL) UpdateSelf(ctx context.Context, userID string, displayName string, avatarURL *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"display_name": displayName,
			"avatar_url":   avatarURL,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, repositories.ErrNotFound)
	}

	cache.InvalidateProfileCache(ctx, r.cacheManager, userID)

	return nil
}

// AssignRole is the privileged write path for role and expiry. The admin
// check happens in the service layer before this is reached.
func (r *ProfilePostgreSQL) AssignRole(ctx context.Context, userID string, role models.UserRole, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"role":       role,
			"expires_at": expiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, repositories.ErrNotFound)
	}

	cache.InvalidateProfileCache(ctx, r.cacheManager, userID)

	return nil
}
