package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/promptshare/prompt-service/internal/cache"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/repositories"
)

type PromptPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPromptPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PromptRepository {
	return &PromptPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (p *PromptPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Create inserts a new prompt and invalidates list caches
func (p *PromptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error {
	if err := p.getDB(tx).WithContext(ctx).Create(prompt).Error; err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Prompt, "list:*")

	return nil
}

// GetByID retrieves a prompt by ID with caching
func (p *PromptPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Prompt, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var prompt models.Prompt

	err := p.cacheManager.Prompt.CacheOrExecute(ctx, cacheKey, &prompt, cache.PromptCacheConfig.TTL, func() (interface{}, error) {
		var dbPrompt models.Prompt
		if err := p.getDB(tx).WithContext(ctx).First(&dbPrompt, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("prompt %d: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get prompt: %w", err)
		}
		return &dbPrompt, nil
	})

	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, err
	}

	return &prompt, nil
}

// Update writes the editable columns of a prompt. LikeCount is deliberately
// excluded; it only moves through IncrementLikes.
func (p *PromptPostgreSQL) Update(ctx context.Context, tx *gorm.DB, prompt *models.Prompt) error {
	result := p.getDB(tx).WithContext(ctx).
		Model(&models.Prompt{}).
		Where("id = ?", prompt.ID).
		Updates(map[string]interface{}{
			"title":       prompt.Title,
			"description": prompt.Description,
			"content":     prompt.Content,
			"tags":        prompt.Tags,
			"author":      prompt.Author,
			"category":    prompt.Category,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update prompt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("prompt %d: %w", prompt.ID, repositories.ErrNotFound)
	}

	cache.InvalidatePromptCache(ctx, p.cacheManager, prompt.ID)

	return nil
}

// Delete removes a prompt and invalidates its caches
func (p *PromptPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := p.getDB(tx).WithContext(ctx).Delete(&models.Prompt{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete prompt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("prompt %d: %w", id, repositories.ErrNotFound)
	}

	cache.InvalidatePromptCache(ctx, p.cacheManager, id)

	return nil
}

// List retrieves prompts with filters, newest first by default. Likes bump
// often, so list results are cached only for the unfiltered default query.
func (p *PromptPostgreSQL) List(ctx context.Context, filters repositories.PromptFilters) ([]*models.Prompt, int64, error) {
	var prompts []*models.Prompt
	var total int64

	query := p.db.WithContext(ctx).Model(&models.Prompt{})
	query = p.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count prompts: %w", err)
	}

	query = p.applySorting(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&prompts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list prompts: %w", err)
	}

	return prompts, total, nil
}

// IncrementLikes bumps the like counter in one atomic UPDATE. The increment
// happens inside the database, never as read-modify-write in the caller, so
// concurrent likes on the same prompt cannot lose updates.
func (p *PromptPostgreSQL) IncrementLikes(ctx context.Context, tx *gorm.DB, id uint) error {
	result := p.getDB(tx).WithContext(ctx).
		Model(&models.Prompt{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("failed to increment likes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("prompt %d: %w", id, repositories.ErrNotFound)
	}

	cache.InvalidatePromptCache(ctx, p.cacheManager, id)

	return nil
}

// ExistsByID checks prompt existence with a short-lived cache
func (p *PromptPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	cacheKey := fmt.Sprintf("prompt:%d", id)

	var cached bool
	if err := p.cacheManager.Exists.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Prompt{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check prompt existence: %w", err)
	}

	exists := count > 0
	if exists {
		// Only positive results get cached; absence may change on the next insert.
		_ = p.cacheManager.Exists.Set(ctx, cacheKey, exists, cache.ExistsCacheConfig.TTL)
	}

	return exists, nil
}

func (p *PromptPostgreSQL) applyFilters(query *gorm.DB, filters repositories.PromptFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (p *PromptPostgreSQL) applySorting(query *gorm.DB, filters repositories.PromptFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "like_count", "created_at":
	default:
		sortBy = "created_at"
	}

	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
