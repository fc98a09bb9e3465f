package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidatePromptCache invalidates all caches touching a single prompt,
// including every cached list (the catalog is served as a whole).
func InvalidatePromptCache(ctx context.Context, cm *CacheManager, promptID uint) {
	SafeDelete(ctx, cm.Prompt, fmt.Sprintf("id:%d", promptID))
	SafeInvalidatePattern(ctx, cm.Prompt, "list:*")
}

// InvalidateProfileCache invalidates the cached profile for one user.
func InvalidateProfileCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.Profile, fmt.Sprintf("user:%s", userID))
}
