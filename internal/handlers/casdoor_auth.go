package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/config"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
)

// CasdoorAuthMiddleware authenticates requests with the Casdoor SDK. It only
// establishes WHO is calling; WHAT they may do is resolved from the local
// role store by the profile service, never from token claims. Tokens carry
// no role the service trusts.
type CasdoorAuthMiddleware struct {
	client         *casdoorsdk.Client
	profileService services.ProfileService
	logger         utils.Logger
	config         config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, profileService services.ProfileService, logger utils.Logger) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:         client,
		profileService: profileService,
		logger:         logger,
		config:         cfg,
	}
}

// AuthMiddleware requires a valid bearer token. On success the context
// carries user_id and user_role (the server-resolved effective role).
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
				Details: err.Error(),
			})
			c.Abort()
			return
		}

		userID := claims.Id
		if userID == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Token carries no user identity",
			})
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		// Provision the profile on first sight of this identity.
		// Idempotent, so calling it on every request is safe.
		avatarURL := optionalString(claims.User.Avatar)
		if err := cam.profileService.EnsureProfile(ctx, userID, claims.User.DisplayName, avatarURL); err != nil {
			cam.logger.Error("Failed to provision profile", "error", err, "user_id", userID)
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Message: "Service temporarily unavailable",
			})
			c.Abort()
			return
		}

		role, err := cam.profileService.EffectiveRole(ctx, userID)
		if err != nil {
			cam.logger.Error("Failed to resolve role", "error", err, "user_id", userID)
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Message: "Service temporarily unavailable",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Set("user_email", claims.User.Email)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves identity when a token is present but never
// rejects. Public reads use it so a signed-in admin sees the editable view.
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil || claims.Id == "" {
			c.Next()
			return
		}

		userID := claims.Id
		ctx := c.Request.Context()

		avatarURL := optionalString(claims.User.Avatar)
		if err := cam.profileService.EnsureProfile(ctx, userID, claims.User.DisplayName, avatarURL); err != nil {
			cam.logger.Warn("Failed to provision profile on optional auth", "error", err, "user_id", userID)
			c.Next()
			return
		}

		role, err := cam.profileService.EffectiveRole(ctx, userID)
		if err != nil {
			cam.logger.Warn("Failed to resolve role on optional auth", "error", err, "user_id", userID)
			c.Next()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Set("user_email", claims.User.Email)

		c.Next()
	}
}

// RequireRoleMiddleware rejects callers whose effective role is not in the
// allowed set. Must run after AuthMiddleware.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "User role not found in context",
			})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: fmt.Sprintf("Insufficient permissions, required role: %v", requiredRoles),
		})
		c.Abort()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetUserIDFromContext extracts the authenticated user ID; empty when the
// request is anonymous.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts the resolved effective role.
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
