package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/config"
	"github.com/promptshare/prompt-service/internal/models"
	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
	"github.com/promptshare/prompt-service/internal/validator"
)

type HandlerManager struct {
	promptHandler  *PromptHandler
	profileHandler *ProfileHandler
	adminHandler   *AdminHandler
	authMiddleware *CasdoorAuthMiddleware
	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, serviceManager.Profile(), logger)

	return &HandlerManager{
		promptHandler:  NewPromptHandler(serviceManager.Prompt(), validator, logger),
		profileHandler: NewProfileHandler(serviceManager.Profile(), logger),
		adminHandler:   NewAdminHandler(serviceManager.Profile(), serviceManager.Export(), logger),
		authMiddleware: authMiddleware,
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Prompt catalog. Reads and likes are public; a token, when
		// present, only upgrades the response view.
		prompts := v1.Group("/prompts")
		prompts.Use(hm.authMiddleware.OptionalAuthMiddleware())
		{
			prompts.GET("", hm.promptHandler.ListPrompts)
			prompts.GET("/:id", hm.promptHandler.GetPrompt)
			prompts.POST("/:id/like", hm.promptHandler.LikePrompt)
		}

		// Catalog mutations require an authenticated admin. The role gate
		// here is a fast path; the service layer enforces it again.
		promptAdmin := v1.Group("/prompts")
		promptAdmin.Use(hm.authMiddleware.AuthMiddleware())
		promptAdmin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			promptAdmin.POST("", hm.promptHandler.CreatePrompt)
			promptAdmin.PUT("/:id", hm.promptHandler.UpdatePrompt)
			promptAdmin.DELETE("/:id", hm.promptHandler.DeletePrompt)
		}

		// Self-service profile routes.
		profiles := v1.Group("/profiles")
		profiles.Use(hm.authMiddleware.AuthMiddleware())
		{
			profiles.GET("/me", hm.profileHandler.GetMyProfile)
			profiles.PUT("/me", hm.profileHandler.UpdateMyProfile)
		}

		// Admin panel.
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware())
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.PUT("/users/:user_id/role", hm.adminHandler.AssignRole)
			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.GET("/prompts/export", hm.adminHandler.ExportPrompts)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "prompt-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "prompt-service",
		})
	})
}
