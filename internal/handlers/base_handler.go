package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
	"github.com/promptshare/prompt-service/internal/validator"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps simple acknowledgements.
type SuccessResponse struct {
	Message string `json:"message"`
}

// BaseHandler provides shared helpers for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// parseIDParam parses a numeric path parameter.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0, false
	}
	return uint(id), true
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.GetLogger(c, h.logger)
	logger.Info(msg, args...)
}

// LogError logs a handler error with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.GetLogger(c, h.logger)
	logger.Error(msg, append(args, "error", err)...)
}

// handleServiceError maps service-layer errors to HTTP statuses. Every
// handler funnels error responses through here so the taxonomy stays uniform.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, operation string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	if errors.Is(err, services.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
		return
	}

	if services.IsPermissionError(err) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
			Details: err.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrPromptNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Prompt not found"})
		return
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Profile not found"})
		return
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
		return
	}

	if services.IsStorageError(err) {
		h.LogError(c, err, "Storage failure", "operation", operation)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Service temporarily unavailable",
		})
		return
	}

	h.LogError(c, err, "Unhandled service error", "operation", operation)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Failed to " + operation,
	})
}
