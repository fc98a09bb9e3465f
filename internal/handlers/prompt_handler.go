package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
	"github.com/promptshare/prompt-service/internal/validator"
)

type PromptHandler struct {
	BaseHandler
	service   services.PromptService
	validator *validator.Validator
}

func NewPromptHandler(service services.PromptService, validator *validator.Validator, logger utils.Logger) *PromptHandler {
	return &PromptHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   validator,
	}
}

// CreatePrompt creates a new prompt
// @Summary Create prompt
// @Description Create a new prompt in the catalog (admin only)
// @Tags prompts
// @Accept json
// @Produce json
// @Param prompt body services.CreatePromptRequest true "Prompt data"
// @Success 201 {object} services.PromptResponse "Created prompt"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /prompts [post]
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	h.LogRequest(c, "Creating prompt")

	var req services.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actorID, _ := GetUserIDFromContext(c)

	resp, err := h.service.Create(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err, "create prompt")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdatePrompt updates an existing prompt
// @Summary Update prompt
// @Description Update a prompt's fields (admin only)
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path int true "Prompt ID"
// @Param prompt body services.UpdatePromptRequest true "Fields to update"
// @Success 200 {object} services.PromptResponse "Updated prompt"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /prompts/{id} [put]
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating prompt", "prompt_id", id)

	var req services.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actorID, _ := GetUserIDFromContext(c)

	resp, err := h.service.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err, "update prompt")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePrompt removes a prompt from the catalog
// @Summary Delete prompt
// @Description Delete a prompt (admin only)
// @Tags prompts
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} SuccessResponse "Deleted"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /prompts/{id} [delete]
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting prompt", "prompt_id", id)

	actorID, _ := GetUserIDFromContext(c)

	if err := h.service.Delete(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err, "delete prompt")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Prompt deleted"})
}

// GetPrompt returns a single prompt
// @Summary Get prompt
// @Description Get a prompt by ID (public)
// @Tags prompts
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} services.PromptResponse "Prompt"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /prompts/{id} [get]
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, _ := GetUserIDFromContext(c)

	resp, err := h.service.GetByID(c.Request.Context(), id, actorID)
	if err != nil {
		h.handleServiceError(c, err, "get prompt")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListPrompts returns the catalog with optional filtering
// @Summary List prompts
// @Description Get the prompt catalog, optionally narrowed by category and free-text query (public)
// @Tags prompts
// @Produce json
// @Param category query string false "Category filter (Coding, Writing, Art, Productivity, Other)"
// @Param q query string false "Free-text query over title, description and tags"
// @Success 200 {object} services.PromptListResponse "Prompt list"
// @Failure 400 {object} ErrorResponse "Unknown category"
// @Router /prompts [get]
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	query := services.ListPromptsQuery{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	resp, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.handleServiceError(c, err, "list prompts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LikePrompt increments a prompt's like counter
// @Summary Like prompt
// @Description Increment the like counter (public, no authentication required)
// @Tags prompts
// @Produce json
// @Param id path int true "Prompt ID"
// @Success 200 {object} SuccessResponse "Liked"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Router /prompts/{id}/like [post]
func (h *PromptHandler) LikePrompt(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Liking prompt", "prompt_id", id)

	if err := h.service.Like(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "like prompt")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Prompt liked"})
}
