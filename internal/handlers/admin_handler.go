package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/repositories"
	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
)

// AdminHandler serves the admin panel: role assignment, the user directory
// and the catalog export.
type AdminHandler struct {
	BaseHandler
	profileService services.ProfileService
	exportService  services.ExportService
}

func NewAdminHandler(profileService services.ProfileService, exportService services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		exportService:  exportService,
	}
}

// AssignRole sets a user's role and optional expiry
// @Summary Assign role
// @Description Assign a role to a user, with an expiry for vip/svip (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Param user_id path string true "Target user ID"
// @Param role body services.AssignRoleRequest true "Role assignment"
// @Success 200 {object} services.ProfileResponse "Updated profile"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users/{user_id}/role [put]
func (h *AdminHandler) AssignRole(c *gin.Context) {
	targetUserID := c.Param("user_id")
	if targetUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing user_id parameter"})
		return
	}

	var req services.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	actorID, _ := GetUserIDFromContext(c)
	h.LogRequest(c, "Assigning role", "target_user_id", targetUserID, "role", req.Role, "actor_id", actorID)

	resp, err := h.profileService.AssignRole(c.Request.Context(), targetUserID, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err, "assign role")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListUsers lists users from the identity directory
// @Summary List users
// @Description Get a paginated list of users for the role panel (admin only)
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Success 200 {object} services.UserListResponse "User list"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	actorID, _ := GetUserIDFromContext(c)
	filters := h.parseUserFilters(c)

	resp, err := h.profileService.ListUsers(c.Request.Context(), filters, actorID)
	if err != nil {
		h.handleServiceError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportPrompts downloads the catalog as an XLSX workbook
// @Summary Export catalog
// @Description Export the full prompt catalog as XLSX (admin only)
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/prompts/export [get]
func (h *AdminHandler) ExportPrompts(c *gin.Context) {
	actorID, _ := GetUserIDFromContext(c)
	h.LogRequest(c, "Exporting catalog", "actor_id", actorID)

	data, err := h.exportService.ExportPrompts(c.Request.Context(), actorID)
	if err != nil {
		h.handleServiceError(c, err, "export prompts")
		return
	}

	filename := fmt.Sprintf("prompts_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AdminHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	return repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  size,
		Offset: (page - 1) * size,
	}
}
