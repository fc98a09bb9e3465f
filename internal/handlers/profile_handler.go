package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptshare/prompt-service/internal/services"
	"github.com/promptshare/prompt-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	service services.ProfileService
}

func NewProfileHandler(service services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetMyProfile returns the caller's profile
// @Summary Get own profile
// @Description Get the authenticated user's profile with the resolved effective role
// @Tags profiles
// @Produce json
// @Success 200 {object} services.ProfileResponse "Profile"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	resp, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateMyProfile updates the caller's display fields
// @Summary Update own profile
// @Description Update display name and avatar. Role and expiry are not part of this contract.
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} services.ProfileResponse "Updated profile"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	h.LogRequest(c, "Updating profile", "user_id", userID)

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.UpdateSelf(c.Request.Context(), userID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}
