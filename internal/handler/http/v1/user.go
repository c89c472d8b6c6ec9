package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/models"
)

// ListUsersQuery фильтр списка жителей
type ListUsersQuery struct {
	Platform string `form:"platform" validate:"omitempty,platform"`
	Skip     int    `form:"skip" validate:"min=0"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=200"`
}

// @Summary Get user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, ok := paramUUID(c, "id", "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getUser").WithField("id", id)

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Update user profile
// @Description Language, home location and alert subscription settings
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := paramUUID(c, "id", "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateUser").WithField("id", id)

	var input UpdateUserRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, DTOToUserUpdate(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param platform query string false "whatsapp, telegram, sms or web"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} UserResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	log := h.logger.WithField("method", "listUsers")

	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	users, err := h.userService.ListUsers(c.Request.Context(), models.PlatformType(query.Platform), query.Skip, query.Limit)
	if err != nil {
		h.respondError(c, log, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, ModelsToUserResponses(users))
}

// @Summary Adjust credibility score
// @Description Adds delta to the score, clamped to 0..200
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param delta body CredibilityRequest true "Score change"
// @Success 200 {object} CredibilityResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/credibility [put]
func (h *Handler) adjustCredibility(c *gin.Context) {
	id, ok := paramUUID(c, "id", "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "adjustCredibility").WithField("id", id)

	var input CredibilityRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	score, err := h.userService.AdjustCredibility(c.Request.Context(), id, input.Delta)
	if err != nil {
		h.respondError(c, log, err, "Failed to adjust credibility")
		return
	}
	c.JSON(http.StatusOK, CredibilityResponse{CredibilityScore: score})
}
