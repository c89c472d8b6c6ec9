package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/models"
)

// @Summary Recent alerts
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param limit query int false "Maximum alerts" default(50)
// @Success 200 {array} models.Alert
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	alerts, err := h.alertService.ListRecent(c.Request.Context(), queryInt(c, "limit", 50, 1, 200))
	if err != nil {
		h.respondError(c, log, err, "Failed to list alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Create and dispatch an alert
// @Description Generates an alert for the incident (level defaults from severity) and queues delivery
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param alert body CreateAlertRequest true "Alert request"
// @Success 202 {object} models.Alert
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := h.logger.WithField("method", "createAlert")
	if !h.bindJSON(c, log, &input) {
		return
	}
	log = log.WithField("incident_id", input.IncidentID)

	alert, err := h.alertService.GenerateFromIncident(c.Request.Context(), input.IncidentID, models.AlertLevel(input.Level))
	if err != nil {
		h.respondError(c, log, err, "Failed to generate alert")
		return
	}
	if err := h.alertService.Dispatch(c.Request.Context(), alert.ID); err != nil {
		h.respondError(c, log, err, "Failed to dispatch alert")
		return
	}
	c.JSON(http.StatusAccepted, alert)
}

// @Summary Raise an alert for an incident
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param incident_id path string true "Incident ID"
// @Success 202 {object} models.Alert
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /alerts/incident/{incident_id} [post]
func (h *Handler) raiseIncidentAlert(c *gin.Context) {
	incidentID, ok := paramUUID(c, "incident_id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "raiseIncidentAlert").WithField("incident_id", incidentID)

	alert, err := h.alertService.RaiseForIncident(c.Request.Context(), incidentID)
	if err != nil {
		h.respondError(c, log, err, "Failed to raise alert")
		return
	}
	c.JSON(http.StatusAccepted, alert)
}

// @Summary Get alert by ID
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} models.Alert
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id} [get]
func (h *Handler) getAlert(c *gin.Context) {
	id, ok := paramUUID(c, "id", "alert")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAlert").WithField("id", id)

	alert, err := h.alertService.GetAlert(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

// @Summary Alerts of an incident
// @Tags Alerts
// @Produce json
// @Param incident_id path string true "Incident ID"
// @Success 200 {array} models.Alert
// @Router /alerts/incident/{incident_id} [get]
func (h *Handler) listIncidentAlerts(c *gin.Context) {
	incidentID, ok := paramUUID(c, "incident_id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listIncidentAlerts").WithField("incident_id", incidentID)

	alerts, err := h.alertService.ListForIncident(c.Request.Context(), incidentID)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incident alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Alerts received by a user
// @Tags Alerts
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Maximum alerts" default(20)
// @Success 200 {array} models.UserAlert
// @Router /alerts/user/{user_id} [get]
func (h *Handler) listUserAlerts(c *gin.Context) {
	userID, ok := paramUUID(c, "user_id", "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listUserAlerts").WithField("user_id", userID)

	alerts, err := h.alertService.ListForUser(c.Request.Context(), userID, queryInt(c, "limit", 20, 1, 100))
	if err != nil {
		h.respondError(c, log, err, "Failed to list user alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Mark an alert as read
// @Description Idempotent, so clients may update the badge optimistically
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param reader body MarkAlertReadRequest true "Reader"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Alert was not sent to this user"
// @Router /alerts/{id}/read [post]
func (h *Handler) markAlertRead(c *gin.Context) {
	id, ok := paramUUID(c, "id", "alert")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "markAlertRead").WithField("id", id)

	var input MarkAlertReadRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	if err := h.alertService.MarkRead(c.Request.Context(), id, input.UserID); err != nil {
		h.respondError(c, log, err, "Failed to mark alert read")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Retry failed deliveries
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} RetryAlertResponse
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id}/retry [post]
func (h *Handler) retryAlert(c *gin.Context) {
	id, ok := paramUUID(c, "id", "alert")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "retryAlert").WithField("id", id)

	delivered, err := h.alertService.RetryFailed(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to retry alert delivery")
		return
	}
	c.JSON(http.StatusOK, RetryAlertResponse{Delivered: delivered})
}

// @Summary Delivery log of an alert
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Alert ID"
// @Success 200 {array} models.AlertRecipient
// @Router /alerts/{id}/recipients [get]
func (h *Handler) listAlertRecipients(c *gin.Context) {
	id, ok := paramUUID(c, "id", "alert")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listAlertRecipients").WithField("id", id)

	recipients, err := h.alertService.ListRecipients(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to list alert recipients")
		return
	}
	c.JSON(http.StatusOK, recipients)
}
