package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Dashboard summary
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Success 200 {object} models.Summary
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /analytics/summary [get]
func (h *Handler) analyticsSummary(c *gin.Context) {
	log := h.logger.WithField("method", "analyticsSummary")

	summary, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Reports per day
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {array} models.DailyReports
// @Router /analytics/reports-by-date [get]
func (h *Handler) reportsByDate(c *gin.Context) {
	log := h.logger.WithField("method", "reportsByDate")

	series, err := h.analyticsService.ReportsByDate(c.Request.Context(), queryInt(c, "days", 30, 1, 365))
	if err != nil {
		h.respondError(c, log, err, "Failed to build reports by date")
		return
	}
	c.JSON(http.StatusOK, series)
}

// @Summary Reports per severity
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Success 200 {array} models.SeverityCount
// @Router /analytics/severity [get]
func (h *Handler) severityBreakdown(c *gin.Context) {
	log := h.logger.WithField("method", "severityBreakdown")

	breakdown, err := h.analyticsService.SeverityBreakdown(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to build severity breakdown")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// @Summary Bot messages per platform
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {array} models.PlatformActivity
// @Router /analytics/bot-activity [get]
func (h *Handler) botActivity(c *gin.Context) {
	log := h.logger.WithField("method", "botActivity")

	activity, err := h.analyticsService.BotActivity(c.Request.Context(), queryInt(c, "days", 30, 1, 365))
	if err != nil {
		h.respondError(c, log, err, "Failed to build bot activity")
		return
	}
	c.JSON(http.StatusOK, activity)
}

// @Summary Public statistics
// @Tags Public
// @Produce json
// @Success 200 {object} models.PublicStatistics
// @Router /public/statistics [get]
func (h *Handler) publicStatistics(c *gin.Context) {
	log := h.logger.WithField("method", "publicStatistics")

	stats, err := h.analyticsService.PublicStatistics(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to build public statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Anonymized incidents
// @Description Incidents without location or address
// @Tags Public
// @Produce json
// @Param limit query int false "Maximum incidents (up to 100)" default(20)
// @Success 200 {array} models.PublicIncident
// @Router /public/incidents [get]
func (h *Handler) publicIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "publicIncidents")

	incidents, err := h.analyticsService.PublicIncidents(c.Request.Context(), queryInt(c, "limit", 20, 1, 100))
	if err != nil {
		h.respondError(c, log, err, "Failed to list public incidents")
		return
	}
	c.JSON(http.StatusOK, incidents)
}

// @Summary Recent public alerts
// @Tags Public
// @Produce json
// @Param limit query int false "Maximum alerts (up to 50)" default(10)
// @Success 200 {array} models.PublicAlert
// @Router /public/alerts [get]
func (h *Handler) publicAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "publicAlerts")

	alerts, err := h.analyticsService.PublicAlerts(c.Request.Context(), queryInt(c, "limit", 10, 1, 50))
	if err != nil {
		h.respondError(c, log, err, "Failed to list public alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}
