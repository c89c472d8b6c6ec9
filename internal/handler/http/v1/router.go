package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/authz"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.Use(h.metricsMiddleware(), h.rateLimitMiddleware())

	auth := h.authMiddleware()
	can := h.requirePermission
	read, write := authz.ActionRead, authz.ActionWrite

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	account := api.Group("/auth")
	{
		account.POST("/login", h.login)
		account.POST("/register", h.register)
		account.GET("/me", auth, can(authz.ObjectProfile, read), h.me)
		account.POST("/verify-email", auth, can(authz.ObjectProfile, write), h.verifyEmail)
		account.POST("/resend-verification", auth, can(authz.ObjectProfile, write), h.resendVerification)
	}

	reports := api.Group("/reports")
	{
		reports.POST("", h.createReport)
		reports.GET("/user/:user_id", h.listUserReports)
		reports.GET("/:id", h.getReport)
		reports.POST("/:id/community-verify", h.communityVerify)

		reports.GET("", auth, can(authz.ObjectReports, read), h.listReports)
		reports.GET("/pending", auth, can(authz.ObjectReports, read), h.listPendingReports)
		reports.GET("/:id/verifications", auth, can(authz.ObjectReports, read), h.listReportVerifications)
		reports.PUT("/:id", auth, can(authz.ObjectReports, write), h.updateReport)
		reports.POST("/:id/verify", auth, can(authz.ObjectReports, write), h.verifyReport)
		reports.POST("/:id/reject", auth, can(authz.ObjectReports, write), h.rejectReport)
	}

	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/active", h.listActiveIncidents)
		incidents.GET("/map", h.incidentsMap)
		incidents.GET("/:id", h.getIncident)
		incidents.GET("/:id/reports", h.listIncidentReports)

		incidents.GET("/stats", auth, can(authz.ObjectIncidents, read), h.getStats)
		incidents.POST("", auth, can(authz.ObjectIncidents, write), h.createIncident)
		incidents.PUT("/:id", auth, can(authz.ObjectIncidents, write), h.updateIncident)
		incidents.PUT("/:id/status", auth, can(authz.ObjectIncidents, write), h.updateIncidentStatus)
		incidents.POST("/:id/resolve", auth, can(authz.ObjectIncidents, write), h.resolveIncident)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("/:id", h.getAlert)
		alerts.GET("/incident/:incident_id", h.listIncidentAlerts)
		alerts.GET("/user/:user_id", h.listUserAlerts)
		alerts.POST("/:id/read", h.markAlertRead)

		alerts.GET("", auth, can(authz.ObjectAlerts, read), h.listAlerts)
		alerts.GET("/:id/recipients", auth, can(authz.ObjectAlerts, read), h.listAlertRecipients)
		alerts.POST("", auth, can(authz.ObjectAlerts, write), h.createAlert)
		alerts.POST("/incident/:incident_id", auth, can(authz.ObjectAlerts, write), h.raiseIncidentAlert)
		alerts.POST("/:id/retry", auth, can(authz.ObjectAlerts, write), h.retryAlert)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)

		users.GET("", auth, can(authz.ObjectUsers, read), h.listUsers)
		users.GET("/:id/reports", auth, can(authz.ObjectUsers, read), h.getUserReports)
		users.PUT("/:id/credibility", auth, can(authz.ObjectUsers, write), h.adjustCredibility)
	}

	// Маршруты определения и проверки местоположения
	location := api.Group("/location")
	{
		location.POST("/check", h.checkLocation)
		location.POST("/resolve", h.resolveLocation)
		location.GET("/search", h.searchLocation)
		location.GET("/reverse", h.reverseGeocode)
	}

	analytics := api.Group("/analytics", auth, can(authz.ObjectAnalytics, read))
	{
		analytics.GET("/summary", h.analyticsSummary)
		analytics.GET("/reports-by-date", h.reportsByDate)
		analytics.GET("/severity", h.severityBreakdown)
		analytics.GET("/bot-activity", h.botActivity)
	}

	public := api.Group("/public")
	{
		public.GET("/statistics", h.publicStatistics)
		public.GET("/incidents", h.publicIncidents)
		public.GET("/alerts", h.publicAlerts)
	}

	webhooks := api.Group("/webhooks")
	{
		webhooks.GET("/whatsapp", h.verifyWhatsAppWebhook)
		webhooks.POST("/whatsapp", h.whatsappWebhook)
		webhooks.POST("/telegram", h.telegramWebhook)
	}
}
