package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/models"
)

// @Summary Submit a flood report
// @Description Stores a citizen report and runs automated verification. Unknown web users are registered on the fly.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")
	if !h.bindJSON(c, log, &input) {
		return
	}

	report := DTOToReportModel(input)
	if err := h.reportService.SubmitReport(c.Request.Context(), report); err != nil {
		h.respondError(c, log, err, "Failed to submit report")
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(report))
}

// @Summary Get report by ID
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid report ID"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getReport").WithField("id", id)

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary List reports
// @Description Filtered, paginated list of reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param status query string false "Verification status"
// @Param severity query string false "Severity"
// @Param user_id query string false "Author ID"
// @Param from query string false "Created after (RFC3339)"
// @Param to query string false "Created before (RFC3339)"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} ReportResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	filter := models.ReportFilter{
		Status:   models.VerificationStatus(c.Query("status")),
		Severity: models.SeverityLevel(c.Query("severity")),
		Skip:     queryInt(c, "skip", 0, 0, 1<<20),
		Limit:    queryInt(c, "limit", 50, 1, 200),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid severity filter"})
		return
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
			return
		}
		filter.UserID = &userID
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " date"})
			return
		}
		*dst = &t
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Reports awaiting review
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} ReportResponse
// @Router /reports/pending [get]
func (h *Handler) listPendingReports(c *gin.Context) {
	log := h.logger.WithField("method", "listPendingReports")

	reports, err := h.reportService.ListPending(c.Request.Context(), queryInt(c, "limit", 50, 1, 200))
	if err != nil {
		h.respondError(c, log, err, "Failed to list pending reports")
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Reports of a user
// @Tags Reports
// @Produce json
// @Param user_id path string true "User ID"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {array} ReportResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Router /reports/user/{user_id} [get]
func (h *Handler) listUserReports(c *gin.Context) {
	h.userReports(c, "user_id")
}

// @Summary Reports of a user (admin)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {array} ReportResponse
// @Router /users/{id}/reports [get]
func (h *Handler) getUserReports(c *gin.Context) {
	h.userReports(c, "id")
}

func (h *Handler) userReports(c *gin.Context, param string) {
	userID, ok := paramUUID(c, param, "user")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "userReports").WithField("user_id", userID)

	skip := queryInt(c, "skip", 0, 0, 1<<20)
	limit := queryInt(c, "limit", 20, 1, 100)
	reports, err := h.reportService.ListUserReports(c.Request.Context(), userID, skip, limit)
	if err != nil {
		h.respondError(c, log, err, "Failed to list user reports")
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Update a report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param report body UpdateReportRequest true "Fields to change"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id} [put]
func (h *Handler) updateReport(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateReport").WithField("id", id)

	var input UpdateReportRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), id, DTOToReportUpdate(input))
	if err != nil {
		h.respondError(c, log, err, "Failed to update report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Verify a report
// @Description Marks the report verified, rewards the author and links it to an incident
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Already verified"
// @Router /reports/{id}/verify [post]
func (h *Handler) verifyReport(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "verifyReport").WithField("id", id)

	report, err := h.reportService.VerifyReport(c.Request.Context(), id, currentPrincipal(c).Name())
	if err != nil {
		h.respondError(c, log, err, "Failed to verify report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Reject a report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param reason body RejectReportRequest true "Reason"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id}/reject [post]
func (h *Handler) rejectReport(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "rejectReport").WithField("id", id)

	var input RejectReportRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	report, err := h.reportService.RejectReport(c.Request.Context(), id, currentPrincipal(c).Name(), input.Reason)
	if err != nil {
		h.respondError(c, log, err, "Failed to reject report")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Community vote on a report
// @Description One vote per resident; enough confirmations verify the report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param vote body CommunityVerifyRequest true "Vote"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Already voted"
// @Router /reports/{id}/community-verify [post]
func (h *Handler) communityVerify(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "communityVerify").WithField("id", id)

	var input CommunityVerifyRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	report, err := h.reportService.CommunityVerify(c.Request.Context(), id, input.UserID, models.VerificationResult(input.Result))
	if err != nil {
		h.respondError(c, log, err, "Failed to record community vote")
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Verification log of a report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Success 200 {array} models.Verification
// @Failure 404 {object} map[string]string "Report not found"
// @Router /reports/{id}/verifications [get]
func (h *Handler) listReportVerifications(c *gin.Context) {
	id, ok := paramUUID(c, "id", "report")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listReportVerifications").WithField("id", id)

	verifications, err := h.reportService.ListVerifications(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to list verifications")
		return
	}
	c.JSON(http.StatusOK, verifications)
}
