package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/models"
)

// @Summary Create a new incident
// @Description Create an incident manually. Reports are normally clustered into incidents automatically.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param incident body IncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input IncidentRequest
	log := h.logger.WithField("method", "createIncident")
	if !h.bindJSON(c, log, &input) {
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.incidentService.CreateIncident(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err, "Failed to create incident in service")
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Paginated list of incidents, newest first
// @Tags Incidents
// @Produce json
// @Param status query string false "active, monitoring or resolved"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	filter := models.IncidentFilter{
		Status: models.IncidentStatus(c.Query("status")),
		Skip:   queryInt(c, "skip", 0, 0, 1<<20),
		Limit:  queryInt(c, "limit", 50, 1, 200),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents from service")
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Active incidents
// @Tags Incidents
// @Produce json
// @Param limit query int false "Maximum incidents" default(100)
// @Success 200 {array} IncidentResponse
// @Router /incidents/active [get]
func (h *Handler) listActiveIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listActiveIncidents")

	incidents, err := h.incidentService.ListActive(c.Request.Context(), queryInt(c, "limit", 100, 1, 500))
	if err != nil {
		h.respondError(c, log, err, "Failed to list active incidents")
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Incidents inside map bounds
// @Description Active and monitored incidents within the visible map rectangle
// @Tags Incidents
// @Produce json
// @Param north query number true "North latitude"
// @Param south query number true "South latitude"
// @Param east query number true "East longitude"
// @Param west query number true "West longitude"
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid bounds"
// @Router /incidents/map [get]
func (h *Handler) incidentsMap(c *gin.Context) {
	log := h.logger.WithField("method", "incidentsMap")

	var bounds models.Bounds
	for name, dst := range map[string]*float64{
		"north": &bounds.North,
		"south": &bounds.South,
		"east":  &bounds.East,
		"west":  &bounds.West,
	} {
		value, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing " + name + " bound"})
			return
		}
		*dst = value
	}

	incidents, err := h.incidentService.ListInBounds(c.Request.Context(), bounds)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incidents in bounds")
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := paramUUID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to get incident from service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update an existing incident
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param incident body IncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := paramUUID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input IncidentRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	model := DTOToIncidentModel(input)
	model.ID = id
	if err := h.incidentService.UpdateIncident(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err, "Failed to update incident in service")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(model))
}

// @Summary Change incident status
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateIncidentStatusRequest true "New status"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/status [put]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("id", id)

	var input UpdateIncidentStatusRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), id, models.IncidentStatus(input.Status))
	if err != nil {
		h.respondError(c, log, err, "Failed to update incident status")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Resolve an incident
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/resolve [post]
func (h *Handler) resolveIncident(c *gin.Context) {
	id, ok := paramUUID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)

	incident, err := h.incidentService.ResolveIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to resolve incident")
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Reports linked to an incident
// @Tags Incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {array} ReportResponse
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/reports [get]
func (h *Handler) listIncidentReports(c *gin.Context) {
	id, ok := paramUUID(c, "id", "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listIncidentReports").WithField("id", id)

	reports, err := h.incidentService.ListReports(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err, "Failed to list incident reports")
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Get user statistics
// @Description Distinct users who checked their location within the stats window
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	userCount, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err, "Failed to get stats from service")
		return
	}
	c.JSON(http.StatusOK, StatsResponse{UserCount: userCount})
}
