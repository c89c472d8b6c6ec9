package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/models"
)

// @Summary Check location for incidents
// @Description Check if there are any active incidents covering the given point. The check is recorded for statistics.
// @Tags Location
// @Accept json
// @Produce json
// @Param location body LocationCheckRequest true "Location check request"
// @Success 200 {object} LocationCheckResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/check [post]
func (h *Handler) checkLocation(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkLocation")
	if !h.bindJSON(c, log, &input) {
		return
	}

	incidents, err := h.incidentService.CheckLocation(c.Request.Context(), input.UserID, *input.Latitude, *input.Longitude)
	if err != nil {
		h.respondError(c, log, err, "Failed to check location in service")
		return
	}
	c.JSON(http.StatusOK, LocationCheckResponse{
		IsDangerous: len(incidents) > 0,
		Incidents:   ModelsToIncidentResponses(incidents),
	})
}

// @Summary Resolve the caller's location
// @Description GPS coordinates first, then the client IP, then a free-text search
// @Tags Location
// @Accept json
// @Produce json
// @Param request body ResolveLocationRequest true "Known location hints"
// @Success 200 {object} models.Location
// @Failure 422 {object} map[string]string "Location could not be determined"
// @Router /location/resolve [post]
func (h *Handler) resolveLocation(c *gin.Context) {
	var input ResolveLocationRequest
	log := h.logger.WithField("method", "resolveLocation")
	if !h.bindJSON(c, log, &input) {
		return
	}

	location, err := h.locationService.Resolve(c.Request.Context(), models.ResolveRequest{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Accuracy:  input.Accuracy,
		ClientIP:  c.ClientIP(),
		Query:     input.Query,
	})
	if err != nil {
		h.respondError(c, log, err, "Failed to resolve location")
		return
	}
	c.JSON(http.StatusOK, location)
}

// @Summary Search for an address
// @Tags Location
// @Produce json
// @Param q query string true "Address or place name"
// @Param limit query int false "Maximum results" default(5)
// @Success 200 {array} models.GeocodeResult
// @Failure 400 {object} map[string]string "Missing query"
// @Router /location/search [get]
func (h *Handler) searchLocation(c *gin.Context) {
	log := h.logger.WithField("method", "searchLocation")

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	results, err := h.locationService.Search(c.Request.Context(), query, queryInt(c, "limit", 5, 1, 20))
	if err != nil {
		h.respondError(c, log, err, "Failed to search location")
		return
	}
	c.JSON(http.StatusOK, results)
}

// @Summary Address for coordinates
// @Tags Location
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} ReverseGeocodeResponse
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Router /location/reverse [get]
func (h *Handler) reverseGeocode(c *gin.Context) {
	log := h.logger.WithField("method", "reverseGeocode")

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	address, err := h.locationService.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		h.respondError(c, log, err, "Failed to reverse geocode")
		return
	}
	c.JSON(http.StatusOK, ReverseGeocodeResponse{Address: address})
}
