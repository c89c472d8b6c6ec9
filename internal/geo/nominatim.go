package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	gobreaker "github.com/sony/gobreaker/v2"
)

// NominatimClient реализует Geocoder поверх OpenStreetMap Nominatim
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
}

func NewNominatimClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *NominatimClient {
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("nominatim"),
		metrics:    m,
	}
}

type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	State   string `json:"state"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type nominatimReverse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Reverse возвращает читаемый адрес "город, регион, страна" или пустую строку, если адрес не найден
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"format": {"json"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	body, err := fetch(ctx, c.breaker, c.httpClient, c.baseURL+"/reverse?"+params.Encode())
	if err != nil {
		c.observe("error")
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	var resp nominatimReverse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.observe("error")
		return "", fmt.Errorf("decode reverse response: %w", err)
	}
	if resp.Error != "" {
		c.observe("empty")
		return "", nil
	}

	address := formatAddress(resp.Address)
	if address == "" {
		address = resp.DisplayName
	}
	if address == "" {
		c.observe("empty")
	} else {
		c.observe("success")
	}
	return address, nil
}

// Search ищет места по строке запроса, не более limit результатов
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"format": {"json"},
		"q":      {query},
		"limit":  {strconv.Itoa(limit)},
	}
	body, err := fetch(ctx, c.breaker, c.httpClient, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		c.observe("error")
		return nil, fmt.Errorf("search geocode: %w", err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		c.observe("error")
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]models.GeocodeResult, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil || !ValidCoordinates(lat, lon) {
			continue
		}
		results = append(results, models.GeocodeResult{Latitude: lat, Longitude: lon, DisplayName: p.DisplayName})
		if len(results) == limit {
			break
		}
	}
	if len(results) == 0 {
		c.observe("empty")
	} else {
		c.observe("success")
	}
	return results, nil
}

func (c *NominatimClient) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.GeocodeRequests.WithLabelValues("nominatim", outcome).Inc()
	}
}

func formatAddress(a nominatimAddress) string {
	parts := make([]string, 0, 3)
	for _, candidates := range [][]string{{a.City, a.Town, a.Village}, {a.State, a.Region}, {a.Country}} {
		for _, v := range candidates {
			if v != "" {
				parts = append(parts, v)
				break
			}
		}
	}
	return strings.Join(parts, ", ")
}
