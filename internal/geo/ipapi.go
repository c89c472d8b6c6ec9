package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	gobreaker "github.com/sony/gobreaker/v2"
)

// IPLocator определяет приблизительное местоположение по IP через ipapi.co-совместимый сервис
type IPLocator struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
}

func NewIPLocator(baseURL string, timeout time.Duration, m *metrics.Metrics) *IPLocator {
	return &IPLocator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("ipapi"),
		metrics:    m,
	}
}

type ipapiResponse struct {
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Error       bool    `json:"error"`
	Reason      string  `json:"reason"`
}

// Lookup возвращает местоположение для ip; пустой ip означает адрес самого запроса
func (l *IPLocator) Lookup(ctx context.Context, ip string) (*models.Location, error) {
	endpoint := l.baseURL + "/json/"
	if ip != "" {
		endpoint = fmt.Sprintf("%s/%s/json/", l.baseURL, url.PathEscape(ip))
	}

	body, err := fetch(ctx, l.breaker, l.httpClient, endpoint)
	if err != nil {
		l.observe("error")
		return nil, fmt.Errorf("ip lookup: %w", err)
	}

	var resp ipapiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		l.observe("error")
		return nil, fmt.Errorf("decode ip lookup response: %w", err)
	}
	if resp.Error {
		l.observe("error")
		return nil, fmt.Errorf("ip lookup failed: %s", resp.Reason)
	}
	if !ValidCoordinates(resp.Latitude, resp.Longitude) || (resp.Latitude == 0 && resp.Longitude == 0) {
		l.observe("empty")
		return nil, fmt.Errorf("ip lookup returned no coordinates")
	}

	l.observe("success")
	return &models.Location{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		Address:   fmt.Sprintf("%s, %s, %s", resp.City, resp.Region, resp.CountryName),
		Source:    models.SourceIP,
	}, nil
}

func (l *IPLocator) observe(outcome string) {
	if l.metrics != nil {
		l.metrics.GeocodeRequests.WithLabelValues("ipapi", outcome).Inc()
	}
}
