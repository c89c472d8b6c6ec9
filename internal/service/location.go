package service

//go:generate mockgen -source=location.go -destination=mocks/location_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/shenikar/flood_watch/internal/geo"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

const maxSearchResults = 10

// Geocoder прямое и обратное геокодирование
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
	Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error)
}

// IPLocator приблизительное местоположение по IP адресу
type IPLocator interface {
	Lookup(ctx context.Context, ip string) (*models.Location, error)
}

// LocationService определение местоположения жителя
type LocationService interface {
	Resolve(ctx context.Context, req models.ResolveRequest) (*models.Location, error)
	Reverse(ctx context.Context, lat, lon float64) (string, error)
	Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error)
}

type locationService struct {
	geocoder Geocoder
	ip       IPLocator
	logger   *logrus.Logger
}

func NewLocationService(geocoder Geocoder, ip IPLocator, logger *logrus.Logger) LocationService {
	return &locationService{geocoder: geocoder, ip: ip, logger: logger}
}

// Resolve перебирает источники по порядку: GPS, IP адрес, ручной поиск.
// Сбой источника логируется, и проверяется следующий.
func (s *locationService) Resolve(ctx context.Context, req models.ResolveRequest) (*models.Location, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "Resolve",
	})

	if req.Latitude != nil && req.Longitude != nil {
		lat, lon := *req.Latitude, *req.Longitude
		if geo.ValidCoordinates(lat, lon) {
			address, _ := s.Reverse(ctx, lat, lon)
			return &models.Location{
				Latitude:  lat,
				Longitude: lon,
				Address:   address,
				Accuracy:  req.Accuracy,
				Source:    models.SourceGPS,
			}, nil
		}
		log.Warn("Invalid GPS coordinates, falling back to IP lookup")
	}

	if isPublicIP(req.ClientIP) {
		loc, err := s.ip.Lookup(ctx, req.ClientIP)
		if err == nil && geo.ValidCoordinates(loc.Latitude, loc.Longitude) {
			loc.Source = models.SourceIP
			return loc, nil
		}
		log.WithError(err).Warn("IP geolocation failed")
	}

	if query := strings.TrimSpace(req.Query); query != "" {
		results, err := s.geocoder.Search(ctx, query, 1)
		if err == nil && len(results) > 0 {
			r := results[0]
			return &models.Location{
				Latitude:  r.Latitude,
				Longitude: r.Longitude,
				Address:   r.DisplayName,
				Source:    models.SourceManual,
			}, nil
		}
		log.WithError(err).Warn("Address search found nothing")
	}

	return nil, fmt.Errorf("service: no location source succeeded: %w", models.ErrLocationUnavailable)
}

// Reverse адрес точки; если геокодер недоступен, возвращаются сами координаты
func (s *locationService) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return "", fmt.Errorf("service: invalid coordinates: %w", models.ErrInvalidInput)
	}
	address, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil || address == "" {
		if err != nil {
			s.logger.WithError(err).Warn("Reverse geocoding failed")
		}
		return geo.FormatCoordinates(lat, lon), nil
	}
	return address, nil
}

func (s *locationService) Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, fmt.Errorf("service: query must be at least 3 characters: %w", models.ErrInvalidInput)
	}
	if limit < 1 || limit > maxSearchResults {
		limit = 5
	}
	results, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		s.logger.WithError(err).WithField("query", query).Error("Address search failed")
		return nil, fmt.Errorf("service: could not search address: %w", err)
	}
	return results, nil
}

// isPublicIP отсекает пустые, локальные и частные адреса, для которых геолокация бессмысленна
func isPublicIP(raw string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast())
}
