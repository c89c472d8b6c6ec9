package geo

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
)

var (
	placePattern     = regexp.MustCompile(`/place/(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	mapsCoordPattern = regexp.MustCompile(`(?:@|[?&]q=|[?&]ll=|[?&]query=)(-?\d+\.?\d*),\s*(-?\d+\.?\d*)`)
	shortLinkPattern = regexp.MustCompile(`https?://(?:maps\.app\.goo\.gl/[\w-]+|goo\.gl/maps/[\w-]+)`)
	plusCodePattern  = regexp.MustCompile(`\b[23456789CFGHJMPQRVWX]{4,8}\+[23456789CFGHJMPQRVWX]{2,3}\b`)
	coordPattern     = regexp.MustCompile(`(-?\d+\.?\d*)\s*,\s*(-?\d+\.?\d*)`)
)

// Extractor извлекает координаты из произвольного текста сообщения
type Extractor struct {
	geocoder   Geocoder
	httpClient *http.Client
}

func NewExtractor(geocoder Geocoder, timeout time.Duration) *Extractor {
	return &Extractor{
		geocoder:   geocoder,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Extract перебирает ссылки Google Maps, Plus Codes, пары координат и поиск по адресу.
// Возвращает nil без ошибки, если местоположение не найдено.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.Location, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if p, ok := ParseMapsLink(text); ok {
		return e.located(p), nil
	}

	if link := shortLinkPattern.FindString(text); link != "" {
		if expanded, err := e.expand(ctx, link); err == nil {
			if p, ok := ParseMapsLink(expanded); ok {
				return e.located(p), nil
			}
		}
	}

	if plusCodePattern.MatchString(strings.ToUpper(text)) {
		if loc, err := e.search(ctx, text); err != nil || loc != nil {
			return loc, err
		}
	}

	if p, ok := ParseCoordinates(text); ok {
		return e.located(p), nil
	}

	return e.search(ctx, text)
}

func (e *Extractor) located(p Point) *models.Location {
	return &models.Location{Latitude: p.Lat, Longitude: p.Lon, Source: models.SourceManual}
}

func (e *Extractor) search(ctx context.Context, query string) (*models.Location, error) {
	results, err := e.geocoder.Search(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &models.Location{
		Latitude:  results[0].Latitude,
		Longitude: results[0].Longitude,
		Address:   results[0].DisplayName,
		Source:    models.SourceManual,
	}, nil
}

// expand проходит по редиректам короткой ссылки и возвращает конечный URL
func (e *Extractor) expand(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return resp.Request.URL.String(), nil
}

// ParseMapsLink разбирает полную ссылку Google Maps
func ParseMapsLink(text string) (Point, bool) {
	if m := placePattern.FindStringSubmatch(text); m != nil {
		if p, ok := toPoint(m[1], m[2]); ok {
			return p, true
		}
	}
	if !strings.Contains(text, "google.") && !strings.Contains(text, "goo.gl") {
		return Point{}, false
	}
	if m := mapsCoordPattern.FindStringSubmatch(text); m != nil {
		return toPoint(m[1], m[2])
	}
	return Point{}, false
}

// ParseCoordinates находит в тексте пару "широта, долгота"
func ParseCoordinates(text string) (Point, bool) {
	m := coordPattern.FindStringSubmatch(text)
	if m == nil {
		return Point{}, false
	}
	return toPoint(m[1], m[2])
}

func toPoint(latStr, lonStr string) (Point, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Point{}, false
	}
	if !ValidCoordinates(lat, lon) {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}
