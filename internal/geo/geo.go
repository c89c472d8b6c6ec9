// Package geo содержит геометрию на сфере и клиенты геокодирования.
package geo

import (
	"context"
	"fmt"
	"math"

	"github.com/shenikar/flood_watch/internal/models"
)

const earthRadiusKM = 6371.0

// ValidCoordinates проверяет, что широта и долгота конечны и лежат в допустимых диапазонах
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DistanceKM расстояние по большому кругу (формула гаверсинуса)
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Point пара координат
type Point struct {
	Lat float64
	Lon float64
}

// Centroid среднее арифметическое точек; для пустого набора возвращает false
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: sumLat / n, Lon: sumLon / n}, true
}

// FormatCoordinates "lat, lon" с четырьмя знаками, используется когда адрес неизвестен
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// Geocoder прямое и обратное геокодирование
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
	Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error)
}
