package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"nairobi", -1.2864, 36.8172, true},
		{"bounds", 90, -180, true},
		{"lat too big", 90.1, 0, false},
		{"lon too small", 0, -180.5, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestDistanceKM(t *testing.T) {
	assert.InDelta(t, 0, DistanceKM(-1.28, 36.82, -1.28, 36.82), 1e-9)
	// Один градус долготы на экваторе ~111.19 км
	assert.InDelta(t, 111.19, DistanceKM(0, 0, 0, 1), 0.05)
}

func TestCentroid(t *testing.T) {
	_, ok := Centroid(nil)
	assert.False(t, ok)

	c, ok := Centroid([]Point{{Lat: 1, Lon: 10}, {Lat: 3, Lon: 20}})
	assert.True(t, ok)
	assert.InDelta(t, 2, c.Lat, 1e-9)
	assert.InDelta(t, 15, c.Lon, 1e-9)
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "-1.2864, 36.8172", FormatCoordinates(-1.286389, 36.817223))
}
