package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	queries []string
	results []models.GeocodeResult
	err     error
}

func (f *fakeGeocoder) Reverse(context.Context, float64, float64) (string, error) {
	return "", nil
}

func (f *fakeGeocoder) Search(_ context.Context, query string, _ int) ([]models.GeocodeResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestParseMapsLink(t *testing.T) {
	tests := []struct {
		name string
		text string
		lat  float64
		lon  float64
		ok   bool
	}{
		{"place", "https://www.google.com/maps/place/-1.285380,36.892529/", -1.285380, 36.892529, true},
		{"at", "https://www.google.com/maps/@-1.286389,36.817223,15z", -1.286389, 36.817223, true},
		{"query", "https://maps.google.com/?q=-1.286389,36.817223", -1.286389, 36.817223, true},
		{"not maps", "water at -1.2, 36.8", 0, 0, false},
		{"out of range", "https://www.google.com/maps/place/95.0,36.0/", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ParseMapsLink(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.lat, p.Lat, 1e-9)
				assert.InDelta(t, tt.lon, p.Lon, 1e-9)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	p, ok := ParseCoordinates("I am at -1.2921, 36.8219 near the bridge")
	require.True(t, ok)
	assert.InDelta(t, -1.2921, p.Lat, 1e-9)
	assert.InDelta(t, 36.8219, p.Lon, 1e-9)

	_, ok = ParseCoordinates("no numbers here")
	assert.False(t, ok)
}

func TestExtract_Coordinates(t *testing.T) {
	geocoder := &fakeGeocoder{}
	e := NewExtractor(geocoder, time.Second)

	loc, err := e.Extract(context.Background(), "-1.2921, 36.8219")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, -1.2921, loc.Latitude, 1e-9)
	assert.Empty(t, geocoder.queries)
}

func TestExtract_PlusCodeUsesGeocoder(t *testing.T) {
	geocoder := &fakeGeocoder{results: []models.GeocodeResult{{Latitude: -1.28, Longitude: 36.82, DisplayName: "Nairobi"}}}
	e := NewExtractor(geocoder, time.Second)

	loc, err := e.Extract(context.Background(), "6GCRMQRG+59 Nairobi")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Nairobi", loc.Address)
	assert.Equal(t, []string{"6GCRMQRG+59 Nairobi"}, geocoder.queries)
}

func TestExtract_AddressSearch(t *testing.T) {
	geocoder := &fakeGeocoder{}
	e := NewExtractor(geocoder, time.Second)

	loc, err := e.Extract(context.Background(), "Kibera Nairobi")
	require.NoError(t, err)
	assert.Nil(t, loc)
	assert.Equal(t, []string{"Kibera Nairobi"}, geocoder.queries)
}

func TestExtract_GeocoderError(t *testing.T) {
	e := NewExtractor(&fakeGeocoder{err: errors.New("boom")}, time.Second)

	_, err := e.Extract(context.Background(), "Kibera Nairobi")
	require.Error(t, err)
}

func TestExtract_ShortLinkFollowsRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	e := NewExtractor(&fakeGeocoder{}, time.Second)
	expanded, err := e.expand(context.Background(), target.URL+"/maps/place/-1.5,36.9/")
	require.NoError(t, err)

	p, ok := ParseMapsLink(expanded)
	require.True(t, ok)
	assert.InDelta(t, -1.5, p.Lat, 1e-9)
}
