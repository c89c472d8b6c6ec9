package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLocatorLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/41.90.1.1/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"city":"Nairobi","region":"Nairobi County","country_name":"Kenya","latitude":-1.2841,"longitude":36.8155}`))
	}))
	defer srv.Close()

	locator := NewIPLocator(srv.URL, time.Second, nil)
	loc, err := locator.Lookup(context.Background(), "41.90.1.1")

	require.NoError(t, err)
	assert.Equal(t, models.SourceIP, loc.Source)
	assert.Equal(t, "Nairobi, Nairobi County, Kenya", loc.Address)
	assert.InDelta(t, -1.2841, loc.Latitude, 1e-9)
}

func TestIPLocatorLookup_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Reserved IP Address"}`))
	}))
	defer srv.Close()

	locator := NewIPLocator(srv.URL, time.Second, nil)
	_, err := locator.Lookup(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reserved IP Address")
}
