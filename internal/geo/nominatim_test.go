package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(srv.URL, 2*time.Second, metrics.NewMetricsForTesting())
}

func TestNominatimReverse_FormatsAddress(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "FloodWatch/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`{"display_name":"Long name","address":{"town":"Kisumu","region":"Nyanza","country":"Kenya"}}`))
	})

	address, err := client.Reverse(context.Background(), -0.09, 34.76)
	require.NoError(t, err)
	assert.Equal(t, "Kisumu, Nyanza, Kenya", address)
}

func TestNominatimReverse_FallsBackToDisplayName(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"display_name":"Somewhere at sea","address":{}}`))
	})

	address, err := client.Reverse(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Somewhere at sea", address)
}

func TestNominatimReverse_NotFound(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	address, err := client.Reverse(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, address)
}

func TestNominatimReverse_ServerError(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestNominatimSearch_ParsesResults(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Kibera", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{"lat":"-1.3133","lon":"36.7892","display_name":"Kibera, Nairobi"},
			{"lat":"bad","lon":"36.0","display_name":"Broken"},
			{"lat":"-1.3","lon":"36.8","display_name":"Kibera Drive"}
		]`))
	})

	results, err := client.Search(context.Background(), " Kibera ", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, -1.3133, results[0].Latitude, 1e-9)
	assert.Equal(t, "Kibera Drive", results[1].DisplayName)
}

func TestNominatimSearch_EmptyQuery(t *testing.T) {
	client := newTestNominatim(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	results, err := client.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
