package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeAnalyzer_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/flood.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewProbeAnalyzer(time.Second)
	ctx := context.Background()

	score, err := a.Analyze(ctx, srv.URL+"/flood.jpg")
	require.NoError(t, err)
	assert.InDelta(t, ReachableImageScore, score, 1e-9)

	score, err = a.Analyze(ctx, srv.URL+"/page.html")
	require.NoError(t, err)
	assert.Zero(t, score)

	score, err = a.Analyze(ctx, srv.URL+"/missing.jpg")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestProbeAnalyzer_NonHTTPURL(t *testing.T) {
	a := NewProbeAnalyzer(time.Second)

	score, err := a.Analyze(context.Background(), "file:///etc/passwd")
	require.NoError(t, err)
	assert.Zero(t, score)
}
