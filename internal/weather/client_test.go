package weather

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestClient_DevelopmentModeWithoutKey(t *testing.T) {
	client := NewClient("", "http://unused", time.Second, testLogger())

	cond, err := client.Current(context.Background(), -1.28, 36.82)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, cond.Rainfall1h, 1e-9)

	alerts, err := client.Alerts(context.Background(), -1.28, 36.82)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestClient_CorrelateReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		switch r.URL.Path {
		case "/weather":
			_, _ = w.Write([]byte(`{"main":{"temp":22,"humidity":92},"clouds":{"all":95},"rain":{"1h":30},"weather":[{"main":"Rain","description":"very heavy rain"}]}`))
		case "/onecall":
			_, _ = w.Write([]byte(`{"alerts":[{"event":"Flood Warning","sender_name":"KMD"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL, time.Second, testLogger())
	corr, err := client.CorrelateReport(context.Background(), -1.28, 36.82, models.SeverityCritical)

	require.NoError(t, err)
	// 0.3 (дождь) + 0.2 (влажность) + 0.1 (облака) + 0.2 (предупреждение)
	assert.InDelta(t, 0.8, corr.RiskScore, 1e-9)
	assert.InDelta(t, 1.0, corr.Confidence, 1e-9)
	assert.Equal(t, "very heavy rain", corr.Conditions.Description)
}

func TestClient_AlertsFailureDoesNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/weather" {
			_, _ = w.Write([]byte(`{"main":{"humidity":50},"clouds":{"all":10}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL, time.Second, testLogger())
	corr, err := client.CorrelateReport(context.Background(), 0, 0, models.SeverityLow)

	require.NoError(t, err)
	assert.InDelta(t, 0, corr.RiskScore, 1e-9)
	assert.InDelta(t, 0.8, corr.Confidence, 1e-9)
}
