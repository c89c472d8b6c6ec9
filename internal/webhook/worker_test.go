package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	stats *models.DeliveryStats
	err   error
	calls []uuid.UUID
}

func (f *fakeDeliverer) DeliverAlert(_ context.Context, alertID uuid.UUID) (*models.DeliveryStats, error) {
	f.calls = append(f.calls, alertID)
	return f.stats, f.err
}

type fakePublisher struct {
	events []WebhookEvent
}

func (f *fakePublisher) Publish(_ context.Context, event WebhookEvent) error {
	f.events = append(f.events, event)
	return nil
}

func newTestWorker(t *testing.T, url string) (*WebhookWorker, *fakeDeliverer, *fakePublisher, *metrics.Metrics) {
	t.Helper()
	deliverer := &fakeDeliverer{}
	publisher := &fakePublisher{}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "topsecret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	m := metrics.NewMetricsForTesting()
	return NewWebhookWorker(nil, logger, cfg, deliverer, publisher, m), deliverer, publisher, m
}

func TestProcessWebhookEvent_SignsPayload(t *testing.T) {
	// Подготовка
	var gotSignature, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSignature = r.Header.Get("X-Webhook-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker, _, _, m := newTestWorker(t, server.URL)
	event := WebhookEvent{Type: EventLocationDanger, UserID: "user-1", IsDangerous: true}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	// Действие
	worker.processWebhookEvent(context.Background(), event, string(raw))

	// Проверки
	assert.Equal(t, string(raw), gotBody)
	assert.Equal(t, generateHMACSHA256(string(raw), "topsecret"), gotSignature)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookDeliveries.WithLabelValues("delivered")))
}

func TestProcessWebhookEvent_RetriesOnServerError(t *testing.T) {
	// Подготовка
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker, _, _, m := newTestWorker(t, server.URL)

	// Действие
	worker.processWebhookEvent(context.Background(), WebhookEvent{Type: EventIncidentCreated}, `{"type":"incident.created"}`)

	// Проверки
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookDeliveries.WithLabelValues("delivered")))
}

func TestProcessWebhookEvent_GivesUp(t *testing.T) {
	// Подготовка
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	worker, _, _, m := newTestWorker(t, server.URL)

	// Действие
	worker.processWebhookEvent(context.Background(), WebhookEvent{Type: EventAlertSent}, `{}`)

	// Проверки
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookDeliveries.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueJobs.WithLabelValues(webhookQueueKey, "failed")))
}

func TestProcessWebhookEvent_NoURL(t *testing.T) {
	worker, _, _, m := newTestWorker(t, "")

	worker.processWebhookEvent(context.Background(), WebhookEvent{}, `{}`)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookDeliveries.WithLabelValues("skipped")))
}

func TestProcessAlertJob_PublishesDeliveryStats(t *testing.T) {
	// Подготовка
	worker, deliverer, publisher, m := newTestWorker(t, "")
	ctx := context.Background()
	alertID := uuid.New()
	stats := &models.DeliveryStats{Total: 3, Successful: 2, Failed: 1}

	deliverer.stats = stats

	// Действие
	worker.processAlertJob(ctx, AlertJob{AlertID: alertID})

	// Проверки
	assert.Equal(t, []uuid.UUID{alertID}, deliverer.calls)
	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, EventAlertSent, event.Type)
	require.NotNil(t, event.AlertID)
	assert.Equal(t, alertID, *event.AlertID)
	assert.Equal(t, stats, event.Delivery)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueJobs.WithLabelValues(alertQueueKey, "done")))
}

func TestProcessAlertJob_DeliveryFails(t *testing.T) {
	// Подготовка
	worker, deliverer, publisher, m := newTestWorker(t, "")
	ctx := context.Background()
	alertID := uuid.New()

	deliverer.err = fmt.Errorf("db down")

	// Действие
	worker.processAlertJob(ctx, AlertJob{AlertID: alertID})

	// Проверки
	assert.Empty(t, publisher.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueJobs.WithLabelValues(alertQueueKey, "failed")))
}

func TestGenerateHMACSHA256(t *testing.T) {
	// эталон из RFC 4231, тест 2
	got := generateHMACSHA256("what do ya want for nothing?", "Jefe")
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}
