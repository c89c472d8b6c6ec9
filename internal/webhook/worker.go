package webhook

//go:generate mockgen -source=worker.go -destination=mocks/worker_mock.go -package=mocks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// сколько BRPOP ждет элемент, прежде чем проверить контекст
const popTimeout = 5 * time.Second

// AlertDeliverer доставляет оповещение подписчикам
type AlertDeliverer interface {
	DeliverAlert(ctx context.Context, alertID uuid.UUID) (*models.DeliveryStats, error)
}

// WebhookWorker - структура для обработки очередей вебхуков и рассылки оповещений
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	deliverer   AlertDeliverer
	publisher   WebhookPublisher
	metrics     *metrics.Metrics
	group       *errgroup.Group
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config, deliverer AlertDeliverer, publisher WebhookPublisher, m *metrics.Metrics) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		deliverer: deliverer,
		publisher: publisher,
		metrics:   m,
	}
}

// Start запускает горутины для обработки очередей вебхуков и оповещений
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.consume(gctx, webhookQueueKey, func(ctx context.Context, payload string) {
			var event WebhookEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
				w.countJob(webhookQueueKey, "invalid")
				return
			}
			w.processWebhookEvent(ctx, event, payload)
		})
		return nil
	})
	g.Go(func() error {
		w.consume(gctx, alertQueueKey, func(ctx context.Context, payload string) {
			var job AlertJob
			if err := json.Unmarshal([]byte(payload), &job); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal alert job from Redis")
				w.countJob(alertQueueKey, "invalid")
				return
			}
			w.processAlertJob(ctx, job)
		})
		return nil
	})
	w.group = g
}

// Wait блокируется до остановки всех горутин воркера
func (w *WebhookWorker) Wait() {
	if w.group != nil {
		_ = w.group.Wait()
	}
	w.logger.Info("Webhook worker stopped.")
}

func (w *WebhookWorker) consume(ctx context.Context, queue string, handle func(context.Context, string)) {
	for {
		if ctx.Err() != nil {
			return
		}

		// BRPOP - блокирующее извлечение из правой части списка (очереди)
		result, err := w.redisClient.BRPop(ctx, popTimeout, queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).WithField("queue", queue).Error("Failed to pop job from Redis")
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.WebhookTimeout):
			}
			continue
		}

		// result[0] - ключ, result[1] - значение
		handle(ctx, result[1])
	}
}

func (w *WebhookWorker) processAlertJob(ctx context.Context, job AlertJob) {
	log := w.logger.WithField("alert_id", job.AlertID)
	log.Debug("Processing alert job...")

	stats, err := w.deliverer.DeliverAlert(ctx, job.AlertID)
	if err != nil {
		log.WithError(err).Error("Failed to deliver alert")
		w.countJob(alertQueueKey, "failed")
		return
	}
	w.countJob(alertQueueKey, "done")

	log.WithFields(logrus.Fields{
		"successful": stats.Successful,
		"failed":     stats.Failed,
	}).Info("Alert delivered")

	if w.publisher == nil {
		return
	}
	alertID := job.AlertID
	event := WebhookEvent{
		Type:      EventAlertSent,
		AlertID:   &alertID,
		Timestamp: time.Now().UTC(),
		Delivery:  stats,
	}
	if err := w.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish alert webhook event")
	}
}

func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event WebhookEvent, rawPayload string) {
	log := w.logger.WithField("event_type", event.Type).WithField("event_user_id", event.UserID)
	log.Debug("Processing webhook event...")

	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		w.countDelivery("skipped")
		return
	}

	maxRetries := w.cfg.WebhookMaxRetries
	baseDelay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		err := w.send(ctx, rawPayload)
		if err == nil {
			log.Info("Webhook delivered successfully.")
			w.countDelivery("delivered")
			w.countJob(webhookQueueKey, "done")
			return
		}

		log.WithError(err).Warnf("Failed to send webhook for event. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			log.Warn("Webhook delivery interrupted by shutdown.")
			w.countDelivery("failed")
			return
		case <-time.After(baseDelay):
		}
		baseDelay *= 2 // Экспоненциальная задержка
	}

	log.Errorf("Failed to deliver webhook for event after %d retries.", maxRetries)
	w.countDelivery("failed")
	w.countJob(webhookQueueKey, "failed")
}

// send выполняет одну попытку доставки
func (w *WebhookWorker) send(ctx context.Context, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *WebhookWorker) countDelivery(outcome string) {
	if w.metrics != nil {
		w.metrics.WebhookDeliveries.WithLabelValues(outcome).Inc()
	}
}

func (w *WebhookWorker) countJob(queue, outcome string) {
	if w.metrics != nil {
		w.metrics.QueueJobs.WithLabelValues(queue, outcome).Inc()
	}
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
