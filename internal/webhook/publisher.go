package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/flood_watch/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
	alertQueueKey   = "alert_dispatch"
)

// EventType тип исходящего события
type EventType string

const (
	EventLocationDanger  EventType = "location.dangerous"
	EventIncidentCreated EventType = "incident.created"
	EventAlertSent       EventType = "alert.sent"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	Type        EventType             `json:"type"`
	UserID      string                `json:"user_id,omitempty"`
	IncidentID  *uuid.UUID            `json:"incident_id,omitempty"`
	AlertID     *uuid.UUID            `json:"alert_id,omitempty"`
	Latitude    float64               `json:"latitude"`
	Longitude   float64               `json:"longitude"`
	IsDangerous bool                  `json:"is_dangerous,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
	Incidents   []*models.Incident    `json:"incidents,omitempty"`
	Delivery    *models.DeliveryStats `json:"delivery,omitempty"`
}

// AlertJob задание на рассылку оповещения
type AlertJob struct {
	AlertID    uuid.UUID `json:"alert_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// AlertQueue очередь рассылки оповещений
type AlertQueue interface {
	EnqueueAlert(ctx context.Context, alertID uuid.UUID) error
}

// RedisWebhookPublisher - реализация WebhookPublisher и AlertQueue, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// EnqueueAlert ставит оповещение в очередь на доставку
func (p *RedisWebhookPublisher) EnqueueAlert(ctx context.Context, alertID uuid.UUID) error {
	payload, err := json.Marshal(AlertJob{AlertID: alertID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal alert job: %w", err)
	}

	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue alert to Redis: %w", err)
	}
	return nil
}
