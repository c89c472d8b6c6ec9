package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert оповещение, рассылаемое жителям в радиусе инцидента
type Alert struct {
	ID               uuid.UUID           `json:"id"`
	IncidentID       uuid.UUID           `json:"incident_id"`
	Level            AlertLevel          `json:"alert_level"`
	Message          string              `json:"message"`
	AffectedRadiusKM float64             `json:"affected_radius_km"`
	RecipientsCount  int                 `json:"recipients_count"`
	DeliveryStatus   AlertDeliveryStatus `json:"delivery_status"`
	CreatedAt        time.Time           `json:"created_at"`
	SentAt           *time.Time          `json:"sent_at,omitempty"`
}

// AlertRecipient факт доставки оповещения конкретному пользователю
type AlertRecipient struct {
	AlertID     uuid.UUID    `json:"alert_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Delivered   bool         `json:"delivered"`
	DeliveredAt *time.Time   `json:"delivered_at,omitempty"`
	Channel     PlatformType `json:"channel,omitempty"`
	Read        bool         `json:"read"`
	ReadAt      *time.Time   `json:"read_at,omitempty"`
}

// UserAlert оповещение с точки зрения получателя
type UserAlert struct {
	Alert
	Delivered bool `json:"delivered"`
	Read      bool `json:"read"`
}

// DeliveryStats итог рассылки оповещения
type DeliveryStats struct {
	Total      int                  `json:"total"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	ByPlatform map[PlatformType]int `json:"by_platform"`
}
