package bot

import (
	"context"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
)

// Состояния диалога
const (
	StateIdle                  = ""
	StateAwaitingLocation      = "awaiting_location"
	StateAwaitingSeverity      = "awaiting_severity"
	StateAwaitingDescription   = "awaiting_description"
	StateAwaitingPhotos        = "awaiting_photos"
	StateAwaitingConfirmation  = "awaiting_confirmation"
	StateAwaitingAlertLocation = "awaiting_alert_location"
	StateAwaitingAlertRadius   = "awaiting_alert_radius"
	StateAwaitingLanguage      = "awaiting_language"
)

// SessionTTL время жизни незавершенного диалога
const SessionTTL = 24 * time.Hour

// Session состояние диалога с одним пользователем
type Session struct {
	State         string           `json:"state"`
	Draft         *ReportDraft     `json:"draft,omitempty"`
	AlertLocation *models.Location `json:"alert_location,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ReportDraft отчет, собираемый по шагам
type ReportDraft struct {
	Location    *models.Location     `json:"location,omitempty"`
	Severity    models.SeverityLevel `json:"severity,omitempty"`
	Description string               `json:"description,omitempty"`
	MediaURLs   []string             `json:"media_urls,omitempty"`
}

// Reset возвращает сессию в исходное состояние
func (s *Session) Reset() {
	s.State = StateIdle
	s.Draft = nil
	s.AlertLocation = nil
}

// SessionStore хранилище сессий. Get возвращает nil без ошибки, если сессии нет.
type SessionStore interface {
	Get(ctx context.Context, platform models.PlatformType, userID string) (*Session, error)
	Save(ctx context.Context, platform models.PlatformType, userID string, session *Session) error
	Delete(ctx context.Context, platform models.PlatformType, userID string) error
}

// MessageLog журнал обработанных сообщений для аналитики
type MessageLog interface {
	Save(ctx context.Context, msg *models.BotMessage) error
}
