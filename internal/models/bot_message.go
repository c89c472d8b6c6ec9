package models

import "time"

// BotMessage запись журнала входящих сообщений ботов
type BotMessage struct {
	ID             int64        `json:"id"`
	Platform       PlatformType `json:"platform"`
	PlatformUserID string       `json:"platform_user_id"`
	MessageType    MessageType  `json:"message_type"`
	MessageText    string       `json:"message_text,omitempty"`
	SessionState   string       `json:"session_state,omitempty"`
	ResponseTimeMS int          `json:"response_time_ms"`
	CreatedAt      time.Time    `json:"created_at"`
}
