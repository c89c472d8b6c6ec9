package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCredibility = 100
	MinCredibility     = 0
	MaxCredibility     = 200

	MinAlertRadiusKM = 1
	MaxAlertRadiusKM = 20
)

// User житель, зарегистрированный через бота или веб-форму
type User struct {
	ID               uuid.UUID    `json:"id"`
	PhoneNumber      string       `json:"phone_number"`
	Platform         PlatformType `json:"platform"`
	PlatformID       string       `json:"platform_id,omitempty"`
	LanguageCode     string       `json:"language_code"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	AlertSubscribed  bool         `json:"alert_subscribed"`
	AlertRadiusKM    float64      `json:"alert_radius_km"`
	CredibilityScore int          `json:"credibility_score"`
	CreatedAt        time.Time    `json:"created_at"`
	LastActive       time.Time    `json:"last_active"`
}

// HasLocation сообщает, известны ли координаты пользователя
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// UserUpdate частичное обновление профиля
type UserUpdate struct {
	LanguageCode    *string
	Latitude        *float64
	Longitude       *float64
	AlertSubscribed *bool
	AlertRadiusKM   *float64
}

// ClampCredibility ограничивает рейтинг доверия допустимым диапазоном
func ClampCredibility(score int) int {
	if score < MinCredibility {
		return MinCredibility
	}
	if score > MaxCredibility {
		return MaxCredibility
	}
	return score
}
