package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest DTO для отправки отчета о подтоплении
// @Description DTO для отправки отчета о подтоплении
type CreateReportRequest struct {
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	Latitude     *float64  `json:"latitude" validate:"required,latitude"`
	Longitude    *float64  `json:"longitude" validate:"required,longitude"`
	Address      string    `json:"address,omitempty" validate:"max=500"`
	Severity     string    `json:"severity" validate:"required,severity"`
	Description  string    `json:"description,omitempty" validate:"max=2000"`
	WaterDepthCM *int      `json:"water_depth_cm,omitempty" validate:"omitempty,min=0,max=1000"`
	ImageURLs    []string  `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	VideoURLs    []string  `json:"video_urls,omitempty" validate:"omitempty,max=5,dive,url"`
}

// UpdateReportRequest DTO для частичного обновления отчета
// @Description DTO для частичного обновления отчета
type UpdateReportRequest struct {
	Severity           *string `json:"severity,omitempty" validate:"omitempty,severity"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	WaterDepthCM       *int    `json:"water_depth_cm,omitempty" validate:"omitempty,min=0,max=1000"`
	VerificationStatus *string `json:"verification_status,omitempty" validate:"omitempty,oneof=pending verified rejected flagged"`
}

// RejectReportRequest DTO с причиной отклонения
// @Description DTO с причиной отклонения
type RejectReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// CommunityVerifyRequest голос жителя за достоверность отчета
// @Description голос жителя за достоверность отчета
type CommunityVerifyRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Result string    `json:"result" validate:"required,oneof=confirmed rejected"`
}

// ReportResponse DTO для ответа с информацией об отчете
// @Description DTO для ответа с информацией об отчете
type ReportResponse struct {
	ID                     uuid.UUID  `json:"id"`
	UserID                 uuid.UUID  `json:"user_id"`
	Latitude               float64    `json:"latitude"`
	Longitude              float64    `json:"longitude"`
	Address                string     `json:"address,omitempty"`
	Severity               string     `json:"severity"`
	Description            string     `json:"description,omitempty"`
	WaterDepthCM           *int       `json:"water_depth_cm,omitempty"`
	ImageURLs              []string   `json:"image_urls"`
	VideoURLs              []string   `json:"video_urls"`
	VerificationStatus     string     `json:"verification_status"`
	AIConfidenceScore      *float64   `json:"ai_confidence_score,omitempty"`
	CommunityVerifications int        `json:"community_verifications"`
	CreatedAt              time.Time  `json:"created_at"`
	VerifiedAt             *time.Time `json:"verified_at,omitempty"`
}

// IncidentRequest DTO для создания и обновления инцидента
// @Description DTO для создания и обновления инцидента
type IncidentRequest struct {
	Latitude                   *float64 `json:"latitude" validate:"required,latitude"`
	Longitude                  *float64 `json:"longitude" validate:"required,longitude"`
	Address                    string   `json:"address,omitempty" validate:"max=500"`
	AffectedRadiusKM           *float64 `json:"affected_radius_km,omitempty" validate:"omitempty,gt=0,lte=50"`
	Severity                   string   `json:"severity" validate:"required,severity"`
	Status                     string   `json:"status,omitempty" validate:"omitempty,oneof=active monitoring resolved"`
	AffectedPopulationEstimate *int     `json:"affected_population_estimate,omitempty" validate:"omitempty,min=0"`
}

// UpdateIncidentStatusRequest DTO для смены статуса инцидента
// @Description DTO для смены статуса инцидента
type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active monitoring resolved"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                         uuid.UUID  `json:"id"`
	Latitude                   float64    `json:"latitude"`
	Longitude                  float64    `json:"longitude"`
	Address                    string     `json:"address,omitempty"`
	AffectedRadiusKM           *float64   `json:"affected_radius_km,omitempty"`
	Severity                   string     `json:"severity"`
	Status                     string     `json:"status"`
	ReportCount                int        `json:"report_count"`
	AffectedPopulationEstimate *int       `json:"affected_population_estimate,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
	ResolvedAt                 *time.Time `json:"resolved_at,omitempty"`
}

// LocationCheckRequest DTO для проверки координат
// @Description DTO для проверки координат
type LocationCheckRequest struct {
	UserID    string   `json:"user_id" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// LocationCheckResponse результат проверки "нахожусь ли я в зоне подтопления"
// @Description результат проверки координат
type LocationCheckResponse struct {
	IsDangerous bool               `json:"is_dangerous"`
	Incidents   []IncidentResponse `json:"incidents"`
}

// ResolveLocationRequest DTO цепочки GPS -> IP -> ручной поиск
// @Description DTO для определения местоположения
type ResolveLocationRequest struct {
	// Координаты не валидируются: некорректный GPS уходит в следующий источник
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Query     string   `json:"query,omitempty" validate:"max=200"`
}

// ReverseGeocodeResponse адрес для координат
// @Description адрес для координат
type ReverseGeocodeResponse struct {
	Address string `json:"address"`
}

// CreateAlertRequest DTO для ручного создания оповещения
// @Description DTO для ручного создания оповещения
type CreateAlertRequest struct {
	IncidentID uuid.UUID `json:"incident_id" validate:"required"`
	Level      string    `json:"alert_level,omitempty" validate:"omitempty,oneof=advisory watch warning emergency"`
}

// MarkAlertReadRequest DTO отметки о прочтении
// @Description DTO отметки о прочтении
type MarkAlertReadRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// RetryAlertResponse число повторно доставленных сообщений
// @Description число повторно доставленных сообщений
type RetryAlertResponse struct {
	Delivered int `json:"delivered"`
}

// UpdateUserRequest DTO для обновления профиля жителя
// @Description DTO для обновления профиля жителя
type UpdateUserRequest struct {
	LanguageCode    *string  `json:"language_code,omitempty" validate:"omitempty,oneof=en sw fr es"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AlertSubscribed *bool    `json:"alert_subscribed,omitempty"`
	AlertRadiusKM   *float64 `json:"alert_radius_km,omitempty" validate:"omitempty,min=1,max=20"`
}

// CredibilityRequest DTO изменения рейтинга доверия
// @Description DTO изменения рейтинга доверия
type CredibilityRequest struct {
	Delta int `json:"delta" validate:"required,min=-200,max=200"`
}

// CredibilityResponse новый рейтинг доверия
// @Description новый рейтинг доверия
type CredibilityResponse struct {
	CredibilityScore int `json:"credibility_score"`
}

// UserResponse DTO профиля жителя
// @Description DTO профиля жителя
type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	Platform         string    `json:"platform"`
	LanguageCode     string    `json:"language_code"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	AlertSubscribed  bool      `json:"alert_subscribed"`
	AlertRadiusKM    float64   `json:"alert_radius_km"`
	CredibilityScore int       `json:"credibility_score"`
	CreatedAt        time.Time `json:"created_at"`
	LastActive       time.Time `json:"last_active"`
}

// RegisterRequest DTO регистрации сотрудника
// @Description DTO регистрации сотрудника
type RegisterRequest struct {
	Username       string     `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email          string     `json:"email" validate:"required,email"`
	Password       string     `json:"password" validate:"required,min=8,max=72"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
}

// LoginRequest DTO входа сотрудника
// @Description DTO входа сотрудника
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest DTO подтверждения почты
// @Description DTO подтверждения почты
type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	UserCount int `json:"user_count"`
}
