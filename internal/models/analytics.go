package models

import (
	"time"

	"github.com/google/uuid"
)

type Summary struct {
	TotalReports    int `json:"total_reports"`
	VerifiedReports int `json:"verified_reports"`
	PendingReports  int `json:"pending_reports"`
	TotalIncidents  int `json:"total_incidents"`
	ActiveIncidents int `json:"active_incidents"`
	TotalAlerts     int `json:"total_alerts"`
	TotalUsers      int `json:"total_users"`
}

type DailyReports struct {
	Date     time.Time `json:"date"`
	Count    int       `json:"count"`
	Verified int       `json:"verified"`
}

type SeverityCount struct {
	Severity SeverityLevel `json:"severity"`
	Count    int           `json:"count"`
}

type PlatformActivity struct {
	Platform PlatformType `json:"platform"`
	Messages int          `json:"messages"`
}

// PublicStatistics агрегаты без персональных данных
type PublicStatistics struct {
	TotalReports    int `json:"total_reports"`
	TotalIncidents  int `json:"total_incidents"`
	ActiveIncidents int `json:"active_incidents"`
	RegisteredUsers int `json:"registered_users"`
}

// PublicIncident инцидент без координат и адреса
type PublicIncident struct {
	ID          uuid.UUID      `json:"id"`
	Severity    SeverityLevel  `json:"severity"`
	Status      IncidentStatus `json:"status"`
	ReportCount int            `json:"report_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

type PublicAlert struct {
	ID        uuid.UUID  `json:"id"`
	Level     AlertLevel `json:"alert_level"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}
