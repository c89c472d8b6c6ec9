package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationCheck запись о проверке "нахожусь ли я в зоне подтопления"
type LocationCheck struct {
	ID          int64       `json:"id"`
	UserID      string      `json:"user_id"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	IsDangerous bool        `json:"is_dangerous"`
	IncidentIDs []uuid.UUID `json:"incident_ids,omitempty"`
	CheckedAt   time.Time   `json:"checked_at"`
}
