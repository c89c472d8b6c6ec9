package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification запись журнала проверки отчета
type Verification struct {
	ID              uuid.UUID          `json:"id"`
	ReportID        uuid.UUID          `json:"report_id"`
	VerifierUserID  *uuid.UUID         `json:"verifier_user_id,omitempty"`
	Type            VerificationType   `json:"verification_type"`
	Result          VerificationResult `json:"result"`
	ConfidenceScore *float64           `json:"confidence_score,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// VerificationOutcome результат автоматической проверки
type VerificationOutcome struct {
	Status            VerificationStatus `json:"status"`
	OverallConfidence float64            `json:"overall_confidence"`
	AIConfidence      float64            `json:"ai_confidence"`
	WeatherConfidence float64            `json:"weather_confidence"`
	DuplicateScore    float64            `json:"duplicate_confidence"`
}
