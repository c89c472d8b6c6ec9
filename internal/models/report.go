package models

import (
	"time"

	"github.com/google/uuid"
)

// Report сообщение гражданина о подтоплении
type Report struct {
	ID                     uuid.UUID          `json:"id"`
	UserID                 uuid.UUID          `json:"user_id"`
	Latitude               float64            `json:"latitude"`
	Longitude              float64            `json:"longitude"`
	Address                string             `json:"address,omitempty"`
	Severity               SeverityLevel      `json:"severity"`
	Description            string             `json:"description,omitempty"`
	WaterDepthCM           *int               `json:"water_depth_cm,omitempty"`
	ImageURLs              []string           `json:"image_urls"`
	VideoURLs              []string           `json:"video_urls"`
	VerificationStatus     VerificationStatus `json:"verification_status"`
	AIConfidenceScore      *float64           `json:"ai_confidence_score,omitempty"`
	CommunityVerifications int                `json:"community_verifications"`
	CreatedAt              time.Time          `json:"created_at"`
	VerifiedAt             *time.Time         `json:"verified_at,omitempty"`
}

// ReportFilter параметры выборки отчетов
type ReportFilter struct {
	Status   VerificationStatus
	Severity SeverityLevel
	UserID   *uuid.UUID
	From     *time.Time
	To       *time.Time
	Skip     int
	Limit    int
}

// ReportUpdate частичное обновление отчета, nil поля не меняются
type ReportUpdate struct {
	Severity           *SeverityLevel
	Description        *string
	WaterDepthCM       *int
	VerificationStatus *VerificationStatus
}
