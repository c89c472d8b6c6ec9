package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident кластер подтвержденных отчетов, описывающий одно наводнение
type Incident struct {
	ID                         uuid.UUID      `json:"id"`
	Latitude                   float64        `json:"latitude"`
	Longitude                  float64        `json:"longitude"`
	Address                    string         `json:"address,omitempty"`
	AffectedRadiusKM           *float64       `json:"affected_radius_km,omitempty"`
	Severity                   SeverityLevel  `json:"severity"`
	Status                     IncidentStatus `json:"status"`
	ReportCount                int            `json:"report_count"`
	AffectedPopulationEstimate *int           `json:"affected_population_estimate,omitempty"`
	CreatedAt                  time.Time      `json:"created_at"`
	UpdatedAt                  time.Time      `json:"updated_at"`
	ResolvedAt                 *time.Time     `json:"resolved_at,omitempty"`
}

// RadiusOr возвращает радиус инцидента или значение по умолчанию
func (i *Incident) RadiusOr(def float64) float64 {
	if i.AffectedRadiusKM != nil && *i.AffectedRadiusKM > 0 {
		return *i.AffectedRadiusKM
	}
	return def
}

type IncidentFilter struct {
	Status IncidentStatus
	Skip   int
	Limit  int
}

// Bounds прямоугольная область карты
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

func (b Bounds) Valid() bool {
	return b.North >= -90 && b.North <= 90 &&
		b.South >= -90 && b.South <= 90 &&
		b.East >= -180 && b.East <= 180 &&
		b.West >= -180 && b.West <= 180 &&
		b.North > b.South
}
