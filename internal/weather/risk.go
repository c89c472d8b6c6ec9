// Package weather сопоставляет погодные условия с сообщениями о подтоплении.
package weather

import (
	"math"
	"strings"

	"github.com/shenikar/flood_watch/internal/models"
)

// Conditions текущие погодные условия в точке
type Conditions struct {
	TemperatureC float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	Pressure     float64 `json:"pressure"`
	Clouds       float64 `json:"clouds"`
	Rainfall1h   float64 `json:"rainfall_1h"`
	Rainfall3h   float64 `json:"rainfall_3h"`
	Main         string  `json:"weather_main"`
	Description  string  `json:"weather_description"`
	WindSpeed    float64 `json:"wind_speed"`
}

// Alert погодное предупреждение метеослужбы
type Alert struct {
	Event       string `json:"event"`
	SenderName  string `json:"sender_name"`
	Description string `json:"description"`
}

// Correlation результат сопоставления погоды и заявленной серьезности
type Correlation struct {
	Conditions   *Conditions `json:"weather_data,omitempty"`
	RiskScore    float64     `json:"risk_score"`
	ExpectedRisk float64     `json:"expected_risk"`
	Confidence   float64     `json:"correlation_confidence"`
	Supports     bool        `json:"supports_report"`
}

// RiskScore оценка риска наводнения 0..1 по осадкам, влажности, облачности и предупреждениям
func RiskScore(c Conditions, alerts []Alert) float64 {
	score := 0.0

	switch {
	case c.Rainfall1h > 50:
		score += 0.5
	case c.Rainfall1h > 20:
		score += 0.3
	case c.Rainfall1h > 10:
		score += 0.2
	case c.Rainfall1h > 5:
		score += 0.1
	}

	switch {
	case c.Humidity > 90:
		score += 0.2
	case c.Humidity > 80:
		score += 0.1
	}

	if c.Clouds > 80 {
		score += 0.1
	}

	for _, a := range alerts {
		if strings.Contains(strings.ToLower(a.Event), "flood") {
			score += 0.2
			break
		}
	}

	return math.Min(1.0, score)
}

// ExpectedRisk ожидаемый уровень риска для заявленной серьезности
func ExpectedRisk(s models.SeverityLevel) float64 {
	switch s {
	case models.SeverityLow:
		return 0.2
	case models.SeverityMedium:
		return 0.4
	case models.SeverityHigh:
		return 0.6
	case models.SeverityCritical:
		return 0.8
	}
	return 0.5
}

// Correlate чем ближе риск к ожидаемому, тем выше уверенность
func Correlate(c Conditions, alerts []Alert, severity models.SeverityLevel) Correlation {
	risk := RiskScore(c, alerts)
	expected := ExpectedRisk(severity)
	confidence := math.Max(0, 1-math.Abs(risk-expected))
	return Correlation{
		Conditions:   &c,
		RiskScore:    risk,
		ExpectedRisk: expected,
		Confidence:   confidence,
		Supports:     confidence > 0.5,
	}
}
