package weather

import (
	"testing"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name   string
		cond   Conditions
		alerts []Alert
		want   float64
	}{
		{"dry", Conditions{}, nil, 0},
		{"light rain", Conditions{Rainfall1h: 6}, nil, 0.1},
		{"heavy rain humid", Conditions{Rainfall1h: 25, Humidity: 95, Clouds: 90}, nil, 0.6},
		{"development data", *developmentConditions(), nil, 0.3},
		{"flood alert", Conditions{Rainfall1h: 11}, []Alert{{Event: "Flash Flood Warning"}}, 0.4},
		{"capped", Conditions{Rainfall1h: 80, Humidity: 99, Clouds: 100}, []Alert{{Event: "flood"}}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RiskScore(tt.cond, tt.alerts), 1e-9)
		})
	}
}

func TestCorrelate(t *testing.T) {
	// риск 0.3 против ожидаемых 0.4 для medium
	corr := Correlate(*developmentConditions(), nil, models.SeverityMedium)
	assert.InDelta(t, 0.9, corr.Confidence, 1e-9)
	assert.True(t, corr.Supports)

	// сухая погода и критический отчет
	corr = Correlate(Conditions{}, nil, models.SeverityCritical)
	assert.InDelta(t, 0.2, corr.Confidence, 1e-9)
	assert.False(t, corr.Supports)
}

func TestExpectedRisk_Unknown(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedRisk("unknown"), 1e-9)
}
