package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAnalyticsService(t *testing.T) (*analyticsService, *mocks.MockAnalyticsRepository, *mocks.MockIncidentRepository, *mocks.MockAlertRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAnalyticsRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	alertsMock := mocks.NewMockAlertRepository(ctrl)

	service := NewAnalyticsService(repoMock, incidentsMock, alertsMock, newTestLogger()).(*analyticsService)
	service.clock = clockwork.NewFakeClockAt(testNow)
	return service, repoMock, incidentsMock, alertsMock
}

func TestReportsByDate_Window(t *testing.T) {
	service, repoMock, _, _ := newTestAnalyticsService(t)
	ctx := context.Background()
	today := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		days  int
		since time.Time
	}{
		{"one day is today", 1, today},
		{"week", 7, today.AddDate(0, 0, -6)},
		{"default", 0, today.AddDate(0, 0, -29)},
		{"too large", 1000, today.AddDate(0, 0, -29)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repoMock.EXPECT().ReportsByDate(ctx, tc.since).Return([]models.DailyReports{}, nil).Times(1)

			_, err := service.ReportsByDate(ctx, tc.days)

			require.NoError(t, err)
		})
	}
}

func TestBotActivity_Error(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAnalyticsService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().BotActivity(ctx, gomock.Any()).Return(nil, fmt.Errorf("db down")).Times(1)

	// Действие
	_, err := service.BotActivity(ctx, 7)

	// Проверки
	assert.ErrorContains(t, err, "could not get bot activity")
}

func TestPublicIncidents_HidesLocation(t *testing.T) {
	// Подготовка
	service, _, incidentsMock, _ := newTestAnalyticsService(t)
	ctx := context.Background()
	incident := &models.Incident{
		ID:          uuid.New(),
		Latitude:    -1.3,
		Longitude:   36.8,
		Address:     "Kibera",
		Severity:    models.SeverityHigh,
		Status:      models.IncidentActive,
		ReportCount: 5,
		CreatedAt:   testNow,
	}

	// Ожидания
	incidentsMock.EXPECT().ListIncidents(ctx, models.IncidentFilter{Limit: 50}).Return([]*models.Incident{incident}, nil).Times(1)

	// Действие
	result, err := service.PublicIncidents(ctx, 500)

	// Проверки
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, models.PublicIncident{
		ID:          incident.ID,
		Severity:    models.SeverityHigh,
		Status:      models.IncidentActive,
		ReportCount: 5,
		CreatedAt:   testNow,
	}, result[0])
}

func TestPublicAlerts(t *testing.T) {
	// Подготовка
	service, _, _, alertsMock := newTestAnalyticsService(t)
	ctx := context.Background()
	alert := &models.Alert{ID: uuid.New(), Level: models.AlertWatch, Message: "FLOOD WATCH", RecipientsCount: 120}

	// Ожидания
	alertsMock.EXPECT().ListRecent(ctx, 20).Return([]*models.Alert{alert}, nil).Times(1)

	// Действие
	result, err := service.PublicAlerts(ctx, 0)

	// Проверки
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, models.AlertWatch, result[0].Level)
	assert.Equal(t, "FLOOD WATCH", result[0].Message)
}

func TestSummary(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestAnalyticsService(t)
	ctx := context.Background()
	expected := &models.Summary{}

	// Ожидания
	repoMock.EXPECT().Summary(ctx).Return(expected, nil).Times(1)

	// Действие
	summary, err := service.Summary(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Same(t, expected, summary)
}
