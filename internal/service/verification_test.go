package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	"github.com/shenikar/flood_watch/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type verificationMocks struct {
	reports       *mocks.MockReportRepository
	verifications *mocks.MockVerificationRepository
	users         *mocks.MockUserRepository
	analyzer      *mocks.MockImageAnalyzer
	weather       *mocks.MockWeatherCorrelator
	sender        *mocks.MockMessageSender
}

func newTestVerificationService(t *testing.T) (*verificationService, verificationMocks) {
	ctrl := gomock.NewController(t)
	m := verificationMocks{
		reports:       mocks.NewMockReportRepository(ctrl),
		verifications: mocks.NewMockVerificationRepository(ctrl),
		users:         mocks.NewMockUserRepository(ctrl),
		analyzer:      mocks.NewMockImageAnalyzer(ctrl),
		weather:       mocks.NewMockWeatherCorrelator(ctrl),
		sender:        mocks.NewMockMessageSender(ctrl),
	}

	service := NewVerificationService(m.reports, m.verifications, m.users, m.analyzer, m.weather, m.sender,
		i18n.MustLoad(), newTestLogger(), newTestConfig(), nil).(*verificationService)
	service.clock = clockwork.NewFakeClockAt(testNow)
	return service, m
}

func TestDuplicateScore(t *testing.T) {
	testCases := []struct {
		name     string
		nearby   int
		verified int
		want     float64
	}{
		{"no neighbours", 0, 0, 0},
		{"unverified neighbours", 4, 0, 0.3},
		{"one verified", 2, 1, 0.5},
		{"two verified", 2, 2, 0.7},
		{"three verified", 5, 3, 0.9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, duplicateScore(tc.nearby, tc.verified))
		})
	}
}

func TestVerify_Verified(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	report := &models.Report{
		ID:        uuid.New(),
		Latitude:  -1.29,
		Longitude: 36.82,
		Severity:  models.SeverityHigh,
		ImageURLs: []string{"https://img/1.jpg", "https://img/2.jpg"},
	}
	nearby := []*models.Report{
		{VerificationStatus: models.VerificationVerified},
		{VerificationStatus: models.VerificationVerified},
		{VerificationStatus: models.VerificationVerified},
	}

	// Ожидания
	m.analyzer.EXPECT().Analyze(ctx, gomock.Any()).Return(0.65, nil).Times(2)
	m.weather.EXPECT().CorrelateReport(ctx, -1.29, 36.82, models.SeverityHigh).
		Return(&weather.Correlation{Confidence: 0.9, Supports: true}, nil).Times(1)
	m.reports.EXPECT().FindNearby(ctx, -1.29, 36.82, duplicateRadiusKM, testNow.Add(-duplicateWindow), report.ID).
		Return(nearby, nil).Times(1)
	// Три сигнала - три записи в журнале
	m.verifications.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(3)
	m.reports.EXPECT().SetVerification(ctx, report.ID, models.VerificationVerified, gomock.Any()).
		DoAndReturn(func(ctx context.Context, id uuid.UUID, status models.VerificationStatus, confidence *float64) (*models.Report, error) {
			require.NotNil(t, confidence)
			assert.InDelta(t, 0.8, *confidence, 1e-9)
			updated := *report
			updated.VerificationStatus = status
			updated.AIConfidenceScore = confidence
			return &updated, nil
		}).Times(1)

	// Действие
	outcome, err := service.Verify(ctx, report)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, outcome.Status)
	assert.InDelta(t, 0.65, outcome.AIConfidence, 1e-9)
	assert.InDelta(t, 0.9, outcome.WeatherConfidence, 1e-9)
	assert.InDelta(t, 0.9, outcome.DuplicateScore, 1e-9)
	assert.Equal(t, models.VerificationVerified, report.VerificationStatus)
}

func TestVerify_Pending(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	report := &models.Report{ID: uuid.New(), Latitude: 1, Longitude: 1, Severity: models.SeverityMedium}

	// Ожидания
	// Без фото анализатор не вызывается
	m.analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).Times(0)
	m.weather.EXPECT().CorrelateReport(ctx, 1.0, 1.0, models.SeverityMedium).
		Return(&weather.Correlation{Confidence: 0.8, Supports: true}, nil).Times(1)
	m.reports.EXPECT().FindNearby(ctx, 1.0, 1.0, gomock.Any(), gomock.Any(), report.ID).
		Return([]*models.Report{
			{VerificationStatus: models.VerificationVerified},
			{VerificationStatus: models.VerificationVerified},
		}, nil).Times(1)
	m.verifications.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)
	// Ожидающий отчет не обновляется
	m.reports.EXPECT().SetVerification(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := service.Verify(ctx, report)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, outcome.Status)
	assert.InDelta(t, 0.45, outcome.OverallConfidence, 1e-9)
}

func TestVerify_FlaggedWhenSignalsFail(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	report := &models.Report{ID: uuid.New(), Latitude: 2, Longitude: 2, Severity: models.SeverityLow,
		ImageURLs: []string{"https://img/broken.jpg"}}

	// Ожидания
	m.analyzer.EXPECT().Analyze(ctx, "https://img/broken.jpg").Return(0.0, fmt.Errorf("timeout")).Times(1)
	m.weather.EXPECT().CorrelateReport(ctx, 2.0, 2.0, models.SeverityLow).Return(nil, fmt.Errorf("api down")).Times(1)
	m.reports.EXPECT().FindNearby(ctx, 2.0, 2.0, gomock.Any(), gomock.Any(), report.ID).Return(nil, fmt.Errorf("db down")).Times(1)
	// Пишется только запись анализа изображений
	m.verifications.EXPECT().Create(ctx, gomock.Any()).
		Do(func(ctx context.Context, v *models.Verification) {
			assert.Equal(t, models.VerificationTypeAI, v.Type)
			assert.Equal(t, models.ResultUncertain, v.Result)
		}).Return(nil).Times(1)
	m.reports.EXPECT().SetVerification(ctx, report.ID, models.VerificationFlagged, nil).
		Return(&models.Report{ID: report.ID, VerificationStatus: models.VerificationFlagged}, nil).Times(1)

	// Действие
	outcome, err := service.Verify(ctx, report)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.VerificationFlagged, outcome.Status)
	assert.Zero(t, outcome.OverallConfidence)
	assert.Equal(t, models.VerificationFlagged, report.VerificationStatus)
}

func TestVerify_StoreDecisionFails(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	report := &models.Report{ID: uuid.New(), Severity: models.SeverityLow}

	// Ожидания
	m.weather.EXPECT().CorrelateReport(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("api down")).Times(1)
	m.reports.EXPECT().FindNearby(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), report.ID).Return(nil, nil).Times(1)
	m.verifications.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	m.reports.EXPECT().SetVerification(ctx, report.ID, models.VerificationFlagged, nil).Return(nil, fmt.Errorf("db down")).Times(1)

	// Действие
	outcome, err := service.Verify(ctx, report)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "could not store verification decision")
}

func TestRequestCommunityVerification(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	authorID := uuid.New()
	report := &models.Report{
		ID:        uuid.New(),
		UserID:    authorID,
		Latitude:  -1.3,
		Longitude: 36.8,
		Severity:  models.SeverityHigh,
		Address:   "Kibera",
	}
	neighbours := []*models.User{
		{ID: uuid.New(), Platform: models.PlatformTelegram, PlatformID: "111", LanguageCode: "en"},
		{ID: uuid.New(), Platform: models.PlatformWhatsApp, PlatformID: "254700000000", LanguageCode: "en"},
	}

	// Ожидания
	m.users.EXPECT().FindNearby(ctx, -1.3, 36.8, communityRadiusKM, authorID, communityRequestLimit).Return(neighbours, nil).Times(1)
	m.sender.EXPECT().Send(ctx, models.PlatformTelegram, "111", gomock.Any()).
		Do(func(ctx context.Context, platform models.PlatformType, chatID, text string) {
			assert.Contains(t, text, "Kibera")
			assert.Contains(t, text, "HIGH")
			assert.Contains(t, text, report.ID.String()[:8])
		}).Return(nil).Times(1)
	m.sender.EXPECT().Send(ctx, models.PlatformWhatsApp, "254700000000", gomock.Any()).Return(fmt.Errorf("rate limited")).Times(1)

	// Действие
	sent, err := service.RequestCommunityVerification(ctx, report)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestRequestCommunityVerification_LookupFails(t *testing.T) {
	// Подготовка
	service, m := newTestVerificationService(t)
	ctx := context.Background()
	report := &models.Report{ID: uuid.New()}

	// Ожидания
	m.users.EXPECT().FindNearby(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("db down")).Times(1)

	// Действие
	sent, err := service.RequestCommunityVerification(ctx, report)

	// Проверки
	require.Error(t, err)
	assert.Zero(t, sent)
}
