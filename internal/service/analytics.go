package service

//go:generate mockgen -source=analytics.go -destination=mocks/analytics_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// AnalyticsRepository агрегатные запросы для панели управления
type AnalyticsRepository interface {
	Summary(ctx context.Context) (*models.Summary, error)
	ReportsByDate(ctx context.Context, since time.Time) ([]models.DailyReports, error)
	SeverityBreakdown(ctx context.Context) ([]models.SeverityCount, error)
	BotActivity(ctx context.Context, since time.Time) ([]models.PlatformActivity, error)
	PublicStatistics(ctx context.Context) (*models.PublicStatistics, error)
}

// AnalyticsService статистика для сотрудников и открытого API
type AnalyticsService interface {
	Summary(ctx context.Context) (*models.Summary, error)
	ReportsByDate(ctx context.Context, days int) ([]models.DailyReports, error)
	SeverityBreakdown(ctx context.Context) ([]models.SeverityCount, error)
	BotActivity(ctx context.Context, days int) ([]models.PlatformActivity, error)
	PublicStatistics(ctx context.Context) (*models.PublicStatistics, error)
	PublicIncidents(ctx context.Context, limit int) ([]models.PublicIncident, error)
	PublicAlerts(ctx context.Context, limit int) ([]models.PublicAlert, error)
}

type analyticsService struct {
	repo      AnalyticsRepository
	incidents IncidentRepository
	alerts    AlertRepository
	logger    *logrus.Logger
	clock     clockwork.Clock
}

func NewAnalyticsService(repo AnalyticsRepository, incidents IncidentRepository, alerts AlertRepository, logger *logrus.Logger) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		incidents: incidents,
		alerts:    alerts,
		logger:    logger,
		clock:     clockwork.NewRealClock(),
	}
}

func (s *analyticsService) Summary(ctx context.Context) (*models.Summary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		s.logError(err, "Summary")
		return nil, fmt.Errorf("service: could not get summary: %w", err)
	}
	return summary, nil
}

// ReportsByDate отчеты по дням за последние days дней (1..365, по умолчанию 30)
func (s *analyticsService) ReportsByDate(ctx context.Context, days int) ([]models.DailyReports, error) {
	days = clampDays(days)
	rows, err := s.repo.ReportsByDate(ctx, s.since(days))
	if err != nil {
		s.logError(err, "ReportsByDate")
		return nil, fmt.Errorf("service: could not get reports by date: %w", err)
	}
	return rows, nil
}

func (s *analyticsService) SeverityBreakdown(ctx context.Context) ([]models.SeverityCount, error) {
	rows, err := s.repo.SeverityBreakdown(ctx)
	if err != nil {
		s.logError(err, "SeverityBreakdown")
		return nil, fmt.Errorf("service: could not get severity breakdown: %w", err)
	}
	return rows, nil
}

func (s *analyticsService) BotActivity(ctx context.Context, days int) ([]models.PlatformActivity, error) {
	days = clampDays(days)
	rows, err := s.repo.BotActivity(ctx, s.since(days))
	if err != nil {
		s.logError(err, "BotActivity")
		return nil, fmt.Errorf("service: could not get bot activity: %w", err)
	}
	return rows, nil
}

func (s *analyticsService) PublicStatistics(ctx context.Context) (*models.PublicStatistics, error) {
	stats, err := s.repo.PublicStatistics(ctx)
	if err != nil {
		s.logError(err, "PublicStatistics")
		return nil, fmt.Errorf("service: could not get statistics: %w", err)
	}
	return stats, nil
}

// PublicIncidents последние инциденты без данных о местоположении
func (s *analyticsService) PublicIncidents(ctx context.Context, limit int) ([]models.PublicIncident, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	incidents, err := s.incidents.ListIncidents(ctx, models.IncidentFilter{Limit: limit})
	if err != nil {
		s.logError(err, "PublicIncidents")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	out := make([]models.PublicIncident, len(incidents))
	for i, inc := range incidents {
		out[i] = models.PublicIncident{
			ID:          inc.ID,
			Severity:    inc.Severity,
			Status:      inc.Status,
			ReportCount: inc.ReportCount,
			CreatedAt:   inc.CreatedAt,
		}
	}
	return out, nil
}

func (s *analyticsService) PublicAlerts(ctx context.Context, limit int) ([]models.PublicAlert, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	alerts, err := s.alerts.ListRecent(ctx, limit)
	if err != nil {
		s.logError(err, "PublicAlerts")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}

	out := make([]models.PublicAlert, len(alerts))
	for i, a := range alerts {
		out[i] = models.PublicAlert{
			ID:        a.ID,
			Level:     a.Level,
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		}
	}
	return out, nil
}

func (s *analyticsService) since(days int) time.Time {
	now := s.clock.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, -(days - 1))
}

func (s *analyticsService) logError(err error, method string) {
	s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  method,
	}).WithError(err).Error("Analytics query failed")
}

func clampDays(days int) int {
	if days < 1 || days > 365 {
		return 30
	}
	return days
}
