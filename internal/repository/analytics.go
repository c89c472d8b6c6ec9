package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) service.AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Summary(ctx context.Context) (*models.Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reports),
			(SELECT COUNT(*) FROM reports WHERE verification_status = 'verified'),
			(SELECT COUNT(*) FROM reports WHERE verification_status = 'pending'),
			(SELECT COUNT(*) FROM incidents),
			(SELECT COUNT(*) FROM incidents WHERE status = 'active'),
			(SELECT COUNT(*) FROM alerts),
			(SELECT COUNT(*) FROM users);
	`
	s := &models.Summary{}
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalReports,
		&s.VerifiedReports,
		&s.PendingReports,
		&s.TotalIncidents,
		&s.ActiveIncidents,
		&s.TotalAlerts,
		&s.TotalUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return s, nil
}

// ReportsByDate количество отчетов по дням (UTC) начиная с since
func (r *AnalyticsRepository) ReportsByDate(ctx context.Context, since time.Time) ([]models.DailyReports, error) {
	query := `
		SELECT
			date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE verification_status = 'verified')
		FROM reports
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports by date: %w", err)
	}
	return collect(rows, func(row rowScanner) (models.DailyReports, error) {
		var d models.DailyReports
		err := row.Scan(&d.Date, &d.Count, &d.Verified)
		return d, err
	})
}

func (r *AnalyticsRepository) SeverityBreakdown(ctx context.Context) ([]models.SeverityCount, error) {
	query := `
		SELECT severity, COUNT(*)
		FROM reports
		GROUP BY severity
		ORDER BY COUNT(*) DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get severity breakdown: %w", err)
	}
	return collect(rows, func(row rowScanner) (models.SeverityCount, error) {
		var c models.SeverityCount
		err := row.Scan(&c.Severity, &c.Count)
		return c, err
	})
}

func (r *AnalyticsRepository) BotActivity(ctx context.Context, since time.Time) ([]models.PlatformActivity, error) {
	query := `
		SELECT platform, COUNT(*)
		FROM bot_messages
		WHERE created_at >= $1
		GROUP BY platform
		ORDER BY platform;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot activity: %w", err)
	}
	return collect(rows, func(row rowScanner) (models.PlatformActivity, error) {
		var a models.PlatformActivity
		err := row.Scan(&a.Platform, &a.Messages)
		return a, err
	})
}

func (r *AnalyticsRepository) PublicStatistics(ctx context.Context) (*models.PublicStatistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reports),
			(SELECT COUNT(*) FROM incidents),
			(SELECT COUNT(*) FROM incidents WHERE status = 'active'),
			(SELECT COUNT(*) FROM users);
	`
	s := &models.PublicStatistics{}
	err := r.db.QueryRow(ctx, query).Scan(&s.TotalReports, &s.TotalIncidents, &s.ActiveIncidents, &s.RegisteredUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get public statistics: %w", err)
	}
	return s, nil
}
