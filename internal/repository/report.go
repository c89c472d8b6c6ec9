package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

const reportColumns = `
			r.id,
			r.user_id,
			ST_Y(r.location::geometry) AS latitude,
			ST_X(r.location::geometry) AS longitude,
			r.address,
			r.severity,
			r.description,
			r.water_depth_cm,
			r.image_urls,
			r.video_urls,
			r.verification_status,
			r.ai_confidence_score,
			r.community_verifications,
			r.created_at,
			r.verified_at`

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) service.ReportRepository {
	return &ReportRepository{db: db}
}

func scanReport(row rowScanner) (*models.Report, error) {
	report := &models.Report{}
	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.Severity,
		&report.Description,
		&report.WaterDepthCM,
		&report.ImageURLs,
		&report.VideoURLs,
		&report.VerificationStatus,
		&report.AIConfidenceScore,
		&report.CommunityVerifications,
		&report.CreatedAt,
		&report.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Create сохраняет новый отчет
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ImageURLs == nil {
		report.ImageURLs = []string{}
	}
	if report.VideoURLs == nil {
		report.VideoURLs = []string{}
	}
	if report.VerificationStatus == "" {
		report.VerificationStatus = models.VerificationPending
	}

	query := `
		INSERT INTO reports (
			user_id, location, address, severity, description,
			water_depth_cm, image_urls, video_urls, verification_status, ai_confidence_score
		)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, community_verifications, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.UserID,
		report.Longitude,
		report.Latitude,
		report.Address,
		report.Severity,
		report.Description,
		report.WaterDepthCM,
		report.ImageURLs,
		report.VideoURLs,
		report.VerificationStatus,
		report.AIConfidenceScore,
	).Scan(&report.ID, &report.CommunityVerifications, &report.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create report")
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r WHERE r.id = $1;`
	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("report", id)
		}
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	return report, nil
}

// List выборка отчетов по фильтру, новые первыми
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		WHERE
			($1 = '' OR r.verification_status = $1)
			AND ($2 = '' OR r.severity = $2)
			AND ($3::uuid IS NULL OR r.user_id = $3)
			AND ($4::timestamptz IS NULL OR r.created_at >= $4)
			AND ($5::timestamptz IS NULL OR r.created_at <= $5)
		ORDER BY r.created_at DESC
		LIMIT $6 OFFSET $7;
	`
	rows, err := r.db.Query(ctx, query,
		filter.Status,
		filter.Severity,
		filter.UserID,
		filter.From,
		filter.To,
		filter.Limit,
		filter.Skip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return collect(rows, scanReport)
}

// Update меняет только переданные поля
func (r *ReportRepository) Update(ctx context.Context, id uuid.UUID, update models.ReportUpdate) (*models.Report, error) {
	query := `
		UPDATE reports r SET
			severity = COALESCE($1, r.severity),
			description = COALESCE($2, r.description),
			water_depth_cm = COALESCE($3, r.water_depth_cm),
			verification_status = COALESCE($4, r.verification_status),
			verified_at = CASE
				WHEN $4 = 'verified' THEN COALESCE(r.verified_at, NOW())
				ELSE r.verified_at
			END
		WHERE r.id = $5
		RETURNING ` + reportColumns + `;
	`
	report, err := scanReport(r.db.QueryRow(ctx, query,
		update.Severity,
		update.Description,
		update.WaterDepthCM,
		update.VerificationStatus,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("report", id)
		}
		return nil, mapError(err, "failed to update report")
	}
	return report, nil
}

// SetVerification выставляет статус проверки. confidence == nil оставляет прежнюю оценку.
func (r *ReportRepository) SetVerification(ctx context.Context, id uuid.UUID, status models.VerificationStatus, confidence *float64) (*models.Report, error) {
	query := `
		UPDATE reports r SET
			verification_status = $1,
			ai_confidence_score = COALESCE($2, r.ai_confidence_score),
			verified_at = CASE
				WHEN $1 = 'verified' THEN COALESCE(r.verified_at, NOW())
				ELSE r.verified_at
			END
		WHERE r.id = $3
		RETURNING ` + reportColumns + `;
	`
	report, err := scanReport(r.db.QueryRow(ctx, query, status, confidence, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("report", id)
		}
		return nil, fmt.Errorf("failed to set report verification: %w", err)
	}
	return report, nil
}

// IncrementCommunityVerifications атомарно увеличивает счетчик подтверждений
func (r *ReportRepository) IncrementCommunityVerifications(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE reports SET community_verifications = community_verifications + 1
		WHERE id = $1
		RETURNING community_verifications;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("report", id)
		}
		return 0, fmt.Errorf("failed to increment community verifications: %w", err)
	}
	return count, nil
}

// FindNearby отчеты в радиусе от точки, созданные не раньше since
func (r *ReportRepository) FindNearby(ctx context.Context, lat, lon, radiusKM float64, since time.Time, excludeID uuid.UUID) ([]*models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		WHERE
			r.id <> $1
			AND r.created_at >= $2
			AND r.verification_status <> 'rejected'
			AND ST_DWithin(r.location, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5 * 1000)
		ORDER BY r.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, excludeID, since, lon, lat, radiusKM)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby reports: %w", err)
	}
	return collect(rows, scanReport)
}
