package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

type VerificationRepository struct {
	db *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) service.VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create добавляет запись в журнал проверок. Повторный голос жителя дает ErrAlreadyExists.
func (r *VerificationRepository) Create(ctx context.Context, v *models.Verification) error {
	query := `
		INSERT INTO verifications (report_id, verifier_user_id, verification_type, result, confidence_score, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		v.ReportID,
		v.VerifierUserID,
		v.Type,
		v.Result,
		v.ConfidenceScore,
		v.Notes,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create verification")
	}
	return nil
}

func (r *VerificationRepository) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*models.Verification, error) {
	query := `
		SELECT id, report_id, verifier_user_id, verification_type, result, confidence_score, notes, created_at
		FROM verifications
		WHERE report_id = $1
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	return collect(rows, func(row rowScanner) (*models.Verification, error) {
		v := &models.Verification{}
		err := row.Scan(&v.ID, &v.ReportID, &v.VerifierUserID, &v.Type, &v.Result, &v.ConfidenceScore, &v.Notes, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

func (r *VerificationRepository) HasCommunityVote(ctx context.Context, reportID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM verifications
			WHERE report_id = $1 AND verifier_user_id = $2 AND verification_type = 'community'
		);
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, reportID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check community vote: %w", err)
	}
	return exists, nil
}
