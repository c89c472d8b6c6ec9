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

const adminColumns = `id, username, email, password_hash, email_verified, role, organization_id, created_at, last_login`

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) service.AdminRepository {
	return &AdminRepository{db: db}
}

func scanAdmin(row rowScanner) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.EmailVerified,
		&admin.Role,
		&admin.OrganizationID,
		&admin.CreatedAt,
		&admin.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (username, email, password_hash, email_verified, role, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.EmailVerified,
		admin.Role,
		admin.OrganizationID,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create admin user")
	}
	return nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	admin, err := scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("admin user", id)
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return admin, nil
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	admin, err := scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE username = $1;`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("admin user %q not found: %w", username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin user by username: %w", err)
	}
	return admin, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]*models.AdminUser, error) {
	rows, err := r.db.Query(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	return collect(rows, scanAdmin)
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE admin_users SET last_login = $1 WHERE id = $2;`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("admin user", id)
	}
	return nil
}

func (r *AdminRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE admin_users SET email_verified = TRUE WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("admin user", id)
	}
	return nil
}

func (r *AdminRepository) CreateVerificationCode(ctx context.Context, code *models.EmailVerificationCode) error {
	query := `
		INSERT INTO email_verification_codes (admin_user_id, code_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, code.AdminUserID, code.CodeHash, code.CreatedAt, code.ExpiresAt).Scan(&code.ID)
	if err != nil {
		return mapError(err, "failed to create verification code")
	}
	return nil
}

// LatestActiveCode последний непросроченный и неиспользованный код
func (r *AdminRepository) LatestActiveCode(ctx context.Context, adminID uuid.UUID, now time.Time) (*models.EmailVerificationCode, error) {
	query := `
		SELECT id, admin_user_id, code_hash, created_at, expires_at, attempts, verified, verified_at
		FROM email_verification_codes
		WHERE admin_user_id = $1 AND NOT verified AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	code := &models.EmailVerificationCode{}
	err := r.db.QueryRow(ctx, query, adminID, now).Scan(
		&code.ID,
		&code.AdminUserID,
		&code.CodeHash,
		&code.CreatedAt,
		&code.ExpiresAt,
		&code.Attempts,
		&code.Verified,
		&code.VerifiedAt,
	)
	if err != nil {
		return nil, mapError(err, "failed to get active verification code")
	}
	return code, nil
}

func (r *AdminRepository) IncrementCodeAttempts(ctx context.Context, codeID uuid.UUID) (int, error) {
	var attempts int
	err := r.db.QueryRow(ctx,
		`UPDATE email_verification_codes SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts;`,
		codeID,
	).Scan(&attempts)
	if err != nil {
		return 0, mapError(err, "failed to increment code attempts")
	}
	return attempts, nil
}

func (r *AdminRepository) MarkCodeVerified(ctx context.Context, codeID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE email_verification_codes SET verified = TRUE, verified_at = $1 WHERE id = $2;`,
		at, codeID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark code verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("verification code", codeID)
	}
	return nil
}

// DeleteExpiredCodes удаляет просроченные неиспользованные коды
func (r *AdminRepository) DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM email_verification_codes WHERE expires_at < $1 AND NOT verified;`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
