package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

const userColumns = `
			u.id,
			u.phone_number,
			u.platform,
			u.platform_id,
			u.language_code,
			ST_Y(u.location::geometry) AS latitude,
			ST_X(u.location::geometry) AS longitude,
			u.alert_subscribed,
			u.alert_radius_km,
			u.credibility_score,
			u.created_at,
			u.last_active`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Platform,
		&user.PlatformID,
		&user.LanguageCode,
		&user.Latitude,
		&user.Longitude,
		&user.AlertSubscribed,
		&user.AlertRadiusKM,
		&user.CredibilityScore,
		&user.CreatedAt,
		&user.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create регистрирует жителя. Координаты необязательны, заданный ID сохраняется.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CredibilityScore == 0 {
		user.CredibilityScore = models.DefaultCredibility
	}
	query := `
		INSERT INTO users (
			id, phone_number, platform, platform_id, language_code, location,
			alert_subscribed, alert_radius_km, credibility_score
		)
		VALUES (
			COALESCE($10::uuid, gen_random_uuid()), $1, $2, $3, $4,
			CASE WHEN $5::double precision IS NULL OR $6::double precision IS NULL THEN NULL
				ELSE ST_SetSRID(ST_MakePoint($6, $5), 4326)::geography END,
			$7, $8, $9
		)
		RETURNING id, created_at, last_active;
	`
	presetID := uuid.NullUUID{UUID: user.ID, Valid: user.ID != uuid.Nil}
	err := r.db.QueryRow(ctx, query,
		user.PhoneNumber,
		user.Platform,
		user.PlatformID,
		user.LanguageCode,
		user.Latitude,
		user.Longitude,
		user.AlertSubscribed,
		user.AlertRadiusKM,
		user.CredibilityScore,
		presetID,
	).Scan(&user.ID, &user.CreatedAt, &user.LastActive)
	if err != nil {
		return mapError(err, "failed to create user")
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1;`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByPlatformID(ctx context.Context, platform models.PlatformType, platformID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.platform = $1 AND u.platform_id = $2;`
	user, err := scanUser(r.db.QueryRow(ctx, query, platform, platformID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s/%s not found: %w", platform, platformID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by platform id: %w", err)
	}
	return user, nil
}

// List пользователи с пагинацией, пустая платформа означает все
func (r *UserRepository) List(ctx context.Context, platform models.PlatformType, skip, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE ($1 = '' OR u.platform = $1)
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, platform, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collect(rows, scanUser)
}

// Update частичное обновление профиля. Местоположение меняется только при заданных обеих координатах.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	query := `
		UPDATE users u SET
			language_code = COALESCE($1, u.language_code),
			location = CASE
				WHEN $2::double precision IS NOT NULL AND $3::double precision IS NOT NULL
					THEN ST_SetSRID(ST_MakePoint($3, $2), 4326)::geography
				ELSE u.location
			END,
			alert_subscribed = COALESCE($4, u.alert_subscribed),
			alert_radius_km = COALESCE($5, u.alert_radius_km),
			last_active = NOW()
		WHERE u.id = $6
		RETURNING ` + userColumns + `;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query,
		update.LanguageCode,
		update.Latitude,
		update.Longitude,
		update.AlertSubscribed,
		update.AlertRadiusKM,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("user", id)
		}
		return nil, mapError(err, "failed to update user")
	}
	return user, nil
}

// AdjustCredibility меняет рейтинг доверия в пределах допустимого диапазона
func (r *UserRepository) AdjustCredibility(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE users SET credibility_score = LEAST(GREATEST(credibility_score + $1, $2), $3)
		WHERE id = $4
		RETURNING credibility_score;
	`
	var score int
	err := r.db.QueryRow(ctx, query, delta, models.MinCredibility, models.MaxCredibility, id).Scan(&score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("user", id)
		}
		return 0, fmt.Errorf("failed to adjust credibility: %w", err)
	}
	return score, nil
}

// Touch обновляет время последней активности
func (r *UserRepository) Touch(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_active = NOW() WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("user", id)
	}
	return nil
}

// FindSubscribedWithin подписанные на оповещения жители с известным местоположением в радиусе
func (r *UserRepository) FindSubscribedWithin(ctx context.Context, lat, lon, radiusKM float64) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE
			u.alert_subscribed
			AND u.location IS NOT NULL
			AND ST_DWithin(u.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3 * 1000);
	`
	rows, err := r.db.Query(ctx, query, lon, lat, radiusKM)
	if err != nil {
		return nil, fmt.Errorf("failed to find subscribed users: %w", err)
	}
	return collect(rows, scanUser)
}

// FindNearby ближайшие к точке жители, самые надежные первыми
func (r *UserRepository) FindNearby(ctx context.Context, lat, lon, radiusKM float64, excludeID uuid.UUID, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE
			u.id <> $1
			AND u.location IS NOT NULL
			AND u.platform <> 'web'
			AND ST_DWithin(u.location, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4 * 1000)
		ORDER BY u.credibility_score DESC, u.last_active DESC
		LIMIT $5;
	`
	rows, err := r.db.Query(ctx, query, excludeID, lon, lat, radiusKM, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby users: %w", err)
	}
	return collect(rows, scanUser)
}
