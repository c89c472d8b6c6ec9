package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

const (
	incidentCacheTTL = 5 * time.Minute

	incidentColumns = `
			i.id,
			ST_Y(i.location::geometry) AS latitude,
			ST_X(i.location::geometry) AS longitude,
			i.address,
			i.affected_radius_km,
			i.severity,
			i.status,
			i.report_count,
			i.affected_population_estimate,
			i.created_at,
			i.updated_at,
			i.resolved_at`
)

type IncidentRepository struct {
	db              *pgxpool.Pool
	redisClient     *redis.Client
	defaultRadiusKM float64
}

// NewIncidentRepository создает репозиторий инцидентов. defaultRadiusKM используется
// для проверки попадания точки в инцидент без заданного радиуса.
func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, defaultRadiusKM float64) service.IncidentRepository {
	return &IncidentRepository{
		db:              db,
		redisClient:     redisClient,
		defaultRadiusKM: defaultRadiusKM,
	}
}

func scanIncident(row rowScanner) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Address,
		&incident.AffectedRadiusKM,
		&incident.Severity,
		&incident.Status,
		&incident.ReportCount,
		&incident.AffectedPopulationEstimate,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (location, address, affected_radius_km, severity, status, affected_population_estimate)
		VALUES (ST_SetSRID(ST_MakePoint($1, $2), 4326), $3, $4, $5, $6, $7)
		RETURNING id, report_count, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Longitude,
		incident.Latitude,
		incident.Address,
		incident.AffectedRadiusKM,
		incident.Severity,
		incident.Status,
		incident.AffectedPopulationEstimate,
	).Scan(&incident.ID, &incident.ReportCount, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to create incident")
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents i WHERE i.id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("incident", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			location = ST_SetSRID(ST_MakePoint($1, $2), 4326),
			address = $3,
			affected_radius_km = $4,
			severity = $5,
			status = $6,
			affected_population_estimate = $7,
			resolved_at = CASE WHEN $6 = 'resolved' THEN COALESCE(resolved_at, NOW()) ELSE NULL END,
			updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at, resolved_at;
		`
	err := r.db.QueryRow(ctx, query,
		incident.Longitude,
		incident.Latitude,
		incident.Address,
		incident.AffectedRadiusKM,
		incident.Severity,
		incident.Status,
		incident.AffectedPopulationEstimate,
		incident.ID,
	).Scan(&incident.UpdatedAt, &incident.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s not found for update: %w", incident.ID, models.ErrNotFound)
		}
		return mapError(err, "failed to update incident")
	}
	return nil
}

// UpdateStatus меняет статус; при закрытии проставляется resolved_at
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error) {
	query := `
		UPDATE incidents i SET
			status = $1,
			resolved_at = CASE WHEN $1 = 'resolved' THEN COALESCE(i.resolved_at, NOW()) ELSE NULL END,
			updated_at = NOW()
		WHERE i.id = $2
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("incident", id)
		}
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		WHERE ($1 = '' OR i.status = $1)
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, filter.Status, filter.Limit, filter.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return collect(rows, scanIncident)
}

// ListInBounds инциденты на карте в пределах прямоугольника, без закрытых
func (r *IncidentRepository) ListInBounds(ctx context.Context, bounds models.Bounds) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		WHERE
			i.status IN ('active', 'monitoring')
			AND i.location::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY i.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, bounds.West, bounds.South, bounds.East, bounds.North)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents in bounds: %w", err)
	}
	return collect(rows, scanIncident)
}

// FindActiveLocation находит активные инциденты, в радиус которых попадает точка
func (r *IncidentRepository) FindActiveLocation(ctx context.Context, lat, lon float64) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		WHERE
			i.status = 'active'
			AND ST_DWithin(
				i.location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				COALESCE(i.affected_radius_km, $3) * 1000
			);
		`
	rows, err := r.db.Query(ctx, query, lon, lat, r.defaultRadiusKM)
	if err != nil {
		return nil, fmt.Errorf("failed to find active incidents by location: %w", err)
	}
	return collect(rows, scanIncident)
}

// FindActiveByReports возвращает активный инцидент, к которому привязан любой из отчетов.
// nil без ошибки, если такого нет.
func (r *IncidentRepository) FindActiveByReports(ctx context.Context, reportIDs []uuid.UUID) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		JOIN incident_reports ir ON ir.incident_id = i.id
		WHERE ir.report_id = ANY($1) AND i.status = 'active'
		ORDER BY i.created_at DESC
		LIMIT 1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, reportIDs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find incident by reports: %w", err)
	}
	return incident, nil
}

// LinkReports привязывает отчеты к инциденту и пересчитывает report_count.
// Повторная привязка того же отчета не меняет счетчик.
func (r *IncidentRepository) LinkReports(ctx context.Context, incidentID uuid.UUID, reportIDs []uuid.UUID) (int, error) {
	var count int
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO incident_reports (incident_id, report_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT DO NOTHING;
		`, incidentID, reportIDs)
		if err != nil {
			return mapError(err, "failed to link reports")
		}

		err = tx.QueryRow(ctx, `
			UPDATE incidents SET
				report_count = (SELECT COUNT(*) FROM incident_reports WHERE incident_id = $1),
				updated_at = NOW()
			WHERE id = $1
			RETURNING report_count;
		`, incidentID).Scan(&count)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFound("incident", incidentID)
			}
			return fmt.Errorf("failed to update report count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListReports отчеты, входящие в инцидент
func (r *IncidentRepository) ListReports(ctx context.Context, incidentID uuid.UUID) ([]*models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN incident_reports ir ON ir.report_id = r.id
		WHERE ir.incident_id = $1
		ORDER BY r.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident reports: %w", err)
	}
	return collect(rows, scanReport)
}

// GetLocationCheckStats возвращает количество уникальных пользователей, проверивших геолокацию
func (r *IncidentRepository) GetLocationCheckStats(ctx context.Context, minutes int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM location_checks
		WHERE checked_at >= NOW() - ($1 * INTERVAL '1 minute');
	`
	var count int
	err := r.db.QueryRow(ctx, query, minutes).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get location check stats: %w", err)
	}
	return count, nil
}

// SaveLocationCheck сохраняет запись о проверке местоположения в бд
func (r *IncidentRepository) SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error {
	ids := check.IncidentIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	query := `
		INSERT INTO location_checks (user_id, location, is_dangerous, incident_ids)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4, $5) RETURNING id, checked_at;
	`
	err := r.db.QueryRow(ctx, query,
		check.UserID,
		check.Longitude,
		check.Latitude,
		check.IsDangerous,
		ids,
	).Scan(&check.ID, &check.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to save location check: %w", err)
	}
	return nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
