//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Интеграционные тесты: go test -tags integration ./internal/repository/...
const postgisImage = "postgis/postgis:16-3.4"

// setupTestDB поднимает PostGIS в контейнере и применяет миграции
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	container, err := postgres.Run(ctx, postgisImage,
		postgres.WithDatabase("flood_watch"),
		postgres.WithUsername("flood"),
		postgres.WithPassword("flood"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Stop(ctx, nil) })

	dsn := container.MustConnectionString(ctx, "sslmode=disable")

	m, err := migrate.New("file://../../migrations", strings.Replace(dsn, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	_, _ = m.Close()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()

	platformID := uuid.NewString()
	user := &models.User{
		PhoneNumber:     "+2547" + platformID[:8],
		Platform:        models.PlatformTelegram,
		PlatformID:      platformID,
		LanguageCode:    "en",
		AlertSubscribed: true,
		AlertRadiusKM:   5,
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func createTestReport(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) *models.Report {
	t.Helper()

	report := &models.Report{
		UserID:    userID,
		Latitude:  -1.3133,
		Longitude: 36.7867,
		Address:   "Kibera, Nairobi",
		Severity:  models.SeverityHigh,
	}
	require.NoError(t, NewReportRepository(pool).Create(context.Background(), report))
	return report
}

func createTestIncident(t *testing.T, pool *pgxpool.Pool) *models.Incident {
	t.Helper()

	radius := 0.5
	incident := &models.Incident{
		Latitude:         -1.3133,
		Longitude:        36.7867,
		Address:          "Kibera, Nairobi",
		AffectedRadiusKM: &radius,
		Severity:         models.SeverityHigh,
		Status:           models.IncidentActive,
	}
	require.NoError(t, NewIncidentRepository(pool, nil, 1).Create(context.Background(), incident))
	return incident
}
