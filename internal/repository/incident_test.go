//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentRepository_LinkReportsCountsDistinct(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	incidents := NewIncidentRepository(pool, nil, 1)
	ctx := context.Background()
	user := createTestUser(t, pool)
	first := createTestReport(t, pool, user.ID)
	second := createTestReport(t, pool, user.ID)
	incident := createTestIncident(t, pool)

	// Действие и проверки
	count, err := incidents.LinkReports(ctx, incident.ID, []uuid.UUID{first.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = incidents.LinkReports(ctx, incident.ID, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Повторная привязка не меняет счетчик
	count, err = incidents.LinkReports(ctx, incident.ID, []uuid.UUID{first.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := incidents.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ReportCount)

	linked, err := incidents.ListReports(ctx, incident.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 2)
}

func TestIncidentRepository_LinkReportsUnknownIncident(t *testing.T) {
	pool := setupTestDB(t)
	report := createTestReport(t, pool, createTestUser(t, pool).ID)

	_, err := NewIncidentRepository(pool, nil, 1).LinkReports(context.Background(), uuid.New(), []uuid.UUID{report.ID})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIncidentRepository_FindActiveByReports(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	incidents := NewIncidentRepository(pool, nil, 1)
	ctx := context.Background()
	report := createTestReport(t, pool, createTestUser(t, pool).ID)
	incident := createTestIncident(t, pool)
	_, err := incidents.LinkReports(ctx, incident.ID, []uuid.UUID{report.ID})
	require.NoError(t, err)

	// Действие и проверки
	found, err := incidents.FindActiveByReports(ctx, []uuid.UUID{uuid.New(), report.ID})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, incident.ID, found.ID)

	resolved, err := incidents.UpdateStatus(ctx, incident.ID, models.IncidentResolved)
	require.NoError(t, err)
	assert.NotNil(t, resolved.ResolvedAt)

	// Закрытый инцидент больше не принимает отчеты
	found, err = incidents.FindActiveByReports(ctx, []uuid.UUID{report.ID})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestIncidentRepository_FindActiveLocation(t *testing.T) {
	pool := setupTestDB(t)
	incidents := NewIncidentRepository(pool, nil, 1)
	ctx := context.Background()
	incident := createTestIncident(t, pool)

	inside, err := incidents.FindActiveLocation(ctx, -1.3140, 36.7870)
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, incident.ID, inside[0].ID)
	require.NotNil(t, inside[0].AffectedRadiusKM)
	assert.Equal(t, 0.5, *inside[0].AffectedRadiusKM)

	outside, err := incidents.FindActiveLocation(ctx, -1.2864, 36.8172)
	require.NoError(t, err)
	assert.Empty(t, outside)
}
