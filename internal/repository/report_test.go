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

func TestReportRepository_CreateDefaults(t *testing.T) {
	pool := setupTestDB(t)
	user := createTestUser(t, pool)

	report := createTestReport(t, pool, user.ID)

	stored, err := NewReportRepository(pool).GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, stored.VerificationStatus)
	assert.InDelta(t, -1.3133, stored.Latitude, 1e-6)
	assert.InDelta(t, 36.7867, stored.Longitude, 1e-6)
	assert.Empty(t, stored.ImageURLs)
	assert.Nil(t, stored.VerifiedAt)
}

func TestReportRepository_CreateUnknownUser(t *testing.T) {
	pool := setupTestDB(t)

	err := NewReportRepository(pool).Create(context.Background(), &models.Report{
		UserID:   uuid.New(),
		Severity: models.SeverityLow,
	})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportRepository_SetVerificationStampsVerifiedAt(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	reports := NewReportRepository(pool)
	ctx := context.Background()
	report := createTestReport(t, pool, createTestUser(t, pool).ID)
	confidence := 0.3

	// Действие и проверки
	flagged, err := reports.SetVerification(ctx, report.ID, models.VerificationFlagged, &confidence)
	require.NoError(t, err)
	assert.Nil(t, flagged.VerifiedAt)
	require.NotNil(t, flagged.AIConfidenceScore)
	assert.InDelta(t, 0.3, *flagged.AIConfidenceScore, 1e-9)

	verified, err := reports.SetVerification(ctx, report.ID, models.VerificationVerified, nil)
	require.NoError(t, err)
	require.NotNil(t, verified.VerifiedAt)
	// confidence == nil сохраняет прежнюю оценку
	require.NotNil(t, verified.AIConfidenceScore)
	assert.InDelta(t, 0.3, *verified.AIConfidenceScore, 1e-9)

	again, err := reports.SetVerification(ctx, report.ID, models.VerificationVerified, nil)
	require.NoError(t, err)
	require.NotNil(t, again.VerifiedAt)
	assert.True(t, verified.VerifiedAt.Equal(*again.VerifiedAt))
}

func TestReportRepository_SetVerificationNotFound(t *testing.T) {
	pool := setupTestDB(t)

	_, err := NewReportRepository(pool).SetVerification(context.Background(), uuid.New(), models.VerificationVerified, nil)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportRepository_IncrementCommunityVerifications(t *testing.T) {
	pool := setupTestDB(t)
	reports := NewReportRepository(pool)
	ctx := context.Background()
	report := createTestReport(t, pool, createTestUser(t, pool).ID)

	first, err := reports.IncrementCommunityVerifications(ctx, report.ID)
	require.NoError(t, err)
	second, err := reports.IncrementCommunityVerifications(ctx, report.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
