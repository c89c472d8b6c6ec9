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

func TestUserRepository_CreateKeepsPresetID(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	users := NewUserRepository(pool)
	ctx := context.Background()
	id := uuid.New()
	lat, lon := -1.3, 36.8
	user := &models.User{
		ID:              id,
		PhoneNumber:     id.String(),
		Platform:        models.PlatformWeb,
		PlatformID:      id.String(),
		LanguageCode:    "en",
		Latitude:        &lat,
		Longitude:       &lon,
		AlertSubscribed: true,
		AlertRadiusKM:   10,
	}

	// Действие
	err := users.Create(ctx, user)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	stored, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformWeb, stored.Platform)
	assert.True(t, stored.AlertSubscribed)
	assert.Equal(t, models.DefaultCredibility, stored.CredibilityScore)

	// Отчет можно сразу привязать к созданному пользователю
	report := createTestReport(t, pool, id)
	assert.Equal(t, id, report.UserID)
}

func TestUserRepository_CreateGeneratesID(t *testing.T) {
	pool := setupTestDB(t)

	user := createTestUser(t, pool)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.HasLocation())
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	users := NewUserRepository(pool)
	existing := createTestUser(t, pool)
	duplicate := &models.User{
		PhoneNumber:   existing.PhoneNumber,
		Platform:      models.PlatformWhatsApp,
		PlatformID:    "other",
		LanguageCode:  "en",
		AlertRadiusKM: 5,
	}

	// Действие
	err := users.Create(context.Background(), duplicate)

	// Проверки
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestUserRepository_AdjustCredibilityClamps(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	users := NewUserRepository(pool)
	ctx := context.Background()
	user := createTestUser(t, pool)

	testCases := []struct {
		name     string
		delta    int
		expected int
	}{
		{"raise", 10, 110},
		{"upper bound", 500, models.MaxCredibility},
		{"lower bound", -1000, models.MinCredibility},
		{"from zero", 5, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score, err := users.AdjustCredibility(ctx, user.ID, tc.delta)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, score)
		})
	}
}

func TestUserRepository_AdjustCredibilityUnknownUser(t *testing.T) {
	pool := setupTestDB(t)

	_, err := NewUserRepository(pool).AdjustCredibility(context.Background(), uuid.New(), 10)

	assert.ErrorIs(t, err, models.ErrNotFound)
}
