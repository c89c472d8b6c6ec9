//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAlert(t *testing.T, alerts *AlertRepository, incidentID uuid.UUID) *models.Alert {
	t.Helper()

	alert := &models.Alert{
		IncidentID:       incidentID,
		Level:            models.AlertWarning,
		Message:          "Flooding reported in Kibera",
		AffectedRadiusKM: 1,
	}
	require.NoError(t, alerts.Create(context.Background(), alert))
	return alert
}

func TestAlertRepository_MarkReadKeepsFirstReadTime(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	alerts := &AlertRepository{db: pool}
	ctx := context.Background()
	user := createTestUser(t, pool)
	alert := createTestAlert(t, alerts, createTestIncident(t, pool).ID)
	deliveredAt := time.Now().UTC()
	require.NoError(t, alerts.SaveRecipient(ctx, &models.AlertRecipient{
		AlertID:     alert.ID,
		UserID:      user.ID,
		Delivered:   true,
		DeliveredAt: &deliveredAt,
		Channel:     models.PlatformTelegram,
	}))

	// Действие
	require.NoError(t, alerts.MarkRead(ctx, alert.ID, user.ID))
	first, err := alerts.ListRecipients(ctx, alert.ID)
	require.NoError(t, err)
	require.NoError(t, alerts.MarkRead(ctx, alert.ID, user.ID))
	second, err := alerts.ListRecipients(ctx, alert.ID)
	require.NoError(t, err)

	// Проверки
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, second[0].Read)
	require.NotNil(t, first[0].ReadAt)
	require.NotNil(t, second[0].ReadAt)
	assert.True(t, first[0].ReadAt.Equal(*second[0].ReadAt))
}

func TestAlertRepository_MarkReadNotRecipient(t *testing.T) {
	pool := setupTestDB(t)
	alerts := &AlertRepository{db: pool}
	alert := createTestAlert(t, alerts, createTestIncident(t, pool).ID)

	err := alerts.MarkRead(context.Background(), alert.ID, uuid.New())

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAlertRepository_SaveRecipientKeepsSuccess(t *testing.T) {
	// Подготовка
	pool := setupTestDB(t)
	alerts := &AlertRepository{db: pool}
	ctx := context.Background()
	user := createTestUser(t, pool)
	alert := createTestAlert(t, alerts, createTestIncident(t, pool).ID)
	deliveredAt := time.Now().UTC()

	// Действие
	require.NoError(t, alerts.SaveRecipient(ctx, &models.AlertRecipient{AlertID: alert.ID, UserID: user.ID, Channel: models.PlatformTelegram}))
	undelivered, err := alerts.ListUndelivered(ctx, alert.ID)
	require.NoError(t, err)
	require.NoError(t, alerts.SaveRecipient(ctx, &models.AlertRecipient{
		AlertID: alert.ID, UserID: user.ID, Delivered: true, DeliveredAt: &deliveredAt, Channel: models.PlatformTelegram,
	}))
	// Поздняя неудачная попытка не затирает успешную доставку
	require.NoError(t, alerts.SaveRecipient(ctx, &models.AlertRecipient{AlertID: alert.ID, UserID: user.ID, Channel: models.PlatformTelegram}))

	// Проверки
	require.Len(t, undelivered, 1)
	assert.Equal(t, user.ID, undelivered[0].ID)

	recipients, err := alerts.ListRecipients(ctx, alert.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.True(t, recipients[0].Delivered)
	assert.NotNil(t, recipients[0].DeliveredAt)

	undelivered, err = alerts.ListUndelivered(ctx, alert.ID)
	require.NoError(t, err)
	assert.Empty(t, undelivered)
}

func TestAlertRepository_CompleteDelivery(t *testing.T) {
	pool := setupTestDB(t)
	alerts := &AlertRepository{db: pool}
	ctx := context.Background()
	alert := createTestAlert(t, alerts, createTestIncident(t, pool).ID)
	sentAt := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, alerts.UpdateStatus(ctx, alert.ID, models.DeliverySending))
	require.NoError(t, alerts.CompleteDelivery(ctx, alert.ID, models.DeliverySent, 3, sentAt))

	stored, err := alerts.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliverySent, stored.DeliveryStatus)
	assert.Equal(t, 3, stored.RecipientsCount)
	require.NotNil(t, stored.SentAt)
	assert.True(t, sentAt.Equal(*stored.SentAt))
}
