package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	webhook_mocks "github.com/shenikar/flood_watch/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type alertMocks struct {
	repo      *mocks.MockAlertRepository
	incidents *mocks.MockIncidentRepository
	users     *mocks.MockUserRepository
	sender    *mocks.MockMessageSender
	ops       *mocks.MockOpsNotifier
	queue     *webhook_mocks.MockAlertQueue
}

func newTestAlertService(t *testing.T) (*alertService, alertMocks) {
	ctrl := gomock.NewController(t)
	m := alertMocks{
		repo:      mocks.NewMockAlertRepository(ctrl),
		incidents: mocks.NewMockIncidentRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		sender:    mocks.NewMockMessageSender(ctrl),
		ops:       mocks.NewMockOpsNotifier(ctrl),
		queue:     webhook_mocks.NewMockAlertQueue(ctrl),
	}

	service := NewAlertService(m.repo, m.incidents, m.users, m.sender, m.ops, m.queue,
		i18n.MustLoad(), newTestLogger(), newTestConfig(), nil).(*alertService)
	service.clock = clockwork.NewFakeClockAt(testNow)
	return service, m
}

func TestGenerateFromIncident_LevelFromSeverity(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), Severity: models.SeverityCritical, Address: "Kibera", ReportCount: 4}

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, a *models.Alert) error {
			assert.Equal(t, models.AlertEmergency, a.Level)
			assert.Equal(t, models.DeliveryPending, a.DeliveryStatus)
			// радиус по умолчанию плюс буфер
			assert.Equal(t, 7.0, a.AffectedRadiusKM)
			assert.Contains(t, a.Message, "FLOOD EMERGENCY")
			assert.Contains(t, a.Message, "Kibera")
			a.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	alert, err := service.GenerateFromIncident(ctx, incident.ID, "")

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, alert.ID)
}

func TestGenerateFromIncident_InvalidLevel(t *testing.T) {
	service, _ := newTestAlertService(t)

	_, err := service.GenerateFromIncident(context.Background(), uuid.New(), "panic")

	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGenerateFromIncident_IncidentNotFound(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, incidentID).Return(nil, models.ErrNotFound).Times(1)

	// Действие
	_, err := service.GenerateFromIncident(ctx, incidentID, models.AlertWarning)

	// Проверки
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAlertMessage_Fallbacks(t *testing.T) {
	service, _ := newTestAlertService(t)
	incident := &models.Incident{ReportCount: 2}

	// В суахили нет шаблона watch - используется английский
	watch := service.message("sw", models.AlertWatch, incident)
	assert.Contains(t, watch, "FLOOD WATCH")
	assert.Contains(t, watch, "the affected area")

	// Неизвестный уровень - английский warning
	unknown := service.message("en", "unknown", incident)
	assert.Contains(t, unknown, "FLOOD WARNING")

	assert.NotEqual(t, service.message("en", models.AlertAdvisory, incident), service.message("sw", models.AlertAdvisory, incident))
}

func TestRaiseForIncident_Enqueues(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), Severity: models.SeverityMedium}
	alertID := uuid.New()

	// Ожидания
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, a *models.Alert) error {
			assert.Equal(t, models.AlertWatch, a.Level)
			a.ID = alertID
			return nil
		}).Times(1)
	m.queue.EXPECT().EnqueueAlert(ctx, alertID).Return(nil).Times(1)

	// Действие
	alert, err := service.RaiseForIncident(ctx, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, alertID, alert.ID)
}

func TestDispatch_AlreadySending(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alertID).Return(&models.Alert{ID: alertID, DeliveryStatus: models.DeliverySending}, nil).Times(1)
	m.queue.EXPECT().EnqueueAlert(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.Dispatch(ctx, alertID)

	// Проверки
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestDispatch_Success(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alertID).Return(&models.Alert{ID: alertID, DeliveryStatus: models.DeliveryFailed}, nil).Times(1)
	m.queue.EXPECT().EnqueueAlert(ctx, alertID).Return(nil).Times(1)

	// Действие
	err := service.Dispatch(ctx, alertID)

	// Проверки
	require.NoError(t, err)
}

func TestDeliverAlert_Success(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New(), Latitude: -1.3, Longitude: 36.8, Address: "Kibera", ReportCount: 3}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID, Level: models.AlertWarning,
		AffectedRadiusKM: 7, DeliveryStatus: models.DeliveryPending}
	users := []*models.User{
		{ID: uuid.New(), Platform: models.PlatformTelegram, PlatformID: "1", LanguageCode: "en"},
		{ID: uuid.New(), Platform: models.PlatformWhatsApp, PlatformID: "2", LanguageCode: "sw"},
		{ID: uuid.New(), Platform: models.PlatformTelegram, PlatformID: "3", LanguageCode: "en"},
	}

	var mu sync.Mutex
	var saved []*models.AlertRecipient

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySending).Return(nil).Times(1)
	m.users.EXPECT().FindSubscribedWithin(ctx, -1.3, 36.8, 7.0).Return(users, nil).Times(1)
	m.sender.EXPECT().Send(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, platform models.PlatformType, chatID, text string) error {
			if chatID == "3" {
				return fmt.Errorf("blocked by user")
			}
			if chatID == "1" {
				assert.True(t, strings.Contains(text, "FLOOD WARNING"))
			}
			return nil
		}).Times(3)
	m.repo.EXPECT().SaveRecipient(ctx, gomock.Any()).
		Do(func(ctx context.Context, r *models.AlertRecipient) {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, r)
		}).Return(nil).Times(3)
	m.repo.EXPECT().CompleteDelivery(ctx, alert.ID, models.DeliverySent, 3, testNow).Return(nil).Times(1)
	m.ops.EXPECT().NotifyAlert(ctx, alert, incident, gomock.Any()).Return(nil).Times(1)

	// Действие
	stats, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.ByPlatform[models.PlatformTelegram])
	assert.Equal(t, 1, stats.ByPlatform[models.PlatformWhatsApp])
	assert.Equal(t, models.DeliverySent, alert.DeliveryStatus)
	require.Len(t, saved, 3)
	delivered := 0
	for _, r := range saved {
		if r.Delivered {
			delivered++
			assert.NotNil(t, r.DeliveredAt)
		}
	}
	assert.Equal(t, 2, delivered)
}

func TestDeliverAlert_AllFailed(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New()}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID, Level: models.AlertAdvisory, AffectedRadiusKM: 5}
	users := []*models.User{{ID: uuid.New(), Platform: models.PlatformTelegram, PlatformID: "1"}}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySending).Return(nil).Times(1)
	m.users.EXPECT().FindSubscribedWithin(ctx, gomock.Any(), gomock.Any(), 5.0).Return(users, nil).Times(1)
	m.sender.EXPECT().Send(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("down")).Times(1)
	m.repo.EXPECT().SaveRecipient(ctx, gomock.Any()).Return(nil).Times(1)
	m.repo.EXPECT().CompleteDelivery(ctx, alert.ID, models.DeliveryFailed, 1, gomock.Any()).Return(nil).Times(1)
	// Сбой уведомления дежурных не влияет на результат
	m.ops.EXPECT().NotifyAlert(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("slack down")).Times(1)

	// Действие
	stats, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, models.DeliveryFailed, alert.DeliveryStatus)
}

func TestDeliverAlert_NoRecipients(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New()}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID, Level: models.AlertWarning}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySending).Return(nil).Times(1)
	m.users.EXPECT().FindSubscribedWithin(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	m.sender.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.repo.EXPECT().CompleteDelivery(ctx, alert.ID, models.DeliverySent, 0, gomock.Any()).Return(nil).Times(1)
	m.ops.EXPECT().NotifyAlert(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	// Действие
	stats, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestDeliverAlert_RecipientLookupFails(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New()}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySending).Return(nil).Times(1)
	m.users.EXPECT().FindSubscribedWithin(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("db down")).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliveryFailed).Return(nil).Times(1)

	// Действие
	_, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	assert.ErrorContains(t, err, "could not find recipients")
}

func TestDeliverAlert_CompletionFailsResetsStatus(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New()}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID, Level: models.AlertWarning}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	gomock.InOrder(
		m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySending).Return(nil),
		m.users.EXPECT().FindSubscribedWithin(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
		m.repo.EXPECT().CompleteDelivery(ctx, alert.ID, models.DeliverySent, 0, gomock.Any()).Return(fmt.Errorf("db down")),
		m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliveryFailed).Return(nil),
	)
	m.ops.EXPECT().NotifyAlert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	assert.ErrorContains(t, err, "could not complete alert delivery")
}

func TestDeliverAlert_AlreadySent(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	sentAt := testNow.Add(-time.Hour)
	alert := &models.Alert{ID: uuid.New(), DeliveryStatus: models.DeliverySent, SentAt: &sentAt}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.repo.EXPECT().ListRecipients(ctx, alert.ID).Return([]*models.AlertRecipient{
		{Delivered: true, Channel: models.PlatformTelegram},
		{Delivered: false, Channel: models.PlatformWhatsApp},
	}, nil).Times(1)
	m.sender.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	stats, err := service.DeliverAlert(ctx, alert.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Successful)
}

func TestRetryFailed(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: uuid.New()}
	alert := &models.Alert{ID: uuid.New(), IncidentID: incident.ID, Level: models.AlertWarning, DeliveryStatus: models.DeliveryFailed}
	users := []*models.User{{ID: uuid.New(), Platform: models.PlatformTelegram, PlatformID: "9"}}

	// Ожидания
	m.repo.EXPECT().GetByID(ctx, alert.ID).Return(alert, nil).Times(1)
	m.incidents.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.repo.EXPECT().ListUndelivered(ctx, alert.ID).Return(users, nil).Times(1)
	m.sender.EXPECT().Send(ctx, models.PlatformTelegram, "9", gomock.Any()).Return(nil).Times(1)
	m.repo.EXPECT().SaveRecipient(ctx, gomock.Any()).Return(nil).Times(1)
	m.repo.EXPECT().UpdateStatus(ctx, alert.ID, models.DeliverySent).Return(nil).Times(1)

	// Действие
	delivered, err := service.RetryFailed(ctx, alert.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestListForUser_UnknownUser(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	m.users.EXPECT().GetByID(ctx, userID).Return(nil, models.ErrNotFound).Times(1)

	// Действие
	_, err := service.ListForUser(ctx, userID, 0)

	// Проверки
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListForUser_DefaultLimit(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	m.users.EXPECT().GetByID(ctx, userID).Return(&models.User{ID: userID}, nil).Times(1)
	m.repo.EXPECT().ListForUser(ctx, userID, 20).Return([]*models.UserAlert{}, nil).Times(1)

	// Действие
	alerts, err := service.ListForUser(ctx, userID, 0)

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestMarkRead_NotRecipient(t *testing.T) {
	// Подготовка
	service, m := newTestAlertService(t)
	ctx := context.Background()
	alertID, userID := uuid.New(), uuid.New()

	// Ожидания
	m.repo.EXPECT().MarkRead(ctx, alertID, userID).Return(models.ErrNotFound).Times(1)

	// Действие
	err := service.MarkRead(ctx, alertID, userID)

	// Проверки
	assert.ErrorIs(t, err, models.ErrNotFound)
}
