package service

//go:generate mockgen -source=alert.go -destination=mocks/alert_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/webhook"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// сколько сообщений рассылки отправляется одновременно
const deliveryConcurrency = 8

// AlertRepository определяет контракт для работы с бд оповещений
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Alert, error)
	ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Alert, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserAlert, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AlertDeliveryStatus) error
	CompleteDelivery(ctx context.Context, id uuid.UUID, status models.AlertDeliveryStatus, recipients int, sentAt time.Time) error
	SaveRecipient(ctx context.Context, recipient *models.AlertRecipient) error
	ListRecipients(ctx context.Context, alertID uuid.UUID) ([]*models.AlertRecipient, error)
	ListUndelivered(ctx context.Context, alertID uuid.UUID) ([]*models.User, error)
	MarkRead(ctx context.Context, alertID, userID uuid.UUID) error
}

// OpsNotifier сводка рассылки для дежурной смены
type OpsNotifier interface {
	NotifyAlert(ctx context.Context, alert *models.Alert, incident *models.Incident, stats models.DeliveryStats) error
}

// AlertService формирование и доставка оповещений жителям
type AlertService interface {
	GenerateFromIncident(ctx context.Context, incidentID uuid.UUID, level models.AlertLevel) (*models.Alert, error)
	Dispatch(ctx context.Context, alertID uuid.UUID) error
	RaiseForIncident(ctx context.Context, incidentID uuid.UUID) (*models.Alert, error)
	DeliverAlert(ctx context.Context, alertID uuid.UUID) (*models.DeliveryStats, error)
	RetryFailed(ctx context.Context, alertID uuid.UUID) (int, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Alert, error)
	ListForIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Alert, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserAlert, error)
	MarkRead(ctx context.Context, alertID, userID uuid.UUID) error
	ListRecipients(ctx context.Context, alertID uuid.UUID) ([]*models.AlertRecipient, error)
}

type alertService struct {
	repo      AlertRepository
	incidents IncidentRepository
	users     UserRepository
	sender    MessageSender
	ops       OpsNotifier
	queue     webhook.AlertQueue
	catalog   *i18n.Catalog
	logger    *logrus.Logger
	cfg       *config.Config
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

func NewAlertService(
	repo AlertRepository,
	incidents IncidentRepository,
	users UserRepository,
	sender MessageSender,
	ops OpsNotifier,
	queue webhook.AlertQueue,
	catalog *i18n.Catalog,
	logger *logrus.Logger,
	cfg *config.Config,
	m *metrics.Metrics,
) AlertService {
	return &alertService{
		repo:      repo,
		incidents: incidents,
		users:     users,
		sender:    sender,
		ops:       ops,
		queue:     queue,
		catalog:   catalog,
		logger:    logger,
		cfg:       cfg,
		metrics:   m,
		clock:     clockwork.NewRealClock(),
	}
}

// GenerateFromIncident создает оповещение по инциденту. Пустой level выводится из серьезности.
func (s *alertService) GenerateFromIncident(ctx context.Context, incidentID uuid.UUID, level models.AlertLevel) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "alert",
		"method":      "GenerateFromIncident",
		"incident_id": incidentID,
	})
	log.Info("Generating alert from incident")

	if level != "" && !level.Valid() {
		return nil, fmt.Errorf("service: invalid alert level %q: %w", level, models.ErrInvalidInput)
	}

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Incident not found")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if level == "" {
		level = models.AlertLevelForSeverity(incident.Severity)
	}

	alert := &models.Alert{
		IncidentID:       incident.ID,
		Level:            level,
		Message:          s.message(i18n.DefaultLanguage, level, incident),
		AffectedRadiusKM: incident.RadiusOr(s.cfg.DefaultAlertRadiusKM) + s.cfg.AlertRadiusBufferKM,
		DeliveryStatus:   models.DeliveryPending,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create alert in repository")
		return nil, fmt.Errorf("service: could not create alert: %w", err)
	}

	log.WithFields(logrus.Fields{"alert_id": alert.ID, "level": level}).Info("Alert generated")
	return alert, nil
}

// message текст оповещения на языке получателя; при отсутствии шаблона берется английский warning
func (s *alertService) message(lang string, level models.AlertLevel, incident *models.Incident) string {
	key := "alert.level." + string(level)
	if !s.catalog.Has(lang, key) {
		lang = i18n.DefaultLanguage
		if !s.catalog.Has(lang, key) {
			key = "alert.level." + string(models.AlertWarning)
		}
	}
	location := incident.Address
	if location == "" {
		location = s.catalog.T(lang, "alert.unknown_location")
	}
	return s.catalog.T(lang, key, "location", location, "report_count", incident.ReportCount)
}

// Dispatch ставит оповещение в очередь рассылки
func (s *alertService) Dispatch(ctx context.Context, alertID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "Dispatch",
		"alert_id": alertID,
	})

	alert, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		log.WithError(err).Warn("Alert not found")
		return fmt.Errorf("service: could not get alert: %w", err)
	}
	if alert.DeliveryStatus == models.DeliverySending {
		return fmt.Errorf("service: alert delivery already in progress: %w", models.ErrConflict)
	}

	if err := s.queue.EnqueueAlert(ctx, alertID); err != nil {
		log.WithError(err).Error("Failed to enqueue alert")
		return fmt.Errorf("service: could not enqueue alert: %w", err)
	}
	log.Info("Alert queued for delivery")
	return nil
}

// RaiseForIncident создает оповещение и сразу ставит его в очередь
func (s *alertService) RaiseForIncident(ctx context.Context, incidentID uuid.UUID) (*models.Alert, error) {
	alert, err := s.GenerateFromIncident(ctx, incidentID, "")
	if err != nil {
		return nil, err
	}
	if err := s.queue.EnqueueAlert(ctx, alert.ID); err != nil {
		s.logger.WithField("alert_id", alert.ID).WithError(err).Error("Failed to enqueue alert")
		return nil, fmt.Errorf("service: could not enqueue alert: %w", err)
	}
	return alert, nil
}

// DeliverAlert рассылает оповещение подписчикам в радиусе инцидента
func (s *alertService) DeliverAlert(ctx context.Context, alertID uuid.UUID) (*models.DeliveryStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "DeliverAlert",
		"alert_id": alertID,
	})
	log.Info("Delivering alert")

	alert, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		log.WithError(err).Warn("Alert not found")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	if alert.DeliveryStatus == models.DeliverySent {
		log.Info("Alert already sent, skipping")
		return s.statsFromRecipients(ctx, alertID)
	}

	incident, err := s.incidents.GetByID(ctx, alert.IncidentID)
	if err != nil {
		log.WithError(err).Error("Incident for alert not found")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, alertID, models.DeliverySending); err != nil {
		log.WithError(err).Error("Failed to mark alert as sending")
		return nil, fmt.Errorf("service: could not update alert status: %w", err)
	}

	users, err := s.users.FindSubscribedWithin(ctx, incident.Latitude, incident.Longitude, alert.AffectedRadiusKM)
	if err != nil {
		log.WithError(err).Error("Failed to find recipients")
		if uerr := s.repo.UpdateStatus(ctx, alertID, models.DeliveryFailed); uerr != nil {
			log.WithError(uerr).Error("Failed to mark alert as failed")
		}
		return nil, fmt.Errorf("service: could not find recipients: %w", err)
	}

	stats := s.sendAll(ctx, log, alert, incident, users)

	status := models.DeliveryFailed
	if stats.Successful > 0 || stats.Total == 0 {
		status = models.DeliverySent
	}
	sentAt := s.clock.Now()
	if err := s.repo.CompleteDelivery(ctx, alertID, status, stats.Total, sentAt); err != nil {
		log.WithError(err).Error("Failed to complete alert delivery")
		// оповещение не должно остаться в sending
		if uerr := s.repo.UpdateStatus(ctx, alertID, models.DeliveryFailed); uerr != nil {
			log.WithError(uerr).Error("Failed to mark alert as failed")
		}
		return nil, fmt.Errorf("service: could not complete alert delivery: %w", err)
	}
	alert.DeliveryStatus = status
	alert.RecipientsCount = stats.Total
	alert.SentAt = &sentAt

	if s.ops != nil {
		if err := s.ops.NotifyAlert(ctx, alert, incident, *stats); err != nil {
			log.WithError(err).Warn("Failed to notify operations channel")
		}
	}

	log.WithFields(logrus.Fields{
		"status":     status,
		"recipients": stats.Total,
		"successful": stats.Successful,
	}).Info("Alert delivery completed")
	return stats, nil
}

// sendAll отправляет сообщение каждому получателю и фиксирует результат
func (s *alertService) sendAll(ctx context.Context, log *logrus.Entry, alert *models.Alert, incident *models.Incident, users []*models.User) *models.DeliveryStats {
	stats := &models.DeliveryStats{
		Total:      len(users),
		ByPlatform: make(map[models.PlatformType]int),
	}

	var mu sync.Mutex
	texts := make(map[string]string)
	textFor := func(lang string) string {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := texts[lang]; ok {
			return t
		}
		t := s.message(lang, alert.Level, incident)
		texts[lang] = t
		return t
	}

	g := new(errgroup.Group)
	g.SetLimit(deliveryConcurrency)
	for _, u := range users {
		g.Go(func() error {
			ok := s.sendOne(ctx, log, alert.ID, u, textFor(u.LanguageCode))
			mu.Lock()
			defer mu.Unlock()
			if ok {
				stats.Successful++
				stats.ByPlatform[u.Platform]++
			} else {
				stats.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()
	return stats
}

func (s *alertService) sendOne(ctx context.Context, log *logrus.Entry, alertID uuid.UUID, u *models.User, text string) bool {
	err := s.sender.Send(ctx, u.Platform, u.PlatformID, text)
	delivered := err == nil
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
		log.WithError(err).WithField("user_id", u.ID).Warn("Failed to deliver alert to user")
	}
	if s.metrics != nil {
		s.metrics.AlertDeliveries.WithLabelValues(string(u.Platform), outcome).Inc()
	}

	rec := &models.AlertRecipient{
		AlertID:   alertID,
		UserID:    u.ID,
		Delivered: delivered,
		Channel:   u.Platform,
	}
	if delivered {
		now := s.clock.Now()
		rec.DeliveredAt = &now
	}
	if err := s.repo.SaveRecipient(ctx, rec); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("Failed to save alert recipient")
	}
	return delivered
}

func (s *alertService) statsFromRecipients(ctx context.Context, alertID uuid.UUID) (*models.DeliveryStats, error) {
	recipients, err := s.repo.ListRecipients(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list recipients: %w", err)
	}
	stats := &models.DeliveryStats{Total: len(recipients), ByPlatform: make(map[models.PlatformType]int)}
	for _, r := range recipients {
		if r.Delivered {
			stats.Successful++
			stats.ByPlatform[r.Channel]++
		} else {
			stats.Failed++
		}
	}
	return stats, nil
}

// RetryFailed повторно отправляет оповещение тем, кому доставка не удалась
func (s *alertService) RetryFailed(ctx context.Context, alertID uuid.UUID) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "RetryFailed",
		"alert_id": alertID,
	})
	log.Info("Retrying failed deliveries")

	alert, err := s.repo.GetByID(ctx, alertID)
	if err != nil {
		log.WithError(err).Warn("Alert not found")
		return 0, fmt.Errorf("service: could not get alert: %w", err)
	}
	incident, err := s.incidents.GetByID(ctx, alert.IncidentID)
	if err != nil {
		return 0, fmt.Errorf("service: could not get incident: %w", err)
	}

	users, err := s.repo.ListUndelivered(ctx, alertID)
	if err != nil {
		log.WithError(err).Error("Failed to list undelivered recipients")
		return 0, fmt.Errorf("service: could not list undelivered recipients: %w", err)
	}

	stats := s.sendAll(ctx, log, alert, incident, users)
	if stats.Successful > 0 && alert.DeliveryStatus == models.DeliveryFailed {
		if err := s.repo.UpdateStatus(ctx, alertID, models.DeliverySent); err != nil {
			log.WithError(err).Error("Failed to update alert status after retry")
		}
	}

	log.WithField("delivered", stats.Successful).Info("Retry completed")
	return stats.Successful, nil
}

func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	return alert, nil
}

func (s *alertService) ListRecent(ctx context.Context, limit int) ([]*models.Alert, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	alerts, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "alert",
			"method":  "ListRecent",
		}).WithError(err).Error("Failed to list alerts")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}
	return alerts, nil
}

func (s *alertService) ListForIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Alert, error) {
	alerts, err := s.repo.ListByIncident(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list incident alerts: %w", err)
	}
	return alerts, nil
}

func (s *alertService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserAlert, error) {
	if limit < 1 || limit > 200 {
		limit = 20
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	alerts, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: could not list user alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead отмечает оповещение прочитанным; повторный вызов ничего не меняет
func (s *alertService) MarkRead(ctx context.Context, alertID, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, alertID, userID); err != nil {
		log := s.logger.WithFields(logrus.Fields{
			"service":  "alert",
			"method":   "MarkRead",
			"alert_id": alertID,
			"user_id":  userID,
		})
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Alert was not sent to this user")
		} else {
			log.WithError(err).Error("Failed to mark alert as read")
		}
		return fmt.Errorf("service: could not mark alert as read: %w", err)
	}
	return nil
}

func (s *alertService) ListRecipients(ctx context.Context, alertID uuid.UUID) ([]*models.AlertRecipient, error) {
	if _, err := s.repo.GetByID(ctx, alertID); err != nil {
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	recipients, err := s.repo.ListRecipients(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list recipients: %w", err)
	}
	return recipients, nil
}
