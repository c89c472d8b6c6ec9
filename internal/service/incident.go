package service

//go:generate mockgen -source=incident.go -destination=mocks/incident_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/geo"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/webhook"
	"github.com/sirupsen/logrus"
)

// окно, в котором отчеты считаются относящимися к одному событию
const clusterWindow = 24 * time.Hour

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	ListInBounds(ctx context.Context, bounds models.Bounds) ([]*models.Incident, error)
	FindActiveLocation(ctx context.Context, lat, lon float64) ([]*models.Incident, error)
	FindActiveByReports(ctx context.Context, reportIDs []uuid.UUID) (*models.Incident, error)
	LinkReports(ctx context.Context, incidentID uuid.UUID, reportIDs []uuid.UUID) (int, error)
	ListReports(ctx context.Context, incidentID uuid.UUID) ([]*models.Report, error)
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
	GetLocationCheckStats(ctx context.Context, minutes int) (int, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error)
	ResolveIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	ListActive(ctx context.Context, limit int) ([]*models.Incident, error)
	ListInBounds(ctx context.Context, bounds models.Bounds) ([]*models.Incident, error)
	ListReports(ctx context.Context, id uuid.UUID) ([]*models.Report, error)
	FindOrCreateForReport(ctx context.Context, report *models.Report) (*models.Incident, bool, error)
	CheckLocation(ctx context.Context, userID string, lat, lon float64) ([]*models.Incident, error)
	GetStats(ctx context.Context) (int, error)
}

type incidentService struct {
	repo             IncidentRepository
	reports          ReportRepository
	logger           *logrus.Logger
	cfg              *config.Config
	webhookPublisher webhook.WebhookPublisher
	clock            clockwork.Clock
}

func NewIncidentService(repo IncidentRepository, reports ReportRepository, logger *logrus.Logger, cfg *config.Config, webhookPublisher webhook.WebhookPublisher) IncidentService {
	return &incidentService{
		repo:             repo,
		reports:          reports,
		logger:           logger,
		cfg:              cfg,
		webhookPublisher: webhookPublisher,
		clock:            clockwork.NewRealClock(),
	}
}

// CreateIncident создает инцидент вручную (оператором)
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "CreateIncident",
		"severity": incident.Severity,
	})
	log.Info("Attempting to create a new incident")

	if !geo.ValidCoordinates(incident.Latitude, incident.Longitude) {
		log.Warn("Invalid incident coordinates")
		return fmt.Errorf("service: invalid incident coordinates: %w", models.ErrInvalidInput)
	}

	incident.Status = models.IncidentActive
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.invalidateCache(ctx, log, incident.ID)
	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID: сначала из кеша, затем из бд
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		log.Info("Incident fetched from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// UpdateIncident обновляет существующий инцидент.
func (s *incidentService) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": incident.ID,
	})
	log.Info("Attempting to update incident")

	existing, err := s.repo.GetByID(ctx, incident.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return fmt.Errorf("service: incident with id %s not found for update: %w", incident.ID, err)
	}

	if incident.Latitude != 0 || incident.Longitude != 0 {
		if !geo.ValidCoordinates(incident.Latitude, incident.Longitude) {
			return fmt.Errorf("service: invalid incident coordinates: %w", models.ErrInvalidInput)
		}
		existing.Latitude = incident.Latitude
		existing.Longitude = incident.Longitude
	}
	if incident.Severity != "" {
		existing.Severity = incident.Severity
	}
	if incident.AffectedRadiusKM != nil {
		existing.AffectedRadiusKM = incident.AffectedRadiusKM
	}
	if incident.AffectedPopulationEstimate != nil {
		existing.AffectedPopulationEstimate = incident.AffectedPopulationEstimate
	}
	if incident.Address != "" {
		existing.Address = incident.Address
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return fmt.Errorf("service: could not update incident: %w", err)
	}
	*incident = *existing

	s.invalidateCache(ctx, log, incident.ID)
	log.Info("Incident updated successfully")
	return nil
}

// UpdateStatus меняет статус; при переходе в resolved фиксируется время закрытия
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Attempting to update incident status")

	if !status.Valid() {
		log.Warn("Invalid incident status")
		return nil, fmt.Errorf("service: invalid incident status %q: %w", status, models.ErrInvalidInput)
	}

	incident, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Warn("Attempted to update status of a non-existent incident")
		} else {
			log.WithError(err).Error("Failed to update incident status in repository")
		}
		return nil, fmt.Errorf("service: could not update incident status: %w", err)
	}

	s.invalidateCache(ctx, log, id)
	log.Info("Incident status updated successfully")
	return incident, nil
}

// ResolveIncident закрывает инцидент
func (s *incidentService) ResolveIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	return s.UpdateStatus(ctx, id, models.IncidentResolved)
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: invalid incident status %q: %w", filter.Status, models.ErrInvalidInput)
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"status":  filter.Status,
		"skip":    filter.Skip,
		"limit":   filter.Limit,
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.ListIncidents(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// ListActive активные инциденты, новые первыми
func (s *incidentService) ListActive(ctx context.Context, limit int) ([]*models.Incident, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.ListIncidents(ctx, models.IncidentFilter{Status: models.IncidentActive, Limit: limit})
}

// ListInBounds инциденты для отображения на карте
func (s *incidentService) ListInBounds(ctx context.Context, bounds models.Bounds) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListInBounds",
	})

	if !bounds.Valid() {
		log.Warn("Invalid map bounds")
		return nil, fmt.Errorf("service: invalid map bounds: %w", models.ErrInvalidInput)
	}

	incidents, err := s.repo.ListInBounds(ctx, bounds)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents in bounds")
		return nil, fmt.Errorf("service: could not list incidents in bounds: %w", err)
	}
	return incidents, nil
}

// ListReports отчеты, входящие в инцидент
func (s *incidentService) ListReports(ctx context.Context, id uuid.UUID) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ListReports",
		"incident_id": id,
	})

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Incident not found")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	reports, err := s.repo.ListReports(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list incident reports")
		return nil, fmt.Errorf("service: could not list incident reports: %w", err)
	}
	return reports, nil
}

// FindOrCreateForReport привязывает отчет к активному инциденту поблизости
// или создает новый инцидент из соседних отчетов. Второе значение true, если инцидент создан.
func (s *incidentService) FindOrCreateForReport(ctx context.Context, report *models.Report) (*models.Incident, bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "FindOrCreateForReport",
		"report_id": report.ID,
	})
	log.Info("Clustering report into incident")

	since := s.clock.Now().Add(-clusterWindow)
	nearby, err := s.reports.FindNearby(ctx, report.Latitude, report.Longitude, s.cfg.IncidentClusterRadiusKM, since, report.ID)
	if err != nil {
		log.WithError(err).Error("Failed to find nearby reports")
		return nil, false, fmt.Errorf("service: could not find nearby reports: %w", err)
	}

	// сам отчет тоже проверяется: он мог попасть в инцидент при автоматической проверке
	lookup := make([]uuid.UUID, 0, len(nearby)+1)
	lookup = append(lookup, report.ID)
	for _, r := range nearby {
		lookup = append(lookup, r.ID)
	}
	existing, err := s.repo.FindActiveByReports(ctx, lookup)
	if err != nil {
		log.WithError(err).Error("Failed to look up incident for nearby reports")
		return nil, false, fmt.Errorf("service: could not find incident for nearby reports: %w", err)
	}
	if existing != nil {
		return s.joinIncident(ctx, log, existing, report)
	}

	if len(nearby)+1 < s.cfg.MinReportsForIncident {
		log.WithField("nearby", len(nearby)).Info("Not enough reports to open an incident")
		return nil, false, nil
	}

	members := append(nearby, report)
	points := make([]geo.Point, len(members))
	severities := make([]models.SeverityLevel, len(members))
	ids := make([]uuid.UUID, len(members))
	for i, r := range members {
		points[i] = geo.Point{Lat: r.Latitude, Lon: r.Longitude}
		severities[i] = r.Severity
		ids[i] = r.ID
	}
	center, _ := geo.Centroid(points)

	radius := s.cfg.IncidentClusterRadiusKM
	incident := &models.Incident{
		Latitude:         center.Lat,
		Longitude:        center.Lon,
		Address:          report.Address,
		Severity:         models.MaxSeverity(severities...),
		Status:           models.IncidentActive,
		AffectedRadiusKM: &radius,
	}
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, false, fmt.Errorf("service: could not create incident: %w", err)
	}

	count, err := s.repo.LinkReports(ctx, incident.ID, ids)
	if err != nil {
		log.WithError(err).Error("Failed to link reports to incident")
		return nil, false, fmt.Errorf("service: could not link reports to incident: %w", err)
	}
	incident.ReportCount = count

	s.publish(ctx, log, webhook.WebhookEvent{
		Type:       webhook.EventIncidentCreated,
		IncidentID: &incident.ID,
		Latitude:   incident.Latitude,
		Longitude:  incident.Longitude,
		Incidents:  []*models.Incident{incident},
	})

	log.WithFields(logrus.Fields{"incident_id": incident.ID, "report_count": count}).Info("Incident created from reports")
	return incident, true, nil
}

func (s *incidentService) joinIncident(ctx context.Context, log *logrus.Entry, incident *models.Incident, report *models.Report) (*models.Incident, bool, error) {
	count, err := s.repo.LinkReports(ctx, incident.ID, []uuid.UUID{report.ID})
	if err != nil {
		log.WithError(err).Error("Failed to link report to incident")
		return nil, false, fmt.Errorf("service: could not link report to incident: %w", err)
	}
	incident.ReportCount = count

	if report.Severity.Rank() > incident.Severity.Rank() {
		incident.Severity = report.Severity
		if err := s.repo.Update(ctx, incident); err != nil {
			log.WithError(err).Error("Failed to raise incident severity")
			return nil, false, fmt.Errorf("service: could not update incident severity: %w", err)
		}
	}

	s.invalidateCache(ctx, log, incident.ID)
	log.WithFields(logrus.Fields{"incident_id": incident.ID, "report_count": count}).Info("Report linked to existing incident")
	return incident, false, nil
}

// CheckLocation находит активные инциденты, в зону которых попадает точка
func (s *incidentService) CheckLocation(ctx context.Context, userID string, lat, lon float64) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CheckLocation",
		"user_id": userID,
	})
	log.Info("Checking user location")

	if !geo.ValidCoordinates(lat, lon) {
		return nil, fmt.Errorf("service: invalid coordinates: %w", models.ErrInvalidInput)
	}

	activeIncidents, err := s.repo.FindActiveLocation(ctx, lat, lon)
	if err != nil {
		log.WithError(err).Error("Failed to find active incidents by location")
		return nil, fmt.Errorf("service: failed to find active incidents: %w", err)
	}
	isDanger := len(activeIncidents) > 0

	check := &models.LocationCheck{
		UserID:      userID,
		Latitude:    lat,
		Longitude:   lon,
		IsDangerous: isDanger,
	}
	for _, inc := range activeIncidents {
		check.IncidentIDs = append(check.IncidentIDs, inc.ID)
	}
	if err := s.repo.SaveLocationCheck(ctx, check); err != nil {
		log.WithError(err).Error("Failed to save location check")
	}

	if isDanger {
		s.publish(ctx, log, webhook.WebhookEvent{
			Type:        webhook.EventLocationDanger,
			UserID:      userID,
			Latitude:    lat,
			Longitude:   lon,
			IsDangerous: true,
			Incidents:   activeIncidents,
		})
	}

	log.WithField("is_danger", isDanger).Info("Location check completed")
	return activeIncidents, nil
}

// GetStats количество уникальных пользователей, проверявших местоположение за окно статистики
func (s *incidentService) GetStats(ctx context.Context) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetStats",
	})

	count, err := s.repo.GetLocationCheckStats(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get location check stats")
		return 0, fmt.Errorf("service: could not get stats: %w", err)
	}
	return count, nil
}

func (s *incidentService) invalidateCache(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

func (s *incidentService) publish(ctx context.Context, log *logrus.Entry, event webhook.WebhookEvent) {
	if s.webhookPublisher == nil {
		return
	}
	event.Timestamp = s.clock.Now()
	if err := s.webhookPublisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish webhook event")
	}
}
