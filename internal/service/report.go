package service

//go:generate mockgen -source=report.go -destination=mocks/report_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/geo"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	credibilityOnVerify = 10
	credibilityOnReject = -20

	// уверенность, с которой отчет подтверждается сообществом
	communityConfidence = 0.8

	// радиус подписки пользователя, созданного из веб-формы
	webUserAlertRadiusKM = 10.0
)

// ReportRepository определяет контракт для работы с бд отчетов
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	Update(ctx context.Context, id uuid.UUID, update models.ReportUpdate) (*models.Report, error)
	SetVerification(ctx context.Context, id uuid.UUID, status models.VerificationStatus, confidence *float64) (*models.Report, error)
	IncrementCommunityVerifications(ctx context.Context, id uuid.UUID) (int, error)
	FindNearby(ctx context.Context, lat, lon, radiusKM float64, since time.Time, excludeID uuid.UUID) ([]*models.Report, error)
}

// VerificationRepository журнал проверок отчетов
type VerificationRepository interface {
	Create(ctx context.Context, v *models.Verification) error
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]*models.Verification, error)
	HasCommunityVote(ctx context.Context, reportID, userID uuid.UUID) (bool, error)
}

// ReportService определяет контракт бизнес-логики отчетов о подтоплениях
type ReportService interface {
	SubmitReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	ListPending(ctx context.Context, limit int) ([]*models.Report, error)
	ListUserReports(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*models.Report, error)
	UpdateReport(ctx context.Context, id uuid.UUID, update models.ReportUpdate) (*models.Report, error)
	VerifyReport(ctx context.Context, id uuid.UUID, verifiedBy string) (*models.Report, error)
	RejectReport(ctx context.Context, id uuid.UUID, rejectedBy, reason string) (*models.Report, error)
	CommunityVerify(ctx context.Context, id, userID uuid.UUID, result models.VerificationResult) (*models.Report, error)
	ListVerifications(ctx context.Context, id uuid.UUID) ([]*models.Verification, error)
}

type reportService struct {
	repo          ReportRepository
	verifications VerificationRepository
	users         UserRepository
	verifier      VerificationService
	incidents     IncidentService
	alerts        AlertService
	logger        *logrus.Logger
	cfg           *config.Config
	metrics       *metrics.Metrics
	clock         clockwork.Clock
}

func NewReportService(
	repo ReportRepository,
	verifications VerificationRepository,
	users UserRepository,
	verifier VerificationService,
	incidents IncidentService,
	alerts AlertService,
	logger *logrus.Logger,
	cfg *config.Config,
	m *metrics.Metrics,
) ReportService {
	return &reportService{
		repo:          repo,
		verifications: verifications,
		users:         users,
		verifier:      verifier,
		incidents:     incidents,
		alerts:        alerts,
		logger:        logger,
		cfg:           cfg,
		metrics:       m,
		clock:         clockwork.NewRealClock(),
	}
}

// SubmitReport сохраняет отчет и запускает цепочку проверки.
// Ошибки проверки, кластеризации и оповещения не отменяют прием отчета.
func (s *reportService) SubmitReport(ctx context.Context, report *models.Report) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "report",
		"method":   "SubmitReport",
		"user_id":  report.UserID,
		"severity": report.Severity,
	})
	log.Info("Attempting to submit a new report")

	if !geo.ValidCoordinates(report.Latitude, report.Longitude) {
		log.Warn("Invalid report coordinates")
		return fmt.Errorf("service: invalid report coordinates: %w", models.ErrInvalidInput)
	}
	if !report.Severity.Valid() {
		log.Warn("Invalid report severity")
		return fmt.Errorf("service: invalid severity %q: %w", report.Severity, models.ErrInvalidInput)
	}

	user, err := s.ensureUser(ctx, log, report)
	if err != nil {
		return err
	}

	report.VerificationStatus = models.VerificationPending
	if report.ImageURLs == nil {
		report.ImageURLs = []string{}
	}
	if report.VideoURLs == nil {
		report.VideoURLs = []string{}
	}
	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return fmt.Errorf("service: could not create report: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ReportsSubmitted.WithLabelValues(string(user.Platform)).Inc()
	}
	log = log.WithField("report_id", report.ID)
	log.Info("Report stored, running verification")

	s.runWorkflow(ctx, log, report)
	return nil
}

// ensureUser возвращает автора отчета; незнакомый автор из веб-формы регистрируется автоматически
func (s *reportService) ensureUser(ctx context.Context, log *logrus.Entry, report *models.Report) (*models.User, error) {
	user, err := s.users.GetByID(ctx, report.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		log.WithError(err).Error("Failed to get report author")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}

	lat, lon := report.Latitude, report.Longitude
	user = &models.User{
		ID:               report.UserID,
		PhoneNumber:      report.UserID.String(),
		Platform:         models.PlatformWeb,
		PlatformID:       report.UserID.String(),
		LanguageCode:     "en",
		Latitude:         &lat,
		Longitude:        &lon,
		AlertSubscribed:  true,
		AlertRadiusKM:    webUserAlertRadiusKM,
		CredibilityScore: models.DefaultCredibility,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			// параллельный первый отчет того же автора уже завел пользователя
			existing, getErr := s.users.GetByID(ctx, report.UserID)
			if getErr == nil {
				return existing, nil
			}
			err = getErr
		}
		log.WithError(err).Error("Failed to auto-create report author")
		return nil, fmt.Errorf("service: could not create user: %w", err)
	}
	log.Info("Web user created for report author")
	return user, nil
}

func (s *reportService) runWorkflow(ctx context.Context, log *logrus.Entry, report *models.Report) {
	outcome, err := s.verifier.Verify(ctx, report)
	if err != nil {
		log.WithError(err).Error("Automated verification failed")
		return
	}

	switch outcome.Status {
	case models.VerificationVerified:
		incident, created, err := s.incidents.FindOrCreateForReport(ctx, report)
		if err != nil {
			log.WithError(err).Error("Failed to cluster verified report")
			return
		}
		if incident == nil {
			return
		}
		log.WithFields(logrus.Fields{"incident_id": incident.ID, "created": created}).Info("Report linked to incident")

		alert, err := s.alerts.RaiseForIncident(ctx, incident.ID)
		if err != nil {
			log.WithError(err).Error("Failed to raise alert for incident")
			return
		}
		log.WithField("alert_id", alert.ID).Info("Alert queued for delivery")
	case models.VerificationPending:
		sent, err := s.verifier.RequestCommunityVerification(ctx, report)
		if err != nil {
			log.WithError(err).Error("Failed to request community verification")
			return
		}
		log.WithField("requests", sent).Info("Community verification requested")
	}
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "GetReport",
		"report_id": id,
	})

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get report in repository")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}
	return report, nil
}

// ListReports возвращает отчеты, новые первыми
func (s *reportService) ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: invalid verification status %q: %w", filter.Status, models.ErrInvalidInput)
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		return nil, fmt.Errorf("service: invalid severity %q: %w", filter.Severity, models.ErrInvalidInput)
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
		"status":  filter.Status,
		"skip":    filter.Skip,
		"limit":   filter.Limit,
	})

	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	log.WithField("count", len(reports)).Info("Reports listed successfully")
	return reports, nil
}

// ListPending очередь отчетов, ожидающих ручной проверки
func (s *reportService) ListPending(ctx context.Context, limit int) ([]*models.Report, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.ListReports(ctx, models.ReportFilter{Status: models.VerificationPending, Limit: limit})
}

func (s *reportService) ListUserReports(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*models.Report, error) {
	return s.ListReports(ctx, models.ReportFilter{UserID: &userID, Skip: skip, Limit: limit})
}

// UpdateReport частично обновляет отчет
func (s *reportService) UpdateReport(ctx context.Context, id uuid.UUID, update models.ReportUpdate) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "UpdateReport",
		"report_id": id,
	})
	log.Info("Attempting to update report")

	if update.Severity != nil && !update.Severity.Valid() {
		return nil, fmt.Errorf("service: invalid severity %q: %w", *update.Severity, models.ErrInvalidInput)
	}
	if update.VerificationStatus != nil && !update.VerificationStatus.Valid() {
		return nil, fmt.Errorf("service: invalid verification status %q: %w", *update.VerificationStatus, models.ErrInvalidInput)
	}
	if update.WaterDepthCM != nil && *update.WaterDepthCM < 0 {
		return nil, fmt.Errorf("service: water depth must not be negative: %w", models.ErrInvalidInput)
	}

	report, err := s.repo.Update(ctx, id, update)
	if err != nil {
		log.WithError(err).Warn("Failed to update report in repository")
		return nil, fmt.Errorf("service: could not update report: %w", err)
	}

	log.Info("Report updated successfully")
	return report, nil
}

// VerifyReport ручное подтверждение отчета сотрудником
func (s *reportService) VerifyReport(ctx context.Context, id uuid.UUID, verifiedBy string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "report",
		"method":      "VerifyReport",
		"report_id":   id,
		"verified_by": verifiedBy,
	})
	log.Info("Verifying report")

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get report from repository")
		return nil, fmt.Errorf("service: could not verify report: %w", err)
	}
	// повторное подтверждение не меняет репутацию и не пересобирает инцидент
	if current.VerificationStatus == models.VerificationVerified {
		log.Info("Report already verified")
		return current, nil
	}

	report, err := s.repo.SetVerification(ctx, id, models.VerificationVerified, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to verify report in repository")
		return nil, fmt.Errorf("service: could not verify report: %w", err)
	}

	s.logVerification(ctx, log, &models.Verification{
		ReportID: id,
		Type:     models.VerificationTypeAdmin,
		Result:   models.ResultConfirmed,
		Notes:    "verified by " + verifiedBy,
	})
	s.adjustCredibility(ctx, log, report.UserID, credibilityOnVerify)

	incident, _, err := s.incidents.FindOrCreateForReport(ctx, report)
	switch {
	case err != nil:
		log.WithError(err).Error("Failed to cluster verified report")
	case incident != nil:
		log.WithField("incident_id", incident.ID).Info("Report linked to incident")
	default:
		log.Info("No incident created or found for report")
	}

	return report, nil
}

// RejectReport ручное отклонение отчета
func (s *reportService) RejectReport(ctx context.Context, id uuid.UUID, rejectedBy, reason string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "report",
		"method":      "RejectReport",
		"report_id":   id,
		"rejected_by": rejectedBy,
	})
	log.Info("Rejecting report")

	report, err := s.repo.SetVerification(ctx, id, models.VerificationRejected, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to reject report in repository")
		return nil, fmt.Errorf("service: could not reject report: %w", err)
	}

	notes := "rejected by " + rejectedBy
	if reason = strings.TrimSpace(reason); reason != "" {
		notes += ": " + reason
	}
	s.logVerification(ctx, log, &models.Verification{
		ReportID: id,
		Type:     models.VerificationTypeAdmin,
		Result:   models.ResultRejected,
		Notes:    notes,
	})
	s.adjustCredibility(ctx, log, report.UserID, credibilityOnReject)

	return report, nil
}

// CommunityVerify голос жителя за или против отчета
func (s *reportService) CommunityVerify(ctx context.Context, id, userID uuid.UUID, result models.VerificationResult) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "CommunityVerify",
		"report_id": id,
		"user_id":   userID,
		"result":    result,
	})
	log.Info("Recording community verification")

	if result != models.ResultConfirmed && result != models.ResultRejected {
		log.Warn("Invalid community verification result")
		return nil, fmt.Errorf("service: result must be confirmed or rejected: %w", models.ErrInvalidInput)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		log.WithError(err).Warn("Verifying user not found")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Report not found")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}

	voted, err := s.verifications.HasCommunityVote(ctx, id, userID)
	if err != nil {
		log.WithError(err).Error("Failed to check previous votes")
		return nil, fmt.Errorf("service: could not check previous votes: %w", err)
	}
	if voted {
		log.Warn("User already verified this report")
		return nil, fmt.Errorf("service: user already verified this report: %w", models.ErrConflict)
	}

	if err := s.verifications.Create(ctx, &models.Verification{
		ReportID:       id,
		VerifierUserID: &userID,
		Type:           models.VerificationTypeCommunity,
		Result:         result,
	}); err != nil {
		log.WithError(err).Error("Failed to log community verification")
		return nil, fmt.Errorf("service: could not log verification: %w", err)
	}

	if result != models.ResultConfirmed {
		return report, nil
	}

	count, err := s.repo.IncrementCommunityVerifications(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to increment community verifications")
		return nil, fmt.Errorf("service: could not record verification: %w", err)
	}
	report.CommunityVerifications = count

	if count >= s.cfg.CommunityVerifyThreshold && report.VerificationStatus != models.VerificationVerified {
		confidence := communityConfidence
		verified, err := s.repo.SetVerification(ctx, id, models.VerificationVerified, &confidence)
		if err != nil {
			log.WithError(err).Error("Failed to auto-verify report")
			return nil, fmt.Errorf("service: could not auto-verify report: %w", err)
		}
		log.WithField("confirmations", count).Info("Report verified by community")
		s.adjustCredibility(ctx, log, report.UserID, credibilityOnVerify)

		if _, _, err := s.incidents.FindOrCreateForReport(ctx, verified); err != nil {
			log.WithError(err).Error("Failed to cluster community verified report")
		}
		return verified, nil
	}

	return report, nil
}

// ListVerifications журнал проверок отчета
func (s *reportService) ListVerifications(ctx context.Context, id uuid.UUID) ([]*models.Verification, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "ListVerifications",
		"report_id": id,
	})

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Report not found")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}

	history, err := s.verifications.ListByReport(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list verifications")
		return nil, fmt.Errorf("service: could not list verifications: %w", err)
	}
	return history, nil
}

func (s *reportService) logVerification(ctx context.Context, log *logrus.Entry, v *models.Verification) {
	if err := s.verifications.Create(ctx, v); err != nil {
		log.WithError(err).Error("Failed to log verification")
	}
}

func (s *reportService) adjustCredibility(ctx context.Context, log *logrus.Entry, userID uuid.UUID, delta int) {
	score, err := s.users.AdjustCredibility(ctx, userID, delta)
	if err != nil {
		log.WithError(err).Warn("Failed to adjust author credibility")
		return
	}
	log.WithField("credibility", score).Debug("Author credibility adjusted")
}
