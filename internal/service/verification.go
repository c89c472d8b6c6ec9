package service

//go:generate mockgen -source=verification.go -destination=mocks/verification_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/weather"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// веса сигналов автоматической проверки
const (
	weightAI        = 0.4
	weightWeather   = 0.3
	weightDuplicate = 0.3

	// ниже этой оценки отчет помечается для ручной проверки
	pendingThreshold = 0.4

	duplicateRadiusKM = 0.5
	duplicateWindow   = 24 * time.Hour

	communityRadiusKM     = 5.0
	communityRequestLimit = 10
)

// ImageAnalyzer оценивает изображение, приложенное к отчету
type ImageAnalyzer interface {
	Analyze(ctx context.Context, url string) (float64, error)
}

// WeatherCorrelator сопоставляет отчет с погодными условиями
type WeatherCorrelator interface {
	CorrelateReport(ctx context.Context, lat, lon float64, severity models.SeverityLevel) (*weather.Correlation, error)
}

// MessageSender отправляет сообщение пользователю через его мессенджер
type MessageSender interface {
	Send(ctx context.Context, platform models.PlatformType, chatID, text string) error
}

// VerificationService автоматическая и общественная проверка отчетов
type VerificationService interface {
	Verify(ctx context.Context, report *models.Report) (*models.VerificationOutcome, error)
	RequestCommunityVerification(ctx context.Context, report *models.Report) (int, error)
}

type verificationService struct {
	reports       ReportRepository
	verifications VerificationRepository
	users         UserRepository
	analyzer      ImageAnalyzer
	weather       WeatherCorrelator
	sender        MessageSender
	catalog       *i18n.Catalog
	logger        *logrus.Logger
	cfg           *config.Config
	metrics       *metrics.Metrics
	clock         clockwork.Clock
}

func NewVerificationService(
	reports ReportRepository,
	verifications VerificationRepository,
	users UserRepository,
	analyzer ImageAnalyzer,
	weather WeatherCorrelator,
	sender MessageSender,
	catalog *i18n.Catalog,
	logger *logrus.Logger,
	cfg *config.Config,
	m *metrics.Metrics,
) VerificationService {
	return &verificationService{
		reports:       reports,
		verifications: verifications,
		users:         users,
		analyzer:      analyzer,
		weather:       weather,
		sender:        sender,
		catalog:       catalog,
		logger:        logger,
		cfg:           cfg,
		metrics:       m,
		clock:         clockwork.NewRealClock(),
	}
}

// Verify считает три сигнала параллельно и принимает решение по взвешенной сумме.
// Сбой отдельного сигнала дает ему 0 и не прерывает оценку.
func (s *verificationService) Verify(ctx context.Context, report *models.Report) (*models.VerificationOutcome, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "verification",
		"method":    "Verify",
		"report_id": report.ID,
	})
	log.Info("Running automated verification")

	var outcome models.VerificationOutcome
	var g errgroup.Group
	g.Go(func() error {
		outcome.AIConfidence = s.aiSignal(ctx, log, report)
		return nil
	})
	g.Go(func() error {
		outcome.WeatherConfidence = s.weatherSignal(ctx, log, report)
		return nil
	})
	g.Go(func() error {
		outcome.DuplicateScore = s.duplicateSignal(ctx, log, report)
		return nil
	})
	_ = g.Wait()

	outcome.OverallConfidence = weightAI*outcome.AIConfidence +
		weightWeather*outcome.WeatherConfidence +
		weightDuplicate*outcome.DuplicateScore

	switch {
	case outcome.OverallConfidence >= s.cfg.VerificationConfidenceThreshold:
		outcome.Status = models.VerificationVerified
	case outcome.OverallConfidence >= pendingThreshold:
		outcome.Status = models.VerificationPending
	default:
		outcome.Status = models.VerificationFlagged
	}

	log = log.WithFields(logrus.Fields{
		"decision":   outcome.Status,
		"confidence": outcome.OverallConfidence,
	})

	if outcome.Status != models.VerificationPending {
		var confidence *float64
		if outcome.Status == models.VerificationVerified {
			overall := outcome.OverallConfidence
			confidence = &overall
		}
		updated, err := s.reports.SetVerification(ctx, report.ID, outcome.Status, confidence)
		if err != nil {
			log.WithError(err).Error("Failed to store verification decision")
			return nil, fmt.Errorf("service: could not store verification decision: %w", err)
		}
		*report = *updated
	}

	if s.metrics != nil {
		s.metrics.VerificationDecisions.WithLabelValues(string(outcome.Status)).Inc()
	}
	log.Info("Automated verification completed")
	return &outcome, nil
}

func (s *verificationService) aiSignal(ctx context.Context, log *logrus.Entry, report *models.Report) float64 {
	if len(report.ImageURLs) == 0 || s.analyzer == nil {
		return 0
	}

	var total float64
	for _, url := range report.ImageURLs {
		score, err := s.analyzer.Analyze(ctx, url)
		if err != nil {
			log.WithError(err).WithField("image_url", url).Warn("Image analysis failed")
			continue
		}
		total += score
	}
	avg := total / float64(len(report.ImageURLs))

	result := models.ResultUncertain
	if avg > 0.5 {
		result = models.ResultConfirmed
	}
	s.record(ctx, log, &models.Verification{
		ReportID:        report.ID,
		Type:            models.VerificationTypeAI,
		Result:          result,
		ConfidenceScore: &avg,
		Notes:           fmt.Sprintf("analyzed %d images", len(report.ImageURLs)),
	})
	return avg
}

func (s *verificationService) weatherSignal(ctx context.Context, log *logrus.Entry, report *models.Report) float64 {
	if s.weather == nil {
		return 0
	}

	corr, err := s.weather.CorrelateReport(ctx, report.Latitude, report.Longitude, report.Severity)
	if err != nil {
		log.WithError(err).Warn("Weather correlation failed")
		return 0
	}

	result := models.ResultUncertain
	if corr.Supports {
		result = models.ResultConfirmed
	}
	notes := fmt.Sprintf("weather risk %.2f, expected %.2f", corr.RiskScore, corr.ExpectedRisk)
	if corr.Conditions != nil {
		notes += fmt.Sprintf(", rainfall 1h %.1fmm", corr.Conditions.Rainfall1h)
	}
	confidence := corr.Confidence
	s.record(ctx, log, &models.Verification{
		ReportID:        report.ID,
		Type:            models.VerificationTypeWeather,
		Result:          result,
		ConfidenceScore: &confidence,
		Notes:           notes,
	})
	return confidence
}

func (s *verificationService) duplicateSignal(ctx context.Context, log *logrus.Entry, report *models.Report) float64 {
	since := s.clock.Now().Add(-duplicateWindow)
	nearby, err := s.reports.FindNearby(ctx, report.Latitude, report.Longitude, duplicateRadiusKM, since, report.ID)
	if err != nil {
		log.WithError(err).Warn("Duplicate lookup failed")
		return 0
	}

	verified := 0
	for _, r := range nearby {
		if r.VerificationStatus == models.VerificationVerified {
			verified++
		}
	}
	score := duplicateScore(len(nearby), verified)

	result := models.ResultUncertain
	if verified > 0 {
		result = models.ResultConfirmed
	}
	s.record(ctx, log, &models.Verification{
		ReportID:        report.ID,
		Type:            models.VerificationTypeDuplicate,
		Result:          result,
		ConfidenceScore: &score,
		Notes:           fmt.Sprintf("%d nearby reports, %d verified", len(nearby), verified),
	})
	return score
}

// duplicateScore оценка по числу соседних отчетов за последние сутки
func duplicateScore(nearby, verified int) float64 {
	switch {
	case verified >= 3:
		return 0.9
	case verified == 2:
		return 0.7
	case verified == 1:
		return 0.5
	case nearby > 0:
		return 0.3
	}
	return 0
}

// RequestCommunityVerification просит жителей поблизости подтвердить отчет.
// Возвращает число отправленных запросов.
func (s *verificationService) RequestCommunityVerification(ctx context.Context, report *models.Report) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "verification",
		"method":    "RequestCommunityVerification",
		"report_id": report.ID,
	})

	users, err := s.users.FindNearby(ctx, report.Latitude, report.Longitude, communityRadiusKM, report.UserID, communityRequestLimit)
	if err != nil {
		log.WithError(err).Error("Failed to find nearby users")
		return 0, fmt.Errorf("service: could not find nearby users: %w", err)
	}

	location := report.Address
	if strings.TrimSpace(location) == "" {
		location = fmt.Sprintf("%.4f, %.4f", report.Latitude, report.Longitude)
	}

	sent := 0
	for _, u := range users {
		text := s.catalog.T(u.LanguageCode, "verification.request",
			"location", location,
			"severity", strings.ToUpper(string(report.Severity)),
			"report_id", report.ID.String()[:8],
		)
		if err := s.sender.Send(ctx, u.Platform, u.PlatformID, text); err != nil {
			log.WithError(err).WithField("user_id", u.ID).Warn("Failed to send verification request")
			continue
		}
		sent++
	}

	log.WithFields(logrus.Fields{"candidates": len(users), "sent": sent}).Info("Verification requests sent")
	return sent, nil
}

func (s *verificationService) record(ctx context.Context, log *logrus.Entry, v *models.Verification) {
	if err := s.verifications.Create(ctx, v); err != nil {
		log.WithError(err).WithField("type", v.Type).Error("Failed to log verification")
	}
}
