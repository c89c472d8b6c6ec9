package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/authz"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
	"github.com/sirupsen/logrus"
)

// BotEngine обрабатывает входящее сообщение мессенджера
type BotEngine interface {
	Handle(ctx context.Context, msg *channel.IncomingMessage) error
}

type TelegramParser interface {
	ParseUpdate(ctx context.Context, payload []byte) (*channel.IncomingMessage, error)
}

type WhatsAppParser interface {
	ParseWebhook(ctx context.Context, payload []byte) (*channel.IncomingMessage, error)
	VerifyChallenge(mode, token, challenge string) (string, bool)
}

// Services зависимости HTTP-слоя
type Services struct {
	Incidents service.IncidentService
	Reports   service.ReportService
	Alerts    service.AlertService
	Users     service.UserService
	Auth      service.AuthService
	Analytics service.AnalyticsService
	Location  service.LocationService
	Bot       BotEngine
	Telegram  TelegramParser
	WhatsApp  WhatsAppParser
}

type Handler struct {
	incidentService  service.IncidentService
	reportService    service.ReportService
	alertService     service.AlertService
	userService      service.UserService
	authService      service.AuthService
	analyticsService service.AnalyticsService
	locationService  service.LocationService
	bot              BotEngine
	telegram         TelegramParser
	whatsapp         WhatsAppParser
	enforcer         *authz.Enforcer
	metrics          *metrics.Metrics
	limiter          *ipRateLimiter
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(s Services, enforcer *authz.Enforcer, m *metrics.Metrics, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:  s.Incidents,
		reportService:    s.Reports,
		alertService:     s.Alerts,
		userService:      s.Users,
		authService:      s.Auth,
		analyticsService: s.Analytics,
		locationService:  s.Location,
		bot:              s.Bot,
		telegram:         s.Telegram,
		whatsapp:         s.WhatsApp,
		enforcer:         enforcer,
		metrics:          m,
		limiter:          newIPRateLimiter(cfg.RateLimitPerMinute),
		logger:           logger,
		validate:         newValidator(),
		cfg:              cfg,
	}
}

// newValidator добавляет теги severity и platform
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return models.SeverityLevel(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return models.PlatformType(fl.Field().String()).Valid()
	})
	return v
}

var errorStatuses = []struct {
	err     error
	status  int
	message string
}{
	{models.ErrNotFound, http.StatusNotFound, ""},
	{models.ErrAlreadyExists, http.StatusConflict, ""},
	{models.ErrConflict, http.StatusConflict, ""},
	{models.ErrInvalidInput, http.StatusBadRequest, ""},
	{models.ErrCodeExpired, http.StatusBadRequest, ""},
	{models.ErrUnauthorized, http.StatusUnauthorized, ""},
	{models.ErrForbidden, http.StatusForbidden, ""},
	{models.ErrCooldown, http.StatusTooManyRequests, ""},
	{models.ErrTooManyAttempts, http.StatusTooManyRequests, ""},
	{models.ErrLocationUnavailable, http.StatusUnprocessableEntity, models.LocationUnavailableMessage},
}

// respondError переводит ошибку сервиса в HTTP-ответ
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		log.WithError(err).Warn(msg)
		message := e.err.Error()
		if e.message != "" {
			message = e.message
		}
		if e.err == models.ErrInvalidInput || e.err == models.ErrConflict {
			message = strings.TrimPrefix(err.Error(), "service: ")
		}
		c.JSON(e.status, gin.H{"error": message})
		return
	}

	log.WithError(err).Error(msg)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bindJSON разбирает и валидирует тело запроса, при ошибке сам отвечает 400
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + entity + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// queryInt читает целый параметр и ограничивает его диапазоном [lo, hi]
func queryInt(c *gin.Context, name string, def, lo, hi int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "environment": h.cfg.Environment})
}
