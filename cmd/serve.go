package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/shenikar/flood_watch/docs"
	"github.com/shenikar/flood_watch/internal/auth"
	"github.com/shenikar/flood_watch/internal/authz"
	"github.com/shenikar/flood_watch/internal/bot"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/geo"
	v1 "github.com/shenikar/flood_watch/internal/handler/http/v1"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/media"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/repository"
	"github.com/shenikar/flood_watch/internal/service"
	"github.com/shenikar/flood_watch/internal/weather"
	"github.com/shenikar/flood_watch/internal/webhook"
	"github.com/shenikar/flood_watch/pkg/logger"
	"github.com/shenikar/flood_watch/pkg/postgres"
	redisclient "github.com/shenikar/flood_watch/pkg/redis"
)

const (
	sessionTTL          = 24 * time.Hour
	codeCleanupInterval = time.Hour
	shutdownTimeout     = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, bot webhooks and the delivery worker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		log.AddHook(logger.NewSentryHook(sentry.CurrentHub()))
		log.Info("Sentry error reporting enabled")
	}

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if cfg.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			return err
		}
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	m := metrics.NewMetrics()

	app, err := buildApp(cfg, log, dbpool, redisClient, m)
	if err != nil {
		return err
	}

	// Воркер вебхуков и рассылки оповещений
	worker := webhook.NewWebhookWorker(redisClient, log, cfg, app.alerts, app.publisher, m)
	worker.Start(ctx)

	// Настройка Gin роутера
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), v1.SentryMiddleware())
	api := router.Group("/api/v1")
	app.handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("HTTP server started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		cleanupExpiredCodes(gctx, app.auth, log)
		return nil
	})

	if cfg.TelegramBotToken != "" && cfg.TelegramWebhookURL != "" {
		if err := app.telegram.SetWebhook(ctx, cfg.TelegramWebhookURL); err != nil {
			log.WithError(err).Warn("Failed to register Telegram webhook")
		}
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Received shutdown signal, shutting down server...")
	case <-gctx.Done():
		log.Warn("Background task failed, shutting down server...")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	worker.Wait()
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server gracefully stopped")
	return nil
}

type application struct {
	handler   *v1.Handler
	alerts    service.AlertService
	auth      service.AuthService
	publisher *webhook.RedisWebhookPublisher
	telegram  *channel.TelegramClient
}

// buildApp собирает репозитории, сервисы и HTTP-обработчик
func buildApp(cfg *config.Config, log *logrus.Logger, db *pgxpool.Pool, redisClient *redis.Client, m *metrics.Metrics) (*application, error) {
	catalog, err := i18n.Load()
	if err != nil {
		return nil, err
	}
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return nil, err
	}
	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenExpiry, nil)
	if err != nil {
		return nil, err
	}

	// Инициализация издателя вебхуков
	publisher := webhook.NewRedisWebhookPublisher(redisClient)

	// Транспорты
	telegram := channel.NewTelegramClient(cfg.TelegramBotToken, cfg.HTTPClientTimeout, log)
	whatsapp := channel.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIKey, cfg.WhatsAppVerifyToken, cfg.HTTPClientTimeout, log)
	messengers := channel.NewRouter(telegram, whatsapp)
	ops := channel.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackAlertsChannelID, log)
	mailer := newMailer(cfg, log)

	// Внешние источники местоположения
	geocoder := geo.NewCachedGeocoder(geo.NewNominatimClient(cfg.NominatimURL, cfg.HTTPClientTimeout, m), redisClient, cfg.GeocodeCacheTTL, log, m)
	ipLocator := geo.NewIPLocator(cfg.IPAPIURL, cfg.HTTPClientTimeout, m)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(db, redisClient, cfg.DefaultAlertRadiusKM)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, reportRepo, log, cfg, publisher)
	userService := service.NewUserService(userRepo, log)
	locationService := service.NewLocationService(geocoder, ipLocator, log)
	authService := service.NewAuthService(adminRepo, jwtManager, mailer, log, nil)
	analyticsService := service.NewAnalyticsService(analyticsRepo, incidentRepo, alertRepo, log)
	alertService := service.NewAlertService(alertRepo, incidentRepo, userRepo, messengers, ops, publisher, catalog, log, cfg, m)
	verificationService := service.NewVerificationService(
		reportRepo, verificationRepo, userRepo,
		media.NewProbeAnalyzer(cfg.HTTPClientTimeout),
		weather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.HTTPClientTimeout, log),
		messengers, catalog, log, cfg, m,
	)
	reportService := service.NewReportService(reportRepo, verificationRepo, userRepo, verificationService, incidentService, alertService, log, cfg, m)

	engine := bot.NewEngine(bot.Deps{
		Users:     userService,
		Reports:   reportService,
		Incidents: incidentService,
		Locations: locationService,
		Extractor: geo.NewExtractor(geocoder, cfg.HTTPClientTimeout),
		Sessions:  repository.NewSessionRepository(redisClient, sessionTTL),
		Sender:    messengers,
		Messages:  repository.NewBotMessageRepository(db),
		Catalog:   catalog,
		Logger:    log,
	})

	// Инициализация хэндлеров
	handler := v1.NewHandler(v1.Services{
		Incidents: incidentService,
		Reports:   reportService,
		Alerts:    alertService,
		Users:     userService,
		Auth:      authService,
		Analytics: analyticsService,
		Location:  locationService,
		Bot:       engine,
		Telegram:  telegram,
		WhatsApp:  whatsapp,
	}, enforcer, m, log, cfg)

	return &application{
		handler:   handler,
		alerts:    alertService,
		auth:      authService,
		publisher: publisher,
		telegram:  telegram,
	}, nil
}

func newMailer(cfg *config.Config, log *logrus.Logger) service.Mailer {
	if cfg.SMTPHost == "" {
		return channel.NewLogMailer(log)
	}
	return channel.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

// cleanupExpiredCodes периодически удаляет просроченные коды подтверждения почты
func cleanupExpiredCodes(ctx context.Context, authService service.AuthService, log *logrus.Logger) {
	ticker := time.NewTicker(codeCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authService.CleanupExpiredCodes(ctx); err != nil {
				log.WithError(err).Error("Failed to clean up verification codes")
			}
		}
	}
}
