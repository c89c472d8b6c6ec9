package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/flood_watch/internal/auth"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/shenikar/flood_watch/internal/config"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/repository"
	"github.com/shenikar/flood_watch/internal/service"
	"github.com/shenikar/flood_watch/pkg/logger"
	"github.com/shenikar/flood_watch/pkg/postgres"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
	adminRole     string
)

// createAdminCmd заводит сотрудника с любой ролью, публичная регистрация дает только viewer
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a staff account with the given role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.AdminRole(adminRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q (admin, responder, analyst, viewer)", adminRole)
		}
		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			return errors.New("--username, --email and --password are required")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.New(cfg.LogLevel)

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		pool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenExpiry, nil)
		if err != nil {
			return err
		}
		authService := service.NewAuthService(repository.NewAdminRepository(pool), jwtManager, newMailer(cfg, log), log, nil)

		admin := &models.AdminUser{Username: adminUsername, Email: adminEmail, Role: role}
		if err := authService.Register(ctx, admin, adminPassword); err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				return fmt.Errorf("user %s already exists", adminUsername)
			}
			return err
		}

		cmd.Printf("created %s account %s (%s)\n", admin.Role, admin.Username, admin.ID)
		return nil
	},
}

var setTelegramWebhookCmd = &cobra.Command{
	Use:   "set-telegram-webhook",
	Short: "Register TELEGRAM_WEBHOOK_URL with the Telegram Bot API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
			return errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
		}
		log := logger.New(cfg.LogLevel)

		client := channel.NewTelegramClient(cfg.TelegramBotToken, cfg.HTTPClientTimeout, log)
		if err := client.SetWebhook(cmd.Context(), cfg.TelegramWebhookURL); err != nil {
			return err
		}
		cmd.Printf("telegram webhook set to %s\n", cfg.TelegramWebhookURL)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "login name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (at least 8 characters)")
	createAdminCmd.Flags().StringVar(&adminRole, "role", string(models.RoleAdmin), "role: admin, responder, analyst or viewer")
}
