package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//go:generate swag init -g cmd/main.go -o docs --dir ../ --parseInternal

// @title FloodWatch API
// @version 1.0
// @description Flood reporting, verification and alerting API with Telegram and WhatsApp bots.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

var rootCmd = &cobra.Command{
	Use:           "floodwatch",
	Short:         "FloodWatch flood reporting and alerting backend",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, setTelegramWebhookCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("floodwatch: %v", err)
	}
}
