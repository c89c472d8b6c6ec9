package v1

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/sirupsen/logrus"
)

const maxWebhookBody = 1 << 20

// @Summary WhatsApp webhook verification
// @Description Echoes hub.challenge when the verify token matches
// @Tags Webhooks
// @Produce plain
// @Param hub.mode query string true "subscribe"
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge"
// @Success 200 {string} string "Challenge"
// @Failure 403 {object} map[string]string "Verification failed"
// @Router /webhooks/whatsapp [get]
func (h *Handler) verifyWhatsAppWebhook(c *gin.Context) {
	challenge, ok := h.whatsapp.VerifyChallenge(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if !ok {
		h.logger.WithField("method", "verifyWhatsAppWebhook").Warn("Webhook verification failed")
		c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
		return
	}
	c.String(http.StatusOK, challenge)
}

// @Summary WhatsApp incoming messages
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Malformed payload"
// @Router /webhooks/whatsapp [post]
func (h *Handler) whatsappWebhook(c *gin.Context) {
	h.handleBotWebhook(c, "whatsappWebhook", h.whatsapp.ParseWebhook)
}

// @Summary Telegram updates
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Malformed payload"
// @Router /webhooks/telegram [post]
func (h *Handler) telegramWebhook(c *gin.Context) {
	h.handleBotWebhook(c, "telegramWebhook", h.telegram.ParseUpdate)
}

// handleBotWebhook отвечает 200 даже при ошибке обработки, иначе мессенджер будет повторять доставку
func (h *Handler) handleBotWebhook(c *gin.Context, method string, parse func(context.Context, []byte) (*channel.IncomingMessage, error)) {
	log := h.logger.WithField("method", method)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		log.WithError(err).Warn("Failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := parse(c.Request.Context(), payload)
	if err != nil {
		log.WithError(err).Warn("Failed to parse webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if msg == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	log = log.WithFields(logrus.Fields{"platform": msg.Platform, "user": msg.UserID})
	if err := h.bot.Handle(c.Request.Context(), msg); err != nil {
		log.WithError(err).Error("Bot failed to handle message")
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
