package channel

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// WhatsAppClient клиент WhatsApp Business API (360dialog)
type WhatsAppClient struct {
	apiURL      string
	apiKey      string
	verifyToken string
	httpClient  *http.Client
	logger      *logrus.Logger
}

func NewWhatsAppClient(apiURL, apiKey, verifyToken string, timeout time.Duration, logger *logrus.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		apiURL:      strings.TrimRight(apiURL, "/"),
		apiKey:      apiKey,
		verifyToken: verifyToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (c *WhatsAppClient) Enabled() bool {
	return c.apiURL != "" && c.apiKey != ""
}

func (c *WhatsAppClient) headers() map[string]string {
	return map[string]string{"D360-API-KEY": c.apiKey}
}

func (c *WhatsAppClient) SendMessage(ctx context.Context, to, text string) error {
	if !c.Enabled() {
		c.logger.WithFields(logrus.Fields{"platform": "whatsapp", "to": to}).Info("Dev mode: message not sent")
		return nil
	}
	_, err := postJSON(ctx, c.httpClient, c.apiURL+"/messages", c.headers(), map[string]any{
		"recipient_type": "individual",
		"to":             to,
		"type":           "text",
		"text":           map[string]string{"body": text},
	})
	if err != nil {
		return fmt.Errorf("whatsapp send message: %w", err)
	}
	return nil
}

func (c *WhatsAppClient) SendLocation(ctx context.Context, to string, lat, lon float64) error {
	if !c.Enabled() {
		c.logger.WithFields(logrus.Fields{"platform": "whatsapp", "to": to}).Info("Dev mode: location not sent")
		return nil
	}
	_, err := postJSON(ctx, c.httpClient, c.apiURL+"/messages", c.headers(), map[string]any{
		"recipient_type": "individual",
		"to":             to,
		"type":           "location",
		"location":       map[string]float64{"latitude": lat, "longitude": lon},
	})
	if err != nil {
		return fmt.Errorf("whatsapp send location: %w", err)
	}
	return nil
}

// MediaURL возвращает ссылку на медиафайл по его идентификатору
func (c *WhatsAppClient) MediaURL(ctx context.Context, mediaID string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("whatsapp api is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/media/"+mediaID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("D360-API-KEY", c.apiKey)
	body, err := do(c.httpClient, req)
	if err != nil {
		return "", fmt.Errorf("whatsapp media: %w", err)
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode media response: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("whatsapp media: empty url")
	}
	return resp.URL, nil
}

// VerifyChallenge проверяет GET-запрос подтверждения вебхука
func (c *WhatsAppClient) VerifyChallenge(mode, token, challenge string) (string, bool) {
	if mode != "subscribe" || c.verifyToken == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.verifyToken)) != 1 {
		return "", false
	}
	return challenge, true
}

type whatsappWebhook struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Location *struct {
						Latitude  float64 `json:"latitude"`
						Longitude float64 `json:"longitude"`
					} `json:"location"`
					Image *struct {
						ID      string `json:"id"`
						Caption string `json:"caption"`
					} `json:"image"`
					Video *struct {
						ID string `json:"id"`
					} `json:"video"`
					Button *struct {
						Text string `json:"text"`
					} `json:"button"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook разбирает уведомление WhatsApp. Статусные уведомления без сообщений дают nil.
func (c *WhatsAppClient) ParseWebhook(ctx context.Context, payload []byte) (*IncomingMessage, error) {
	var hook whatsappWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("decode whatsapp webhook: %w", err)
	}
	if len(hook.Entry) == 0 || len(hook.Entry[0].Changes) == 0 {
		return nil, nil
	}
	value := hook.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, nil
	}
	m := value.Messages[0]

	msg := &IncomingMessage{
		Platform: models.PlatformWhatsApp,
		UserID:   m.From,
		Phone:    "+" + strings.TrimPrefix(m.From, "+"),
	}

	var mediaID string
	switch m.Type {
	case "text":
		msg.Text = m.Text.Body
	case "button":
		if m.Button != nil {
			msg.Text = m.Button.Text
		}
	case "location":
		if m.Location != nil {
			msg.Location = &models.Location{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude, Source: models.SourceGPS}
		}
	case "image":
		if m.Image != nil {
			mediaID = m.Image.ID
			msg.Text = m.Image.Caption
		}
	case "video":
		if m.Video != nil {
			mediaID = m.Video.ID
		}
	}

	if mediaID != "" {
		u, err := c.MediaURL(ctx, mediaID)
		if err != nil {
			c.logger.WithError(err).WithField("media_id", mediaID).Warn("Failed to resolve whatsapp media")
		} else {
			msg.MediaURLs = append(msg.MediaURLs, u)
		}
	}
	return msg, nil
}
