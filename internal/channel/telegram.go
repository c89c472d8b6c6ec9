package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramClient клиент Telegram Bot API. Без токена работает в режиме разработки: сообщения только логируются.
type TelegramClient struct {
	token      string
	apiRoot    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewTelegramClient(token string, timeout time.Duration, logger *logrus.Logger) *TelegramClient {
	return &TelegramClient{
		token:      token,
		apiRoot:    defaultTelegramAPI,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithAPIRoot подменяет адрес API (тесты, локальный bot-api сервер)
func (c *TelegramClient) WithAPIRoot(root string) *TelegramClient {
	c.apiRoot = strings.TrimRight(root, "/")
	return c
}

func (c *TelegramClient) Enabled() bool {
	return c.token != ""
}

func (c *TelegramClient) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiRoot, c.token, name)
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) error {
	if !c.Enabled() {
		c.logger.WithFields(logrus.Fields{"platform": "telegram", "chat_id": chatID}).Info("Dev mode: message not sent")
		return nil
	}
	_, err := postJSON(ctx, c.httpClient, c.method("sendMessage"), nil, map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

func (c *TelegramClient) SendLocation(ctx context.Context, chatID string, lat, lon float64) error {
	if !c.Enabled() {
		c.logger.WithFields(logrus.Fields{"platform": "telegram", "chat_id": chatID}).Info("Dev mode: location not sent")
		return nil
	}
	_, err := postJSON(ctx, c.httpClient, c.method("sendLocation"), nil, map[string]any{
		"chat_id":   chatID,
		"latitude":  lat,
		"longitude": lon,
	})
	if err != nil {
		return fmt.Errorf("telegram sendLocation: %w", err)
	}
	return nil
}

// SetWebhook регистрирует адрес, на который Telegram будет присылать обновления
func (c *TelegramClient) SetWebhook(ctx context.Context, webhookURL string) error {
	if !c.Enabled() {
		c.logger.WithField("url", webhookURL).Info("Dev mode: webhook not registered")
		return nil
	}
	if _, err := postJSON(ctx, c.httpClient, c.method("setWebhook"), nil, map[string]string{"url": webhookURL}); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	return nil
}

// FileURL возвращает прямую ссылку на загруженный пользователем файл
func (c *TelegramClient) FileURL(ctx context.Context, fileID string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("telegram bot token is not configured")
	}
	body, err := postJSON(ctx, c.httpClient, c.method("getFile"), nil, map[string]string{"file_id": fileID})
	if err != nil {
		return "", fmt.Errorf("telegram getFile: %w", err)
	}
	var resp struct {
		OK     bool `json:"ok"`
		Result struct {
			FilePath string `json:"file_path"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode getFile response: %w", err)
	}
	if !resp.OK || resp.Result.FilePath == "" {
		return "", fmt.Errorf("telegram getFile: empty file path")
	}
	return fmt.Sprintf("%s/file/bot%s/%s", c.apiRoot, c.token, resp.Result.FilePath), nil
}

type telegramUpdate struct {
	Message *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Username string `json:"username"`
		} `json:"from"`
		Text     string `json:"text"`
		Caption  string `json:"caption"`
		Location *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		Contact *struct {
			PhoneNumber string `json:"phone_number"`
		} `json:"contact"`
		Photo []struct {
			FileID   string `json:"file_id"`
			FileSize int    `json:"file_size"`
		} `json:"photo"`
		Video *struct {
			FileID string `json:"file_id"`
		} `json:"video"`
		Document *struct {
			FileID string `json:"file_id"`
		} `json:"document"`
	} `json:"message"`
}

// ParseUpdate разбирает обновление Telegram. Для обновлений без сообщения возвращает nil.
// Медиафайлы, ссылку на которые не удалось получить, пропускаются.
func (c *TelegramClient) ParseUpdate(ctx context.Context, payload []byte) (*IncomingMessage, error) {
	var update telegramUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		return nil, fmt.Errorf("decode telegram update: %w", err)
	}
	if update.Message == nil {
		return nil, nil
	}
	m := update.Message

	msg := &IncomingMessage{
		Platform: models.PlatformTelegram,
		UserID:   strconv.FormatInt(m.Chat.ID, 10),
		Username: m.From.Username,
		Text:     m.Text,
	}
	if msg.Text == "" {
		msg.Text = m.Caption
	}
	if m.Contact != nil {
		msg.Phone = m.Contact.PhoneNumber
	}
	if m.Location != nil {
		msg.Location = &models.Location{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude, Source: models.SourceGPS}
	}

	var fileIDs []string
	if len(m.Photo) > 0 {
		largest := m.Photo[0]
		for _, p := range m.Photo[1:] {
			if p.FileSize > largest.FileSize {
				largest = p
			}
		}
		fileIDs = append(fileIDs, largest.FileID)
	}
	if m.Video != nil {
		fileIDs = append(fileIDs, m.Video.FileID)
	}
	if m.Document != nil {
		fileIDs = append(fileIDs, m.Document.FileID)
	}
	for _, id := range fileIDs {
		u, err := c.FileURL(ctx, id)
		if err != nil {
			c.logger.WithError(err).WithField("file_id", id).Warn("Failed to resolve telegram file")
			continue
		}
		msg.MediaURLs = append(msg.MediaURLs, u)
	}
	return msg, nil
}
