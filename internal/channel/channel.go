// Package channel отправляет сообщения жителям и операторам через внешние мессенджеры.
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shenikar/flood_watch/internal/models"
)

// ErrUnsupportedChannel для платформ без подключенного транспорта (sms, web)
var ErrUnsupportedChannel = errors.New("unsupported delivery channel")

// Messenger отправка сообщений в один мессенджер
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) error
	SendLocation(ctx context.Context, chatID string, lat, lon float64) error
}

// IncomingMessage входящее сообщение бота в независимом от платформы виде
type IncomingMessage struct {
	Platform  models.PlatformType `json:"platform"`
	UserID    string              `json:"user_id"`
	Username  string              `json:"username,omitempty"`
	Phone     string              `json:"phone,omitempty"`
	Text      string              `json:"text,omitempty"`
	Location  *models.Location    `json:"location,omitempty"`
	MediaURLs []string            `json:"media_urls,omitempty"`
}

// Router выбирает транспорт по платформе пользователя
type Router struct {
	messengers map[models.PlatformType]Messenger
}

func NewRouter(telegram, whatsapp Messenger) *Router {
	return &Router{messengers: map[models.PlatformType]Messenger{
		models.PlatformTelegram: telegram,
		models.PlatformWhatsApp: whatsapp,
	}}
}

// Send отправляет текст пользователю платформы
func (r *Router) Send(ctx context.Context, platform models.PlatformType, chatID, text string) error {
	m, ok := r.messengers[platform]
	if !ok || m == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedChannel, platform)
	}
	return m.SendMessage(ctx, chatID, text)
}

// SendLocation отправляет точку на карте пользователю платформы
func (r *Router) SendLocation(ctx context.Context, platform models.PlatformType, chatID string, lat, lon float64) error {
	m, ok := r.messengers[platform]
	if !ok || m == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedChannel, platform)
	}
	return m.SendLocation(ctx, chatID, lat, lon)
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(client, req)
}

func do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: status %d: %s", req.URL.Path, resp.StatusCode, respBody)
	}
	return respBody, nil
}
