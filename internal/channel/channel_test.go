package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func TestTelegramSendMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewTelegramClient("TOKEN", time.Second, testLogger()).WithAPIRoot(srv.URL)
	require.NoError(t, client.SendMessage(context.Background(), "42", "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestTelegramDevModeDoesNotCallAPI(t *testing.T) {
	client := NewTelegramClient("", time.Second, testLogger()).WithAPIRoot("http://127.0.0.1:1")
	assert.NoError(t, client.SendMessage(context.Background(), "42", "hello"))
	assert.NoError(t, client.SetWebhook(context.Background(), "https://example.org/hook"))
}

func TestTelegramParseUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "big")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"file_path":"photos/file_1.jpg"}}`))
	}))
	defer srv.Close()

	client := NewTelegramClient("TOKEN", time.Second, testLogger()).WithAPIRoot(srv.URL)
	payload := []byte(`{"update_id":1,"message":{"chat":{"id":12345},"from":{"username":"amina"},
		"caption":"water rising","location":{"latitude":-1.3,"longitude":36.8},
		"photo":[{"file_id":"small","file_size":10},{"file_id":"big","file_size":900}]}}`)

	msg, err := client.ParseUpdate(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "12345", msg.UserID)
	assert.Equal(t, "amina", msg.Username)
	assert.Equal(t, "water rising", msg.Text)
	require.NotNil(t, msg.Location)
	assert.InDelta(t, -1.3, msg.Location.Latitude, 1e-9)
	assert.Equal(t, []string{srv.URL + "/file/botTOKEN/photos/file_1.jpg"}, msg.MediaURLs)
}

func TestTelegramParseUpdate_NoMessage(t *testing.T) {
	client := NewTelegramClient("", time.Second, testLogger())
	msg, err := client.ParseUpdate(context.Background(), []byte(`{"update_id":2,"edited_message":{}}`))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestWhatsAppParseWebhook_Text(t *testing.T) {
	client := NewWhatsAppClient("", "", "", time.Second, testLogger())
	payload := []byte(`{"entry":[{"changes":[{"value":{"messages":[{"from":"254700000001","type":"text","text":{"body":"/report"}}]}}]}]}`)

	msg, err := client.ParseWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, models.PlatformWhatsApp, msg.Platform)
	assert.Equal(t, "254700000001", msg.UserID)
	assert.Equal(t, "+254700000001", msg.Phone)
	assert.Equal(t, "/report", msg.Text)
}

func TestWhatsAppParseWebhook_StatusOnly(t *testing.T) {
	client := NewWhatsAppClient("", "", "", time.Second, testLogger())
	payload := []byte(`{"entry":[{"changes":[{"value":{"statuses":[{"id":"x","status":"delivered"}]}}]}]}`)

	msg, err := client.ParseWebhook(context.Background(), payload)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestWhatsAppParseWebhook_ImageResolvesMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/media/img-1" {
			assert.Equal(t, "KEY", r.Header.Get("D360-API-KEY"))
			_, _ = w.Write([]byte(`{"url":"https://cdn.example.org/img-1.jpg"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewWhatsAppClient(srv.URL, "KEY", "", time.Second, testLogger())
	payload := []byte(`{"entry":[{"changes":[{"value":{"messages":[{"from":"2547","type":"image","image":{"id":"img-1","caption":"street"}}]}}]}]}`)

	msg, err := client.ParseWebhook(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.org/img-1.jpg"}, msg.MediaURLs)
	assert.Equal(t, "street", msg.Text)
}

func TestWhatsAppVerifyChallenge(t *testing.T) {
	client := NewWhatsAppClient("", "", "verify-me", time.Second, testLogger())

	challenge, ok := client.VerifyChallenge("subscribe", "verify-me", "12345")
	assert.True(t, ok)
	assert.Equal(t, "12345", challenge)

	_, ok = client.VerifyChallenge("subscribe", "wrong", "12345")
	assert.False(t, ok)

	_, ok = client.VerifyChallenge("unsubscribe", "verify-me", "12345")
	assert.False(t, ok)
}

type recordingMessenger struct {
	sent []string
}

func (m *recordingMessenger) SendMessage(_ context.Context, chatID, text string) error {
	m.sent = append(m.sent, chatID+":"+text)
	return nil
}

func (m *recordingMessenger) SendLocation(context.Context, string, float64, float64) error {
	return nil
}

func TestRouter(t *testing.T) {
	tg := &recordingMessenger{}
	wa := &recordingMessenger{}
	router := NewRouter(tg, wa)

	require.NoError(t, router.Send(context.Background(), models.PlatformTelegram, "1", "hi"))
	require.NoError(t, router.Send(context.Background(), models.PlatformWhatsApp, "2", "hujambo"))
	assert.Equal(t, []string{"1:hi"}, tg.sent)
	assert.Equal(t, []string{"2:hujambo"}, wa.sent)

	err := router.Send(context.Background(), models.PlatformSMS, "3", "hi")
	assert.ErrorIs(t, err, ErrUnsupportedChannel)
}

func TestSlackNotifier_PostsBlocks(t *testing.T) {
	var form string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1.0"}`))
	}))
	defer srv.Close()

	notifier := NewSlackNotifier("xoxb-test", "C1", testLogger(), slack.OptionAPIURL(srv.URL+"/"))
	alert := &models.Alert{ID: uuid.New(), Level: models.AlertEmergency, Message: "Evacuate", AffectedRadiusKM: 7}
	incident := &models.Incident{ID: uuid.New(), Severity: models.SeverityCritical, ReportCount: 4, Address: "Kisumu"}

	err := notifier.NotifyAlert(context.Background(), alert, incident, models.DeliveryStats{Total: 10, Successful: 9})
	require.NoError(t, err)
	assert.Contains(t, form, "channel=C1")
	assert.True(t, strings.Contains(form, "Kisumu"))
}

func TestSlackNotifier_Disabled(t *testing.T) {
	notifier := NewSlackNotifier("", "", testLogger())
	err := notifier.NotifyAlert(context.Background(), &models.Alert{}, &models.Incident{}, models.DeliveryStats{})
	assert.NoError(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@x", "to@y", "Code", "123456"))
	assert.Contains(t, msg, "Subject: Code\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n123456"))
}
