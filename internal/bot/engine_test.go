package bot

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memorySessions struct {
	data map[string]*Session
}

func (m *memorySessions) key(p models.PlatformType, id string) string { return string(p) + ":" + id }

func (m *memorySessions) Get(_ context.Context, p models.PlatformType, id string) (*Session, error) {
	s, ok := m.data[m.key(p, id)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessions) Save(_ context.Context, p models.PlatformType, id string, s *Session) error {
	cp := *s
	m.data[m.key(p, id)] = &cp
	return nil
}

func (m *memorySessions) Delete(_ context.Context, p models.PlatformType, id string) error {
	delete(m.data, m.key(p, id))
	return nil
}

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(_ context.Context, _ models.PlatformType, _ string, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingSender) last() string {
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

type recordingLog struct {
	entries []*models.BotMessage
}

func (r *recordingLog) Save(_ context.Context, msg *models.BotMessage) error {
	r.entries = append(r.entries, msg)
	return nil
}

type stubExtractor struct {
	loc *models.Location
	err error
}

func (s *stubExtractor) Extract(context.Context, string) (*models.Location, error) {
	return s.loc, s.err
}

type engineFixture struct {
	engine    *Engine
	users     *mocks.MockUserService
	reports   *mocks.MockReportService
	incidents *mocks.MockIncidentService
	locations *mocks.MockLocationService
	extractor *stubExtractor
	sessions  *memorySessions
	sender    *recordingSender
	log       *recordingLog
	catalog   *i18n.Catalog
	user      *models.User
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	f := &engineFixture{
		users:     mocks.NewMockUserService(ctrl),
		reports:   mocks.NewMockReportService(ctrl),
		incidents: mocks.NewMockIncidentService(ctrl),
		locations: mocks.NewMockLocationService(ctrl),
		extractor: &stubExtractor{},
		sessions:  &memorySessions{data: map[string]*Session{}},
		sender:    &recordingSender{},
		log:       &recordingLog{},
		catalog:   i18n.MustLoad(),
		user: &models.User{
			ID:            uuid.New(),
			Platform:      models.PlatformTelegram,
			PlatformID:    "42",
			LanguageCode:  "en",
			AlertRadiusKM: 5,
		},
	}
	f.engine = NewEngine(Deps{
		Users:     f.users,
		Reports:   f.reports,
		Incidents: f.incidents,
		Locations: f.locations,
		Extractor: f.extractor,
		Sessions:  f.sessions,
		Sender:    f.sender,
		Messages:  f.log,
		Catalog:   f.catalog,
		Logger:    logger,
	})
	f.engine.clock = clockwork.NewFakeClockAt(time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC))

	f.users.EXPECT().
		GetOrCreateByPlatform(gomock.Any(), models.PlatformTelegram, "42", "", "").
		Return(f.user, false, nil).
		AnyTimes()
	return f
}

func (f *engineFixture) send(t *testing.T, msg channel.IncomingMessage) {
	t.Helper()
	msg.Platform = models.PlatformTelegram
	msg.UserID = "42"
	require.NoError(t, f.engine.Handle(context.Background(), &msg))
}

func (f *engineFixture) state() string {
	s, ok := f.sessions.data["telegram:42"]
	if !ok {
		return StateIdle
	}
	return s.State
}

func TestHandle_Start(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/start"})

	// Проверки
	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, f.catalog.T("en", "welcome"), f.sender.sent[0])
	assert.Equal(t, f.catalog.T("en", "help_menu"), f.sender.sent[1])
	assert.Equal(t, StateIdle, f.state())
	require.Len(t, f.log.entries, 1)
	assert.Equal(t, models.MessageCommand, f.log.entries[0].MessageType)
	assert.Equal(t, "/start", f.log.entries[0].MessageText)
}

func TestHandle_UserLookupFails(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserService(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	sender := &recordingSender{}
	engine := NewEngine(Deps{Users: users, Sender: sender, Logger: logger, Catalog: i18n.MustLoad()})

	// Ожидания
	users.EXPECT().GetOrCreateByPlatform(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, false, fmt.Errorf("db down")).Times(1)

	// Действие
	err := engine.Handle(context.Background(), &channel.IncomingMessage{Platform: models.PlatformWhatsApp, UserID: "254700"})

	// Проверки
	assert.ErrorContains(t, err, "could not resolve user")
	assert.Empty(t, sender.sent)
}

func TestHandle_ReportFlow(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)
	reportID := uuid.New()

	// Ожидания
	f.locations.EXPECT().Reverse(gomock.Any(), -1.31, 36.78).Return("Kibera, Nairobi", nil).Times(1)
	f.reports.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) error {
			assert.Equal(t, f.user.ID, r.UserID)
			assert.Equal(t, -1.31, r.Latitude)
			assert.Equal(t, 36.78, r.Longitude)
			assert.Equal(t, "Kibera, Nairobi", r.Address)
			assert.Equal(t, models.SeverityHigh, r.Severity)
			assert.Equal(t, "Water knee deep", r.Description)
			assert.Equal(t, []string{"https://cdn.example/photo1.jpg"}, r.ImageURLs)
			r.ID = reportID
			return nil
		}).Times(1)

	// Действие и проверки по шагам
	f.send(t, channel.IncomingMessage{Text: "/report"})
	assert.Equal(t, StateAwaitingLocation, f.state())

	f.send(t, channel.IncomingMessage{Location: &models.Location{Latitude: -1.31, Longitude: 36.78}})
	assert.Equal(t, StateAwaitingSeverity, f.state())

	f.send(t, channel.IncomingMessage{Text: "banana"})
	assert.Equal(t, StateAwaitingSeverity, f.state())
	assert.Equal(t, f.catalog.T("en", "report.invalid_severity"), f.sender.last())

	f.send(t, channel.IncomingMessage{Text: "3"})
	assert.Equal(t, StateAwaitingDescription, f.state())

	f.send(t, channel.IncomingMessage{Text: "Water knee deep"})
	assert.Equal(t, StateAwaitingPhotos, f.state())

	f.send(t, channel.IncomingMessage{MediaURLs: []string{"https://cdn.example/photo1.jpg"}})
	assert.Equal(t, f.catalog.T("en", "report.photo_received"), f.sender.last())
	assert.Equal(t, StateAwaitingPhotos, f.state())

	f.send(t, channel.IncomingMessage{Text: "done"})
	assert.Equal(t, StateAwaitingConfirmation, f.state())
	assert.Contains(t, f.sender.last(), "Kibera, Nairobi")
	assert.Contains(t, f.sender.last(), "HIGH")

	f.send(t, channel.IncomingMessage{Text: "confirm"})
	assert.Equal(t, StateIdle, f.state())
	assert.Contains(t, f.sender.last(), reportID.String())

	require.Len(t, f.log.entries, 8)
	assert.Equal(t, models.MessageLocation, f.log.entries[1].MessageType)
	assert.Equal(t, models.MessageMedia, f.log.entries[5].MessageType)
	assert.Equal(t, StateAwaitingSeverity, f.log.entries[1].SessionState)
}

func TestHandle_ReportInvalidLocation(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/report"})
	f.send(t, channel.IncomingMessage{Text: "somewhere wet"})

	// Проверки
	assert.Equal(t, StateAwaitingLocation, f.state())
	assert.Equal(t, f.catalog.T("en", "error.invalid_location"), f.sender.last())
}

func TestHandle_ReportCancelled(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)
	f.sessions.data["telegram:42"] = &Session{
		State: StateAwaitingConfirmation,
		Draft: &ReportDraft{
			Location: &models.Location{Latitude: 1, Longitude: 2},
			Severity: models.SeverityLow,
		},
	}

	// Ожидания
	f.reports.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "cancel"})

	// Проверки
	assert.Equal(t, StateIdle, f.state())
	assert.Equal(t, f.catalog.T("en", "report.cancelled"), f.sender.last())
}

func TestHandle_ReportSubmitFails(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)
	f.sessions.data["telegram:42"] = &Session{
		State: StateAwaitingConfirmation,
		Draft: &ReportDraft{
			Location: &models.Location{Latitude: 1, Longitude: 2},
			Severity: models.SeverityLow,
		},
	}

	// Ожидания
	f.reports.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).Return(fmt.Errorf("db down")).Times(1)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "confirm"})

	// Проверки
	assert.Equal(t, StateIdle, f.state())
	assert.Equal(t, f.catalog.T("en", "error.general"), f.sender.last())
}

func TestHandle_AlertSubscription(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)
	f.extractor.loc = &models.Location{Latitude: -1.3, Longitude: 36.8, Address: "Kibera", Source: models.SourceManual}

	// Ожидания
	f.users.EXPECT().UpdateUser(gomock.Any(), f.user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u models.UserUpdate) (*models.User, error) {
			require.NotNil(t, u.Latitude)
			assert.Equal(t, -1.3, *u.Latitude)
			assert.Equal(t, 36.8, *u.Longitude)
			assert.True(t, *u.AlertSubscribed)
			assert.Equal(t, 10.0, *u.AlertRadiusKM)
			return f.user, nil
		}).Times(1)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/alerts"})
	f.send(t, channel.IncomingMessage{Text: "Kibera"})
	f.send(t, channel.IncomingMessage{Text: "25"})

	// Проверки
	assert.Equal(t, StateAwaitingAlertRadius, f.state())
	assert.Equal(t, f.catalog.T("en", "alert.invalid_radius"), f.sender.last())

	// Действие
	f.send(t, channel.IncomingMessage{Text: "10"})

	// Проверки
	assert.Equal(t, StateIdle, f.state())
	assert.Contains(t, f.sender.last(), "Kibera")
	assert.Contains(t, f.sender.last(), "10 km")
}

func TestHandle_LanguageSelection(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)

	// Ожидания
	f.users.EXPECT().UpdateUser(gomock.Any(), f.user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, u models.UserUpdate) (*models.User, error) {
			require.NotNil(t, u.LanguageCode)
			assert.Equal(t, "sw", *u.LanguageCode)
			return f.user, nil
		}).Times(1)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/language"})
	f.send(t, channel.IncomingMessage{Text: "7"})
	f.send(t, channel.IncomingMessage{Text: "2"})

	// Проверки
	assert.Equal(t, StateIdle, f.state())
	assert.Equal(t, f.catalog.T("sw", "language_changed"), f.sender.last())
}

func TestHandle_Status(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)
	lat, lon := -1.30, 36.80
	f.user.Latitude, f.user.Longitude = &lat, &lon
	near := &models.Incident{ID: uuid.New(), Latitude: -1.31, Longitude: 36.81, Severity: models.SeverityHigh, ReportCount: 4}
	far := &models.Incident{ID: uuid.New(), Latitude: -4.05, Longitude: 39.66, Severity: models.SeverityCritical, ReportCount: 9}

	// Ожидания
	f.incidents.EXPECT().ListActive(gomock.Any(), statusIncidentLimit).Return([]*models.Incident{near, far}, nil).Times(1)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/status"})

	// Проверки
	reply := f.sender.last()
	assert.Contains(t, reply, "HIGH severity - 4 reports")
	assert.NotContains(t, reply, "CRITICAL")
}

func TestHandle_StatusWithoutLocation(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)

	// Действие
	f.send(t, channel.IncomingMessage{Text: "/status"})

	// Проверки
	assert.Equal(t, f.catalog.T("en", "error.location_required"), f.sender.last())
}

func TestHandle_IdleLocationChecksDanger(t *testing.T) {
	// Подготовка
	f := newEngineFixture(t)

	// Ожидания
	f.incidents.EXPECT().CheckLocation(gomock.Any(), "telegram:42", -1.3, 36.8).Return(nil, nil).Times(1)

	// Действие
	f.send(t, channel.IncomingMessage{Location: &models.Location{Latitude: -1.3, Longitude: 36.8}})

	// Проверки
	assert.Equal(t, f.catalog.T("en", "status.no_reports", "radius", "5"), f.sender.last())
}

func TestHandle_UnknownCommand(t *testing.T) {
	f := newEngineFixture(t)

	f.send(t, channel.IncomingMessage{Text: "/weather@FloodWatchBot"})

	assert.Equal(t, f.catalog.T("en", "help_menu"), f.sender.last())
}

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		input    string
		expected models.SeverityLevel
		ok       bool
	}{
		{"1", models.SeverityLow, true},
		{" medium ", models.SeverityMedium, true},
		{"HIGH", models.SeverityHigh, true},
		{"4", models.SeverityCritical, true},
		{"5", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseSeverity(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}
