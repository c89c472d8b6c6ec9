// Package bot ведет диалоги с жителями в Telegram и WhatsApp.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/flood_watch/internal/channel"
	"github.com/shenikar/flood_watch/internal/geo"
	"github.com/shenikar/flood_watch/internal/i18n"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	maxMediaPerReport   = 10
	statusIncidentLimit = 100
	defaultStatusRadius = 5.0
)

// Sender отправка ответа пользователю
type Sender interface {
	Send(ctx context.Context, platform models.PlatformType, chatID, text string) error
}

// LocationExtractor извлекает координаты из текста сообщения
type LocationExtractor interface {
	Extract(ctx context.Context, text string) (*models.Location, error)
}

// Engine обрабатывает входящие сообщения и ведет пользователя по сценариям
type Engine struct {
	users     service.UserService
	reports   service.ReportService
	incidents service.IncidentService
	locations service.LocationService
	extractor LocationExtractor
	sessions  SessionStore
	sender    Sender
	messages  MessageLog
	catalog   *i18n.Catalog
	logger    *logrus.Logger
	clock     clockwork.Clock
}

type Deps struct {
	Users     service.UserService
	Reports   service.ReportService
	Incidents service.IncidentService
	Locations service.LocationService
	Extractor LocationExtractor
	Sessions  SessionStore
	Sender    Sender
	Messages  MessageLog
	Catalog   *i18n.Catalog
	Logger    *logrus.Logger
}

func NewEngine(d Deps) *Engine {
	return &Engine{
		users:     d.Users,
		reports:   d.Reports,
		incidents: d.Incidents,
		locations: d.Locations,
		extractor: d.Extractor,
		sessions:  d.Sessions,
		sender:    d.Sender,
		messages:  d.Messages,
		catalog:   d.Catalog,
		logger:    d.Logger,
		clock:     clockwork.NewRealClock(),
	}
}

// turn контекст обработки одного сообщения
type turn struct {
	log     *logrus.Entry
	msg     *channel.IncomingMessage
	user    *models.User
	session *Session
	lang    string
	replies []string
}

func (t *turn) reply(text string) {
	t.replies = append(t.replies, text)
}

// Handle обрабатывает одно входящее сообщение: находит или регистрирует пользователя,
// продвигает сессию, отправляет ответы и пишет запись в журнал.
func (e *Engine) Handle(ctx context.Context, msg *channel.IncomingMessage) error {
	start := e.clock.Now()
	log := e.logger.WithFields(logrus.Fields{
		"component": "bot",
		"platform":  msg.Platform,
		"user":      msg.UserID,
	})

	user, created, err := e.users.GetOrCreateByPlatform(ctx, msg.Platform, msg.UserID, msg.Phone, "")
	if err != nil {
		log.WithError(err).Error("Failed to resolve bot user")
		return fmt.Errorf("bot: could not resolve user: %w", err)
	}
	if created {
		log.WithField("user_id", user.ID).Info("New bot user")
	}

	session, err := e.sessions.Get(ctx, msg.Platform, msg.UserID)
	if err != nil {
		log.WithError(err).Warn("Failed to load session, starting over")
	}
	if session == nil {
		session = &Session{}
	}

	t := &turn{
		log:     log,
		msg:     msg,
		user:    user,
		session: session,
		lang:    e.catalog.Match(user.LanguageCode),
	}
	e.dispatch(ctx, t)

	if t.session.State == StateIdle {
		if err := e.sessions.Delete(ctx, msg.Platform, msg.UserID); err != nil {
			log.WithError(err).Warn("Failed to delete session")
		}
	} else {
		t.session.UpdatedAt = e.clock.Now()
		if err := e.sessions.Save(ctx, msg.Platform, msg.UserID, t.session); err != nil {
			log.WithError(err).Error("Failed to save session")
		}
	}

	for _, text := range t.replies {
		if err := e.sender.Send(ctx, msg.Platform, msg.UserID, text); err != nil {
			log.WithError(err).Warn("Failed to send bot reply")
		}
	}

	entry := &models.BotMessage{
		Platform:       msg.Platform,
		PlatformUserID: msg.UserID,
		MessageType:    messageType(msg),
		MessageText:    msg.Text,
		SessionState:   t.session.State,
		ResponseTimeMS: int(e.clock.Since(start).Milliseconds()),
	}
	if err := e.messages.Save(ctx, entry); err != nil {
		log.WithError(err).Warn("Failed to log bot message")
	}
	return nil
}

func messageType(msg *channel.IncomingMessage) models.MessageType {
	switch {
	case strings.HasPrefix(strings.TrimSpace(msg.Text), "/"):
		return models.MessageCommand
	case msg.Location != nil:
		return models.MessageLocation
	case len(msg.MediaURLs) > 0:
		return models.MessageMedia
	}
	return models.MessageText
}

func (e *Engine) dispatch(ctx context.Context, t *turn) {
	text := strings.TrimSpace(t.msg.Text)
	if strings.HasPrefix(text, "/") {
		e.command(ctx, t, text)
		return
	}

	switch t.session.State {
	case StateAwaitingLocation:
		e.onReportLocation(ctx, t)
	case StateAwaitingSeverity:
		e.onSeverity(t, text)
	case StateAwaitingDescription:
		e.onDescription(t, text)
	case StateAwaitingPhotos:
		e.onPhotos(t, text)
	case StateAwaitingConfirmation:
		e.onConfirmation(ctx, t, text)
	case StateAwaitingAlertLocation:
		e.onAlertLocation(ctx, t)
	case StateAwaitingAlertRadius:
		e.onAlertRadius(ctx, t, text)
	case StateAwaitingLanguage:
		e.onLanguage(ctx, t, text)
	default:
		e.onIdle(ctx, t)
	}
}

func (e *Engine) command(ctx context.Context, t *turn, text string) {
	name := strings.ToLower(strings.Fields(text)[0])
	// /report@FloodWatchBot в групповых чатах
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}

	switch name {
	case "/start":
		t.session.Reset()
		t.reply(e.catalog.T(t.lang, "welcome"))
		t.reply(e.catalog.T(t.lang, "help_menu"))
	case "/report":
		t.session.Reset()
		t.session.State = StateAwaitingLocation
		t.session.Draft = &ReportDraft{}
		t.reply(e.catalog.T(t.lang, "report.request_location"))
	case "/alerts":
		t.session.Reset()
		if t.user.AlertSubscribed && t.user.HasLocation() {
			t.reply(e.catalog.T(t.lang, "alert.subscription_exists"))
		}
		t.session.State = StateAwaitingAlertLocation
		t.reply(e.catalog.T(t.lang, "alert.request_location"))
	case "/status":
		e.status(ctx, t)
	case "/safety":
		t.reply(e.catalog.T(t.lang, "safety.info"))
	case "/language":
		t.session.Reset()
		t.session.State = StateAwaitingLanguage
		t.reply(e.catalog.T(t.lang, "select_language"))
	case "/cancel":
		t.session.Reset()
		t.reply(e.catalog.T(t.lang, "report.cancelled"))
	default:
		t.reply(e.catalog.T(t.lang, "help_menu"))
	}
}

// locate достает координаты из сообщения: сначала точка на карте, затем текст
func (e *Engine) locate(ctx context.Context, t *turn) *models.Location {
	if loc := t.msg.Location; loc != nil {
		if !geo.ValidCoordinates(loc.Latitude, loc.Longitude) {
			return nil
		}
		result := *loc
		if result.Source == "" {
			result.Source = models.SourceGPS
		}
		if result.Address == "" {
			result.Address, _ = e.locations.Reverse(ctx, result.Latitude, result.Longitude)
		}
		return &result
	}

	loc, err := e.extractor.Extract(ctx, t.msg.Text)
	if err != nil {
		t.log.WithError(err).Warn("Failed to extract location from text")
		return nil
	}
	if loc != nil && loc.Address == "" {
		loc.Address, _ = e.locations.Reverse(ctx, loc.Latitude, loc.Longitude)
	}
	return loc
}

func (e *Engine) onReportLocation(ctx context.Context, t *turn) {
	loc := e.locate(ctx, t)
	if loc == nil {
		t.reply(e.catalog.T(t.lang, "error.invalid_location"))
		return
	}
	if t.session.Draft == nil {
		t.session.Draft = &ReportDraft{}
	}
	t.session.Draft.Location = loc
	t.session.State = StateAwaitingSeverity
	t.reply(e.catalog.T(t.lang, "report.request_severity"))
}

// ParseSeverity принимает номер 1-4 или название уровня
func ParseSeverity(text string) (models.SeverityLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "low":
		return models.SeverityLow, true
	case "2", "medium":
		return models.SeverityMedium, true
	case "3", "high":
		return models.SeverityHigh, true
	case "4", "critical":
		return models.SeverityCritical, true
	}
	return "", false
}

func (e *Engine) onSeverity(t *turn, text string) {
	severity, ok := ParseSeverity(text)
	if !ok {
		t.reply(e.catalog.T(t.lang, "report.invalid_severity"))
		return
	}
	t.session.Draft.Severity = severity
	t.session.State = StateAwaitingDescription
	t.reply(e.catalog.T(t.lang, "report.request_description"))
}

func (e *Engine) onDescription(t *turn, text string) {
	if !strings.EqualFold(text, "skip") {
		t.session.Draft.Description = text
	}
	e.addMedia(t)
	t.session.State = StateAwaitingPhotos
	t.reply(e.catalog.T(t.lang, "report.request_photos"))
}

func (e *Engine) addMedia(t *turn) bool {
	added := false
	for _, url := range t.msg.MediaURLs {
		if len(t.session.Draft.MediaURLs) >= maxMediaPerReport {
			break
		}
		t.session.Draft.MediaURLs = append(t.session.Draft.MediaURLs, url)
		added = true
	}
	return added
}

func (e *Engine) onPhotos(t *turn, text string) {
	if e.addMedia(t) {
		t.reply(e.catalog.T(t.lang, "report.photo_received"))
		return
	}
	switch strings.ToLower(text) {
	case "done", "skip":
		t.session.State = StateAwaitingConfirmation
		t.reply(e.summary(t))
	default:
		t.reply(e.catalog.T(t.lang, "report.photos_prompt"))
	}
}

func (e *Engine) summary(t *turn) string {
	d := t.session.Draft
	description := d.Description
	if description == "" {
		description = e.catalog.T(t.lang, "report.no_description")
	}
	return e.catalog.T(t.lang, "report.confirm_submission",
		"location", describeLocation(d.Location),
		"severity", strings.ToUpper(string(d.Severity)),
		"description", description,
	)
}

func describeLocation(loc *models.Location) string {
	if loc == nil {
		return ""
	}
	if loc.Address != "" {
		return loc.Address
	}
	return geo.FormatCoordinates(loc.Latitude, loc.Longitude)
}

func (e *Engine) onConfirmation(ctx context.Context, t *turn, text string) {
	switch strings.ToLower(text) {
	case "confirm", "yes":
	case "cancel", "no":
		t.session.Reset()
		t.reply(e.catalog.T(t.lang, "report.cancelled"))
		return
	default:
		t.reply(e.catalog.T(t.lang, "report.confirm_prompt"))
		return
	}

	d := t.session.Draft
	t.session.Reset()
	if d == nil || d.Location == nil || !d.Severity.Valid() {
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}

	report := &models.Report{
		UserID:      t.user.ID,
		Latitude:    d.Location.Latitude,
		Longitude:   d.Location.Longitude,
		Address:     d.Location.Address,
		Severity:    d.Severity,
		Description: d.Description,
		ImageURLs:   d.MediaURLs,
	}
	if err := e.reports.SubmitReport(ctx, report); err != nil {
		t.log.WithError(err).Error("Failed to submit report from bot")
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}
	t.log.WithField("report_id", report.ID).Info("Report submitted from bot")
	t.reply(e.catalog.T(t.lang, "report.submitted", "report_id", report.ID))
}

func (e *Engine) onAlertLocation(ctx context.Context, t *turn) {
	loc := e.locate(ctx, t)
	if loc == nil {
		t.reply(e.catalog.T(t.lang, "error.location_required"))
		return
	}
	t.session.AlertLocation = loc
	t.session.State = StateAwaitingAlertRadius
	t.reply(e.catalog.T(t.lang, "alert.request_radius"))
}

func (e *Engine) onAlertRadius(ctx context.Context, t *turn, text string) {
	radius, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(text), "km"), 64)
	if err != nil || radius < models.MinAlertRadiusKM || radius > models.MaxAlertRadiusKM {
		t.reply(e.catalog.T(t.lang, "alert.invalid_radius"))
		return
	}

	loc := t.session.AlertLocation
	t.session.Reset()
	if loc == nil {
		t.reply(e.catalog.T(t.lang, "error.location_required"))
		return
	}

	subscribed := true
	_, err = e.users.UpdateUser(ctx, t.user.ID, models.UserUpdate{
		Latitude:        &loc.Latitude,
		Longitude:       &loc.Longitude,
		AlertSubscribed: &subscribed,
		AlertRadiusKM:   &radius,
	})
	if err != nil {
		t.log.WithError(err).Error("Failed to save alert subscription")
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}
	t.reply(e.catalog.T(t.lang, "alert.subscription_confirmed",
		"location", describeLocation(loc),
		"radius", strconv.FormatFloat(radius, 'f', -1, 64),
	))
}

var languageChoices = map[string]string{
	"1": "en",
	"2": "sw",
	"3": "fr",
	"4": "es",
}

func (e *Engine) onLanguage(ctx context.Context, t *turn, text string) {
	choice := strings.ToLower(text)
	lang, ok := languageChoices[choice]
	if !ok {
		for _, l := range languageChoices {
			if l == choice {
				lang, ok = l, true
			}
		}
	}
	if !ok {
		t.reply(e.catalog.T(t.lang, "select_language"))
		return
	}

	t.session.Reset()
	if _, err := e.users.UpdateUser(ctx, t.user.ID, models.UserUpdate{LanguageCode: &lang}); err != nil {
		t.log.WithError(err).Error("Failed to update language")
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}
	t.lang = lang
	t.reply(e.catalog.T(lang, "language_changed"))
}

// onIdle вне сценария точка на карте трактуется как проверка опасности
func (e *Engine) onIdle(ctx context.Context, t *turn) {
	loc := t.msg.Location
	if loc == nil || !geo.ValidCoordinates(loc.Latitude, loc.Longitude) {
		t.reply(e.catalog.T(t.lang, "help_menu"))
		return
	}

	checkID := fmt.Sprintf("%s:%s", t.msg.Platform, t.msg.UserID)
	incidents, err := e.incidents.CheckLocation(ctx, checkID, loc.Latitude, loc.Longitude)
	if err != nil {
		t.log.WithError(err).Error("Failed to check location")
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}
	t.reply(e.incidentsReply(t, incidents, loc.Latitude, loc.Longitude, e.radius(t.user)))
}

func (e *Engine) radius(u *models.User) float64 {
	if u.AlertRadiusKM > 0 {
		return u.AlertRadiusKM
	}
	return defaultStatusRadius
}

// status активные инциденты в радиусе подписки пользователя
func (e *Engine) status(ctx context.Context, t *turn) {
	if !t.user.HasLocation() {
		// точка на карте вне сценария проверяет опасность
		t.reply(e.catalog.T(t.lang, "error.location_required"))
		return
	}

	lat, lon := *t.user.Latitude, *t.user.Longitude
	radius := e.radius(t.user)

	active, err := e.incidents.ListActive(ctx, statusIncidentLimit)
	if err != nil {
		t.log.WithError(err).Error("Failed to list active incidents")
		t.reply(e.catalog.T(t.lang, "error.general"))
		return
	}

	nearby := make([]*models.Incident, 0, len(active))
	for _, inc := range active {
		if geo.DistanceKM(lat, lon, inc.Latitude, inc.Longitude) <= radius {
			nearby = append(nearby, inc)
		}
	}
	t.reply(e.incidentsReply(t, nearby, lat, lon, radius))
}

func (e *Engine) incidentsReply(t *turn, incidents []*models.Incident, lat, lon, radius float64) string {
	if len(incidents) == 0 {
		return e.catalog.T(t.lang, "status.no_reports", "radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}

	lines := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		lines = append(lines, e.catalog.T(t.lang, "status.incident_line",
			"severity", strings.ToUpper(string(inc.Severity)),
			"report_count", inc.ReportCount,
			"distance", fmt.Sprintf("%.1f", geo.DistanceKM(lat, lon, inc.Latitude, inc.Longitude)),
		))
	}
	return e.catalog.T(t.lang, "status.active_incidents", "incidents", strings.Join(lines, "\n"))
}
