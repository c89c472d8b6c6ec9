package channel

import (
	"context"
	"fmt"

	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// OpsNotifier уведомляет дежурную смену о разосланных оповещениях
type OpsNotifier interface {
	NotifyAlert(ctx context.Context, alert *models.Alert, incident *models.Incident, stats models.DeliveryStats) error
}

// SlackNotifier публикует сводку по оповещению в канал Slack
type SlackNotifier struct {
	client    *slack.Client
	channelID string
	logger    *logrus.Logger
}

// NewSlackNotifier без токена или канала возвращает нотификатор, который только логирует
func NewSlackNotifier(token, channelID string, logger *logrus.Logger, options ...slack.Option) *SlackNotifier {
	n := &SlackNotifier{channelID: channelID, logger: logger}
	if token != "" && channelID != "" {
		n.client = slack.New(token, options...)
	}
	return n
}

func (n *SlackNotifier) NotifyAlert(ctx context.Context, alert *models.Alert, incident *models.Incident, stats models.DeliveryStats) error {
	if n.client == nil {
		n.logger.WithField("alert_id", alert.ID).Debug("Slack is not configured, skipping ops notification")
		return nil
	}

	blocks := alertBlocks(alert, incident, stats)
	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(fmt.Sprintf("Flood alert %s dispatched", alert.Level), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("posting alert summary: %w", err)
	}
	return nil
}

func alertBlocks(alert *models.Alert, incident *models.Incident, stats models.DeliveryStats) []slack.Block {
	location := fmt.Sprintf("%.4f, %.4f", incident.Latitude, incident.Longitude)
	if incident.Address != "" {
		location = incident.Address
	}

	return []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("Flood %s: %s severity", alert.Level, incident.Severity), true, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, alert.Message, false, false),
			[]*slack.TextBlockObject{
				slack.NewTextBlockObject(slack.MarkdownType, "*Location*\n"+location, false, false),
				slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Radius*\n%.1f km", alert.AffectedRadiusKM), false, false),
				slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Reports*\n%d", incident.ReportCount), false, false),
				slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Delivered*\n%d of %d", stats.Successful, stats.Total), false, false),
			},
			nil,
		),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("alert `%s` · incident `%s`", alert.ID, incident.ID), false, false),
		),
	}
}
