package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/shenikar/flood_watch/internal/service"
)

const alertColumns = `
			a.id,
			a.incident_id,
			a.alert_level,
			a.message,
			a.affected_radius_km,
			a.recipients_count,
			a.delivery_status,
			a.created_at,
			a.sent_at`

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{db: db}
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	alert := &models.Alert{}
	err := row.Scan(
		&alert.ID,
		&alert.IncidentID,
		&alert.Level,
		&alert.Message,
		&alert.AffectedRadiusKM,
		&alert.RecipientsCount,
		&alert.DeliveryStatus,
		&alert.CreatedAt,
		&alert.SentAt,
	)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.DeliveryStatus == "" {
		alert.DeliveryStatus = models.DeliveryPending
	}
	query := `
		INSERT INTO alerts (incident_id, alert_level, message, affected_radius_km, delivery_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recipients_count, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.IncidentID,
		alert.Level,
		alert.Message,
		alert.AffectedRadiusKM,
		alert.DeliveryStatus,
	).Scan(&alert.ID, &alert.RecipientsCount, &alert.CreatedAt)
	if err != nil {
		return mapError(err, "failed to create alert")
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts a WHERE a.id = $1;`
	alert, err := scanAlert(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("alert", id)
		}
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return alert, nil
}

func (r *AlertRepository) ListRecent(ctx context.Context, limit int) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts a ORDER BY a.created_at DESC LIMIT $1;`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return collect(rows, scanAlert)
}

func (r *AlertRepository) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts a WHERE a.incident_id = $1 ORDER BY a.created_at DESC;`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incident alerts: %w", err)
	}
	return collect(rows, scanAlert)
}

// ListForUser оповещения, отправленные пользователю, с отметками доставки и прочтения
func (r *AlertRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserAlert, error) {
	query := `
		SELECT ` + alertColumns + `, ar.delivered, ar.read
		FROM alerts a
		JOIN alert_recipients ar ON ar.alert_id = a.id
		WHERE ar.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list user alerts: %w", err)
	}
	return collect(rows, func(row rowScanner) (*models.UserAlert, error) {
		ua := &models.UserAlert{}
		err := row.Scan(
			&ua.ID,
			&ua.IncidentID,
			&ua.Level,
			&ua.Message,
			&ua.AffectedRadiusKM,
			&ua.RecipientsCount,
			&ua.DeliveryStatus,
			&ua.CreatedAt,
			&ua.SentAt,
			&ua.Delivered,
			&ua.Read,
		)
		if err != nil {
			return nil, err
		}
		return ua, nil
	})
}

func (r *AlertRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AlertDeliveryStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE alerts SET delivery_status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("alert", id)
	}
	return nil
}

// CompleteDelivery фиксирует итог рассылки
func (r *AlertRepository) CompleteDelivery(ctx context.Context, id uuid.UUID, status models.AlertDeliveryStatus, recipients int, sentAt time.Time) error {
	query := `
		UPDATE alerts SET delivery_status = $1, recipients_count = $2, sent_at = $3
		WHERE id = $4;
	`
	tag, err := r.db.Exec(ctx, query, status, recipients, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to complete alert delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("alert", id)
	}
	return nil
}

// SaveRecipient сохраняет результат доставки; повторная успешная попытка перезаписывает неудачную
func (r *AlertRepository) SaveRecipient(ctx context.Context, recipient *models.AlertRecipient) error {
	query := `
		INSERT INTO alert_recipients (alert_id, user_id, delivered, delivered_at, channel)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (alert_id, user_id) DO UPDATE SET
			delivered = alert_recipients.delivered OR EXCLUDED.delivered,
			delivered_at = COALESCE(alert_recipients.delivered_at, EXCLUDED.delivered_at),
			channel = EXCLUDED.channel;
	`
	_, err := r.db.Exec(ctx, query,
		recipient.AlertID,
		recipient.UserID,
		recipient.Delivered,
		recipient.DeliveredAt,
		recipient.Channel,
	)
	if err != nil {
		return mapError(err, "failed to save alert recipient")
	}
	return nil
}

func (r *AlertRepository) ListRecipients(ctx context.Context, alertID uuid.UUID) ([]*models.AlertRecipient, error) {
	query := `
		SELECT alert_id, user_id, delivered, delivered_at, channel, read, read_at
		FROM alert_recipients
		WHERE alert_id = $1;
	`
	rows, err := r.db.Query(ctx, query, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert recipients: %w", err)
	}
	return collect(rows, func(row rowScanner) (*models.AlertRecipient, error) {
		rec := &models.AlertRecipient{}
		err := row.Scan(&rec.AlertID, &rec.UserID, &rec.Delivered, &rec.DeliveredAt, &rec.Channel, &rec.Read, &rec.ReadAt)
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
}

// ListUndelivered получатели, которым оповещение доставить не удалось
func (r *AlertRepository) ListUndelivered(ctx context.Context, alertID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN alert_recipients ar ON ar.user_id = u.id
		WHERE ar.alert_id = $1 AND NOT ar.delivered;
	`
	rows, err := r.db.Query(ctx, query, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to list undelivered recipients: %w", err)
	}
	return collect(rows, scanUser)
}

// MarkRead отмечает оповещение прочитанным, время первого прочтения сохраняется
func (r *AlertRepository) MarkRead(ctx context.Context, alertID, userID uuid.UUID) error {
	query := `
		UPDATE alert_recipients SET read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE alert_id = $1 AND user_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, alertID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s was not sent to user %s: %w", alertID, userID, models.ErrNotFound)
	}
	return nil
}
