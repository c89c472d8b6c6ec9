package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/flood_watch/internal/bot"
	"github.com/shenikar/flood_watch/internal/models"
)

type BotMessageRepository struct {
	db *pgxpool.Pool
}

func NewBotMessageRepository(db *pgxpool.Pool) bot.MessageLog {
	return &BotMessageRepository{db: db}
}

// Save пишет сообщение в журнал bot_messages
func (r *BotMessageRepository) Save(ctx context.Context, msg *models.BotMessage) error {
	query := `
		INSERT INTO bot_messages (platform, platform_user_id, message_type, message_text, session_state, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		msg.Platform,
		msg.PlatformUserID,
		msg.MessageType,
		msg.MessageText,
		msg.SessionState,
		msg.ResponseTimeMS,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save bot message: %w", err)
	}
	return nil
}
