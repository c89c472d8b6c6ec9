package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/flood_watch/internal/bot"
	"github.com/shenikar/flood_watch/internal/models"
)

// SessionRepository хранит сессии ботов в Redis
type SessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSessionRepository(redisClient *redis.Client, ttl time.Duration) bot.SessionStore {
	if ttl <= 0 {
		ttl = bot.SessionTTL
	}
	return &SessionRepository{redisClient: redisClient, ttl: ttl}
}

func sessionKey(platform models.PlatformType, userID string) string {
	return fmt.Sprintf("session:%s:%s", platform, userID)
}

func (r *SessionRepository) Get(ctx context.Context, platform models.PlatformType, userID string) (*bot.Session, error) {
	val, err := r.redisClient.Get(ctx, sessionKey(platform, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session := &bot.Session{}
	if err := json.Unmarshal(val, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return session, nil
}

// Save сохраняет сессию и продлевает ее время жизни
func (r *SessionRepository) Save(ctx context.Context, platform models.PlatformType, userID string, session *bot.Session) error {
	val, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(platform, userID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, platform models.PlatformType, userID string) error {
	if err := r.redisClient.Del(ctx, sessionKey(platform, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
