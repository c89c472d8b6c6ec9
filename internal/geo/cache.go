package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/flood_watch/internal/metrics"
	"github.com/shenikar/flood_watch/internal/models"
	"github.com/sirupsen/logrus"
)

// CachedGeocoder кеширует в Redis непустые ответы геокодера
type CachedGeocoder struct {
	next        Geocoder
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
	metrics     *metrics.Metrics
}

func NewCachedGeocoder(next Geocoder, redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger, m *metrics.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
		metrics:     m,
	}
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("geo:reverse:%.5f:%.5f", lat, lon)
	val, err := c.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.observe("reverse", "hit")
		return val, nil
	case !errors.Is(err, redis.Nil):
		c.logger.WithError(err).WithField("key", key).Warn("Failed to read geocode cache")
	}
	c.observe("reverse", "miss")

	address, err := c.next.Reverse(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if address != "" {
		if err := c.redisClient.Set(ctx, key, address, c.ttl).Err(); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Failed to write geocode cache")
		}
	}
	return address, nil
}

func (c *CachedGeocoder) Search(ctx context.Context, query string, limit int) ([]models.GeocodeResult, error) {
	key := fmt.Sprintf("geo:search:%d:%s", limit, strings.ToLower(strings.TrimSpace(query)))
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var cached []models.GeocodeResult
		if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
			c.observe("search", "hit")
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to read geocode cache")
	}
	c.observe("search", "miss")

	results, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		payload, err := json.Marshal(results)
		if err == nil {
			err = c.redisClient.Set(ctx, key, payload, c.ttl).Err()
		}
		if err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Failed to write geocode cache")
		}
	}
	return results, nil
}

func (c *CachedGeocoder) observe(method, result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCache.WithLabelValues(method, result).Inc()
	}
}
