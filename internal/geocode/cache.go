package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/sirupsen/logrus"
)

// CachedGeocoder кеширует результаты другого геокодера в Redis.
// Координаты округляются до 5 знаков (около метра).
type CachedGeocoder struct {
	next        service.Geocoder
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

func NewCachedGeocoder(next service.Geocoder, redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.5f:%.5f", lat, lon)
}

func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	log := g.logger.WithFields(logrus.Fields{
		"service": "geocode",
		"method":  "ReverseGeocode",
	})
	key := cacheKey(lat, lon)

	name, err := g.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.GeocodeLookupsTotal.WithLabelValues("hit").Inc()
		return name, nil
	case !errors.Is(err, redis.Nil):
		// кеш недоступен - идем в сервис напрямую
		log.WithError(err).Warn("Failed to read geocode cache")
	}

	name, err = g.next.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.GeocodeLookupsTotal.WithLabelValues("miss").Inc()

	if err := g.redisClient.Set(ctx, key, name, g.ttl).Err(); err != nil {
		log.WithError(err).Warn("Failed to write geocode cache")
	}
	return name, nil
}
