package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/internal/metrics"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	signatureHeader = "X-Webhook-Signature"
	eventHeader     = "X-Webhook-Event"
	popTimeout      = 5 * time.Second
)

// EventWorker забирает события из очереди и доставляет их на WEBHOOK_URL
type EventWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewEventWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *EventWorker {
	return &EventWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start запускает горутину обработки очереди до отмены ctx
func (w *EventWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping webhook worker.")
				return
			default:
				if err := w.ProcessNext(ctx, popTimeout); err != nil && ctx.Err() == nil {
					w.logger.WithError(err).Error("Failed to pop incident event from Redis")
					sleep(ctx, w.cfg.WebhookTimeout)
				}
			}
		}
	}()
}

// ProcessNext ждет одно событие не дольше timeout и доставляет его.
// Пустая очередь не ошибка.
func (w *EventWorker) ProcessNext(ctx context.Context, timeout time.Duration) error {
	result, err := w.redisClient.BRPop(ctx, timeout, eventQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	// result[0] - ключ, result[1] - значение
	payload := []byte(result[1])
	var event models.IncidentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal incident event from Redis")
		return nil
	}

	w.deliver(ctx, event, payload)
	return nil
}

func (w *EventWorker) deliver(ctx context.Context, event models.IncidentEvent, payload []byte) bool {
	log := w.logger.WithFields(logrus.Fields{
		"service":     "webhook",
		"method":      "deliver",
		"event":       event.Type,
		"incident_id": event.IncidentID,
	})
	log.Debug("Processing incident event...")

	if w.cfg.WebhookURL == "" {
		metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Inc()
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		return false
	}

	maxRetries := w.cfg.WebhookMaxRetries
	delay := w.cfg.WebhookBaseDelay

	for i := 0; i < maxRetries; i++ {
		err := w.send(ctx, event, payload)
		if err == nil {
			metrics.WebhookDeliveriesTotal.WithLabelValues("delivered").Inc()
			log.Info("Webhook delivered successfully.")
			return true
		}
		if ctx.Err() != nil {
			break
		}
		log.WithError(err).Warnf("Webhook delivery failed. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
		sleep(ctx, delay)
		delay *= 2 // экспоненциальная задержка
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
	log.Errorf("Failed to deliver webhook after %d retries.", maxRetries)
	return false
}

func (w *EventWorker) send(ctx context.Context, event models.IncidentEvent, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventHeader, string(event.Type))

	// подпись только при заданном WEBHOOK_SECRET
	if w.cfg.WebhookSecret != "" {
		req.Header.Set(signatureHeader, generateHMACSHA256(payload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
