package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/service"
)

// RedisSessionStore хранит сессии рабочих пространств в Redis в виде JSON
type RedisSessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisSessionStore(redisClient *redis.Client, ttl time.Duration) service.SessionStore {
	return &RedisSessionStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func sessionKey(workspaceID string) string {
	return fmt.Sprintf("session:%s", workspaceID)
}

// Load возвращает сохраненную сессию или nil, nil, если ее нет
func (s *RedisSessionStore) Load(ctx context.Context, workspaceID string) (*models.StoredSession, error) {
	val, err := s.redisClient.Get(ctx, sessionKey(workspaceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	stored := &models.StoredSession{}
	if err := json.Unmarshal(val, stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored session: %w", err)
	}
	return stored, nil
}

// Save сохраняет сессию; каждый вызов продлевает срок хранения
func (s *RedisSessionStore) Save(ctx context.Context, workspaceID string, session *models.StoredSession) error {
	val, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redisClient.Set(ctx, sessionKey(workspaceID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, workspaceID string) error {
	if err := s.redisClient.Del(ctx, sessionKey(workspaceID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
