package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/domain"
)

// AttemptCache keeps raw per-question answers in Redis for audit/export.
// It is best-effort and non-authoritative; the Result aggregate in Postgres
// remains the source of truth.
type AttemptCache struct {
	client *redis.Client
	ttl    time.Duration
}

type attemptRecord struct {
	AttemptID string                 `json:"attempt_id"`
	UserID    uint                   `json:"user_id"`
	QuizID    uint                   `json:"quiz_id"`
	Answers   []domain.AttemptAnswer `json:"answers"`
	TakenAt   time.Time              `json:"taken_at"`
}

func New(conf *config.RedisConfig) (*AttemptCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: conf.Addr(),
		DB:   conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping -> %w", err)
	}

	return &AttemptCache{
		client: client,
		ttl:    time.Duration(conf.AnswerTTLMins) * time.Minute,
	}, nil
}

func (c *AttemptCache) RecordAttempt(ctx context.Context, userID, quizID uint, entries []domain.AttemptAnswer) error {
	record := attemptRecord{
		AttemptID: uuid.NewString(),
		UserID:    userID,
		QuizID:    quizID,
		Answers:   entries,
		TakenAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("attempt:%d:%d:%s", userID, quizID, record.AttemptID)

	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func (c *AttemptCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}

	return nil
}
