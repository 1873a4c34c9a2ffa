package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"photogallery/internal/config"
	"photogallery/internal/logging"
)

const (
	defaultPollTimeout = 5 * time.Second
	resultTTL          = 24 * time.Hour
)

// NewRedisClient connects to the broker and verifies it answers.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// RedisQueue is a FIFO list: producers LPUSH, the consumer BRPOPs.
type RedisQueue struct {
	client      *redis.Client
	name        string
	logger      *logging.Logger
	pollTimeout time.Duration
}

var (
	_ Dispatcher = (*RedisQueue)(nil)
	_ Consumer   = (*RedisQueue)(nil)
)

// NewRedisQueue binds the list called name on client.
func NewRedisQueue(client *redis.Client, name string, logger *logging.Logger) *RedisQueue {
	return &RedisQueue{
		client:      client,
		name:        name,
		logger:      logger,
		pollTimeout: defaultPollTimeout,
	}
}

// ResultKey is where the consumer stores the result for filePath.
func (q *RedisQueue) ResultKey(filePath string) string {
	return q.name + ":result:" + filePath
}

func (q *RedisQueue) Enqueue(ctx context.Context, filePath string) error {
	if err := q.client.LPush(ctx, q.name, filePath).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", q.name, err)
	}
	return nil
}

// Run blocks on the list until ctx is cancelled. A broker error ends the loop.
func (q *RedisQueue) Run(ctx context.Context, h Handler) error {
	q.logger.Log(map[string]any{
		"component": "worker",
		"event":     "consumer_started",
		"broker":    "redis",
		"queue":     q.name,
	})

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, q.pollTimeout, q.name).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("dequeue %s: %w", q.name, err)
		}

		// res is [list, value]
		q.handle(ctx, res[1], h)
	}
}

func (q *RedisQueue) handle(ctx context.Context, filePath string, h Handler) {
	if filePath == "" {
		q.logger.Log(map[string]any{
			"component": "worker",
			"event":     "message_dropped",
			"level":     "warn",
			"queue":     q.name,
			"reason":    "empty payload",
		})
		return
	}

	result, err := h(ctx, filePath)
	if err != nil {
		q.logger.Log(map[string]any{
			"component":     "worker",
			"event":         "task_failed",
			"status":        "error",
			"file_path":     filePath,
			"error_message": err.Error(),
		})
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := q.client.Set(ctx, q.ResultKey(filePath), b, resultTTL).Err(); err != nil {
		q.logger.Log(map[string]any{
			"component":     "worker",
			"event":         "result_store_failed",
			"status":        "error",
			"file_path":     filePath,
			"error_message": err.Error(),
		})
	}
}
