package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter — лимит загрузок на ключ (IP) в фиксированном окне.
// Счетчик в Redis переживает рестарт процесса и общий для всех реплик.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewFixedWindowLimiter(host, port, password string, db, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		window = time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:       fmt.Sprintf("%s:%s", host, port),
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &FixedWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "drawgrid:upload_rl",
	}, nil
}

// Allow инкрементирует счетчик окна и сравнивает с лимитом.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		// Первый запрос окна задает срок жизни счетчика.
		if err := l.client.Expire(ctx, windowKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate counter ttl: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

func (l *FixedWindowLimiter) Close() error {
	return l.client.Close()
}
