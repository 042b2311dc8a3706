package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pendingKeyPrefix = "session:pending:"
	menuKeyPrefix    = "session:menu:"
	cityKeyPrefix    = "session:city:"
	langKeyPrefix    = "session:lang:"
	sessionTTL       = 24 * time.Hour
)

type redisManager struct {
	client *redis.Client
}

// NewRedisManager connects to Redis and returns a Manager whose entries
// expire after 24 hours of inactivity. Stale pending prompts then fall back
// to PendingNone on their own.
func NewRedisManager(uri string) (Manager, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis URI: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &redisManager{client: client}, nil
}

func (r *redisManager) Pending(ctx context.Context, userID int64) (PendingInput, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf("%s%d", pendingKeyPrefix, userID)).Result()
	if err == redis.Nil {
		return PendingNone, nil
	}
	if err != nil {
		return PendingNone, fmt.Errorf("get pending: %w", err)
	}
	return PendingInput(val), nil
}

func (r *redisManager) SetPending(ctx context.Context, userID int64, p PendingInput) error {
	key := fmt.Sprintf("%s%d", pendingKeyPrefix, userID)
	if p == PendingNone {
		return r.client.Del(ctx, key).Err()
	}
	return r.client.Set(ctx, key, string(p), sessionTTL).Err()
}

func (r *redisManager) ClearPending(ctx context.Context, userID int64) error {
	return r.SetPending(ctx, userID, PendingNone)
}

func (r *redisManager) Menu(ctx context.Context, userID int64) (Menu, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf("%s%d", menuKeyPrefix, userID)).Result()
	if err == redis.Nil {
		return MenuMain, nil
	}
	if err != nil {
		return MenuMain, fmt.Errorf("get menu: %w", err)
	}
	return Menu(val), nil
}

func (r *redisManager) SetMenu(ctx context.Context, userID int64, m Menu) error {
	key := fmt.Sprintf("%s%d", menuKeyPrefix, userID)
	return r.client.Set(ctx, key, string(m), sessionTTL).Err()
}

func (r *redisManager) City(ctx context.Context, userID int64) (string, error) {
	return r.getString(ctx, cityKeyPrefix, userID)
}

func (r *redisManager) SetCity(ctx context.Context, userID int64, city string) error {
	return r.setString(ctx, cityKeyPrefix, userID, city)
}

func (r *redisManager) Language(ctx context.Context, userID int64) (string, error) {
	return r.getString(ctx, langKeyPrefix, userID)
}

func (r *redisManager) SetLanguage(ctx context.Context, userID int64, code string) error {
	return r.setString(ctx, langKeyPrefix, userID, code)
}

func (r *redisManager) getString(ctx context.Context, prefix string, userID int64) (string, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf("%s%d", prefix, userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", prefix, err)
	}
	return val, nil
}

func (r *redisManager) setString(ctx context.Context, prefix string, userID int64, val string) error {
	key := fmt.Sprintf("%s%d", prefix, userID)
	if val == "" {
		return r.client.Del(ctx, key).Err()
	}
	return r.client.Set(ctx, key, val, sessionTTL).Err()
}

func (r *redisManager) Clear(ctx context.Context, userID int64) error {
	return r.client.Del(ctx,
		fmt.Sprintf("%s%d", pendingKeyPrefix, userID),
		fmt.Sprintf("%s%d", menuKeyPrefix, userID),
		fmt.Sprintf("%s%d", cityKeyPrefix, userID),
		fmt.Sprintf("%s%d", langKeyPrefix, userID),
	).Err()
}

func (r *redisManager) Close() error {
	return r.client.Close()
}
