package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const presenceKey = "presence:connections"

// Presence mirrors per-user live WebSocket counts into a Redis hash so that
// every relay process sharing the instance sees the same online state.
// Field = user ID, value = open connection count.
type Presence struct {
	client *redis.Client
	key    string
}

// NewPresence creates a Presence wrapping the given Redis client.
func NewPresence(client *redis.Client) *Presence {
	return &Presence{client: client, key: presenceKey}
}

// Connected increments userID's connection count.
func (p *Presence) Connected(ctx context.Context, userID string) error {
	if err := p.client.HIncrBy(ctx, p.key, userID, 1).Err(); err != nil {
		return fmt.Errorf("presence connect: %w", err)
	}
	return nil
}

// Disconnected decrements userID's connection count and drops the field once
// it reaches zero.
func (p *Presence) Disconnected(ctx context.Context, userID string) error {
	n, err := p.client.HIncrBy(ctx, p.key, userID, -1).Result()
	if err != nil {
		return fmt.Errorf("presence disconnect: %w", err)
	}
	if n <= 0 {
		if err := p.client.HDel(ctx, p.key, userID).Err(); err != nil {
			return fmt.Errorf("presence clear: %w", err)
		}
	}
	return nil
}

// IsOnline reports whether userID has at least one open connection anywhere.
func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.client.HGet(ctx, p.key, userID).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("presence lookup: %w", err)
	}
	return n > 0, nil
}
