// Package events publishes board change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel every event goes to.
const Channel = "placement.events"

// Event types.
const (
	CardCreated = "EVENT_CARD_CREATED"
	CardMoved   = "EVENT_CARD_MOVED"
	CardUpdated = "EVENT_CARD_UPDATED"
	CardDeleted = "EVENT_CARD_DELETED"
	BoardSaved  = "EVENT_BOARD_SAVED"
)

// Event describes one change to the board.
type Event struct {
	Type          string    `json:"type"`
	ApplicationID string    `json:"applicationId,omitempty"`
	Company       string    `json:"company,omitempty"`
	Role          string    `json:"role,omitempty"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to,omitempty"`
	Field         string    `json:"field,omitempty"`
	Target        string    `json:"target,omitempty"`
	Count         int       `json:"count,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// redisClient is the part of *redis.Client used for publishing.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes JSON events on Channel.
type RedisPublisher struct {
	rdb redisClient
	now func() time.Time
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(ctx context.Context, redisURL string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisPublisher(rdb), nil
}

func newRedisPublisher(rdb redisClient) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, now: time.Now}
}

// Publish stamps ev with the current time if it has none and sends it.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = p.now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
