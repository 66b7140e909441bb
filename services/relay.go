package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const relayChannelPrefix = "buzzboard:game:"

// RedisRelay publishes events on a per-game redis channel and feeds every
// message it receives into the local hub, so connections held by other
// processes see the same stream. One channel per game keeps per-game order.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	pubsub *redis.PubSub
}

func NewRedisRelay(client *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{client: client, hub: hub}
}

func relayChannel(gameID uint) string {
	return relayChannelPrefix + strconv.FormatUint(uint64(gameID), 10)
}

func (r *RedisRelay) Publish(ctx context.Context, gameID uint, ev Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, relayChannel(gameID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s for game %d: %w", ev.EventType(), gameID, err)
	}
	return nil
}

// Subscribe establishes the pattern subscription and waits for redis to
// confirm it.
func (r *RedisRelay) Subscribe(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, relayChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to game channels: %w", err)
	}
	r.pubsub = pubsub
	return nil
}

// Run forwards relayed frames to the hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	if r.pubsub == nil {
		if err := r.Subscribe(ctx); err != nil {
			return err
		}
	}
	defer r.pubsub.Close()

	ch := r.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("relay subscription closed")
			}
			gameID, err := strconv.ParseUint(strings.TrimPrefix(msg.Channel, relayChannelPrefix), 10, 64)
			if err != nil {
				log.Printf("[relay] ignoring message on channel %s: %v", msg.Channel, err)
				continue
			}
			data := []byte(msg.Payload)
			if _, err := EnvelopeType(data); err != nil {
				log.Printf("[relay] dropping malformed frame for game %d: %v", gameID, err)
				continue
			}
			r.hub.BroadcastFrame(uint(gameID), data)
		}
	}
}
