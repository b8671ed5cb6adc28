package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix  = "cart:"
	maxWatchRetries = 10
)

var ErrSessionBusy = errors.New("cart session is being modified concurrently")

// RedisSessions stores each cart as JSON under cart:<id>. Dispatch is an
// optimistic WATCH/MULTI transaction, retried on conflict.
type RedisSessions struct {
	client  *redis.Client
	contact *ContactCache
	ttl     time.Duration
}

func NewRedisSessions(client *redis.Client, contact *ContactCache, ttl time.Duration) *RedisSessions {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &RedisSessions{client: client, contact: contact, ttl: ttl}
}

func (r *RedisSessions) key(id string) string { return redisKeyPrefix + id }

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisSessions) load(ctx context.Context, c stringGetter, key string) (State, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyState(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode cart %s: %w", key, err)
	}
	if s.Lines == nil {
		s.Lines = []Line{}
	}
	return s, nil
}

func (r *RedisSessions) Get(ctx context.Context, id string) (State, error) {
	if err := validID(id); err != nil {
		return State{}, err
	}
	s, err := r.load(ctx, r.client, r.key(id))
	if err != nil {
		return State{}, err
	}
	return r.contact.resolve(s), nil
}

func (r *RedisSessions) Dispatch(ctx context.Context, id string, a Action) (State, error) {
	if err := validID(id); err != nil {
		return State{}, err
	}
	key := r.key(id)

	var next State
	txf := func(tx *redis.Tx) error {
		cur, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		next = Reduce(cur, a)
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode cart %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return r.contact.resolve(next), nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return State{}, err
	}
	return State{}, ErrSessionBusy
}

func (r *RedisSessions) Close() error {
	return r.client.Close()
}
