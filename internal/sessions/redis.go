package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pehlione.com/catalog/internal/modules/variants"
)

const (
	keyPrefix        = "catalog:editor:"
	maxUpdateRetries = 5
)

// ErrConflict is returned when a session kept changing underneath Update.
var ErrConflict = errors.New("editor session changed concurrently")

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Create(ctx context.Context, st variants.State) (string, error) {
	b, err := encode(st)
	if err != nil {
		return "", err
	}
	id := newID()
	if err := r.rdb.Set(ctx, keyPrefix+id, b, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, id string) (variants.State, error) {
	b, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return variants.State{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return variants.State{}, fmt.Errorf("redis get: %w", err)
	}
	return decode(b)
}

// Update is an optimistic WATCH/MULTI transaction, retried when another
// writer touched the key first.
func (r *Redis) Update(ctx context.Context, id string, fn func(*variants.State) error) (variants.State, error) {
	key := keyPrefix + id
	var out variants.State

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		st, err := decode(b)
		if err != nil {
			return err
		}
		if err := fn(&st); err != nil {
			return err
		}
		nb, err := encode(st)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nb, r.ttl)
			return nil
		})
		if err == nil {
			out = st
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return variants.State{}, err
		}
		return out, nil
	}
	return variants.State{}, fmt.Errorf("%w: %s", ErrConflict, id)
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
