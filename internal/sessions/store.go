// Package sessions keeps variant editor state between admin requests.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pehlione.com/catalog/internal/modules/variants"
)

var ErrNotFound = errors.New("editor session not found")

const DefaultTTL = 2 * time.Hour

// Store persists editor sessions. Update runs fn on the current state and
// saves the result; concurrent updates of one session never interleave.
type Store interface {
	Create(ctx context.Context, st variants.State) (string, error)
	Get(ctx context.Context, id string) (variants.State, error)
	Update(ctx context.Context, id string, fn func(*variants.State) error) (variants.State, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	Driver string
	TTL    time.Duration
	Redis  *redis.Client
}

// New returns the store for opt.Driver ("memory" by default, or "redis").
func New(opt Options) (Store, error) {
	ttl := opt.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch opt.Driver {
	case "", "memory":
		return NewMemory(ttl), nil
	case "redis":
		if opt.Redis == nil {
			return nil, errors.New("redis session driver needs a client")
		}
		return NewRedis(opt.Redis, ttl), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_DRIVER: %s", opt.Driver)
	}
}

func newID() string { return uuid.NewString() }

func encode(st variants.State) ([]byte, error) { return json.Marshal(st) }

func decode(b []byte) (variants.State, error) {
	var st variants.State
	err := json.Unmarshal(b, &st)
	return st, err
}
