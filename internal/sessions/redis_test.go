package sessions

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"pehlione.com/catalog/internal/modules/variants"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, time.Minute)
}

func TestRedisLifecycle(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	id, err := r.Create(ctx, variants.State{ProductName: "Tee"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Delete(ctx, id) })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Update(ctx, id, func(st *variants.State) error {
				st.PendingDeletes = append(st.PendingDeletes, "x")
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := r.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	// Updates past the retry budget fail with ErrConflict; none may be lost silently.
	if len(got.PendingDeletes) == 0 || len(got.PendingDeletes) > 10 {
		t.Errorf("pending = %d", len(got.PendingDeletes))
	}

	if _, err := r.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
}
