package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pehlione.com/catalog/internal/modules/variants"
)

func TestMemoryLifecycle(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	id, err := m.Create(ctx, variants.State{ProductName: "Tee"})
	if err != nil {
		t.Fatal(err)
	}

	st, err := m.Update(ctx, id, func(st *variants.State) error {
		st.Search = "red"
		return nil
	})
	if err != nil || st.Search != "red" {
		t.Fatalf("Update = %+v, %v", st, err)
	}

	got, err := m.Get(ctx, id)
	if err != nil || got.ProductName != "Tee" || got.Search != "red" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := m.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
}

func TestMemoryUpdateErrorKeepsState(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	id, _ := m.Create(ctx, variants.State{Search: "keep"})

	boom := errors.New("boom")
	_, err := m.Update(ctx, id, func(st *variants.State) error {
		st.Search = "lost"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if got, _ := m.Get(ctx, id); got.Search != "keep" {
		t.Errorf("failed update leaked: %q", got.Search)
	}
}

func TestMemoryIsolation(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	st := variants.State{Expanded: variants.ExpandState{"Red": true}}
	id, _ := m.Create(ctx, st)

	st.Expanded["Red"] = false
	if got, _ := m.Get(ctx, id); !got.Expanded["Red"] {
		t.Error("stored state shares a map with the caller")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()
	id, _ := m.Create(ctx, variants.State{})

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired session err = %v", err)
	}
}

func TestMemorySerializesUpdates(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()
	id, _ := m.Create(ctx, variants.State{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Update(ctx, id, func(st *variants.State) error {
				st.PendingDeletes = append(st.PendingDeletes, "x")
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := m.Get(ctx, id)
	if len(got.PendingDeletes) != 50 {
		t.Errorf("lost updates: %d of 50", len(got.PendingDeletes))
	}
}

func TestNewDriver(t *testing.T) {
	if s, err := New(Options{}); err != nil {
		t.Fatal(err)
	} else if _, ok := s.(*Memory); !ok {
		t.Errorf("default driver = %T", s)
	}
	if _, err := New(Options{Driver: "redis"}); err == nil {
		t.Error("redis without client should fail")
	}
	if _, err := New(Options{Driver: "etcd"}); err == nil {
		t.Error("unknown driver accepted")
	}
}
