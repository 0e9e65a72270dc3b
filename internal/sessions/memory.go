package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pehlione.com/catalog/internal/modules/variants"
)

type memEntry struct {
	mu      sync.Mutex
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. States are kept encoded so callers never
// share maps or slices with the stored copy.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{entries: map[string]*memEntry{}, ttl: ttl, now: time.Now}
}

func (m *Memory) Create(ctx context.Context, st variants.State) (string, error) {
	b, err := encode(st)
	if err != nil {
		return "", err
	}
	id := newID()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.entries[id] = &memEntry{data: b, expires: m.now().Add(m.ttl)}
	return id, nil
}

func (m *Memory) Get(ctx context.Context, id string) (variants.State, error) {
	e, err := m.entry(id)
	if err != nil {
		return variants.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return decode(e.data)
}

func (m *Memory) Update(ctx context.Context, id string, fn func(*variants.State) error) (variants.State, error) {
	e, err := m.entry(id)
	if err != nil {
		return variants.State{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := decode(e.data)
	if err != nil {
		return variants.State{}, err
	}
	if err := fn(&st); err != nil {
		return variants.State{}, err
	}
	b, err := encode(st)
	if err != nil {
		return variants.State{}, err
	}
	e.data = b
	e.expires = m.now().Add(m.ttl)
	return st, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) entry(id string) (*memEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || m.now().After(e.expires) {
		delete(m.entries, id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
		}
	}
}
