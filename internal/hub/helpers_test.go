package hub

import (
	"context"
	"testing"
	"time"
)

// memStore is an in-memory Store.
type memStore struct {
	data   map[string][]byte
	writes int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// fixedNow is 2026-10-19 15:00 UTC.
var fixedNow = time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC)

// newTestHub returns an empty hub whose clock advances one millisecond per read.
func newTestHub(t *testing.T) *Hub {
	t.Helper()
	now := fixedNow
	return New(nil, Options{
		Now: func() time.Time {
			now = now.Add(time.Millisecond)
			return now
		},
		Location: time.UTC,
	})
}
