package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"study-hub/internal/hub"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

type memStores struct {
	mu     sync.Mutex
	scopes map[int64]*memStore
}

func newMemStores() *memStores {
	return &memStores{scopes: make(map[int64]*memStore)}
}

func (m *memStores) For(userID int64) hub.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scopes[userID]
	if !ok {
		s = &memStore{data: make(map[string][]byte)}
		m.scopes[userID] = s
	}
	return s
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeScheduler records interval jobs so tests can fire them by hand. Its clock moves
// forward as jobs are fired.
type fakeScheduler struct {
	mu     sync.Mutex
	nextID cron.EntryID
	jobs   map[cron.EntryID]func()
	clock  *fakeClock
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		jobs:  make(map[cron.EntryID]func()),
		clock: &fakeClock{now: testNow},
	}
}

func (f *fakeScheduler) ScheduleInterval(_ time.Duration, job func()) (cron.EntryID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.jobs[f.nextID] = job
	return f.nextID, nil
}

func (f *fakeScheduler) Remove(id cron.EntryID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id)
}

func (f *fakeScheduler) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fireAll advances the clock by a second and runs every scheduled job once.
func (f *fakeScheduler) fireAll() {
	f.fireAfter(time.Second)
}

// fireAfter advances the clock by d and runs every scheduled job once.
func (f *fakeScheduler) fireAfter(d time.Duration) {
	f.clock.Advance(d)
	f.mu.Lock()
	jobs := make([]func(), 0, len(f.jobs))
	for _, job := range f.jobs {
		jobs = append(jobs, job)
	}
	f.mu.Unlock()
	for _, job := range jobs {
		job()
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (r *recordingNotifier) Notify(_ int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
	return nil
}

func (r *recordingNotifier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1]
}

var testNow = time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC)

func newTestHubService(t *testing.T) (*HubService, *memStores, *fakeScheduler, *recordingNotifier) {
	t.Helper()
	stores := newMemStores()
	sched := newFakeScheduler()
	notifier := &recordingNotifier{}
	svc := NewHubService(stores.For, hub.Options{
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	}, sched, notifier)
	svc.now = sched.clock.Now
	return svc, stores, sched, notifier
}

func contains(s, sub string) bool {
	return indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}
