package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"study-hub/internal/hub"
)

const tickTimeout = 10 * time.Second

// Notifier shows transient feedback in a user's chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// StoreFactory returns the key-value store of one user.
type StoreFactory func(telegramID int64) hub.Store

type intervalScheduler interface {
	ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error)
	Remove(id cron.EntryID)
}

type session struct {
	mu       sync.Mutex
	hub      *hub.Hub
	store    hub.Store
	tickID   cron.EntryID
	ticking  bool
	lastTick time.Time
	lastUsed time.Time
	// closed is set when the session is evicted; holders must look it up again.
	closed bool
}

// HubService owns one hub per user. Operations on a user's hub run one at a time; after
// each one the service persists the state, keeps the timer's tick job in step with the
// timer and forwards the notice to the notifier.
type HubService struct {
	stores    StoreFactory
	opts      hub.Options
	scheduler intervalScheduler
	notifier  Notifier
	now       func() time.Time

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewHubService(stores StoreFactory, opts hub.Options, scheduler intervalScheduler, notifier Notifier) *HubService {
	return &HubService{
		stores:    stores,
		opts:      opts,
		scheduler: scheduler,
		notifier:  notifier,
		now:       time.Now,
		sessions:  make(map[int64]*session),
	}
}

// Do runs op against the user's hub and applies its effects.
func (s *HubService) Do(ctx context.Context, userID int64, op func(h *hub.Hub) (hub.Result, error)) (hub.Result, error) {
	return s.do(ctx, userID, func(sess *session) (hub.Result, error) {
		return op(sess.hub)
	})
}

// View runs fn against the user's hub without persisting anything.
func (s *HubService) View(ctx context.Context, userID int64, fn func(h *hub.Hub)) error {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return err
	}
	defer sess.mu.Unlock()
	fn(sess.hub)
	return nil
}

// EvictIdle drops hubs that have not been used for maxIdle and have no running timer.
// Their state is already persisted. It returns the number of hubs dropped.
func (s *HubService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for userID, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if !sess.ticking && sess.lastUsed.Before(cutoff) {
			sess.closed = true
			delete(s.sessions, userID)
			evicted++
		}
		sess.mu.Unlock()
	}
	if evicted > 0 {
		log.Printf("[info] evicted %d idle hubs, %d open", evicted, len(s.sessions))
	}
	return evicted
}

// Shutdown unschedules every running timer.
func (s *HubService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		if sess.ticking {
			s.scheduler.Remove(sess.tickID)
			sess.ticking = false
		}
		sess.mu.Unlock()
	}
}

func (s *HubService) do(ctx context.Context, userID int64, op func(sess *session) (hub.Result, error)) (hub.Result, error) {
	sess, err := s.lock(ctx, userID)
	if err != nil {
		return hub.Result{}, err
	}

	res, err := op(sess)
	if err == nil {
		err = s.apply(ctx, userID, sess, res)
	}
	sess.mu.Unlock()
	if err != nil {
		return res, err
	}

	s.notify(userID, res.Notice)
	return res, nil
}

// lock returns the user's session with sess.mu held.
func (s *HubService) lock(ctx context.Context, userID int64) (*session, error) {
	for {
		sess, err := s.session(ctx, userID)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if sess.closed {
			sess.mu.Unlock()
			continue
		}
		sess.lastUsed = s.now()
		return sess, nil
	}
}

func (s *HubService) session(ctx context.Context, userID int64) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	store := s.stores(userID)
	state, err := hub.Load(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("load hub for %d: %w", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		return existing, nil
	}
	sess = &session{hub: hub.New(state, s.opts), store: store, lastUsed: s.now()}
	s.sessions[userID] = sess
	log.Printf("[info] hub opened user=%d tasks=%d assignments=%d schedule=%d",
		userID, len(state.Tasks), len(state.Assignments), len(state.Schedule))
	return sess, nil
}

// apply persists and syncs the tick job. Callers hold sess.mu.
func (s *HubService) apply(ctx context.Context, userID int64, sess *session, res hub.Result) error {
	if res.Effects.Has(hub.Persist) {
		if err := sess.hub.State().Save(ctx, sess.store); err != nil {
			return fmt.Errorf("save hub for %d: %w", userID, err)
		}
	}
	if res.Effects.Has(hub.PersistTheme) {
		if err := sess.hub.State().SaveTheme(ctx, sess.store); err != nil {
			return fmt.Errorf("save theme for %d: %w", userID, err)
		}
	}
	return s.syncTicker(userID, sess)
}

func (s *HubService) syncTicker(userID int64, sess *session) error {
	running := sess.hub.Timer().Running()
	switch {
	case running && !sess.ticking:
		id, err := s.scheduler.ScheduleInterval(time.Second, func() { s.tick(userID) })
		if err != nil {
			sess.hub.Timer().Pause()
			return fmt.Errorf("schedule timer for %d: %w", userID, err)
		}
		sess.tickID = id
		sess.ticking = true
		sess.lastTick = s.now()
	case !running && sess.ticking:
		s.scheduler.Remove(sess.tickID)
		sess.ticking = false
	}
	return nil
}

// tick counts down one second. The interval job fires on whole seconds of the wall clock,
// so a firing that comes less than a second after the previous counted one is skipped.
func (s *HubService) tick(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	_, err := s.do(ctx, userID, func(sess *session) (hub.Result, error) {
		if !sess.ticking || s.now().Sub(sess.lastTick) < time.Second {
			return hub.Result{}, nil
		}
		sess.lastTick = sess.lastTick.Add(time.Second)

		tick, res := sess.hub.TimerTick()
		if tick.Finished {
			log.Printf("[info] timer finished %s session user=%d", tick.Completed, userID)
		}
		return res, nil
	})
	if err != nil {
		log.Printf("timer tick for %d: %v", userID, err)
	}
}

func (s *HubService) notify(userID int64, text string) {
	if s.notifier == nil || text == "" {
		return
	}
	if err := s.notifier.Notify(userID, text); err != nil {
		log.Printf("[warn] notify %d: %v", userID, err)
	}
}
