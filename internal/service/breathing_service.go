package service

import (
	"context"
	"log"
	"sync"
	"time"

	"study-hub/internal/hub"
)

// BreathingSink renders the breathing exercise.
type BreathingSink interface {
	ShowPhase(chatID int64, phase hub.BreathingPhase) error
	Clear(chatID int64) error
}

type breathingRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// BreathingService runs the breathing exercise per chat: one loop walks the phase table
// until the exercise is stopped.
type BreathingService struct {
	sink   BreathingSink
	phases []hub.BreathingPhase

	mu     sync.Mutex
	active map[int64]*breathingRun
}

func NewBreathingService(sink BreathingSink, phases []hub.BreathingPhase) *BreathingService {
	if len(phases) == 0 {
		phases = hub.BreathingPhases
	}
	return &BreathingService{
		sink:   sink,
		phases: phases,
		active: make(map[int64]*breathingRun),
	}
}

// Toggle starts the exercise, or stops it if it is running. It reports whether the
// exercise is now running.
func (b *BreathingService) Toggle(chatID int64) bool {
	if b.Stop(chatID) {
		return false
	}
	return b.Start(chatID)
}

// Start begins the exercise. It reports false if it was already running.
func (b *BreathingService) Start(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.active[chatID]; ok {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	run := &breathingRun{cancel: cancel, done: make(chan struct{})}
	b.active[chatID] = run
	go b.loop(ctx, chatID, run.done)
	log.Printf("[info] breathing started chat=%d", chatID)
	return true
}

// Stop ends the exercise and waits for its loop to clear the display.
func (b *BreathingService) Stop(chatID int64) bool {
	b.mu.Lock()
	run, ok := b.active[chatID]
	delete(b.active, chatID)
	b.mu.Unlock()

	if !ok {
		return false
	}
	run.cancel()
	<-run.done
	log.Printf("[info] breathing stopped chat=%d", chatID)
	return true
}

func (b *BreathingService) Active(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.active[chatID]
	return ok
}

// StopAll ends every running exercise.
func (b *BreathingService) StopAll() {
	b.mu.Lock()
	chats := make([]int64, 0, len(b.active))
	for chatID := range b.active {
		chats = append(chats, chatID)
	}
	b.mu.Unlock()

	for _, chatID := range chats {
		b.Stop(chatID)
	}
}

func (b *BreathingService) loop(ctx context.Context, chatID int64, done chan<- struct{}) {
	defer close(done)

	for i := 0; ; i = (i + 1) % len(b.phases) {
		phase := b.phases[i]
		if err := b.sink.ShowPhase(chatID, phase); err != nil {
			log.Printf("[warn] breathing phase chat=%d: %v", chatID, err)
		}

		timer := time.NewTimer(phase.Duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			if err := b.sink.Clear(chatID); err != nil {
				log.Printf("[warn] breathing clear chat=%d: %v", chatID, err)
			}
			return
		case <-timer.C:
		}
	}
}
