package hub

import (
	"errors"
	"testing"
	"time"
)

func TestTimerWorkSessionCompletes(t *testing.T) {
	h := newTestHub(t)
	timer := h.Timer()
	if timer.Display() != "25:00" || timer.Mode() != ModeWork {
		t.Fatalf("initial timer %s %s", timer.Mode(), timer.Display())
	}

	h.StartTimer()
	var finished int
	var last Result
	for i := 0; i < 1500; i++ {
		tick, res := h.TimerTick()
		if tick.Finished {
			finished++
			last = res
		}
	}

	if finished != 1 {
		t.Fatalf("finished %d sessions, want 1", finished)
	}
	if timer.Mode() != ModeBreak || timer.Display() != "05:00" || timer.Running() {
		t.Fatalf("after work: mode=%s display=%s running=%t", timer.Mode(), timer.Display(), timer.Running())
	}
	stats := h.State().Stats
	if stats.PomodoroCount != 1 || stats.StudyTime != 25 {
		t.Fatalf("stats = %+v, want 1 pomodoro and 25 minutes", stats)
	}
	if !last.Effects.Has(Persist) {
		t.Error("finishing a session should persist")
	}
}

func TestTimerBreakReturnsToWork(t *testing.T) {
	h := newTestHub(t)
	if _, err := h.SetTimerMode(ModeBreak); err != nil {
		t.Fatalf("SetTimerMode: %v", err)
	}
	h.StartTimer()
	for i := 0; i < 300; i++ {
		h.TimerTick()
	}
	if h.Timer().Mode() != ModeWork || h.Timer().Remaining() != 1500 {
		t.Fatalf("mode=%s remaining=%d", h.Timer().Mode(), h.Timer().Remaining())
	}
	if h.State().Stats.PomodoroCount != 0 {
		t.Fatalf("break should not count a pomodoro")
	}
}

func TestTimerPauseKeepsRemaining(t *testing.T) {
	timer := NewTimer(25*time.Minute, 5*time.Minute)
	timer.Start()
	for i := 0; i < 61; i++ {
		timer.Tick()
	}
	if !timer.Pause() {
		t.Fatal("Pause on a running timer should report true")
	}
	timer.Tick()
	timer.Tick()
	if timer.Display() != "23:59" {
		t.Fatalf("display = %s, want 23:59", timer.Display())
	}
	if timer.Pause() {
		t.Fatal("Pause on a paused timer should report false")
	}
	if !timer.Start() || timer.Start() {
		t.Fatal("Start should succeed once")
	}
}

func TestTimerResetAndProgress(t *testing.T) {
	timer := NewTimer(25*time.Minute, 5*time.Minute)
	timer.Start()
	for i := 0; i < 750; i++ {
		timer.Tick()
	}
	if got := timer.Progress(); got != 0.5 {
		t.Fatalf("progress = %v, want 0.5", got)
	}
	timer.Reset()
	if timer.Running() || timer.Remaining() != 1500 || timer.Progress() != 0 {
		t.Fatalf("after reset: running=%t remaining=%d", timer.Running(), timer.Remaining())
	}
}

func TestSetModeStopsCountdown(t *testing.T) {
	h := newTestHub(t)
	h.StartTimer()
	h.TimerTick()

	res, err := h.SetTimerMode(ModeBreak)
	if err != nil {
		t.Fatalf("SetTimerMode: %v", err)
	}
	if h.Timer().Running() || h.Timer().Display() != "05:00" {
		t.Fatalf("running=%t display=%s", h.Timer().Running(), h.Timer().Display())
	}
	if res.Notice != "Timer set to break mode (5 minutes)! 🔄" {
		t.Errorf("notice = %q", res.Notice)
	}
	if _, err := h.SetTimerMode("nap"); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestTickOnPausedTimerIsNoop(t *testing.T) {
	timer := NewTimer(time.Minute, time.Minute)
	if res := timer.Tick(); res.Finished || timer.Remaining() != 60 {
		t.Fatalf("tick on paused timer changed state: %+v remaining=%d", res, timer.Remaining())
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" Break "); err != nil || m != ModeBreak {
		t.Fatalf("ParseMode = %q, %v", m, err)
	}
	if _, err := ParseMode("lunch"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
