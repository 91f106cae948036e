package hub

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the timer sub-mode.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// ParseMode accepts "work" or "break" in any case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeWork:
		return ModeWork, nil
	case ModeBreak:
		return ModeBreak, nil
	default:
		return "", fmt.Errorf("unknown timer mode %q: %w", raw, ErrValidation)
	}
}

// Timer is a work/break countdown advanced by one-second ticks. It starts paused in
// work mode with the full work duration remaining.
type Timer struct {
	work      int
	brk       int
	mode      Mode
	running   bool
	remaining int
}

// TickResult reports whether a tick finished a session.
type TickResult struct {
	Finished bool
	// Completed is the mode of the session that finished.
	Completed Mode
}

func NewTimer(work, brk time.Duration) *Timer {
	t := &Timer{
		work: int(work / time.Second),
		brk:  int(brk / time.Second),
		mode: ModeWork,
	}
	t.remaining = t.work
	return t
}

// Duration is the full length of mode in seconds.
func (t *Timer) Duration(mode Mode) int {
	if mode == ModeBreak {
		return t.brk
	}
	return t.work
}

func (t *Timer) Mode() Mode     { return t.mode }
func (t *Timer) Running() bool  { return t.running }
func (t *Timer) Remaining() int { return t.remaining }

// Start resumes the countdown. It reports false if the timer was already running.
func (t *Timer) Start() bool {
	if t.running {
		return false
	}
	t.running = true
	return true
}

// Pause halts the countdown, keeping the remaining seconds.
func (t *Timer) Pause() bool {
	if !t.running {
		return false
	}
	t.running = false
	return true
}

// Reset stops the countdown and restores the full duration of the current mode.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.Duration(t.mode)
}

// SetMode switches mode, stopping the countdown at the mode's full duration.
func (t *Timer) SetMode(mode Mode) {
	t.mode = mode
	t.Reset()
}

// Tick advances a running timer by one second. When the countdown reaches zero the
// timer stops and flips to the other mode at its full duration.
func (t *Timer) Tick() TickResult {
	if !t.running {
		return TickResult{}
	}
	t.remaining--
	if t.remaining > 0 {
		return TickResult{}
	}

	finished := t.mode
	next := ModeBreak
	if finished == ModeBreak {
		next = ModeWork
	}
	t.SetMode(next)
	return TickResult{Finished: true, Completed: finished}
}

// Display renders the remaining time as MM:SS.
func (t *Timer) Display() string {
	return fmt.Sprintf("%02d:%02d", t.remaining/60, t.remaining%60)
}

// Progress is the elapsed fraction of the current mode, in [0, 1].
func (t *Timer) Progress() float64 {
	total := t.Duration(t.mode)
	if total <= 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total)
}

// StartTimer starts the countdown.
func (h *Hub) StartTimer() Result {
	if !h.timer.Start() {
		return Result{}
	}
	return Result{Effects: RenderTimer, Notice: fmt.Sprintf("Timer started: %s %s ▶️", h.timer.Mode(), h.timer.Display())}
}

func (h *Hub) PauseTimer() Result {
	if !h.timer.Pause() {
		return Result{}
	}
	return Result{Effects: RenderTimer, Notice: fmt.Sprintf("Timer paused at %s ⏸️", h.timer.Display())}
}

func (h *Hub) ResetTimer() Result {
	h.timer.Reset()
	return Result{Effects: RenderTimer, Notice: fmt.Sprintf("Timer reset to %s 🔁", h.timer.Display())}
}

func (h *Hub) SetTimerMode(mode Mode) (Result, error) {
	if mode != ModeWork && mode != ModeBreak {
		return Result{}, fmt.Errorf("unknown timer mode %q: %w", mode, ErrValidation)
	}
	h.timer.SetMode(mode)
	return Result{
		Effects: RenderTimer,
		Notice:  fmt.Sprintf("Timer set to %s mode (%d minutes)! 🔄", mode, h.timer.Duration(mode)/60),
	}, nil
}

// TimerTick advances the timer by one second. A finished work session counts one
// pomodoro and its minutes of study time.
func (h *Hub) TimerTick() (TickResult, Result) {
	tick := h.timer.Tick()
	if !tick.Finished {
		return tick, Result{Effects: RenderTimer}
	}

	res := Result{Effects: Persist | RenderTimer | RenderStats}
	if tick.Completed == ModeWork {
		h.state.Stats.PomodoroCount++
		h.state.Stats.StudyTime += h.timer.Duration(ModeWork) / 60
		res.Notice = "Work session completed! Time for a break! 🎉"
	} else {
		res.Notice = "Break time over! Ready for another session? 💪"
	}
	return tick, res
}
