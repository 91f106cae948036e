package hub

import (
	"fmt"
	"time"
)

// Effect is a set of follow-ups an operation asks of its caller.
type Effect uint8

const (
	RenderTasks Effect = 1 << iota
	RenderAssignments
	RenderSchedule
	RenderStats
	RenderTimer
	// Persist asks the caller to save the collections.
	Persist
	// PersistTheme asks the caller to save the theme flag.
	PersistTheme
)

func (e Effect) Has(flag Effect) bool {
	return e&flag != 0
}

// Result describes what an operation changed and what to tell the user.
type Result struct {
	Effects Effect
	Notice  string
}

// Options configures a Hub.
type Options struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Location is used for calendar dates and times of day. Defaults to time.Local.
	Location *time.Location
}

const (
	DefaultWorkDuration  = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
)

// Hub is one application instance: its collections, timer, ambient sound and session goal.
// A Hub is not safe for concurrent use; callers serialize access.
type Hub struct {
	state   *State
	timer   *Timer
	ambient *Ambient
	goal    string
	now     func() time.Time
	loc     *time.Location
	lastID  int64
}

// New wraps state in a Hub. A nil state starts empty.
func New(state *State, opts Options) *Hub {
	if state == nil {
		state = NewState()
	}
	if opts.WorkDuration <= 0 {
		opts.WorkDuration = DefaultWorkDuration
	}
	if opts.BreakDuration <= 0 {
		opts.BreakDuration = DefaultBreakDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	h := &Hub{
		state:   state,
		timer:   NewTimer(opts.WorkDuration, opts.BreakDuration),
		ambient: NewAmbient(),
		now:     opts.Now,
		loc:     opts.Location,
	}
	for _, t := range state.Tasks {
		h.lastID = max(h.lastID, t.ID)
	}
	for _, a := range state.Assignments {
		h.lastID = max(h.lastID, a.ID)
	}
	for _, s := range state.Schedule {
		h.lastID = max(h.lastID, s.ID)
	}
	return h
}

func (h *Hub) State() *State {
	return h.state
}

func (h *Hub) Timer() *Timer {
	return h.timer
}

func (h *Hub) Ambient() *Ambient {
	return h.ambient
}

// nextID derives an id from the current time in milliseconds, bumped past the last
// issued id so ids stay unique.
func (h *Hub) nextID() int64 {
	id := h.now().UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id
	return id
}

func (h *Hub) createdAt() time.Time {
	return h.now().UTC().Truncate(time.Millisecond)
}

// today returns the current calendar date at midnight in the hub's location.
func (h *Hub) today() time.Time {
	y, m, d := h.now().In(h.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.loc)
}

// ToggleTheme flips the dark mode flag.
func (h *Hub) ToggleTheme() Result {
	h.state.DarkMode = !h.state.DarkMode
	if h.state.DarkMode {
		return Result{Effects: PersistTheme, Notice: "Dark mode on 🌙"}
	}
	return Result{Effects: PersistTheme, Notice: "Light mode on ☀️"}
}

// SetSessionGoal records the goal of the current focus session.
func (h *Hub) SetSessionGoal(goal string) (Result, error) {
	goal = normalize(goal)
	if goal == "" {
		return Result{}, fmt.Errorf("goal text is required: %w", ErrValidation)
	}
	h.goal = goal
	return Result{Effects: RenderTimer, Notice: "Session goal set! 🎯"}, nil
}

func (h *Hub) SessionGoal() string {
	return h.goal
}
