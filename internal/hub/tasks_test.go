package hub

import (
	"errors"
	"testing"
	"time"

	"study-hub/internal/model"
)

func TestAddTask(t *testing.T) {
	h := newTestHub(t)

	task, res, err := h.AddTask(TaskInput{Text: "  Read chapter 4  ", Priority: "high", Category: "study"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Text != "Read chapter 4" || task.Priority != model.PriorityHigh || task.Completed {
		t.Fatalf("unexpected task %+v", task)
	}
	if got := h.State().Stats.TotalTasks; got != 1 {
		t.Fatalf("TotalTasks = %d, want 1", got)
	}
	if !res.Effects.Has(Persist) || !res.Effects.Has(RenderTasks) {
		t.Fatalf("effects = %b, want persist and render", res.Effects)
	}
}

func TestAddTaskDefaults(t *testing.T) {
	h := newTestHub(t)

	task, _, err := h.AddTask(TaskInput{Text: "Laundry"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Category != "general" {
		t.Errorf("category = %q, want general", task.Category)
	}
}

func TestAddTaskRejectsBlankText(t *testing.T) {
	h := newTestHub(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, res, err := h.AddTask(TaskInput{Text: text})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("AddTask(%q) err = %v, want ErrValidation", text, err)
		}
		if res.Effects != 0 {
			t.Fatalf("AddTask(%q) effects = %b, want none", text, res.Effects)
		}
	}
	if len(h.State().Tasks) != 0 || h.State().Stats.TotalTasks != 0 || h.lastID != 0 {
		t.Fatalf("state changed after rejected adds: %+v lastID=%d", h.State(), h.lastID)
	}
}

func TestAddTaskRejectsUnknownPriority(t *testing.T) {
	h := newTestHub(t)
	if _, _, err := h.AddTask(TaskInput{Text: "x", Priority: "urgent"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestTaskIDsUnique(t *testing.T) {
	now := fixedNow
	h := New(nil, Options{Now: func() time.Time { return now }})

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		task, _, err := h.AddTask(TaskInput{Text: "same millisecond"})
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestToggleTaskTwiceRestoresState(t *testing.T) {
	h := newTestHub(t)
	task, _, _ := h.AddTask(TaskInput{Text: "Essay outline"})
	before := h.State().Stats.CompletedTasks

	toggled, res, err := h.ToggleTask(task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed || h.State().Stats.CompletedTasks != before+1 {
		t.Fatalf("after first toggle: task=%+v stats=%+v", toggled, h.State().Stats)
	}
	if res.Notice == "" {
		t.Error("completing a task should produce a notice")
	}

	toggled, _, err = h.ToggleTask(task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if toggled.Completed || h.State().Stats.CompletedTasks != before {
		t.Fatalf("after second toggle: task=%+v stats=%+v", toggled, h.State().Stats)
	}
}

func TestDeleteTaskCounters(t *testing.T) {
	tests := []struct {
		name               string
		complete           bool
		wantTotalDelta     int
		wantCompletedDelta int
	}{
		{name: "pending", complete: false, wantTotalDelta: -1, wantCompletedDelta: 0},
		{name: "completed", complete: true, wantTotalDelta: -1, wantCompletedDelta: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub(t)
			keep, _, _ := h.AddTask(TaskInput{Text: "keep"})
			if _, _, err := h.ToggleTask(keep.ID); err != nil {
				t.Fatalf("ToggleTask: %v", err)
			}
			target, _, _ := h.AddTask(TaskInput{Text: "target"})
			if tt.complete {
				if _, _, err := h.ToggleTask(target.ID); err != nil {
					t.Fatalf("ToggleTask: %v", err)
				}
			}
			before := h.State().Stats

			if _, _, err := h.DeleteTask(target.ID); err != nil {
				t.Fatalf("DeleteTask: %v", err)
			}
			after := h.State().Stats
			if got := after.TotalTasks - before.TotalTasks; got != tt.wantTotalDelta {
				t.Errorf("TotalTasks delta = %d, want %d", got, tt.wantTotalDelta)
			}
			if got := after.CompletedTasks - before.CompletedTasks; got != tt.wantCompletedDelta {
				t.Errorf("CompletedTasks delta = %d, want %d", got, tt.wantCompletedDelta)
			}
			if len(h.State().Tasks) != 1 || h.State().Tasks[0].ID != keep.ID {
				t.Fatalf("tasks = %+v", h.State().Tasks)
			}
		})
	}
}

func TestUnknownTaskID(t *testing.T) {
	h := newTestHub(t)
	h.AddTask(TaskInput{Text: "only"})

	if _, _, err := h.ToggleTask(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleTask err = %v, want ErrNotFound", err)
	}
	if _, _, err := h.DeleteTask(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask err = %v, want ErrNotFound", err)
	}
	if h.State().Stats.TotalTasks != 1 {
		t.Errorf("TotalTasks = %d, want 1", h.State().Stats.TotalTasks)
	}
}

func TestCountersNeverNegative(t *testing.T) {
	h := newTestHub(t)
	task, _, _ := h.AddTask(TaskInput{Text: "x"})
	h.ToggleTask(task.ID)
	h.ResetStats()

	if _, _, err := h.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	stats := h.State().Stats
	if stats.TotalTasks != 0 || stats.CompletedTasks != 0 {
		t.Fatalf("stats = %+v, want zero counters", stats)
	}
}

func TestSortTasksByPriority(t *testing.T) {
	h := newTestHub(t)
	for _, in := range []TaskInput{
		{Text: "l1", Priority: "low"},
		{Text: "m1", Priority: "medium"},
		{Text: "h1", Priority: "high"},
		{Text: "l2", Priority: "low"},
		{Text: "h2", Priority: "high"},
		{Text: "m2", Priority: "medium"},
	} {
		if _, _, err := h.AddTask(in); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}

	res := h.SortTasks("priority")
	if !res.Effects.Has(Persist) {
		t.Error("sorting should persist the new order")
	}

	var got []string
	for _, task := range h.State().Tasks {
		got = append(got, task.Text)
	}
	want := []string{"h1", "h2", "m1", "m2", "l1", "l2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(h.State().Tasks); i++ {
		if h.State().Tasks[i-1].Priority.Rank() < h.State().Tasks[i].Priority.Rank() {
			t.Fatalf("priority inversion at %d: %v", i, got)
		}
	}
}

func TestSortTasksUnknownCriterionKeepsOrder(t *testing.T) {
	h := newTestHub(t)
	h.AddTask(TaskInput{Text: "a", Priority: "low"})
	h.AddTask(TaskInput{Text: "b", Priority: "high"})

	if res := h.SortTasks("name"); res.Effects.Has(Persist) {
		t.Error("unknown criterion should not persist")
	}
	if h.State().Tasks[0].Text != "a" {
		t.Errorf("order changed: %+v", h.State().Tasks)
	}
}

func TestFilterTasks(t *testing.T) {
	h := newTestHub(t)
	a, _, _ := h.AddTask(TaskInput{Text: "a", Priority: "high"})
	h.AddTask(TaskInput{Text: "b", Priority: "low"})
	h.AddTask(TaskInput{Text: "c", Priority: "high"})
	h.ToggleTask(a.ID)

	tests := []struct {
		filter TaskFilter
		want   []string
	}{
		{FilterAll, []string{"a", "b", "c"}},
		{FilterPending, []string{"b", "c"}},
		{FilterCompleted, []string{"a"}},
		{FilterHigh, []string{"a", "c"}},
		{FilterMedium, nil},
		{FilterLow, []string{"b"}},
		{"bogus", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := h.FilterTasks(tt.filter)
		if len(got) != len(tt.want) {
			t.Fatalf("FilterTasks(%q) = %+v, want %v", tt.filter, got, tt.want)
		}
		for i := range got {
			if got[i].Text != tt.want[i] {
				t.Fatalf("FilterTasks(%q) = %+v, want %v", tt.filter, got, tt.want)
			}
		}
	}

	filtered := h.FilterTasks(FilterPending)
	filtered[0].Text = "mutated"
	if h.State().Tasks[1].Text != "b" {
		t.Error("filter result aliases the backing collection")
	}
}

func TestClearCompletedTasks(t *testing.T) {
	h := newTestHub(t)
	a, _, _ := h.AddTask(TaskInput{Text: "a"})
	b, _, _ := h.AddTask(TaskInput{Text: "b"})
	h.AddTask(TaskInput{Text: "c"})
	h.ToggleTask(a.ID)
	h.ToggleTask(b.ID)

	cleared, res := h.ClearCompletedTasks()
	if cleared != 2 {
		t.Fatalf("cleared = %d, want 2", cleared)
	}
	if res.Notice != "2 completed tasks cleared! 🧹" {
		t.Errorf("notice = %q", res.Notice)
	}
	stats := h.State().Stats
	if stats.TotalTasks != 1 || stats.CompletedTasks != 0 || len(h.State().Tasks) != 1 {
		t.Fatalf("stats = %+v tasks = %+v", stats, h.State().Tasks)
	}
}
