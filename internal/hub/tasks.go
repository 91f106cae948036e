package hub

import (
	"fmt"
	"sort"
	"strings"

	"study-hub/internal/model"
)

const defaultCategory = "general"

// TaskInput represents data required to create a task.
type TaskInput struct {
	Text     string
	Priority model.Priority
	Category string
}

// TaskFilter selects a view of the task list.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
	FilterHigh      TaskFilter = "high"
	FilterMedium    TaskFilter = "medium"
	FilterLow       TaskFilter = "low"
)

// AddTask appends a pending task and counts it in the stats.
func (h *Hub) AddTask(input TaskInput) (model.Task, Result, error) {
	text := normalize(input.Text)
	if text == "" {
		return model.Task{}, Result{}, fmt.Errorf("task text is required: %w", ErrValidation)
	}

	priority := model.Priority(strings.ToLower(normalize(string(input.Priority))))
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, Result{}, fmt.Errorf("unknown priority %q: %w", input.Priority, ErrValidation)
	}

	category := normalize(input.Category)
	if category == "" {
		category = defaultCategory
	}

	task := model.Task{
		ID:        h.nextID(),
		Text:      text,
		Priority:  priority,
		Category:  category,
		CreatedAt: h.createdAt(),
	}
	h.state.Tasks = append(h.state.Tasks, task)
	h.state.Stats.TotalTasks++

	return task, Result{
		Effects: Persist | RenderTasks | RenderStats,
		Notice:  "Task added successfully! 📝",
	}, nil
}

// ToggleTask flips the completion flag of a task.
func (h *Hub) ToggleTask(id int64) (model.Task, Result, error) {
	idx := h.taskIndex(id)
	if idx < 0 {
		return model.Task{}, Result{}, ErrNotFound
	}

	task := &h.state.Tasks[idx]
	task.Completed = !task.Completed

	res := Result{Effects: Persist | RenderTasks | RenderStats}
	if task.Completed {
		h.state.Stats.CompletedTasks++
		res.Notice = "Great job! Task completed! 🎉"
	} else {
		h.state.Stats.CompletedTasks--
	}
	h.clampTaskCounters()
	return *task, res, nil
}

// DeleteTask removes a task and its contribution to the stats.
func (h *Hub) DeleteTask(id int64) (model.Task, Result, error) {
	idx := h.taskIndex(id)
	if idx < 0 {
		return model.Task{}, Result{}, ErrNotFound
	}

	task := h.state.Tasks[idx]
	if task.Completed {
		h.state.Stats.CompletedTasks--
	}
	h.state.Stats.TotalTasks--
	h.state.Tasks = append(h.state.Tasks[:idx], h.state.Tasks[idx+1:]...)
	h.clampTaskCounters()

	return task, Result{
		Effects: Persist | RenderTasks | RenderStats,
		Notice:  "Task deleted! 🗑️",
	}, nil
}

// ClearCompletedTasks removes every completed task.
func (h *Hub) ClearCompletedTasks() (int, Result) {
	kept := make([]model.Task, 0, len(h.state.Tasks))
	for _, task := range h.state.Tasks {
		if !task.Completed {
			kept = append(kept, task)
		}
	}
	cleared := len(h.state.Tasks) - len(kept)
	h.state.Tasks = kept
	h.state.Stats.TotalTasks -= cleared
	h.state.Stats.CompletedTasks -= cleared
	h.clampTaskCounters()

	return cleared, Result{
		Effects: Persist | RenderTasks | RenderStats,
		Notice:  fmt.Sprintf("%d completed tasks cleared! 🧹", cleared),
	}
}

// FilterTasks returns a copy of the tasks matching filter. Unknown filters match everything.
func (h *Hub) FilterTasks(filter TaskFilter) []model.Task {
	var keep func(model.Task) bool
	switch TaskFilter(strings.ToLower(string(filter))) {
	case FilterPending:
		keep = func(t model.Task) bool { return !t.Completed }
	case FilterCompleted:
		keep = func(t model.Task) bool { return t.Completed }
	case FilterHigh, FilterMedium, FilterLow:
		p := model.Priority(strings.ToLower(string(filter)))
		keep = func(t model.Task) bool { return t.Priority == p }
	default:
		keep = func(model.Task) bool { return true }
	}

	out := make([]model.Task, 0, len(h.state.Tasks))
	for _, task := range h.state.Tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}

// SortTasks reorders the task list. Only "priority" changes the order.
func (h *Hub) SortTasks(by string) Result {
	if strings.ToLower(normalize(by)) != "priority" {
		return Result{Effects: RenderTasks}
	}
	tasks := h.state.Tasks
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
	})
	return Result{Effects: Persist | RenderTasks}
}

func (h *Hub) taskIndex(id int64) int {
	for i, task := range h.state.Tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// clampTaskCounters keeps 0 <= completed <= total.
func (h *Hub) clampTaskCounters() {
	stats := &h.state.Stats
	stats.TotalTasks = max(stats.TotalTasks, 0)
	stats.CompletedTasks = min(max(stats.CompletedTasks, 0), stats.TotalTasks)
}
