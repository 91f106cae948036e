package hub

import (
	"fmt"
	"sort"
	"time"

	"study-hub/internal/model"
)

// ScheduleInput represents data required to create a schedule item.
type ScheduleInput struct {
	Time  string
	Event string
}

// AddScheduleItem appends a schedule entry. Time must be HH:MM; it is stored with a
// two-digit hour so that items sort by time of day.
func (h *Hub) AddScheduleItem(input ScheduleInput) (model.ScheduleItem, Result, error) {
	at := normalize(input.Time)
	event := normalize(input.Event)
	if at == "" || event == "" {
		return model.ScheduleItem{}, Result{}, fmt.Errorf("time and event are required: %w", ErrValidation)
	}
	parsed, err := time.Parse(model.TimeLayout, at)
	if err != nil {
		return model.ScheduleItem{}, Result{}, fmt.Errorf("time %q: %w", at, ErrValidation)
	}

	item := model.ScheduleItem{
		ID:    h.nextID(),
		Time:  parsed.Format(model.TimeLayout),
		Event: event,
	}
	h.state.Schedule = append(h.state.Schedule, item)
	return item, Result{Effects: Persist | RenderSchedule, Notice: "Schedule item added! 📅"}, nil
}

func (h *Hub) ToggleScheduleItem(id int64) (model.ScheduleItem, Result, error) {
	idx := h.scheduleIndex(id)
	if idx < 0 {
		return model.ScheduleItem{}, Result{}, ErrNotFound
	}
	item := &h.state.Schedule[idx]
	item.Completed = !item.Completed

	res := Result{Effects: Persist | RenderSchedule, Notice: "Schedule item marked as pending! ⏳"}
	if item.Completed {
		res.Notice = "Schedule item completed! ✅"
	}
	return *item, res, nil
}

func (h *Hub) DeleteScheduleItem(id int64) (model.ScheduleItem, Result, error) {
	idx := h.scheduleIndex(id)
	if idx < 0 {
		return model.ScheduleItem{}, Result{}, ErrNotFound
	}
	item := h.state.Schedule[idx]
	h.state.Schedule = append(h.state.Schedule[:idx], h.state.Schedule[idx+1:]...)
	return item, Result{Effects: Persist | RenderSchedule, Notice: "Schedule item deleted! 🗑️"}, nil
}

// Schedule sorts the schedule by time of day and returns a copy of it.
func (h *Hub) Schedule() []model.ScheduleItem {
	list := h.state.Schedule
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Time < list[j].Time
	})
	return append([]model.ScheduleItem(nil), list...)
}

func (h *Hub) scheduleIndex(id int64) int {
	for i, item := range h.state.Schedule {
		if item.ID == id {
			return i
		}
	}
	return -1
}
