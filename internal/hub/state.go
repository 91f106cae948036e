package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"study-hub/internal/model"
)

// Store keys.
const (
	KeyTasks       = "tasks"
	KeyAssignments = "assignments"
	KeySchedule    = "schedule"
	KeyStats       = "stats"
	KeyDarkMode    = "darkMode"
)

// Store is a key-value byte store scoped to one hub.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// State holds the collections of one hub. It is read once when a hub is opened and
// written back in full after every mutation.
type State struct {
	Tasks       []model.Task         `json:"tasks"`
	Assignments []model.Assignment   `json:"assignments"`
	Schedule    []model.ScheduleItem `json:"schedule"`
	Stats       model.Stats          `json:"stats"`
	DarkMode    bool                 `json:"darkMode"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Tasks:       []model.Task{},
		Assignments: []model.Assignment{},
		Schedule:    []model.ScheduleItem{},
	}
}

// Load reads the state from store. Missing or malformed entries fall back to defaults;
// only read errors are returned.
func Load(ctx context.Context, store Store) (*State, error) {
	st := NewState()

	if err := decodeEntry(ctx, store, KeyTasks, &st.Tasks); err != nil {
		return nil, err
	}
	if err := decodeEntry(ctx, store, KeyAssignments, &st.Assignments); err != nil {
		return nil, err
	}
	if err := decodeEntry(ctx, store, KeySchedule, &st.Schedule); err != nil {
		return nil, err
	}
	if err := decodeEntry(ctx, store, KeyStats, &st.Stats); err != nil {
		return nil, err
	}

	raw, ok, err := store.Get(ctx, KeyDarkMode)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyDarkMode, err)
	}
	if ok {
		st.DarkMode = string(raw) == "true"
	}

	if st.Tasks == nil {
		st.Tasks = []model.Task{}
	}
	if st.Assignments == nil {
		st.Assignments = []model.Assignment{}
	}
	if st.Schedule == nil {
		st.Schedule = []model.ScheduleItem{}
	}
	return st, nil
}

// decodeEntry unmarshals key into dst, leaving dst at its default when the entry is
// absent or malformed.
func decodeEntry[T any](ctx context.Context, store Store, key string, dst *T) error {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Printf("[warn] stored %s is malformed, using defaults: %v", key, err)
		return nil
	}
	*dst = value
	return nil
}

// Save writes the four collections to store.
func (s *State) Save(ctx context.Context, store Store) error {
	stats := s.Stats
	stats.Productivity = stats.ProductivityPercent()

	entries := []struct {
		key   string
		value any
	}{
		{KeyTasks, s.Tasks},
		{KeyAssignments, s.Assignments},
		{KeySchedule, s.Schedule},
		{KeyStats, stats},
	}
	for _, entry := range entries {
		raw, err := json.Marshal(entry.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", entry.key, err)
		}
		if err := store.Set(ctx, entry.key, raw); err != nil {
			return fmt.Errorf("write %s: %w", entry.key, err)
		}
	}
	return nil
}

// SaveTheme writes the theme flag.
func (s *State) SaveTheme(ctx context.Context, store Store) error {
	if err := store.Set(ctx, KeyDarkMode, []byte(strconv.FormatBool(s.DarkMode))); err != nil {
		return fmt.Errorf("write %s: %w", KeyDarkMode, err)
	}
	return nil
}
