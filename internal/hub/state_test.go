package hub

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"study-hub/internal/model"
)

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	h := newTestHub(t)
	task, _, _ := h.AddTask(TaskInput{Text: "Flashcards", Priority: "low", Category: "study"})
	h.ToggleTask(task.ID)
	h.AddTask(TaskInput{Text: "Email professor"})
	h.AddAssignment(AssignmentInput{Name: "Essay", Subject: "History", DueDate: "2026-10-21", Notes: "2000 words"})
	h.AddScheduleItem(ScheduleInput{Time: "09:00", Event: "Lecture"})
	h.StartTimer()
	for i := 0; i < 1500; i++ {
		h.TimerTick()
	}

	if err := h.State().Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := h.State()
	if !reflect.DeepEqual(loaded.Tasks, want.Tasks) {
		t.Errorf("tasks:\n got %+v\nwant %+v", loaded.Tasks, want.Tasks)
	}
	if !reflect.DeepEqual(loaded.Assignments, want.Assignments) {
		t.Errorf("assignments:\n got %+v\nwant %+v", loaded.Assignments, want.Assignments)
	}
	if !reflect.DeepEqual(loaded.Schedule, want.Schedule) {
		t.Errorf("schedule:\n got %+v\nwant %+v", loaded.Schedule, want.Schedule)
	}
	wantStats := want.Stats
	wantStats.Productivity = 50
	if loaded.Stats != wantStats {
		t.Errorf("stats = %+v, want %+v", loaded.Stats, wantStats)
	}
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	st, err := Load(context.Background(), newMemStore())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Tasks == nil || st.Assignments == nil || st.Schedule == nil {
		t.Fatal("collections should be empty, not nil")
	}
	if st.DarkMode || st.Stats.TotalTasks != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestLoadFallsBackOnMalformedEntries(t *testing.T) {
	store := newMemStore()
	store.data[KeyTasks] = []byte(`{"not":"a list"}`)
	store.data[KeyStats] = []byte(`garbage`)
	store.data[KeySchedule] = []byte(`null`)
	store.data[KeyAssignments] = []byte(`[{"id":7,"name":"Essay","subject":"History","dueDate":"2026-10-21","notes":"","completed":false,"createdAt":"2026-10-19T15:00:00Z"}]`)
	store.data[KeyDarkMode] = []byte("true")

	st, err := Load(context.Background(), store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(st.Tasks) != 0 || st.Schedule == nil || len(st.Schedule) != 0 {
		t.Fatalf("malformed collections should fall back to empty: %+v", st)
	}
	if len(st.Assignments) != 1 || st.Assignments[0].ID != 7 {
		t.Fatalf("assignments = %+v", st.Assignments)
	}
	if !st.DarkMode {
		t.Fatal("dark mode should load")
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestLoadReturnsStoreErrors(t *testing.T) {
	if _, err := Load(context.Background(), failingStore{}); err == nil {
		t.Fatal("expected read error")
	}
	if err := NewState().Save(context.Background(), failingStore{}); err == nil {
		t.Fatal("expected write error")
	}
}

func TestNewHubContinuesIDsAfterLoad(t *testing.T) {
	st := NewState()
	st.Tasks = append(st.Tasks, modelTask(fixedNow.UnixMilli()+1000))
	h := New(st, Options{Now: func() time.Time { return fixedNow }})

	task, _, err := h.AddTask(TaskInput{Text: "next"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.ID != fixedNow.UnixMilli()+1001 {
		t.Fatalf("id = %d, want %d", task.ID, fixedNow.UnixMilli()+1001)
	}
}

func TestToggleThemePersistsFlag(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	h := newTestHub(t)

	res := h.ToggleTheme()
	if !res.Effects.Has(PersistTheme) || !h.State().DarkMode {
		t.Fatalf("res = %+v dark=%t", res, h.State().DarkMode)
	}
	if err := h.State().SaveTheme(ctx, store); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if string(store.data[KeyDarkMode]) != "true" {
		t.Fatalf("darkMode = %q", store.data[KeyDarkMode])
	}
}

func modelTask(id int64) model.Task {
	return model.Task{ID: id, Text: "loaded", Priority: model.PriorityMedium, Category: "general"}
}
