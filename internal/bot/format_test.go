package bot

import (
	"strings"
	"testing"
	"time"

	"study-hub/internal/hub"
	"study-hub/internal/model"
)

func TestParseTaskCommand(t *testing.T) {
	tests := []struct {
		args string
		want hub.TaskInput
	}{
		{args: "Read chapter 3", want: hub.TaskInput{Text: "Read chapter 3"}},
		{args: "Read chapter 3 !high #reading", want: hub.TaskInput{Text: "Read chapter 3", Priority: model.PriorityHigh, Category: "reading"}},
		{args: "!LOW finish lab", want: hub.TaskInput{Text: "finish lab", Priority: model.PriorityLow}},
		{args: "email prof !urgent", want: hub.TaskInput{Text: "email prof", Priority: "urgent"}},
		{args: "  ", want: hub.TaskInput{}},
	}

	for _, tt := range tests {
		if got := parseTaskCommand(tt.args); got != tt.want {
			t.Errorf("parseTaskCommand(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestParseAssignCommand(t *testing.T) {
	got, err := parseAssignCommand(" Essay | History | 2026-10-21 | draft first ")
	if err != nil {
		t.Fatalf("parseAssignCommand: %v", err)
	}
	want := hub.AssignmentInput{Name: "Essay", Subject: "History", DueDate: "2026-10-21", Notes: "draft first"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, err := parseAssignCommand("Essay | History"); err == nil {
		t.Fatal("expected error for missing due date")
	}
}

func TestParseScheduleCommand(t *testing.T) {
	got := parseScheduleCommand("9:05 Linear algebra lecture")
	if got.Time != "9:05" || got.Event != "Linear algebra lecture" {
		t.Fatalf("got %+v", got)
	}
	if got := parseScheduleCommand(""); got != (hub.ScheduleInput{}) {
		t.Fatalf("empty args = %+v", got)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "1718000000000", want: 1718000000000},
		{raw: " #42 ", want: 42},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "-3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.raw, got, err)
		}
	}

	if id, err := parseCallbackID(cbTaskTogglePrefix+"17", cbTaskTogglePrefix); err != nil || id != 17 {
		t.Errorf("parseCallbackID = %d, %v", id, err)
	}
}

func TestParsePriorityInput(t *testing.T) {
	for input, want := range map[string]model.Priority{
		priorityLabelHi:  model.PriorityHigh,
		"medium":         model.PriorityMedium,
		priorityLabelLo:  model.PriorityLow,
		" L ":            model.PriorityLow,
		priorityLabelMid: model.PriorityMedium,
	} {
		got, ok := parsePriorityInput(input)
		if !ok || got != want {
			t.Errorf("parsePriorityInput(%q) = %q, %t", input, got, ok)
		}
	}
	if _, ok := parsePriorityInput("urgent"); ok {
		t.Error("unknown priority accepted")
	}
}

func TestFormatTaskListEscapes(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "fix <b> tag", Priority: model.PriorityHigh, Category: "code"},
		{ID: 2, Text: "done one", Priority: model.PriorityLow, Category: "general", Completed: true},
	}
	text := formatTaskList(tasks, hub.FilterAll)

	for _, want := range []string{"Fix &lt;b&gt; tag", "🔴", "<s>Done one</s>", "<code>2</code>"} {
		if !strings.Contains(text, want) {
			t.Errorf("task list missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(formatTaskList(nil, hub.FilterPending), "No tasks yet") {
		t.Error("empty list should show a hint")
	}
}

func TestFormatAssignments(t *testing.T) {
	views := []hub.AssignmentView{
		{Assignment: model.Assignment{ID: 5, Name: "lab", Subject: "Physics", DueDate: "2026-10-18"}, DaysUntilDue: -1, Overdue: true, Label: "(1 days overdue)"},
		{Assignment: model.Assignment{ID: 6, Name: "essay", Subject: "History", DueDate: "2026-10-20", Completed: true}, DaysUntilDue: 1, DueSoon: true, Label: "(Due tomorrow)"},
	}
	text := formatAssignments(views)

	if !strings.Contains(text, "⚠️ <b>Lab</b> · Physics") || !strings.Contains(text, "(1 days overdue)") {
		t.Errorf("overdue assignment not rendered:\n%s", text)
	}
	if strings.Contains(text, "(Due tomorrow)") {
		t.Errorf("completed assignment should not carry a due label:\n%s", text)
	}
}

func TestFormatTimer(t *testing.T) {
	timer := hub.NewTimer(25*time.Minute, 5*time.Minute)
	timer.Start()
	for i := 0; i < 150; i++ {
		timer.Tick()
	}
	text := formatTimer(timer, "chapter <3>")

	for _, want := range []string{"Work session", "running", "<code>22:30</code>", "▓░░░░░░░░░", "chapter &lt;3&gt;"} {
		if !strings.Contains(text, want) {
			t.Errorf("timer view missing %q:\n%s", want, text)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "▓▓░░"},
		{1, "▓▓▓▓"},
		{1.7, "▓▓▓▓"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.fraction, 4); got != tt.want {
			t.Errorf("progressBar(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	text := formatStats(model.Stats{CompletedTasks: 3, TotalTasks: 4, PomodoroCount: 5, StudyTime: 125, Productivity: 75})
	for _, want := range []string{"<b>3</b> / 4", "<b>5</b>", "2h 05m", "<b>75%</b>"} {
		if !strings.Contains(text, want) {
			t.Errorf("stats missing %q:\n%s", want, text)
		}
	}
}

func TestUserMessage(t *testing.T) {
	h := hub.New(nil, hub.Options{})
	_, _, err := h.AddTask(hub.TaskInput{Text: " "})
	if got := userMessage(err); got != "⚠️ Task text is required" {
		t.Errorf("validation message = %q", got)
	}
	_, _, err = h.ToggleTask(99)
	if got := userMessage(err); !strings.Contains(got, "not found") {
		t.Errorf("not found message = %q", got)
	}
}

func TestShortTitle(t *testing.T) {
	if got := shortTitle("read the whole\nbook tonight", 10); got != "Read the …" {
		t.Errorf("shortTitle = %q", got)
	}
	if got := shortTitle("ok", 10); got != "Ok" {
		t.Errorf("shortTitle = %q", got)
	}
}
