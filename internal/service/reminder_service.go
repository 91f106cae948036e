package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"study-hub/internal/hub"
	"study-hub/internal/model"
)

// ReminderService builds the periodic digest of a user's hub.
type ReminderService struct {
	hubs *HubService
}

func NewReminderService(hubs *HubService) *ReminderService {
	return &ReminderService{hubs: hubs}
}

type digest struct {
	tasks       []model.Task
	assignments []hub.AssignmentView
	schedule    []model.ScheduleItem
	stats       model.Stats
}

// DailySummary renders pending tasks by priority, overdue and due-soon assignments and the
// unfinished part of the schedule. Assignments are classified against the date of now.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	var d digest
	err := s.hubs.View(ctx, user.TelegramID, func(h *hub.Hub) {
		d.tasks = h.FilterTasks(hub.FilterPending)
		for _, a := range h.AssignmentsOn(now) {
			if !a.Completed && (a.Overdue || a.DueSoon) {
				d.assignments = append(d.assignments, a)
			}
		}
		for _, item := range h.Schedule() {
			if !item.Completed {
				d.schedule = append(d.schedule, item)
			}
		}
		d.stats = h.StatsView()
	})
	if err != nil {
		return "", err
	}

	sort.SliceStable(d.tasks, func(i, j int) bool {
		return d.tasks[i].Priority.Rank() > d.tasks[j].Priority.Rank()
	})

	return formatDigest(d, now), nil
}

func formatDigest(d digest, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Study digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	builder.WriteString("🔥 <b>Pending tasks</b>\n")
	if len(d.tasks) == 0 {
		builder.WriteString("— nothing pending\n")
	}
	for _, task := range d.tasks {
		builder.WriteString(fmt.Sprintf("%s %s <i>(%s)</i>\n",
			priorityIcon(task.Priority), html.EscapeString(task.Text), html.EscapeString(task.Category)))
	}

	builder.WriteString("\n📚 <b>Assignments needing attention</b>\n")
	if len(d.assignments) == 0 {
		builder.WriteString("— nothing due in the next days\n")
	}
	for _, a := range d.assignments {
		icon := "⏳"
		if a.Overdue {
			icon = "⚠️"
		}
		builder.WriteString(fmt.Sprintf("%s %s · %s — due %s %s\n",
			icon, html.EscapeString(a.Name), html.EscapeString(a.Subject), a.DueDate, a.Label))
	}

	builder.WriteString("\n📅 <b>Still on the schedule</b>\n")
	if len(d.schedule) == 0 {
		builder.WriteString("— schedule is clear\n")
	}
	for _, item := range d.schedule {
		builder.WriteString(fmt.Sprintf("🕘 %s %s\n", item.Time, html.EscapeString(item.Event)))
	}

	builder.WriteString(fmt.Sprintf("\n🍅 %d pomodoros · %d min studied · %d%% tasks done",
		d.stats.PomodoroCount, d.stats.StudyTime, d.stats.Productivity))

	return strings.TrimSpace(builder.String())
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityMedium:
		return "🟠"
	default:
		return "🟢"
	}
}
