package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"

	"study-hub/internal/hub"
	"study-hub/internal/model"
)

const (
	iconDone    = "✅"
	iconPending = "⬜"
	iconDue     = "⏳"
	iconOverdue = "⚠️"
)

// parseTaskCommand reads "/task <text> [!priority] [#category]".
func parseTaskCommand(args string) hub.TaskInput {
	var (
		input hub.TaskInput
		words []string
	)
	for _, field := range strings.Fields(args) {
		switch {
		case strings.HasPrefix(field, "!") && len(field) > 1:
			input.Priority = model.Priority(strings.ToLower(field[1:]))
		case strings.HasPrefix(field, "#") && len(field) > 1:
			input.Category = field[1:]
		default:
			words = append(words, field)
		}
	}
	input.Text = strings.Join(words, " ")
	return input
}

// parseAssignCommand reads "name | subject | YYYY-MM-DD [| notes]".
func parseAssignCommand(args string) (hub.AssignmentInput, error) {
	parts := strings.SplitN(args, "|", 4)
	if len(parts) < 3 {
		return hub.AssignmentInput{}, errors.New("expected name | subject | YYYY-MM-DD [| notes]")
	}
	input := hub.AssignmentInput{
		Name:    strings.TrimSpace(parts[0]),
		Subject: strings.TrimSpace(parts[1]),
		DueDate: strings.TrimSpace(parts[2]),
	}
	if len(parts) == 4 {
		input.Notes = strings.TrimSpace(parts[3])
	}
	return input, nil
}

// parseScheduleCommand reads "HH:MM event".
func parseScheduleCommand(args string) hub.ScheduleInput {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return hub.ScheduleInput{}
	}
	return hub.ScheduleInput{
		Time:  fields[0],
		Event: strings.Join(fields[1:], " "),
	}
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseCallbackID(data, prefix string) (int64, error) {
	return parseID(strings.TrimPrefix(data, prefix))
}

func formatTaskList(tasks []model.Task, filter hub.TaskFilter) string {
	var builder strings.Builder
	builder.WriteString("📝 <b>Tasks</b>")
	if filter != "" && filter != hub.FilterAll {
		builder.WriteString(fmt.Sprintf(" · <i>%s</i>", escape(string(filter))))
	}
	builder.WriteString("\n\n")

	if len(tasks) == 0 {
		builder.WriteString("No tasks yet. Add one with /task Read chapter 3 !high #reading")
		return builder.String()
	}

	for _, task := range tasks {
		icon := iconPending
		if task.Completed {
			icon = iconDone
		}
		text := escape(normalizeTitle(task.Text))
		if task.Completed {
			text = "<s>" + text + "</s>"
		}
		builder.WriteString(fmt.Sprintf("%s %s %s <i>#%s</i>\n   <code>%d</code>\n",
			icon, priorityIcon(task.Priority), text, escape(task.Category), task.ID))
	}
	return strings.TrimSpace(builder.String())
}

func formatAssignments(views []hub.AssignmentView) string {
	var builder strings.Builder
	builder.WriteString("📚 <b>Assignments</b>\n\n")

	if len(views) == 0 {
		builder.WriteString("No assignments yet. Add one with /assign Essay | History | 2025-11-30")
		return builder.String()
	}

	for _, a := range views {
		icon := iconPending
		switch {
		case a.Completed:
			icon = iconDone
		case a.Overdue:
			icon = iconOverdue
		case a.DueSoon:
			icon = iconDue
		}
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> · %s\n", icon, escape(normalizeTitle(a.Name)), escape(a.Subject)))
		builder.WriteString(fmt.Sprintf("   📆 %s", escape(a.DueDate)))
		if !a.Completed {
			builder.WriteString(" " + escape(a.Label))
		}
		builder.WriteByte('\n')
		if a.Notes != "" {
			builder.WriteString(fmt.Sprintf("   📝 %s\n", escape(a.Notes)))
		}
		builder.WriteString(fmt.Sprintf("   <code>%d</code>\n", a.ID))
	}
	return strings.TrimSpace(builder.String())
}

func formatSchedule(items []model.ScheduleItem) string {
	var builder strings.Builder
	builder.WriteString("📅 <b>Schedule</b>\n\n")

	if len(items) == 0 {
		builder.WriteString("Nothing scheduled. Add an event with /sched 14:30 Lab session")
		return builder.String()
	}

	for _, item := range items {
		icon := iconPending
		event := escape(item.Event)
		if item.Completed {
			icon = iconDone
			event = "<s>" + event + "</s>"
		}
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> %s · <code>%d</code>\n", icon, item.Time, event, item.ID))
	}
	return strings.TrimSpace(builder.String())
}

func formatTimer(timer *hub.Timer, goal string) string {
	var builder strings.Builder
	label := "💼 Work session"
	if timer.Mode() == hub.ModeBreak {
		label = "☕ Break"
	}
	state := "paused"
	if timer.Running() {
		state = "running"
	}
	builder.WriteString(fmt.Sprintf("🍅 <b>%s</b> · %s\n", label, state))
	builder.WriteString(fmt.Sprintf("<code>%s</code>\n", timer.Display()))
	builder.WriteString(progressBar(timer.Progress(), 10))
	if goal != "" {
		builder.WriteString(fmt.Sprintf("\n🎯 %s", escape(goal)))
	}
	return builder.String()
}

func formatStats(stats model.Stats) string {
	var builder strings.Builder
	builder.WriteString("📊 <b>Statistics</b>\n\n")
	builder.WriteString(fmt.Sprintf("✅ Completed tasks: <b>%d</b> / %d\n", stats.CompletedTasks, stats.TotalTasks))
	builder.WriteString(fmt.Sprintf("🍅 Pomodoros: <b>%d</b>\n", stats.PomodoroCount))
	builder.WriteString(fmt.Sprintf("⏱ Study time: <b>%s</b>\n", formatMinutes(stats.StudyTime)))
	builder.WriteString(fmt.Sprintf("📈 Productivity: <b>%d%%</b> %s\n", stats.Productivity, progressBar(float64(stats.Productivity)/100, 10)))
	builder.WriteString(fmt.Sprintf("🔥 Streak: <b>%d</b>", stats.Streak))
	return builder.String()
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// progressBar draws fraction (clamped to [0, 1]) as width blocks.
func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "🟢"
	default:
		return "🟠"
	}
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}

// userMessage turns a hub error into a short reply.
func userMessage(err error) string {
	switch {
	case errors.Is(err, hub.ErrNotFound):
		return "Item not found. It may have been deleted already."
	case errors.Is(err, hub.ErrValidation):
		reason := strings.TrimSuffix(err.Error(), ": "+hub.ErrValidation.Error())
		return fmt.Sprintf("⚠️ %s", escape(normalizeTitle(reason)))
	default:
		return fmt.Sprintf("Error: %s", escape(err.Error()))
	}
}
