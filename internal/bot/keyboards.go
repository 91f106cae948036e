package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
	"study-hub/internal/model"
)

const (
	cbTaskTogglePrefix   = "task_toggle:"
	cbTaskDeletePrefix   = "task_delete:"
	cbAssignTogglePrefix = "assign_toggle:"
	cbAssignDeletePrefix = "assign_delete:"
	cbSchedTogglePrefix  = "sched_toggle:"
	cbSchedDeletePrefix  = "sched_delete:"
	cbTimerPrefix        = "timer:"
	cbBreathingStop      = "breathe:stop"
	cbQuoteNext          = "quote:next"
)

const (
	btnSkip          = "⏭️ Skip"
	btnConfirm       = "✅ Confirm"
	btnCancel        = "↩️ Cancel"
	btnCancelDialog  = "⏪ Cancel input"
	menuLabelTasks   = "📝 Tasks"
	menuLabelAssign  = "📚 Assignments"
	menuLabelSched   = "📅 Schedule"
	menuLabelTimer   = "🍅 Timer"
	menuLabelStats   = "📊 Stats"
	menuLabelHelp    = "ℹ️ Help"
	priorityLabelHi  = "🔴 High"
	priorityLabelMid = "🟠 Medium"
	priorityLabelLo  = "🟢 Low"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTasks),
			tgbotapi.NewKeyboardButton(menuLabelAssign),
			tgbotapi.NewKeyboardButton(menuLabelSched),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTimer),
			tgbotapi.NewKeyboardButton(menuLabelStats),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(priorityLabelHi),
			tgbotapi.NewKeyboardButton(priorityLabelMid),
			tgbotapi.NewKeyboardButton(priorityLabelLo),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Study"),
			tgbotapi.NewKeyboardButton("Homework"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Reading"),
			tgbotapi.NewKeyboardButton("Personal"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func taskButtons(tasks []model.Task) *tgbotapi.InlineKeyboardMarkup {
	if len(tasks) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkLabel(task.Completed, task.Text), fmt.Sprintf("%s%d", cbTaskTogglePrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbTaskDeletePrefix, task.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func assignmentButtons(views []hub.AssignmentView) *tgbotapi.InlineKeyboardMarkup {
	if len(views) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(views))
	for _, a := range views {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkLabel(a.Completed, a.Name), fmt.Sprintf("%s%d", cbAssignTogglePrefix, a.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbAssignDeletePrefix, a.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func scheduleButtons(items []model.ScheduleItem) *tgbotapi.InlineKeyboardMarkup {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkLabel(item.Completed, item.Time+" "+item.Event), fmt.Sprintf("%s%d", cbSchedTogglePrefix, item.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbSchedDeletePrefix, item.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func timerKeyboard(running bool) tgbotapi.InlineKeyboardMarkup {
	primary := tgbotapi.NewInlineKeyboardButtonData("▶️ Start", cbTimerPrefix+"start")
	if running {
		primary = tgbotapi.NewInlineKeyboardButtonData("⏸ Pause", cbTimerPrefix+"pause")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			primary,
			tgbotapi.NewInlineKeyboardButtonData("🔁 Reset", cbTimerPrefix+"reset"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💼 Work", cbTimerPrefix+"work"),
			tgbotapi.NewInlineKeyboardButtonData("☕ Break", cbTimerPrefix+"break"),
		),
	)
}

func breathingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", cbBreathingStop),
		),
	)
}

func checkLabel(done bool, text string) string {
	mark := "⬜"
	if done {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s", mark, shortTitle(text, 24))
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel input"
}

// parsePriorityInput maps a keyboard label or a plain word to a priority.
func parsePriorityInput(text string) (model.Priority, bool) {
	value := strings.TrimSpace(strings.ToLower(text))
	switch value {
	case strings.ToLower(priorityLabelHi), "high", "!high", "h":
		return model.PriorityHigh, true
	case strings.ToLower(priorityLabelMid), "medium", "!medium", "m":
		return model.PriorityMedium, true
	case strings.ToLower(priorityLabelLo), "low", "!low", "l":
		return model.PriorityLow, true
	default:
		return "", false
	}
}

func quoteKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quote", cbQuoteNext),
		),
	)
}
