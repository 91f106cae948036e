package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

// handleAddTask adds a task from the command arguments, or starts a step-by-step dialog
// when there are none.
func (b *Bot) handleAddTask(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.startNewTaskConversation(ctx, msg)
	}
	input := parseTaskCommand(args)
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		task, res, err := h.AddTask(input)
		if err == nil {
			log.Printf("[info] task added id=%d user=%d priority=%s", task.ID, msg.From.ID, task.Priority)
		}
		return res, err
	})
}

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From, msg.Chat.ID); err != nil {
		return err
	}
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTaskText})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what needs doing?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTaskText:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The task needs some text.", cancelKeyboard())
		}
		state.input.Text = text
		state.stage = stageTaskPriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Step 2:</b> how important is it?", priorityKeyboard())
	case stageTaskPriority:
		priority, ok := parsePriorityInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick High, Medium or Low.", priorityKeyboard())
		}
		state.input.Priority = priority
		state.stage = stageTaskCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Step 3:</b> pick a category or send your own (or Skip).", categoryKeyboard())
	case stageTaskCategory:
		if !isSkipInput(text) {
			state.input.Category = strings.ToLower(text)
		}
		input := state.input
		b.clearConversation(msg.From.ID)
		return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
			task, res, err := h.AddTask(input)
			if err == nil {
				log.Printf("[info] task added id=%d user=%d priority=%s", task.ID, msg.From.ID, task.Priority)
			}
			return res, err
		})
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Try /task again.")
	}
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}

	filter := hub.TaskFilter(strings.ToLower(strings.TrimSpace(msg.CommandArguments())))
	if filter == "" {
		filter = hub.FilterAll
	}

	var v *view
	err = b.hubs.View(ctx, user.TelegramID, func(h *hub.Hub) {
		tasks := h.FilterTasks(filter)
		v = &view{text: formatTaskList(tasks, filter), keyboard: taskButtons(tasks)}
	})
	if err != nil {
		return err
	}
	log.Printf("[info] list tasks user=%d filter=%s", user.TelegramID, filter)
	return b.sendView(msg.Chat.ID, v)
}

func (b *Bot) handleToggleTask(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task id: /done 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		_, res, err := h.ToggleTask(id)
		return res, err
	})
}

func (b *Bot) handleDeleteTask(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the task id: /deltask 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		task, res, err := h.DeleteTask(id)
		if err == nil {
			log.Printf("[info] task deleted id=%d user=%d", task.ID, msg.From.ID)
		}
		return res, err
	})
}

func (b *Bot) handleSortTasks(ctx context.Context, msg *tgbotapi.Message) error {
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		return h.SortTasks("priority"), nil
	})
}

func (b *Bot) handleClearCompleted(ctx context.Context, msg *tgbotapi.Message) error {
	return b.apply(ctx, msg.Chat.ID, msg.From, hub.RenderTasks, func(h *hub.Hub) (hub.Result, error) {
		cleared, res := h.ClearCompletedTasks()
		log.Printf("[info] cleared %d completed tasks user=%d", cleared, msg.From.ID)
		return res, nil
	})
}
