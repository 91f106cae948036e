package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

func (b *Bot) handleAddAssignment(ctx context.Context, msg *tgbotapi.Message) error {
	input, err := parseAssignCommand(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use: /assign Essay | History | 2025-11-30 [| notes]")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		a, res, err := h.AddAssignment(input)
		if err == nil {
			log.Printf("[info] assignment added id=%d user=%d due=%s", a.ID, msg.From.ID, a.DueDate)
		}
		return res, err
	})
}

func (b *Bot) handleListAssignments(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	return b.render(ctx, msg.Chat.ID, user.TelegramID, hub.RenderAssignments)
}

func (b *Bot) handleToggleAssignment(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the assignment id: /doneassign 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		_, res, err := h.ToggleAssignment(id)
		return res, err
	})
}

func (b *Bot) handleDeleteAssignment(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the assignment id: /delassign 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		_, res, err := h.DeleteAssignment(id)
		return res, err
	})
}

func (b *Bot) handleAddSchedule(ctx context.Context, msg *tgbotapi.Message) error {
	input := parseScheduleCommand(msg.CommandArguments())
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		item, res, err := h.AddScheduleItem(input)
		if err == nil {
			log.Printf("[info] schedule item added id=%d user=%d at=%s", item.ID, msg.From.ID, item.Time)
		}
		return res, err
	})
}

func (b *Bot) handleListSchedule(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	return b.render(ctx, msg.Chat.ID, user.TelegramID, hub.RenderSchedule)
}

func (b *Bot) handleToggleSchedule(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the schedule item id: /donesched 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		_, res, err := h.ToggleScheduleItem(id)
		return res, err
	})
}

func (b *Bot) handleDeleteSchedule(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give the schedule item id: /delsched 1718000000000")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		_, res, err := h.DeleteScheduleItem(id)
		return res, err
	})
}

// handleQuickAdd reads "/quick <task|assignment|schedule> <text>".
func (b *Bot) handleQuickAdd(ctx context.Context, msg *tgbotapi.Message) error {
	kind, text, _ := strings.Cut(strings.TrimSpace(msg.CommandArguments()), " ")
	if kind == "" {
		return b.sendText(msg.Chat.ID, "Use: /quick task|assignment|schedule &lt;text&gt;")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		return h.QuickAdd(hub.QuickKind(kind), text)
	})
}
