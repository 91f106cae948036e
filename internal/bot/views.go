package bot

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

// view is one rendered screen of the hub.
type view struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

// apply runs op on the sender's hub. The notice reaches the chat through the notifier;
// the chat then gets the first view the result asks for, or show when it asks for none.
func (b *Bot) apply(ctx context.Context, chatID int64, from *tgbotapi.User, show hub.Effect, op func(h *hub.Hub) (hub.Result, error)) error {
	user, err := b.ensureUser(ctx, from, chatID)
	if err != nil {
		return err
	}

	res, err := b.hubs.Do(ctx, user.TelegramID, op)
	if err != nil {
		if !errors.Is(err, hub.ErrValidation) && !errors.Is(err, hub.ErrNotFound) {
			log.Printf("hub operation user=%d: %v", user.TelegramID, err)
		}
		return b.sendText(chatID, userMessage(err))
	}

	return b.render(ctx, chatID, user.TelegramID, res.Effects|show)
}

// applyInPlace is apply for inline buttons: the view is edited in the message that
// carried the button.
func (b *Bot) applyInPlace(ctx context.Context, cb *tgbotapi.CallbackQuery, show hub.Effect, op func(h *hub.Hub) (hub.Result, error)) error {
	chatID := cb.Message.Chat.ID
	user, err := b.ensureUser(ctx, cb.From, chatID)
	if err != nil {
		return err
	}

	res, err := b.hubs.Do(ctx, user.TelegramID, op)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}

	v, err := b.buildView(ctx, user.TelegramID, res.Effects|show)
	if err != nil || v == nil {
		return err
	}
	return b.editView(chatID, cb.Message.MessageID, v)
}

func (b *Bot) render(ctx context.Context, chatID, userID int64, effects hub.Effect) error {
	v, err := b.buildView(ctx, userID, effects)
	if err != nil || v == nil {
		return err
	}
	return b.sendView(chatID, v)
}

// buildView renders the first view effects names, in the order tasks, assignments,
// schedule, timer, stats.
func (b *Bot) buildView(ctx context.Context, userID int64, effects hub.Effect) (*view, error) {
	var v *view
	err := b.hubs.View(ctx, userID, func(h *hub.Hub) {
		switch {
		case effects.Has(hub.RenderTasks):
			tasks := h.FilterTasks(hub.FilterAll)
			v = &view{text: formatTaskList(tasks, hub.FilterAll), keyboard: taskButtons(tasks)}
		case effects.Has(hub.RenderAssignments):
			views := h.Assignments()
			v = &view{text: formatAssignments(views), keyboard: assignmentButtons(views)}
		case effects.Has(hub.RenderSchedule):
			items := h.Schedule()
			v = &view{text: formatSchedule(items), keyboard: scheduleButtons(items)}
		case effects.Has(hub.RenderTimer):
			kb := timerKeyboard(h.Timer().Running())
			v = &view{text: formatTimer(h.Timer(), h.SessionGoal()), keyboard: &kb}
		case effects.Has(hub.RenderStats):
			v = &view{text: formatStats(h.StatsView())}
		}
	})
	return v, err
}

func (b *Bot) sendView(chatID int64, v *view) error {
	msg := tgbotapi.NewMessage(chatID, v.text)
	msg.ParseMode = tgbotapi.ModeHTML
	if v.keyboard != nil {
		msg.ReplyMarkup = *v.keyboard
	} else {
		msg.ReplyMarkup = mainMenuKeyboard()
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) editView(chatID int64, messageID int, v *view) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, v.text)
	edit.ParseMode = tgbotapi.ModeHTML
	if v.keyboard != nil {
		edit.ReplyMarkup = v.keyboard
	}
	_, err := b.api.Request(edit)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
