package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

type hubOp func(h *hub.Hub) (hub.Result, error)

type itemCallback struct {
	prefix string
	op     func(id int64) hubOp
}

var itemCallbacks = []itemCallback{
	{cbTaskTogglePrefix, itemOp((*hub.Hub).ToggleTask)},
	{cbTaskDeletePrefix, itemOp((*hub.Hub).DeleteTask)},
	{cbAssignTogglePrefix, itemOp((*hub.Hub).ToggleAssignment)},
	{cbAssignDeletePrefix, itemOp((*hub.Hub).DeleteAssignment)},
	{cbSchedTogglePrefix, itemOp((*hub.Hub).ToggleScheduleItem)},
	{cbSchedDeletePrefix, itemOp((*hub.Hub).DeleteScheduleItem)},
}

// itemOp adapts a per-item hub method to a callback operation.
func itemOp[T any](method func(*hub.Hub, int64) (T, hub.Result, error)) func(id int64) hubOp {
	return func(id int64) hubOp {
		return func(h *hub.Hub) (hub.Result, error) {
			_, res, err := method(h, id)
			return res, err
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	data := cb.Data
	log.Printf("[info] callback user=%d data=%s", cb.From.ID, data)

	for _, item := range itemCallbacks {
		if !strings.HasPrefix(data, item.prefix) {
			continue
		}
		id, err := parseCallbackID(data, item.prefix)
		if err != nil {
			return nil
		}
		return b.applyInPlace(ctx, cb, 0, item.op(id))
	}

	switch {
	case strings.HasPrefix(data, cbTimerPrefix):
		op, ok := timerCallbackOp(strings.TrimPrefix(data, cbTimerPrefix))
		if !ok {
			return nil
		}
		return b.applyInPlace(ctx, cb, hub.RenderTimer, op)
	case data == cbBreathingStop:
		b.breathing.Stop(cb.Message.Chat.ID)
		return nil
	case data == cbQuoteNext:
		quote, err := b.nextQuote(ctx, cb.From, cb.Message.Chat.ID)
		if err != nil {
			return err
		}
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, formatQuote(quote))
		edit.ParseMode = tgbotapi.ModeHTML
		kb := quoteKeyboard()
		edit.ReplyMarkup = &kb
		if _, err := b.api.Request(edit); err != nil && !strings.Contains(err.Error(), "message is not modified") {
			return err
		}
		return nil
	default:
		return nil
	}
}

func timerCallbackOp(action string) (hubOp, bool) {
	switch action {
	case "start":
		return func(h *hub.Hub) (hub.Result, error) { return h.StartTimer(), nil }, true
	case "pause":
		return func(h *hub.Hub) (hub.Result, error) { return h.PauseTimer(), nil }, true
	case "reset":
		return func(h *hub.Hub) (hub.Result, error) { return h.ResetTimer(), nil }, true
	case string(hub.ModeWork), string(hub.ModeBreak):
		mode := hub.Mode(action)
		return func(h *hub.Hub) (hub.Result, error) { return h.SetTimerMode(mode) }, true
	default:
		return nil, false
	}
}
