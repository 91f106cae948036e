package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

func (b *Bot) handleTimer(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	return b.render(ctx, msg.Chat.ID, user.TelegramID, hub.RenderTimer)
}

func (b *Bot) handleMode(ctx context.Context, msg *tgbotapi.Message) error {
	mode, err := hub.ParseMode(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use: /mode work or /mode break")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, hub.RenderTimer, func(h *hub.Hub) (hub.Result, error) {
		return h.SetTimerMode(mode)
	})
}

func (b *Bot) handleGoal(ctx context.Context, msg *tgbotapi.Message) error {
	goal := msg.CommandArguments()
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		return h.SetSessionGoal(goal)
	})
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	return b.render(ctx, msg.Chat.ID, user.TelegramID, hub.RenderStats)
}

func (b *Bot) askResetStatsConfirmation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From, msg.Chat.ID); err != nil {
		return err
	}
	b.setConfirmation(msg.From.ID, confirmationRequest{action: actionResetStats})
	return b.sendWithReplyMarkup(msg.Chat.ID, "Reset all statistics? This cannot be undone.", confirmKeyboard())
}

type confirmationReply int

const (
	replyUnclear confirmationReply = iota
	replyConfirmed
	replyCancelled
)

// resolveConfirmation classifies a reply to req. op is set only when the reply confirms
// an action that changes the hub.
func resolveConfirmation(req confirmationRequest, text string) (confirmationReply, hubOp) {
	switch {
	case isConfirmInput(text):
		if req.action == actionResetStats {
			return replyConfirmed, func(h *hub.Hub) (hub.Result, error) {
				return h.ResetStats(), nil
			}
		}
		return replyConfirmed, nil
	case isCancelInput(text):
		return replyCancelled, nil
	default:
		return replyUnclear, nil
	}
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	reply, op := resolveConfirmation(req, msg.Text)
	switch reply {
	case replyConfirmed:
		b.clearConfirmation(msg.From.ID)
		if op == nil {
			return nil
		}
		log.Printf("[info] stats reset user=%d", msg.From.ID)
		return b.apply(ctx, msg.Chat.ID, msg.From, 0, op)
	case replyCancelled:
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Statistics kept.")
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the statistics reset.", confirmKeyboard())
	}
}

func (b *Bot) handleSound(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
		if err != nil {
			return err
		}
		var text string
		err = b.hubs.View(ctx, user.TelegramID, func(h *hub.Hub) {
			text = formatAmbient(h.Ambient())
		})
		if err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID, text)
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		return h.ToggleSound(args)
	})
}

func (b *Bot) handleVolume(ctx context.Context, msg *tgbotapi.Message) error {
	percent, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(msg.CommandArguments()), "%"))
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use: /volume 0-100")
	}
	return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
		return h.SetVolume(percent)
	})
}

func (b *Bot) handleBreathe(msg *tgbotapi.Message) error {
	if b.breathing.Toggle(msg.Chat.ID) {
		return nil
	}
	return b.sendText(msg.Chat.ID, "🫁 Breathing exercise stopped.")
}

func (b *Bot) handleQuote(ctx context.Context, msg *tgbotapi.Message) error {
	quote, err := b.nextQuote(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, formatQuote(quote), quoteKeyboard())
}

// nextQuote draws a quote through the user's hub so the notice reaches the chat.
func (b *Bot) nextQuote(ctx context.Context, from *tgbotapi.User, chatID int64) (string, error) {
	user, err := b.ensureUser(ctx, from, chatID)
	if err != nil {
		return "", err
	}
	var quote string
	_, err = b.hubs.Do(ctx, user.TelegramID, func(h *hub.Hub) (hub.Result, error) {
		q, res := h.NextQuote()
		quote = q
		return res, nil
	})
	return quote, err
}

func formatAmbient(a *hub.Ambient) string {
	var builder strings.Builder
	builder.WriteString("🎧 <b>Ambient sound</b>\n")
	if sound, ok := a.Playing(); ok {
		builder.WriteString(fmt.Sprintf("Playing: <b>%s</b> at %d%%\n", sound, a.Volume()))
	} else {
		builder.WriteString(fmt.Sprintf("Nothing playing · volume %d%%\n", a.Volume()))
	}
	names := make([]string, 0, len(hub.Sounds))
	for _, s := range hub.Sounds {
		names = append(names, string(s))
	}
	builder.WriteString(fmt.Sprintf("Sounds: %s", strings.Join(names, ", ")))
	return builder.String()
}

func formatQuote(quote string) string {
	return fmt.Sprintf("💡 <i>%s</i>", escape(quote))
}
