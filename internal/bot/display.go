package bot

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/hub"
)

// NewAPI authorizes the bot token.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return api, nil
}

// Display shows transient notifications as chat messages.
type Display struct {
	api *tgbotapi.BotAPI
}

func NewDisplay(api *tgbotapi.BotAPI) *Display {
	return &Display{api: api}
}

func (d *Display) Show(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, "🔔 "+escape(text))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = true
	sent, err := d.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (d *Display) Update(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, "🔔 "+escape(text))
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := d.api.Request(edit)
	return err
}

func (d *Display) Hide(chatID int64, messageID int) error {
	_, err := d.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// BreathingView renders the breathing exercise as one message per chat that is edited on
// every phase.
type BreathingView struct {
	api *tgbotapi.BotAPI

	mu       sync.Mutex
	messages map[int64]int
}

func NewBreathingView(api *tgbotapi.BotAPI) *BreathingView {
	return &BreathingView{api: api, messages: make(map[int64]int)}
}

func (v *BreathingView) ShowPhase(chatID int64, phase hub.BreathingPhase) error {
	text := formatBreathingPhase(phase)

	v.mu.Lock()
	messageID, ok := v.messages[chatID]
	v.mu.Unlock()

	if ok {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.ReplyMarkup = breathingKeyboard()
		if _, err := v.api.Request(edit); err == nil {
			return nil
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = breathingKeyboard()
	sent, err := v.api.Send(msg)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.messages[chatID] = sent.MessageID
	v.mu.Unlock()
	return nil
}

func (v *BreathingView) Clear(chatID int64) error {
	v.mu.Lock()
	messageID, ok := v.messages[chatID]
	delete(v.messages, chatID)
	v.mu.Unlock()

	if !ok {
		return nil
	}
	_, err := v.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func formatBreathingPhase(phase hub.BreathingPhase) string {
	size := int(phase.Scale*4 + 0.5)
	circle := strings.Repeat("🔵", size)
	return fmt.Sprintf("🫁 <b>%s</b>\n%s\n<i>%d s</i>", escape(phase.Instruction), circle, int(phase.Duration.Seconds()))
}
