package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-hub/internal/config"
	"study-hub/internal/hub"
	"study-hub/internal/model"
	"study-hub/internal/repository"
	"study-hub/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTaskText
	stageTaskPriority
	stageTaskCategory
)

type conversationState struct {
	stage conversationStage
	input hub.TaskInput
}

type confirmationAction int

const (
	actionNone confirmationAction = iota
	actionResetStats
)

type confirmationRequest struct {
	action confirmationAction
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	hubs          *service.HubService
	reminderSvc   *service.ReminderService
	breathing     *service.BreathingService
	config        *config.Config
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

func New(api *tgbotapi.BotAPI, userRepo *repository.UserRepository, hubs *service.HubService, reminderSvc *service.ReminderService, breathing *service.BreathingService, cfg *config.Config) *Bot {
	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		hubs:          hubs,
		reminderSvc:   reminderSvc,
		breathing:     breathing,
		config:        cfg,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		b.clearConversation(msg.From.ID)
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(msg.From.ID).stage, msg.From.ID)
		return b.handleConversation(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Send /task to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "task":
		return b.handleAddTask(ctx, msg)
	case "tasks":
		return b.handleListTasks(ctx, msg)
	case "done":
		return b.handleToggleTask(ctx, msg)
	case "deltask":
		return b.handleDeleteTask(ctx, msg)
	case "sorttasks":
		return b.handleSortTasks(ctx, msg)
	case "clearcompleted":
		return b.handleClearCompleted(ctx, msg)
	case "assign":
		return b.handleAddAssignment(ctx, msg)
	case "assignments":
		return b.handleListAssignments(ctx, msg)
	case "doneassign":
		return b.handleToggleAssignment(ctx, msg)
	case "delassign":
		return b.handleDeleteAssignment(ctx, msg)
	case "sched":
		return b.handleAddSchedule(ctx, msg)
	case "schedule":
		return b.handleListSchedule(ctx, msg)
	case "donesched":
		return b.handleToggleSchedule(ctx, msg)
	case "delsched":
		return b.handleDeleteSchedule(ctx, msg)
	case "quick":
		return b.handleQuickAdd(ctx, msg)
	case "timer":
		return b.handleTimer(ctx, msg)
	case "start_timer":
		return b.apply(ctx, msg.Chat.ID, msg.From, hub.RenderTimer, func(h *hub.Hub) (hub.Result, error) {
			return h.StartTimer(), nil
		})
	case "pause":
		return b.apply(ctx, msg.Chat.ID, msg.From, hub.RenderTimer, func(h *hub.Hub) (hub.Result, error) {
			return h.PauseTimer(), nil
		})
	case "reset":
		return b.apply(ctx, msg.Chat.ID, msg.From, hub.RenderTimer, func(h *hub.Hub) (hub.Result, error) {
			return h.ResetTimer(), nil
		})
	case "mode":
		return b.handleMode(ctx, msg)
	case "goal":
		return b.handleGoal(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "resetstats":
		return b.askResetStatsConfirmation(ctx, msg)
	case "theme":
		return b.apply(ctx, msg.Chat.ID, msg.From, 0, func(h *hub.Hub) (hub.Result, error) {
			return h.ToggleTheme(), nil
		})
	case "sound":
		return b.handleSound(ctx, msg)
	case "volume":
		return b.handleVolume(ctx, msg)
	case "breathe":
		return b.handleBreathe(msg)
	case "quote":
		return b.handleQuote(ctx, msg)
	case "cancel":
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From, msg.Chat.ID); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I'm your study hub: tasks, assignments, schedule and a pomodoro timer in one chat.</b>\n\n"+
			"• /task — add a task\n"+
			"• /assign — add an assignment\n"+
			"• /sched — add a schedule item\n"+
			"• /timer — focus timer\n"+
			"• /stats — your progress\n"+
			"• /help — all commands\n\n"+
			"📋 I'll send you a digest %s.",
		escape(name),
		b.digestSchedule(),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n\n" +
		"<b>Tasks</b>\n" +
		"• /task &lt;text&gt; [!high|!medium|!low] [#category]\n" +
		"• /tasks [all|pending|completed|high|medium|low]\n" +
		"• /done &lt;id&gt; · /deltask &lt;id&gt;\n" +
		"• /sorttasks · /clearcompleted\n\n" +
		"<b>Assignments</b>\n" +
		"• /assign name | subject | YYYY-MM-DD [| notes]\n" +
		"• /assignments · /doneassign &lt;id&gt; · /delassign &lt;id&gt;\n\n" +
		"<b>Schedule</b>\n" +
		"• /sched HH:MM event\n" +
		"• /schedule · /donesched &lt;id&gt; · /delsched &lt;id&gt;\n\n" +
		"<b>Quick add</b>\n" +
		"• /quick task|assignment|schedule &lt;text&gt;\n\n" +
		"<b>Focus</b>\n" +
		"• /timer · /start_timer · /pause · /reset\n" +
		"• /mode work|break · /goal &lt;text&gt;\n" +
		"• /sound rain|forest|ocean|cafe · /volume 0-100\n" +
		"• /breathe · /quote · /theme\n\n" +
		"<b>Progress</b>\n" +
		"• /stats · /resetstats · /report"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From, msg.Chat.ID)
	if err != nil {
		return err
	}
	text, err := b.reminderSvc.DailySummary(ctx, *user, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the digest: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) digestSchedule() string {
	if b.config == nil {
		return "from time to time"
	}
	if b.config.ReportAt != "" {
		return "every day at " + b.config.ReportAt
	}
	return fmt.Sprintf("every %d hours", int(b.config.ReportInterval.Hours()))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelTasks):
		return true, b.handleListTasks(ctx, msg)
	case strings.ToLower(menuLabelAssign):
		return true, b.handleListAssignments(ctx, msg)
	case strings.ToLower(menuLabelSched):
		return true, b.handleListSchedule(ctx, msg)
	case strings.ToLower(menuLabelTimer):
		return true, b.handleTimer(ctx, msg)
	case strings.ToLower(menuLabelStats):
		return true, b.handleStats(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

// SendDailyReports sends a digest to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reminderSvc.DailySummary(ctx, user, now)
		if err != nil {
			log.Printf("build summary for user %d: %v", user.TelegramID, err)
			continue
		}
		chatID := user.ChatID
		if chatID == 0 {
			chatID = user.TelegramID
		}
		if err := b.sendText(chatID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User, chatID int64) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, chatID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
