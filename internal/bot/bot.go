package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/config"
	"study-planner/internal/service"
)

// sender is the part of the Telegram API the bot writes through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Services bundles what the screens need.
type Services struct {
	Auth      *service.AuthService
	Tasks     *service.TaskService
	Profiles  *service.ProfileService
	Agenda    *service.AgendaService
	Scheduler *service.SchedulerService
}

// Bot serves the study planner over Telegram. Every private chat is one app
// instance with its own session and screen state. Updates are handled one at
// a time, so chat state is only touched from the update loop.
type Bot struct {
	api    *tgbotapi.BotAPI
	out    sender
	svc    Services
	config *config.Config
	now    func() time.Time
	ctx    context.Context

	mu   sync.Mutex
	apps map[int64]*app
}

func New(token string, svc Services, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, svc, cfg)
	b.api = api
	return b, nil
}

func newBot(out sender, svc Services, cfg *config.Config) *Bot {
	loc := time.Local
	if cfg != nil && cfg.Location != nil {
		loc = cfg.Location
	}
	return &Bot{
		out:    out,
		svc:    svc,
		config: cfg,
		now:    func() time.Time { return time.Now().In(loc) },
		ctx:    context.Background(),
		apps:   make(map[int64]*app),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	b.Close()
	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("handle callback: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}
}

// Close releases every live subscription, timer and session.
func (b *Bot) Close() {
	b.mu.Lock()
	apps := make([]*app, 0, len(b.apps))
	for _, a := range b.apps {
		apps = append(apps, a)
	}
	b.apps = make(map[int64]*app)
	b.mu.Unlock()

	for _, a := range apps {
		a.teardown()
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	a, created, err := b.app(ctx, msg.Chat.ID)
	if err != nil {
		return b.reportError(msg.Chat.ID, "Failed to load your session.", err)
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		if created && msg.Command() == "start" {
			return nil
		}
	}

	switch a.session.State() {
	case service.SessionAuthenticated:
		return b.handleMain(ctx, a, msg)
	case service.SessionUnauthenticated:
		return b.handleAuth(ctx, a, msg)
	default:
		return b.sendText(a.chatID, "⏳ Loading…")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	a, _, err := b.app(ctx, cb.Message.Chat.ID)
	if err != nil {
		b.answer(cb.ID, "")
		return b.reportError(cb.Message.Chat.ID, "Failed to load your session.", err)
	}

	if a.session.State() != service.SessionAuthenticated {
		b.alert(cb.ID, "Please log in first.")
		return nil
	}

	log.Printf("[info] callback user=%d data=%s", cb.From.ID, cb.Data)
	return b.handleMainCallback(ctx, a, cb)
}

// SendDailyAgendas sends today's plan to every signed-in chat.
func (b *Bot) SendDailyAgendas(ctx context.Context) error {
	logins, err := b.svc.Auth.SignedInDevices(ctx)
	if err != nil {
		return err
	}
	now := b.now()
	for _, login := range logins {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		chatID, err := strconv.ParseInt(login.DeviceID, 10, 64)
		if err != nil {
			continue
		}
		text, err := b.svc.Agenda.DailySummary(ctx, login.AccountID, now)
		if err != nil {
			log.Printf("build agenda for chat %d: %v", chatID, err)
			continue
		}
		if err := b.sendText(chatID, text); err != nil {
			log.Printf("send agenda to %d: %v", chatID, err)
		}
	}
	return nil
}

// reportError turns a service error into a user-facing message. Store
// failures are logged; validation and auth messages are shown as they are.
func (b *Bot) reportError(chatID int64, fallback string, err error) error {
	return b.sendText(chatID, b.errorText(fallback, err))
}

func (b *Bot) errorText(fallback string, err error) string {
	var verr *service.ValidationError
	var aerr *service.AuthError
	switch {
	case errors.As(err, &verr):
		return escape(verr.Message)
	case errors.As(err, &aerr):
		return escape(aerr.Error())
	default:
		log.Printf("%s %v", strings.TrimSuffix(fallback, "."), err)
		return escape(fallback)
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	sent, err := b.out.Send(msg)
	return sent.MessageID, err
}

func (b *Bot) editWithMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.out.Send(edit)
	return err
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.out.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("delete message: %v", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.out.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func (b *Bot) alert(callbackID, text string) {
	if _, err := b.out.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		log.Printf("callback alert: %v", err)
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}
