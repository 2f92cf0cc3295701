package bot

import (
	"context"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "ℹ️ <b>Help</b>\n" +
	"• /tasks — today's tasks, tap one to mark it done\n" +
	"• /newtask — add a task step by step\n" +
	"• /timer — study timer\n" +
	"• /calendar — the next two weeks\n" +
	"• /profile — your progress\n" +
	"• /logout — sign out\n" +
	"• /cancel — abort the current input"

// handleMain serves the main tab set of a signed-in chat.
func (b *Bot) handleMain(ctx context.Context, a *app, msg *tgbotapi.Message) error {
	text := strings.TrimSpace(msg.Text)

	if !msg.IsCommand() && matches(text, btnCancelDialog) {
		a.conv = nil
		_, err := b.sendWithReplyMarkup(a.chatID, "⏪ Cancelled.", mainMenuKeyboard())
		return err
	}

	if msg.IsCommand() {
		a.conv = nil
		switch msg.Command() {
		case "start", "tasks", "today":
			return b.openTasks(ctx, a, b.now())
		case "newtask":
			return b.startNewTask(a)
		case "timer":
			return b.openTimer(a)
		case "calendar":
			return b.openCalendar(ctx, a)
		case "profile":
			return b.openProfile(ctx, a)
		case "logout":
			return b.logout(ctx, a)
		case "help":
			_, err := b.sendWithReplyMarkup(a.chatID, helpText, mainMenuKeyboard())
			return err
		case "cancel":
			_, err := b.sendWithReplyMarkup(a.chatID, "⏪ Cancelled.", mainMenuKeyboard())
			return err
		default:
			return b.sendText(a.chatID, "Unknown command. See /help.")
		}
	}

	switch {
	case matches(text, menuTasks):
		a.conv = nil
		return b.openTasks(ctx, a, b.now())
	case matches(text, menuTimer):
		a.conv = nil
		return b.openTimer(a)
	case matches(text, menuCalendar):
		a.conv = nil
		return b.openCalendar(ctx, a)
	case matches(text, menuProfile):
		a.conv = nil
		return b.openProfile(ctx, a)
	}

	if a.conv == nil {
		_, err := b.sendWithReplyMarkup(a.chatID, "Use the menu below, or /newtask to add a task.", mainMenuKeyboard())
		return err
	}

	log.Printf("[info] conversation step %d in chat %d", a.conv.stage, a.chatID)
	return b.handleTaskConversation(ctx, a, text)
}

func (b *Bot) handleMainCallback(ctx context.Context, a *app, cb *tgbotapi.CallbackQuery) error {
	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbDay):
		b.answer(cb.ID, "")
		day, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(data, cbDay), b.now().Location())
		if err != nil {
			return nil
		}
		return b.selectDay(ctx, a, day)
	case strings.HasPrefix(data, cbToggle):
		return b.toggleTask(ctx, a, cb, strings.TrimPrefix(data, cbToggle))
	case strings.HasPrefix(data, cbEdit):
		b.answer(cb.ID, "")
		return b.startEditTask(ctx, a, strings.TrimPrefix(data, cbEdit))
	case strings.HasPrefix(data, cbDelete):
		b.answer(cb.ID, "")
		return b.askDeleteConfirmation(ctx, a, strings.TrimPrefix(data, cbDelete))
	case strings.HasPrefix(data, cbConfirmDel):
		b.answer(cb.ID, "")
		return b.deleteTask(ctx, a, cb.Message.MessageID, strings.TrimPrefix(data, cbConfirmDel))
	case data == cbKeep:
		b.answer(cb.ID, "")
		b.deleteMessage(a.chatID, cb.Message.MessageID)
		return nil
	case data == cbNewTask:
		b.answer(cb.ID, "")
		return b.startNewTask(a)
	case data == cbTimerToggle, data == cbTimerReset, data == cbTimerShow:
		return b.handleTimerCallback(a, cb)
	case data == cbLogout:
		b.answer(cb.ID, "")
		return b.logout(ctx, a)
	default:
		b.answer(cb.ID, "")
		return nil
	}
}

func (b *Bot) logout(ctx context.Context, a *app) error {
	if err := a.session.Logout(ctx); err != nil {
		return b.reportError(a.chatID, "Failed to log out.", err)
	}
	return nil
}
