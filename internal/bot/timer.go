package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/service"
)

// openTimer shows the Timer screen. The countdown keeps running while other
// tabs are open and stops on logout.
func (b *Bot) openTimer(a *app) error {
	a.leaveScreen()
	a.screen = screenTimer
	b.ensureTimer(a)
	// One timer panel per chat; the old one would show a stale clock.
	if a.timerMessageID != 0 {
		b.deleteMessage(a.chatID, a.timerMessageID)
		a.timerMessageID = 0
	}

	text, markup := timerView(a.timer)
	id, err := b.sendWithReplyMarkup(a.chatID, text, markup)
	if err != nil {
		return err
	}
	a.timerMessageID = id
	return nil
}

func (b *Bot) ensureTimer(a *app) {
	if a.timer != nil {
		return
	}
	duration := service.DefaultStudyDuration
	if b.config != nil && b.config.TimerDuration > 0 {
		duration = b.config.TimerDuration
	}
	chatID := a.chatID
	// onExpire runs on the scheduler goroutine, so it only uses chatID.
	a.timer = service.NewTimer(duration, 0, b.svc.Scheduler, func() {
		log.Printf("[info] chat=%d timer finished", chatID)
		if err := b.sendText(chatID, "⏰ <b>Time's up!</b> Take a short break."); err != nil {
			log.Printf("send timer alert: %v", err)
		}
	})
}

func (b *Bot) handleTimerCallback(a *app, cb *tgbotapi.CallbackQuery) error {
	b.ensureTimer(a)
	switch cb.Data {
	case cbTimerToggle:
		if a.timer.State() == service.TimerRunning {
			a.timer.Pause()
			b.answer(cb.ID, "Paused")
		} else {
			if a.timer.State() == service.TimerExpired {
				a.timer.Reset()
			}
			if err := a.timer.Start(); err != nil {
				b.alert(cb.ID, b.errorText("Failed to start the timer.", err))
				return nil
			}
			b.answer(cb.ID, "Started")
		}
	case cbTimerReset:
		a.timer.Reset()
		b.answer(cb.ID, "Reset")
	default:
		b.answer(cb.ID, "")
	}

	text, markup := timerView(a.timer)
	err := b.editWithMarkup(a.chatID, cb.Message.MessageID, text, markup)
	if err != nil && !strings.Contains(err.Error(), "message is not modified") {
		return err
	}
	return nil
}

func timerView(t *service.Timer) (string, tgbotapi.InlineKeyboardMarkup) {
	state := t.State()
	label := "▶️ Start"
	switch state {
	case service.TimerRunning:
		label = "⏸ Pause"
	case service.TimerExpired:
		label = "▶️ Again"
	}
	text := fmt.Sprintf("⏱ <b>Study timer</b>\n\n<code>%s</code> · %s", service.FormatClock(t.Remaining()), state)
	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(label, cbTimerToggle),
		tgbotapi.NewInlineKeyboardButtonData("🔄 Reset", cbTimerReset),
		tgbotapi.NewInlineKeyboardButtonData("🔃", cbTimerShow),
	))
	return text, markup
}
