package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/agenda"
)

// calendarDays is how far ahead the Calendar screen looks.
const calendarDays = 14

func (b *Bot) openCalendar(ctx context.Context, a *app) error {
	a.leaveScreen()
	a.screen = screenCalendar

	tasks, err := b.svc.Tasks.List(ctx, a.owner)
	if err != nil {
		return b.reportError(a.chatID, "Failed to load tasks.", err)
	}

	days := agenda.DateRange(b.now(), 0, calendarDays-1)
	counts := agenda.CountByDay(tasks, days)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, day := range days {
		label := day.Format("Mon 02")
		if counts[i] > 0 {
			label = fmt.Sprintf("%s · %d", label, counts[i])
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbDay+day.Format("2006-01-02")))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	text := fmt.Sprintf("📅 <b>Calendar</b>\n%s – %s\nPick a day to open its tasks.",
		days[0].Format("Jan 02"), days[len(days)-1].Format("Jan 02"))
	_, err = b.sendWithReplyMarkup(a.chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
	return err
}

func (b *Bot) openProfile(ctx context.Context, a *app) error {
	a.leaveScreen()
	a.screen = screenProfile

	identity, ok := a.session.Current()
	if !ok {
		return b.showLogin(a)
	}
	stats, err := b.svc.Profiles.Stats(ctx, identity, b.now())
	if err != nil {
		return b.reportError(a.chatID, "Failed to load your profile.", err)
	}

	var sb strings.Builder
	sb.WriteString("👤 <b>Profile</b>\n")
	sb.WriteString(fmt.Sprintf("Email: %s\n", escape(stats.Email)))
	if !stats.MemberSince.IsZero() {
		sb.WriteString(fmt.Sprintf("Member since: %s\n", stats.MemberSince.In(b.now().Location()).Format("January 2, 2006")))
	}
	sb.WriteString(fmt.Sprintf("Completed tasks: %d\n", stats.TasksCompleted))
	sb.WriteString(fmt.Sprintf("Current streak: %d days", stats.StreakDays))

	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Log out", cbLogout),
	))
	_, err = b.sendWithReplyMarkup(a.chatID, sb.String(), markup)
	return err
}
