package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/agenda"
	"study-planner/internal/model"
	"study-planner/internal/service"
)

// daysAround is how many days the Tasks screen offers on each side of today.
const daysAround = 10

// maxTaskRows caps the task buttons so the keyboard stays under Telegram's
// 100 button limit: 3 per task plus the day strip and "New task".
const maxTaskRows = 20

// openTasks shows the Tasks screen for day and takes the live subscription
// it renders from. The subscription is held until the chat leaves the screen.
func (b *Bot) openTasks(ctx context.Context, a *app, day time.Time) error {
	if a.screen == screenTasks && a.unsubscribe != nil {
		a.selectedDay = agenda.StartOfDay(day)
		a.listMessageID = 0
		return b.renderTaskList(a)
	}

	a.leaveScreen()
	a.screen = screenTasks
	a.selectedDay = agenda.StartOfDay(day)

	unsubscribe, err := b.svc.Tasks.Subscribe(ctx, a.owner, func(tasks []model.Task) {
		a.snapshot = tasks
		if err := b.renderTaskList(a); err != nil {
			log.Printf("render tasks chat=%d: %v", a.chatID, err)
		}
	})
	if err != nil {
		return b.reportError(a.chatID, "Failed to load tasks.", err)
	}
	a.unsubscribe = unsubscribe
	log.Printf("[info] chat=%d subscribed to tasks", a.chatID)
	return nil
}

func (b *Bot) selectDay(ctx context.Context, a *app, day time.Time) error {
	if a.screen != screenTasks || a.unsubscribe == nil {
		return b.openTasks(ctx, a, day)
	}
	a.selectedDay = agenda.StartOfDay(day)
	return b.renderTaskList(a)
}

// renderTaskList edits the chat's task message in place, or sends a new one
// when there is none yet.
func (b *Bot) renderTaskList(a *app) error {
	now := b.now()
	text, markup := taskListView(a.snapshot, a.selectedDay, now)
	if a.listMessageID != 0 {
		err := b.editWithMarkup(a.chatID, a.listMessageID, text, markup)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		log.Printf("edit task list: %v", err)
	}
	id, err := b.sendWithReplyMarkup(a.chatID, text, markup)
	if err != nil {
		return err
	}
	a.listMessageID = id
	return nil
}

func taskListView(tasks []model.Task, day, now time.Time) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	if agenda.SameDay(day, now) {
		sb.WriteString("📋 <b>Today</b>\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("📋 <b>%s</b>\n\n", day.Format("January 02, 2006")))
	}

	visible := agenda.ForDay(tasks, day)
	if len(visible) == 0 {
		sb.WriteString("Nothing planned. Tap ➕ to add a task.")
	}
	hidden := 0
	if len(visible) > maxTaskRows {
		hidden = len(visible) - maxTaskRows
		visible = visible[:maxTaskRows]
	}
	for _, task := range visible {
		sb.WriteString(service.SummaryLine(task, now))
	}
	if hidden > 0 {
		sb.WriteString(fmt.Sprintf("\n+%d more tasks not shown.", hidden))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, task := range visible {
		mark := "⬜️"
		if task.Completed {
			mark = "✅"
		} else if task.Expired(now) {
			mark = "⏰"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+shortTitle(task.Title, 24), cbToggle+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("✏️", cbEdit+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDelete+task.ID),
		))
	}
	rows = append(rows, dayStrip(day, now)...)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ New task", cbNewTask),
	))
	return strings.TrimSpace(sb.String()), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// dayStrip lays out today ±daysAround, seven buttons per row.
func dayStrip(selected, now time.Time) [][]tgbotapi.InlineKeyboardButton {
	days := agenda.DateRange(now, daysAround, daysAround)
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, day := range days {
		label := day.Format("Jan 02")
		if agenda.SameDay(day, selected) {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbDay+day.Format("2006-01-02")))
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (b *Bot) toggleTask(ctx context.Context, a *app, cb *tgbotapi.CallbackQuery, taskID string) error {
	task, err := b.svc.Tasks.ToggleCompletion(ctx, a.owner, taskID)
	if err != nil {
		if service.IsNotFound(err) {
			b.alert(cb.ID, "Task not found.")
			return nil
		}
		b.alert(cb.ID, b.errorText("Failed to update task.", err))
		return nil
	}
	log.Printf("[info] task toggled id=%s owner=%s completed=%t", task.ID, a.owner, task.Completed)
	if task.Completed {
		b.answer(cb.ID, "Done!")
	} else {
		b.answer(cb.ID, "Marked as open")
	}
	return nil
}

func (b *Bot) startNewTask(a *app) error {
	a.conv = &conversation{stage: stageTitle}
	_, err := b.sendWithReplyMarkup(a.chatID, "🆕 <b>New task</b>\nWhat should it be called?", cancelKeyboard())
	return err
}

func (b *Bot) handleTaskConversation(ctx context.Context, a *app, text string) error {
	conv := a.conv
	switch conv.stage {
	case stageTitle:
		if text == "" {
			return b.sendText(a.chatID, "Please enter a task title.")
		}
		conv.input.Title = text
		conv.stage = stageCategory
		_, err := b.sendWithReplyMarkup(a.chatID, "🏷 Pick a category (or skip).", categoryKeyboard())
		return err
	case stageCategory:
		if !isSkipInput(text) {
			category, ok := model.ParseCategory(text)
			if !ok {
				_, err := b.sendWithReplyMarkup(a.chatID, "Pick one of the categories below.", categoryKeyboard())
				return err
			}
			conv.input.Category = string(category)
		}
		conv.stage = stageRecurring
		_, err := b.sendWithReplyMarkup(a.chatID, "🔁 Is this a recurring task?", yesNoKeyboard())
		return err
	case stageRecurring:
		switch {
		case isYes(text):
			conv.stage = stageWeekdays
			_, err := b.sendWithReplyMarkup(a.chatID, "📆 Which weekdays? Tap them one by one or type <code>Mon, Wed</code>, then «Done».", weekdayKeyboard())
			return err
		case isNo(text):
			conv.stage = stageDueDate
			_, err := b.sendWithReplyMarkup(a.chatID, "⏰ Due date? Use <code>2025-03-10</code>, <code>today</code> or <code>tomorrow</code>.", cancelKeyboard())
			return err
		}
		_, err := b.sendWithReplyMarkup(a.chatID, "Tap «Yes» or «No».", yesNoKeyboard())
		return err
	case stageDueDate:
		day, err := parseDay(text, b.now())
		if err != nil {
			return b.sendText(a.chatID, "I can't read that date. Use <code>2025-03-10</code>.")
		}
		due := agenda.EndOfDay(day)
		conv.input.DueAt = &due
		return b.finishNewTask(ctx, a)
	case stageWeekdays:
		if isDone(text) {
			if len(conv.input.RecurringDays) == 0 {
				return b.sendText(a.chatID, "Pick at least one weekday.")
			}
			conv.stage = stageStartDate
			_, err := b.sendWithReplyMarkup(a.chatID, "🚩 Starting from which date? (or skip to start right away)", skipKeyboard())
			return err
		}
		days, ok := parseWeekdays(text)
		if !ok {
			return b.sendText(a.chatID, "I don't know that weekday. Try <code>Monday</code> or <code>Mon, Thu</code>.")
		}
		conv.input.RecurringDays = mergeDays(conv.input.RecurringDays, days)
		return b.sendText(a.chatID, "Selected: "+strings.Join(conv.input.RecurringDays, ", ")+". Add more or tap «Done».")
	case stageStartDate:
		if !isSkipInput(text) {
			day, err := parseDay(text, b.now())
			if err != nil {
				return b.sendText(a.chatID, "I can't read that date. Use <code>2025-03-10</code> or skip.")
			}
			conv.input.StartAt = &day
		}
		return b.finishNewTask(ctx, a)
	case stageEditTitle:
		if !isSkipInput(text) {
			if text == "" {
				return b.sendText(a.chatID, "Please enter a task title.")
			}
			conv.title = text
		}
		conv.stage = stageEditCategory
		_, err := b.sendWithReplyMarkup(a.chatID, "🏷 New category (or skip to keep it).", categoryKeyboard())
		return err
	case stageEditCategory:
		category := conv.input.Category
		if !isSkipInput(text) {
			category = text
		}
		return b.finishEditTask(ctx, a, category)
	default:
		a.conv = nil
		return b.sendText(a.chatID, "Input was reset. Start again with /newtask.")
	}
}

func (b *Bot) finishNewTask(ctx context.Context, a *app) error {
	input := a.conv.input
	a.conv = nil

	task, err := b.svc.Tasks.Create(ctx, a.owner, input)
	if err != nil {
		_, sendErr := b.sendWithReplyMarkup(a.chatID, "❌ "+b.errorText("Failed to add task.", err), mainMenuKeyboard())
		return sendErr
	}
	log.Printf("[info] task created id=%s owner=%s recurring=%t", task.ID, a.owner, task.IsRecurring())

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• %s\n", escape(task.Title)))
	if task.Category != model.CategoryNone {
		summary.WriteString(fmt.Sprintf("• Category: %s\n", task.Category))
	}
	if task.DueAt != nil {
		summary.WriteString(fmt.Sprintf("• Due: %s\n", task.DueAt.Format("2006-01-02")))
	} else {
		summary.WriteString(fmt.Sprintf("• Every %s\n", strings.Join(task.RecurringDays, ", ")))
		if task.StartAt != nil {
			summary.WriteString(fmt.Sprintf("• From: %s\n", task.StartAt.Format("2006-01-02")))
		}
	}
	if _, err := b.sendWithReplyMarkup(a.chatID, strings.TrimSpace(summary.String()), mainMenuKeyboard()); err != nil {
		return err
	}

	// Jump to a day that shows the new task; the live feed already has it.
	day := b.now()
	if task.DueAt != nil {
		day = *task.DueAt
	}
	return b.openTasks(ctx, a, day)
}

func (b *Bot) startEditTask(ctx context.Context, a *app, taskID string) error {
	task, err := b.svc.Tasks.Get(ctx, a.owner, taskID)
	if err != nil {
		if service.IsNotFound(err) {
			return b.sendText(a.chatID, "Task not found.")
		}
		return b.reportError(a.chatID, "Failed to load task.", err)
	}
	a.conv = &conversation{
		stage:  stageEditTitle,
		taskID: task.ID,
		title:  task.Title,
		input:  service.TaskInput{Category: string(task.Category)},
	}
	_, err = b.sendWithReplyMarkup(a.chatID,
		fmt.Sprintf("✏️ Editing «%s».\nSend a new title (or skip to keep it).", escape(task.Title)),
		skipKeyboard())
	return err
}

func (b *Bot) finishEditTask(ctx context.Context, a *app, category string) error {
	conv := a.conv
	a.conv = nil

	task, err := b.svc.Tasks.Update(ctx, a.owner, conv.taskID, conv.title, category)
	if err != nil {
		if service.IsNotFound(err) {
			_, sendErr := b.sendWithReplyMarkup(a.chatID, "Task not found or already deleted.", mainMenuKeyboard())
			return sendErr
		}
		_, sendErr := b.sendWithReplyMarkup(a.chatID, "❌ "+b.errorText("Failed to update task.", err), mainMenuKeyboard())
		return sendErr
	}
	log.Printf("[info] task updated id=%s owner=%s", task.ID, a.owner)
	_, err = b.sendWithReplyMarkup(a.chatID, fmt.Sprintf("✏️ Saved «%s».", escape(task.Title)), mainMenuKeyboard())
	return err
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, a *app, taskID string) error {
	task, err := b.svc.Tasks.Get(ctx, a.owner, taskID)
	if err != nil {
		if service.IsNotFound(err) {
			return b.sendText(a.chatID, "Task not found.")
		}
		return b.reportError(a.chatID, "Failed to load task.", err)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbConfirmDel+task.ID),
		tgbotapi.NewInlineKeyboardButtonData("↩️ Keep", cbKeep),
	))
	_, err = b.sendWithReplyMarkup(a.chatID, fmt.Sprintf("Delete «%s»?", escape(task.Title)), markup)
	return err
}

func (b *Bot) deleteTask(ctx context.Context, a *app, promptID int, taskID string) error {
	b.deleteMessage(a.chatID, promptID)
	if err := b.svc.Tasks.Delete(ctx, a.owner, taskID); err != nil {
		return b.reportError(a.chatID, "Failed to delete task.", err)
	}
	log.Printf("[info] task deleted id=%s owner=%s", taskID, a.owner)
	return nil
}

// parseDay reads today, tomorrow or an ISO date in now's location.
func parseDay(text string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "today":
		return agenda.StartOfDay(now), nil
	case "tomorrow":
		return agenda.StartOfDay(now).AddDate(0, 0, 1), nil
	}
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(text), now.Location())
}

func parseWeekdays(text string) ([]string, bool) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, false
	}
	days := make([]string, 0, len(fields))
	for _, f := range fields {
		day, ok := model.ParseWeekday(f)
		if !ok {
			return nil, false
		}
		days = append(days, day)
	}
	return days, true
}

// mergeDays adds picked days to the selection, keeping weekday order.
func mergeDays(selected, picked []string) []string {
	set := make(map[string]bool, len(selected)+len(picked))
	for _, d := range selected {
		set[d] = true
	}
	for _, d := range picked {
		set[d] = true
	}
	out := make([]string, 0, len(set))
	for _, d := range model.Weekdays {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
