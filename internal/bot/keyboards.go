package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"study-planner/internal/model"
)

const (
	menuTasks    = "📋 Tasks"
	menuTimer    = "⏱ Timer"
	menuCalendar = "📅 Calendar"
	menuProfile  = "👤 Profile"

	btnLogin        = "🔑 Log in"
	btnSignup       = "📝 Sign up"
	btnSkip         = "⏭️ Skip"
	btnYes          = "Yes"
	btnNo           = "No"
	btnDone         = "✅ Done"
	btnCancelDialog = "⏪ Cancel"
)

const (
	cbDay         = "day:"
	cbToggle      = "toggle:"
	cbEdit        = "edit:"
	cbDelete      = "delete:"
	cbConfirmDel  = "rm:"
	cbKeep        = "keep"
	cbNewTask     = "new"
	cbTimerToggle = "timer:toggle"
	cbTimerReset  = "timer:reset"
	cbTimerShow   = "timer:show"
	cbLogout      = "logout"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuTasks),
			tgbotapi.NewKeyboardButton(menuTimer),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuCalendar),
			tgbotapi.NewKeyboardButton(menuProfile),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func authKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogin),
			tgbotapi.NewKeyboardButton(btnSignup),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func yesNoKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnYes),
			tgbotapi.NewKeyboardButton(btnNo),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, c := range model.Categories() {
		row = append(row, tgbotapi.NewKeyboardButton(string(c)))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// weekdayKeyboard stays open so several days can be picked in a row.
func weekdayKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var first, second []tgbotapi.KeyboardButton
	for i, day := range model.Weekdays {
		btn := tgbotapi.NewKeyboardButton(day)
		if i < 4 {
			first = append(first, btn)
		} else {
			second = append(second, btn)
		}
	}
	kb := tgbotapi.NewReplyKeyboard(
		first,
		second,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDone),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func matches(text, label string) bool {
	return strings.EqualFold(strings.TrimSpace(text), label)
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == "skip" || value == strings.ToLower(btnSkip)
}

func isYes(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "yes" || value == "y"
}

func isNo(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "no" || value == "n"
}

func isDone(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "done" || value == strings.ToLower(btnDone)
}
