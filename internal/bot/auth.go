package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showLogin(a *app) error {
	a.screen = screenLogin
	_, err := b.sendWithReplyMarkup(a.chatID,
		"📚 <b>Study Planner</b>\nLog in to see your tasks, or sign up if you are new here.",
		authKeyboard())
	return err
}

// handleAuth serves the Login and Signup screens.
func (b *Bot) handleAuth(ctx context.Context, a *app, msg *tgbotapi.Message) error {
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		switch msg.Command() {
		case "login":
			if email, password, ok := credentials(msg.CommandArguments()); ok {
				b.deleteMessage(a.chatID, msg.MessageID)
				return b.login(ctx, a, email, password)
			}
			return b.askEmail(a, screenLogin)
		case "signup":
			if email, password, ok := credentials(msg.CommandArguments()); ok {
				b.deleteMessage(a.chatID, msg.MessageID)
				return b.register(ctx, a, email, password)
			}
			return b.askEmail(a, screenSignup)
		case "cancel":
			a.conv = nil
			return b.showLogin(a)
		default:
			return b.showLogin(a)
		}
	}

	switch {
	case matches(text, btnLogin):
		return b.askEmail(a, screenLogin)
	case matches(text, btnSignup):
		return b.askEmail(a, screenSignup)
	case matches(text, btnCancelDialog):
		a.conv = nil
		return b.showLogin(a)
	}

	if a.conv == nil {
		return b.showLogin(a)
	}

	switch a.conv.stage {
	case stageLoginEmail, stageSignupEmail:
		if text == "" {
			return b.sendText(a.chatID, "Please enter your email.")
		}
		a.conv.email = text
		if a.conv.stage == stageLoginEmail {
			a.conv.stage = stageLoginPassword
		} else {
			a.conv.stage = stageSignupPassword
		}
		_, err := b.sendWithReplyMarkup(a.chatID, "🔒 Now your password. I will delete the message right away.", cancelKeyboard())
		return err
	case stageLoginPassword:
		b.deleteMessage(a.chatID, msg.MessageID)
		email := a.conv.email
		return b.login(ctx, a, email, msg.Text)
	case stageSignupPassword:
		b.deleteMessage(a.chatID, msg.MessageID)
		email := a.conv.email
		return b.register(ctx, a, email, msg.Text)
	default:
		a.conv = nil
		return b.showLogin(a)
	}
}

func (b *Bot) askEmail(a *app, target screen) error {
	a.screen = target
	stage, title := stageLoginEmail, "🔑 <b>Login</b>"
	if target == screenSignup {
		stage, title = stageSignupEmail, "📝 <b>Sign up</b>"
	}
	a.conv = &conversation{stage: stage}
	_, err := b.sendWithReplyMarkup(a.chatID, title+"\nWhat is your email?", cancelKeyboard())
	return err
}

// login and register leave navigation to the session listener; on failure
// the provider's message is shown and the session stays as it was.
func (b *Bot) login(ctx context.Context, a *app, email, password string) error {
	if err := a.session.Login(ctx, email, password); err != nil {
		log.Printf("[info] chat=%d login failed: %v", a.chatID, err)
		return b.retryAuth(a, stageLoginEmail, err)
	}
	return nil
}

func (b *Bot) register(ctx context.Context, a *app, email, password string) error {
	if err := a.session.Register(ctx, email, password); err != nil {
		log.Printf("[info] chat=%d signup failed: %v", a.chatID, err)
		return b.retryAuth(a, stageSignupEmail, err)
	}
	return nil
}

func (b *Bot) retryAuth(a *app, stage conversationStage, err error) error {
	a.conv = &conversation{stage: stage}
	text := b.errorText("Something went wrong, please try again.", err)
	_, sendErr := b.sendWithReplyMarkup(a.chatID, "❌ "+text+"\nEnter your email to try again.", cancelKeyboard())
	return sendErr
}

// credentials splits "/login email password" arguments.
func credentials(args string) (string, string, bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}
