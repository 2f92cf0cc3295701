package bot

import (
	"context"
	"log"
	"strconv"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/service"
)

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenSignup
	screenTasks
	screenTimer
	screenCalendar
	screenProfile
)

func (s screen) String() string {
	switch s {
	case screenLogin:
		return "Login"
	case screenSignup:
		return "Signup"
	case screenTasks:
		return "Tasks"
	case screenTimer:
		return "Timer"
	case screenCalendar:
		return "Calendar"
	case screenProfile:
		return "Profile"
	default:
		return "Loading"
	}
}

// app is the state of one chat.
type app struct {
	chatID  int64
	client  *service.AuthClient
	session *service.Session
	detach  func()

	screen screen
	conv   *conversation
	owner  string

	// Tasks screen; unsubscribe is non-nil while the live feed is held.
	selectedDay   time.Time
	listMessageID int
	snapshot      []model.Task
	unsubscribe   func()

	timer          *service.Timer
	timerMessageID int
}

// app returns the chat's app instance, creating and restoring it on first
// use. created reports whether the first screen has just been shown.
func (b *Bot) app(ctx context.Context, chatID int64) (a *app, created bool, err error) {
	b.mu.Lock()
	a, ok := b.apps[chatID]
	if ok {
		b.mu.Unlock()
		return a, false, nil
	}
	client := b.svc.Auth.Client(strconv.FormatInt(chatID, 10))
	a = &app{
		chatID:  chatID,
		client:  client,
		session: service.NewSession(client),
	}
	b.apps[chatID] = a
	b.mu.Unlock()

	a.detach = a.session.OnChange(func(state service.SessionState, identity *service.Identity) {
		b.onSessionChange(a, state, identity)
	})
	if err := client.Restore(ctx); err != nil {
		return a, true, err
	}
	return a, true, nil
}

// onSessionChange is the navigation shell: a signed-in chat sees the main
// tabs, any other chat the login screen.
func (b *Bot) onSessionChange(a *app, state service.SessionState, identity *service.Identity) {
	a.conv = nil
	switch state {
	case service.SessionAuthenticated:
		if a.owner == identity.ID && a.screen >= screenTasks {
			return
		}
		a.owner = identity.ID
		log.Printf("[info] chat=%d session authenticated account=%s", a.chatID, identity.ID)
		if _, err := b.sendWithReplyMarkup(a.chatID, "👋 Signed in as <b>"+escape(identity.Email)+"</b>", mainMenuKeyboard()); err != nil {
			log.Printf("send welcome: %v", err)
		}
		if err := b.openTasks(b.ctx, a, b.now()); err != nil {
			log.Printf("open tasks: %v", err)
		}
	default:
		wasSignedIn := a.owner != ""
		a.leaveScreen()
		a.resetTimer()
		a.owner = ""
		a.screen = screenLogin
		if wasSignedIn {
			log.Printf("[info] chat=%d session ended", a.chatID)
		}
		if err := b.showLogin(a); err != nil {
			log.Printf("show login: %v", err)
		}
	}
}

// leaveScreen releases whatever the current screen holds.
func (a *app) leaveScreen() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.listMessageID = 0
	a.snapshot = nil
}

func (a *app) resetTimer() {
	if a.timer != nil {
		a.timer.Reset()
	}
	a.timerMessageID = 0
}

func (a *app) teardown() {
	a.leaveScreen()
	a.resetTimer()
	if a.detach != nil {
		a.detach()
	}
	a.session.Close()
}
