package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultStudyDuration is the length of one study block.
const DefaultStudyDuration = 25 * time.Minute

// TimerState is the state of a study countdown.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerExpired
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerExpired:
		return "expired"
	default:
		return "idle"
	}
}

// ticker schedules a repeating job; SchedulerService satisfies it.
type ticker interface {
	ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error)
	Remove(id cron.EntryID)
}

// Timer counts down from a fixed duration, one step per tick.
type Timer struct {
	duration time.Duration
	step     time.Duration
	ticker   ticker
	onExpire func()

	mu        sync.Mutex
	state     TimerState
	remaining time.Duration
	entry     cron.EntryID
	scheduled bool
}

// NewTimer returns an idle timer. onExpire runs once each time the countdown
// reaches zero.
func NewTimer(duration, step time.Duration, t ticker, onExpire func()) *Timer {
	if step <= 0 {
		step = time.Second
	}
	return &Timer{
		duration:  duration,
		step:      step,
		ticker:    t,
		onExpire:  onExpire,
		remaining: duration,
	}
}

// Start resumes counting from the remaining time.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerIdle {
		return fmt.Errorf("timer is %s", t.state)
	}
	if t.remaining <= 0 {
		return fmt.Errorf("timer has no time left")
	}
	id, err := t.ticker.ScheduleInterval(t.step, t.Tick)
	if err != nil {
		return fmt.Errorf("schedule timer: %w", err)
	}
	t.entry, t.scheduled = id, true
	t.state = TimerRunning
	return nil
}

// Pause stops counting and keeps the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.unschedule()
	t.state = TimerIdle
}

// Reset returns to idle at the original duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unschedule()
	t.state = TimerIdle
	t.remaining = t.duration
}

// Tick advances a running countdown by one step.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.state != TimerRunning {
		t.mu.Unlock()
		return
	}
	t.remaining -= t.step
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}
	t.remaining = 0
	t.state = TimerExpired
	t.unschedule()
	onExpire := t.onExpire
	t.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) unschedule() {
	if t.scheduled {
		t.ticker.Remove(t.entry)
		t.scheduled = false
	}
}

// FormatClock renders a duration as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
