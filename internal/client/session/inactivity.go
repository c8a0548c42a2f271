package session

import (
	"context"
	"sync"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// InactivityWatchdog signs the user out after a period without activity.
// The timer only runs while the app is active; going to the background
// pauses it, and returning compares against the wall clock so background
// time still counts toward the timeout.
type InactivityWatchdog struct {
	timeout   time.Duration
	onTimeout func()
	log       logging.Logger
	now       func() time.Time

	mu           sync.Mutex
	timer        *time.Timer
	lastActivity time.Time
	foreground   bool
	fired        bool
	unsubscribe  func()
}

func NewInactivityWatchdog(timeout time.Duration, onTimeout func(), log logging.Logger) *InactivityWatchdog {
	return &InactivityWatchdog{
		timeout:   timeout,
		onTimeout: onTimeout,
		log:       log,
		now:       time.Now,
	}
}

// Start arms the watchdog and begins following lifecycle transitions.
func (w *InactivityWatchdog) Start(source AppStateSource) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.foreground = true
	w.fired = false
	w.lastActivity = w.now()
	w.armLocked()

	if source != nil {
		w.unsubscribe = source.Subscribe(w.handleState)
	}
}

// Touch records user activity and restarts the countdown.
func (w *InactivityWatchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastActivity = w.now()
	w.fired = false
	if w.foreground {
		w.armLocked()
	}
}

// Close stops the watchdog. It does not fire after Close returns.
func (w *InactivityWatchdog) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopTimerLocked()
	w.fired = true
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

func (w *InactivityWatchdog) handleState(state AppState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch state {
	case StateBackground:
		w.foreground = false
		// The OS may suspend timers in the background; the wall-clock
		// check on return is what actually enforces the timeout.
		w.stopTimerLocked()
	case StateActive:
		w.foreground = true
		if w.fired {
			return
		}
		if w.now().Sub(w.lastActivity) >= w.timeout {
			w.fireLocked()
			return
		}
		w.armLocked()
	}
}

// armLocked schedules the timer for the remaining inactivity budget.
func (w *InactivityWatchdog) armLocked() {
	w.stopTimerLocked()

	remaining := w.timeout - w.now().Sub(w.lastActivity)
	if remaining < 0 {
		remaining = 0
	}
	w.timer = time.AfterFunc(remaining, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fired || !w.foreground {
			return
		}
		if w.now().Sub(w.lastActivity) < w.timeout {
			w.armLocked()
			return
		}
		w.fireLocked()
	})
}

func (w *InactivityWatchdog) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// fireLocked invokes the timeout callback exactly once per inactivity
// episode. A later Touch re-arms the watchdog.
func (w *InactivityWatchdog) fireLocked() {
	w.fired = true
	w.stopTimerLocked()
	w.log.Info(context.Background(), "inactivity timeout reached, signing out")
	if w.onTimeout != nil {
		go w.onTimeout()
	}
}
