// Package clipx implements clipboard hygiene for sensitive text. Patient
// health data copied out of the app must not linger in the clipboard
// indefinitely.
package clipx

import (
	"context"
	"sync"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// DefaultClearDelay is how long copied text stays on the clipboard.
const DefaultClearDelay = 60 * time.Second

// Clipboard is the platform clipboard capability.
type Clipboard interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, text string) error
}

// AutoClear copies sensitive text and schedules a wipe after a delay. The
// wipe only happens if the clipboard still contains exactly the copied
// text; content the user copied afterwards is never clobbered.
type AutoClear struct {
	clipboard Clipboard
	delay     time.Duration
	log       logging.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func NewAutoClear(clipboard Clipboard, delay time.Duration, log logging.Logger) *AutoClear {
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	return &AutoClear{clipboard: clipboard, delay: delay, log: log}
}

// Copy places text on the clipboard and schedules the wipe. A pending wipe
// from an earlier copy is cancelled first, so only the latest copy ever
// triggers one.
func (a *AutoClear) Copy(ctx context.Context, text string) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if err := a.clipboard.Set(ctx, text); err != nil {
		return err
	}

	a.mu.Lock()
	a.timer = time.AfterFunc(a.delay, func() { a.clear(text) })
	a.mu.Unlock()
	return nil
}

// clear wipes the clipboard if it still holds the copied text. Clipboard
// access can fail while the app is backgrounded; such failures are logged
// and ignored.
func (a *AutoClear) clear(copied string) {
	ctx := context.Background()

	current, err := a.clipboard.Get(ctx)
	if err != nil {
		a.log.Warn(ctx, "clipboard read failed during auto-clear", "error", err)
		return
	}
	if current != copied {
		return
	}
	if err := a.clipboard.Set(ctx, ""); err != nil {
		a.log.Warn(ctx, "clipboard wipe failed", "error", err)
	}

	a.mu.Lock()
	a.timer = nil
	a.mu.Unlock()
}

// Stop cancels a pending wipe. Call on teardown.
func (a *AutoClear) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
