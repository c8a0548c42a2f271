package session

import (
	"context"
	"sync"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/biometrix"
	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// AppLock engages a biometric challenge when the app returns to the
// foreground after spending at least the threshold in the background. Brief
// switches away do not lock.
type AppLock struct {
	threshold time.Duration
	bio       *biometrix.Manager
	log       logging.Logger
	now       func() time.Time

	mu             sync.Mutex
	locked         bool
	backgroundedAt time.Time
	unsubscribe    func()
}

func NewAppLock(threshold time.Duration, bio *biometrix.Manager, log logging.Logger) *AppLock {
	return &AppLock{
		threshold: threshold,
		bio:       bio,
		log:       log,
		now:       time.Now,
	}
}

// Start begins following lifecycle transitions.
func (l *AppLock) Start(source AppStateSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unsubscribe = source.Subscribe(l.handleState)
}

func (l *AppLock) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
}

// Locked reports whether the UI must stay behind the challenge.
func (l *AppLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Unlock runs the device challenge. A false result without error means the
// challenge was dismissed or failed; the lock stays engaged.
func (l *AppLock) Unlock(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if !l.locked {
		l.mu.Unlock()
		return true, nil
	}
	l.mu.Unlock()

	ok, err := l.bio.Authenticate(ctx, "Unlock VetSOAP")
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.locked = false
	l.mu.Unlock()
	return true, nil
}

func (l *AppLock) handleState(state AppState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch state {
	case StateBackground:
		l.backgroundedAt = l.now()
	case StateActive:
		if l.backgroundedAt.IsZero() {
			return
		}
		away := l.now().Sub(l.backgroundedAt)
		l.backgroundedAt = time.Time{}
		if away < l.threshold {
			return
		}

		ctx := context.Background()
		should, err := l.bio.ShouldLock(ctx)
		if err != nil {
			l.log.Warn(ctx, "failed to evaluate biometric lock", "error", err)
			return
		}
		if should {
			l.locked = true
			l.log.Info(ctx, "app locked after background period", "away", away)
		}
	}
}
