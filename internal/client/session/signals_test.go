package session

import (
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalPublisher_ResumePublishesActive(t *testing.T) {
	bus := NewStateBus()
	var resumes atomic.Int32
	unsub := bus.Subscribe(func(s AppState) {
		if s == StateActive {
			resumes.Add(1)
		}
	})
	defer unsub()

	stop := StartSignalPublisher(bus)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGCONT))

	require.Eventually(t, func() bool {
		return resumes.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSignalPublisher_StopDetaches(t *testing.T) {
	bus := NewStateBus()
	var events atomic.Int32
	unsub := bus.Subscribe(func(AppState) { events.Add(1) })
	defer unsub()

	stop := StartSignalPublisher(bus)
	stop()
	time.Sleep(50 * time.Millisecond)

	// With the handler detached SIGCONT falls back to its default action,
	// which is a no-op for a running process.
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGCONT))
	time.Sleep(50 * time.Millisecond)

	require.Zero(t, events.Load())
}
