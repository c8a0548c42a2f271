package recorder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeCapture struct {
	mu       sync.Mutex
	began    []string
	paused   int
	resumed  int
	ended    int
	beginErr error
}

func (f *fakeCapture) Begin(_ context.Context, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beginErr != nil {
		return f.beginErr
	}
	f.began = append(f.began, destPath)
	// Simulate the backend creating the file.
	return os.WriteFile(destPath, []byte("audio"), 0o600)
}

func (f *fakeCapture) Pause() error  { f.mu.Lock(); defer f.mu.Unlock(); f.paused++; return nil }
func (f *fakeCapture) Resume() error { f.mu.Lock(); defer f.mu.Unlock(); f.resumed++; return nil }
func (f *fakeCapture) End() error    { f.mu.Lock(); defer f.mu.Unlock(); f.ended++; return nil }

type fakePerms struct {
	granted    bool
	requests   int
	requestRes bool
}

func (f *fakePerms) Granted(context.Context) bool { return f.granted }
func (f *fakePerms) Request(context.Context) (bool, error) {
	f.requests++
	return f.requestRes, nil
}

func newTestRecorder(t *testing.T, capture Capture, perms Permissions) *Recorder {
	t.Helper()
	return New(capture, perms, t.TempDir(), logging.NewSlogLogger(slog.Default()))
}

func TestStart_RequestsPermissionLazily(t *testing.T) {
	capture := &fakeCapture{}
	perms := &fakePerms{granted: false, requestRes: true}
	r := newTestRecorder(t, capture, perms)

	require.NoError(t, r.Start(context.Background()))
	require.Equal(t, 1, perms.requests)
	require.Equal(t, StateRecording, r.State())
}

func TestStart_DeniedPermissionAbortsWithoutCapture(t *testing.T) {
	capture := &fakeCapture{}
	perms := &fakePerms{granted: false, requestRes: false}
	r := newTestRecorder(t, capture, perms)

	err := r.Start(context.Background())
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.Empty(t, capture.began)
	require.Equal(t, StateIdle, r.State())
}

func TestStart_SkipsRequestWhenAlreadyGranted(t *testing.T) {
	perms := &fakePerms{granted: true}
	r := newTestRecorder(t, &fakeCapture{}, perms)

	require.NoError(t, r.Start(context.Background()))
	require.Zero(t, perms.requests)
}

func TestLifecycle_FullSession(t *testing.T) {
	capture := &fakeCapture{}
	r := newTestRecorder(t, capture, &fakePerms{granted: true})

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Pause())
	require.Equal(t, StatePaused, r.State())
	require.NoError(t, r.Resume())
	require.Equal(t, StateRecording, r.State())

	res, err := r.Stop()
	require.NoError(t, err)
	require.Equal(t, StateStopped, r.State())
	require.NotEmpty(t, res.Path)
	require.Equal(t, ".m4a", filepath.Ext(res.Path))
	require.Equal(t, 1, capture.ended)
}

func TestInvalidTransitions(t *testing.T) {
	r := newTestRecorder(t, &fakeCapture{}, &fakePerms{granted: true})

	require.ErrorIs(t, r.Pause(), ErrInvalidTransition)
	require.ErrorIs(t, r.Resume(), ErrInvalidTransition)
	_, err := r.Stop()
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, r.Reset(), ErrInvalidTransition)

	require.NoError(t, r.Start(context.Background()))
	require.ErrorIs(t, r.Start(context.Background()), ErrInvalidTransition)
	require.ErrorIs(t, r.Resume(), ErrInvalidTransition)
}

func TestStoppedSessionRequiresResetBeforeRestart(t *testing.T) {
	r := newTestRecorder(t, &fakeCapture{}, &fakePerms{granted: true})

	require.NoError(t, r.Start(context.Background()))
	_, err := r.Stop()
	require.NoError(t, err)

	require.ErrorIs(t, r.Start(context.Background()), ErrInvalidTransition)
	require.NoError(t, r.Reset())
	require.NoError(t, r.Start(context.Background()))
}

func TestReset_RemovesDiscardedFile(t *testing.T) {
	r := newTestRecorder(t, &fakeCapture{}, &fakePerms{granted: true})

	require.NoError(t, r.Start(context.Background()))
	res, err := r.Stop()
	require.NoError(t, err)
	require.FileExists(t, res.Path)

	require.NoError(t, r.Reset())
	require.NoFileExists(t, res.Path)
	require.Empty(t, r.FilePath())
}

func TestDuration_AccumulatesOnlyWhileRecording(t *testing.T) {
	r := newTestRecorder(t, &fakeCapture{}, &fakePerms{granted: true})

	current := time.Unix(1000, 0)
	r.now = func() time.Time { return current }

	require.NoError(t, r.Start(context.Background()))

	current = current.Add(10 * time.Second)
	require.Equal(t, 10*time.Second, r.Duration())

	require.NoError(t, r.Pause())
	current = current.Add(30 * time.Second)
	require.Equal(t, 10*time.Second, r.Duration(), "paused time must not count")

	require.NoError(t, r.Resume())
	current = current.Add(5 * time.Second)
	require.Equal(t, 15*time.Second, r.Duration())

	res, err := r.Stop()
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, res.Duration)
}

func TestStart_EachSessionGetsUniqueFile(t *testing.T) {
	capture := &fakeCapture{}
	r := newTestRecorder(t, capture, &fakePerms{granted: true})

	require.NoError(t, r.Start(context.Background()))
	_, err := r.Stop()
	require.NoError(t, err)
	require.NoError(t, r.Reset())
	require.NoError(t, r.Start(context.Background()))

	require.Len(t, capture.began, 2)
	require.NotEqual(t, capture.began[0], capture.began[1])
}
