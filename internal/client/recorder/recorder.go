package recorder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vetsoap/vetsoap-go/internal/filex"
	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// State is the capture session state.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

var (
	ErrInvalidTransition = errors.New("invalid recorder state transition")
	ErrPermissionDenied  = errors.New("microphone permission denied")
)

// Result is the finalized capture: the audio file and its recorded length.
type Result struct {
	Path     string
	Duration time.Duration
}

// Recorder drives a single capture session at a time:
//
//	idle -> recording <-> paused -> stopped -> (reset) -> idle
//
// Duration accumulates only while in the recording state. A stopped session
// must be reset before a new one can start.
type Recorder struct {
	capture Capture
	perms   Permissions
	dir     string
	log     logging.Logger
	now     func() time.Time

	mu          sync.Mutex
	state       State
	filePath    string
	startedAt   time.Time
	accumulated time.Duration
}

func New(capture Capture, perms Permissions, dir string, log logging.Logger) *Recorder {
	return &Recorder{
		capture: capture,
		perms:   perms,
		dir:     dir,
		log:     log,
		now:     time.Now,
		state:   StateIdle,
	}
}

// Start begins a new capture session. The microphone permission is acquired
// lazily: if not yet granted it is requested here, and a denial aborts the
// start without touching the backend.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, r.state)
	}

	if !r.perms.Granted(ctx) {
		granted, err := r.perms.Request(ctx)
		if err != nil {
			return fmt.Errorf("requesting microphone permission: %w", err)
		}
		if !granted {
			return ErrPermissionDenied
		}
	}

	if _, err := filex.EnsureDir(r.dir); err != nil {
		return err
	}
	path := filepath.Join(r.dir, uuid.NewString()+".m4a")

	if err := r.capture.Begin(ctx, path); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	r.state = StateRecording
	r.filePath = path
	r.startedAt = r.now()
	r.accumulated = 0
	r.log.Info(ctx, "recording started", "path", path)
	return nil
}

// Pause suspends capture. Elapsed time stops accumulating.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, r.state)
	}
	if err := r.capture.Pause(); err != nil {
		return fmt.Errorf("pausing capture: %w", err)
	}
	r.accumulated += r.now().Sub(r.startedAt)
	r.state = StatePaused
	return nil
}

// Resume continues a paused session.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, r.state)
	}
	if err := r.capture.Resume(); err != nil {
		return fmt.Errorf("resuming capture: %w", err)
	}
	r.startedAt = r.now()
	r.state = StateRecording
	return nil
}

// Stop finalizes the session and returns the captured file.
func (r *Recorder) Stop() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording && r.state != StatePaused {
		return nil, fmt.Errorf("%w: stop from %s", ErrInvalidTransition, r.state)
	}
	if r.state == StateRecording {
		r.accumulated += r.now().Sub(r.startedAt)
	}
	if err := r.capture.End(); err != nil {
		return nil, fmt.Errorf("stopping capture: %w", err)
	}

	r.state = StateStopped
	return &Result{Path: r.filePath, Duration: r.accumulated}, nil
}

// Reset discards a stopped session, removing its file, and returns the
// recorder to idle so a new session can start.
func (r *Recorder) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateStopped {
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, r.state)
	}
	if r.filePath != "" {
		if err := os.Remove(r.filePath); err != nil && !os.IsNotExist(err) {
			r.log.Warn(context.Background(), "failed to remove discarded recording", "path", r.filePath, "error", err)
		}
	}
	r.state = StateIdle
	r.filePath = ""
	r.accumulated = 0
	return nil
}

// State returns the current session state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Duration returns the recorded length so far. While recording it includes
// the live elapsed time of the current stretch.
func (r *Recorder) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return r.accumulated + r.now().Sub(r.startedAt)
	}
	return r.accumulated
}

// FilePath returns the session's audio file path, empty while idle.
func (r *Recorder) FilePath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filePath
}
