package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/client/api"
	"github.com/vetsoap/vetsoap-go/internal/client/models"
	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// ErrAlreadyWatching is returned when a second Watch is started for a
// recording that is still being polled.
var ErrAlreadyWatching = errors.New("recording is already being watched")

// StatusUpdate is one observation of a recording's processing state.
type StatusUpdate struct {
	Recording *models.Recording

	// Note is set exactly once, on the update that observed the completed
	// status.
	Note *models.SoapNote

	// Err is set when a poll attempt failed. The watch continues after
	// retryable errors and stops otherwise.
	Err error
}

// StatusPoller re-reads a recording's status on a fixed interval until it
// reaches a terminal state. At most one watch per recording ID is active at
// a time.
type StatusPoller struct {
	api      RecordingAPI
	interval time.Duration
	log      logging.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

func NewStatusPoller(apiClient RecordingAPI, interval time.Duration, log logging.Logger) *StatusPoller {
	return &StatusPoller{
		api:      apiClient,
		interval: interval,
		log:      log,
		active:   make(map[string]struct{}),
	}
}

// Watch starts polling the recording and streams updates until the status is
// terminal, a non-retryable error occurs, or ctx is cancelled. The returned
// channel is closed when the watch ends.
func (p *StatusPoller) Watch(ctx context.Context, id string) (<-chan StatusUpdate, error) {
	if err := models.ValidateRecordingID(id); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if _, ok := p.active[id]; ok {
		p.mu.Unlock()
		return nil, ErrAlreadyWatching
	}
	p.active[id] = struct{}{}
	p.mu.Unlock()

	ch := make(chan StatusUpdate, 1)
	go p.run(ctx, id, ch)
	return ch, nil
}

func (p *StatusPoller) run(ctx context.Context, id string, ch chan<- StatusUpdate) {
	defer func() {
		p.mu.Lock()
		delete(p.active, id)
		p.mu.Unlock()
		close(ch)
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		done := p.pollOnce(ctx, id, ch)
		if done {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce fetches the status once and reports whether the watch is finished.
func (p *StatusPoller) pollOnce(ctx context.Context, id string, ch chan<- StatusUpdate) bool {
	rec, err := p.api.Get(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		retryable := false
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			retryable = apiErr.Retryable
		}
		p.log.Warn(ctx, "status poll failed", "recordingID", id, "retryable", retryable, "error", err)
		if !p.send(ctx, ch, StatusUpdate{Err: err}) {
			return true
		}
		return !retryable
	}

	update := StatusUpdate{Recording: rec}
	if rec.Status == models.StatusCompleted {
		note, nerr := p.api.SoapNote(ctx, id)
		if nerr != nil {
			update.Err = nerr
		} else {
			update.Note = note
		}
	}

	if !p.send(ctx, ch, update) {
		return true
	}
	return rec.Status.Terminal()
}

func (p *StatusPoller) send(ctx context.Context, ch chan<- StatusUpdate, u StatusUpdate) bool {
	select {
	case ch <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// WaitForNote blocks until the recording finishes processing and returns the
// generated note. A failed recording yields an error carrying the server's
// failure message.
func (p *StatusPoller) WaitForNote(ctx context.Context, id string) (*models.SoapNote, error) {
	ch, err := p.Watch(ctx, id)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for u := range ch {
		if u.Err != nil {
			lastErr = u.Err
		}
		if u.Recording == nil {
			continue
		}
		switch u.Recording.Status {
		case models.StatusCompleted:
			if u.Note != nil {
				return u.Note, nil
			}
			return nil, u.Err
		case models.StatusFailed:
			msg := u.Recording.ErrorMessage
			if msg == "" {
				msg = "processing failed"
			}
			return nil, fmt.Errorf("recording %s: %s", id, msg)
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, lastErr
}
