package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/client/api"
	"github.com/vetsoap/vetsoap-go/internal/client/models"
	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/stretchr/testify/require"
)

const pollTestID = "2b8a29a1-9c1e-4f8e-8a94-0f6a62f3d111"

// scriptedStatuses returns a getFn that walks through the given statuses and
// then keeps returning the last one.
func scriptedStatuses(statuses ...models.Status) func(string) (*models.Recording, error) {
	var mu sync.Mutex
	i := 0
	return func(id string) (*models.Recording, error) {
		mu.Lock()
		defer mu.Unlock()
		st := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return &models.Recording{ID: id, Status: st}, nil
	}
}

func TestWatch_StopsAtCompletedAndFetchesNoteOnce(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = scriptedStatuses(models.StatusTranscribing, models.StatusGenerating, models.StatusCompleted)

	noteCalls := 0
	f.noteFn = func(id string) (*models.SoapNote, error) {
		noteCalls++
		return &models.SoapNote{ID: "note-1", RecordingID: id}, nil
	}

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	ch, err := p.Watch(context.Background(), pollTestID)
	require.NoError(t, err)

	var updates []StatusUpdate
	for u := range ch {
		updates = append(updates, u)
	}

	require.Len(t, updates, 3)
	require.Equal(t, models.StatusCompleted, updates[2].Recording.Status)
	require.NotNil(t, updates[2].Note)
	require.Nil(t, updates[0].Note)
	require.Equal(t, 1, noteCalls)
}

func TestWatch_StopsAtFailedWithoutNoteFetch(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = scriptedStatuses(models.StatusTranscribing, models.StatusFailed)
	noteCalls := 0
	f.noteFn = func(string) (*models.SoapNote, error) {
		noteCalls++
		return nil, nil
	}

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	ch, err := p.Watch(context.Background(), pollTestID)
	require.NoError(t, err)

	var last StatusUpdate
	for u := range ch {
		last = u
	}
	require.Equal(t, models.StatusFailed, last.Recording.Status)
	require.Zero(t, noteCalls)
}

func TestWatch_SecondWatchForSameIDRejected(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = scriptedStatuses(models.StatusTranscribing)

	p := NewStatusPoller(f, time.Hour, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx, pollTestID)
	require.NoError(t, err)

	_, err = p.Watch(ctx, pollTestID)
	require.ErrorIs(t, err, ErrAlreadyWatching)

	cancel()
	for range ch {
	}

	// Once the first watch ended, the ID is free again.
	require.Eventually(t, func() bool {
		ch2, err := p.Watch(context.Background(), pollTestID)
		if err != nil {
			return false
		}
		go func() {
			for range ch2 {
			}
		}()
		return true
	}, time.Second, 10*time.Millisecond)
}

func TestWatch_CancelStopsPolling(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = scriptedStatuses(models.StatusTranscribing)

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := p.Watch(ctx, pollTestID)
	require.NoError(t, err)

	<-ch
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestWatch_ContinuesThroughRetryableErrors(t *testing.T) {
	f := &fakeAPI{}
	var mu sync.Mutex
	call := 0
	f.getFn = func(id string) (*models.Recording, error) {
		mu.Lock()
		defer mu.Unlock()
		call++
		if call == 1 {
			return nil, &api.Error{Status: 502, Message: "bad gateway", Retryable: true}
		}
		return &models.Recording{ID: id, Status: models.StatusCompleted}, nil
	}

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	ch, err := p.Watch(context.Background(), pollTestID)
	require.NoError(t, err)

	var updates []StatusUpdate
	for u := range ch {
		updates = append(updates, u)
	}

	require.Len(t, updates, 2)
	require.Error(t, updates[0].Err)
	require.Equal(t, models.StatusCompleted, updates[1].Recording.Status)
}

func TestWatch_StopsOnNonRetryableError(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = func(string) (*models.Recording, error) {
		return nil, &api.Error{Status: 404, Message: "not found"}
	}

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	ch, err := p.Watch(context.Background(), pollTestID)
	require.NoError(t, err)

	var updates []StatusUpdate
	for u := range ch {
		updates = append(updates, u)
	}

	require.Len(t, updates, 1)
	require.ErrorIs(t, updates[0].Err, common.ErrNotFound)
}

func TestWatch_RejectsMalformedID(t *testing.T) {
	p := NewStatusPoller(&fakeAPI{}, time.Second, testLogger())
	_, err := p.Watch(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestWaitForNote_ReturnsNoteOnCompletion(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = scriptedStatuses(models.StatusGenerating, models.StatusCompleted)

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	note, err := p.WaitForNote(context.Background(), pollTestID)

	require.NoError(t, err)
	require.Equal(t, "note-1", note.ID)
}

func TestWaitForNote_FailedRecordingCarriesServerMessage(t *testing.T) {
	f := &fakeAPI{}
	f.getFn = func(id string) (*models.Recording, error) {
		return &models.Recording{ID: id, Status: models.StatusFailed, ErrorMessage: "transcription failed"}, nil
	}

	p := NewStatusPoller(f, 5*time.Millisecond, testLogger())
	_, err := p.WaitForNote(context.Background(), pollTestID)

	require.ErrorContains(t, err, "transcription failed")
}
