// Package services contains the client-side orchestration on top of the raw
// API layer: the multi-step upload saga, the processing status poller and
// the offline cache fallback.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vetsoap/vetsoap-go/internal/client/api"
	"github.com/vetsoap/vetsoap-go/internal/client/models"
	"github.com/vetsoap/vetsoap-go/internal/client/repositories/recordings"
	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/logging"
)

// DefaultContentType is used when the caller does not name the audio format.
const DefaultContentType = "audio/mp4"

// RecordingAPI is the subset of the recordings API the service layer needs.
// *api.Recordings satisfies it; tests substitute fakes.
type RecordingAPI interface {
	List(ctx context.Context, params api.ListParams) (*models.RecordingPage, error)
	Get(ctx context.Context, id string) (*models.Recording, error)
	Create(ctx context.Context, data models.CreateRecording) (*models.Recording, error)
	Delete(ctx context.Context, id string) error
	UploadTarget(ctx context.Context, id, fileName, contentType string, fileSizeBytes int64) (*models.UploadTarget, error)
	ConfirmUpload(ctx context.Context, id, fileKey string) (*models.Recording, error)
	Retry(ctx context.Context, id string) (*models.Recording, error)
	SoapNote(ctx context.Context, id string) (*models.SoapNote, error)
	UploadFile(ctx context.Context, uploadURL, contentType string, data []byte) error
}

// RecordingService drives recording lifecycle operations. The cache is
// optional; when present it is refreshed on reads and consulted when the
// backend is unreachable.
type RecordingService struct {
	api            RecordingAPI
	cache          recordings.Repository
	log            logging.Logger
	maxUploadBytes int64
}

func NewRecordingService(apiClient RecordingAPI, cache recordings.Repository, maxUploadBytes int64, log logging.Logger) *RecordingService {
	return &RecordingService{
		api:            apiClient,
		cache:          cache,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateWithFile runs the full upload saga:
//
//	create recording -> request upload target -> PUT audio bytes -> confirm.
//
// If a step fails before the object store has received the bytes, the created
// Recording is deleted again so no orphan row without audio is left behind.
// Once the PUT has succeeded the Recording is kept even if confirm fails,
// because the audio already exists and confirm can be retried.
func (s *RecordingService) CreateWithFile(ctx context.Context, data models.CreateRecording, filePath, contentType string) (*models.Recording, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: audio file is not readable: %v", common.ErrValidation, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: audio file is empty", common.ErrValidation)
	}
	if s.maxUploadBytes > 0 && info.Size() > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: audio file exceeds the %d MB upload limit", common.ErrValidation, s.maxUploadBytes/(1024*1024))
	}

	audio, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	rec, err := s.api.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	uploaded := false
	fail := func(step string, cause error) (*models.Recording, error) {
		if uploaded {
			// The object store already holds the audio. Keep the
			// recording so confirm can be retried later.
			s.log.Warn(ctx, "upload confirmed failed, keeping recording for retry",
				"recordingID", rec.ID, "step", step, "error", cause)
			return nil, fmt.Errorf("%s: %w", step, cause)
		}
		s.log.Warn(ctx, "upload failed, rolling back created recording",
			"recordingID", rec.ID, "step", step, "error", cause)
		if derr := s.api.Delete(ctx, rec.ID); derr != nil {
			// Best effort only. The row stays as uploading and can be
			// cleaned up by the backend or the user.
			s.log.Error(ctx, "rollback delete failed", "recordingID", rec.ID, "error", derr)
		}
		return nil, fmt.Errorf("%s: %w", step, cause)
	}

	target, err := s.api.UploadTarget(ctx, rec.ID, filepath.Base(filePath), contentType, info.Size())
	if err != nil {
		return fail("requesting upload url", err)
	}

	if err := s.api.UploadFile(ctx, target.UploadURL, contentType, audio); err != nil {
		return fail("uploading audio", err)
	}
	uploaded = true

	confirmed, err := s.api.ConfirmUpload(ctx, rec.ID, target.FileKey)
	if err != nil {
		return fail("confirming upload", err)
	}

	s.cacheUpsert(ctx, confirmed)
	s.log.Info(ctx, "recording uploaded", "recordingID", confirmed.ID, "status", confirmed.Status)
	return confirmed, nil
}

// List fetches a page of recordings. On success the cache is refreshed; when
// the backend is unreachable the cached overviews are served instead.
func (s *RecordingService) List(ctx context.Context, params api.ListParams) (*models.RecordingPage, error) {
	search, err := models.ValidateSearchQuery(params.Search)
	if err != nil {
		return nil, err
	}
	params.Search = search

	page, err := s.api.List(ctx, params)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) && s.cache != nil {
			return s.listFromCache(ctx, err)
		}
		return nil, err
	}

	if s.cache != nil && params.Page <= 1 && params.Status == "" && params.Search == "" {
		if cerr := s.cache.ReplaceAll(ctx, page.Data); cerr != nil {
			s.log.Warn(ctx, "failed to refresh recordings cache", "error", cerr)
		}
	}
	return page, nil
}

func (s *RecordingService) listFromCache(ctx context.Context, cause error) (*models.RecordingPage, error) {
	cached, cerr := s.cache.GetAll(ctx)
	if cerr != nil || len(cached) == 0 {
		return nil, cause
	}
	s.log.Warn(ctx, "backend unreachable, serving recordings from local cache",
		"count", len(cached), "error", cause)
	return &models.RecordingPage{
		Data:       cached,
		Pagination: models.Pagination{Page: 1, Limit: len(cached), Total: len(cached), TotalPages: 1},
	}, nil
}

func (s *RecordingService) Get(ctx context.Context, id string) (*models.Recording, error) {
	if err := models.ValidateRecordingID(id); err != nil {
		return nil, err
	}

	rec, err := s.api.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) && s.cache != nil {
			if cached, cerr := s.cache.GetByID(ctx, id); cerr == nil {
				s.log.Warn(ctx, "backend unreachable, serving recording from local cache", "recordingID", id)
				return cached, nil
			}
		}
		return nil, err
	}

	s.cacheUpsert(ctx, rec)
	return rec, nil
}

func (s *RecordingService) Delete(ctx context.Context, id string) error {
	if err := models.ValidateRecordingID(id); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if cerr := s.cache.DeleteByID(ctx, id); cerr != nil {
			s.log.Warn(ctx, "failed to evict recording from cache", "recordingID", id, "error", cerr)
		}
	}
	return nil
}

// Retry asks the backend to re-enter the processing pipeline. The server
// owns the transition; callers should re-observe the status afterwards.
func (s *RecordingService) Retry(ctx context.Context, id string) (*models.Recording, error) {
	if err := models.ValidateRecordingID(id); err != nil {
		return nil, err
	}
	rec, err := s.api.Retry(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheUpsert(ctx, rec)
	return rec, nil
}

func (s *RecordingService) SoapNote(ctx context.Context, id string) (*models.SoapNote, error) {
	if err := models.ValidateRecordingID(id); err != nil {
		return nil, err
	}
	return s.api.SoapNote(ctx, id)
}

func (s *RecordingService) cacheUpsert(ctx context.Context, rec *models.Recording) {
	if s.cache == nil || rec == nil {
		return
	}
	if err := s.cache.Upsert(ctx, rec); err != nil {
		s.log.Warn(ctx, "failed to cache recording", "recordingID", rec.ID, "error", err)
	}
}
