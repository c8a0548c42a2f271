package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
)

// Recordings wraps the /api/recordings REST surface. It is a thin layer:
// validation and the multi-step upload saga live in the services package.
type Recordings struct {
	c *Client
}

func NewRecordings(c *Client) *Recordings {
	return &Recordings{c: c}
}

// ListParams are the supported query parameters for List. Zero values are
// omitted from the query string.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Status    models.Status
	Search    string
}

func (p ListParams) query() map[string]string {
	q := map[string]string{
		"sortBy":    p.SortBy,
		"sortOrder": p.SortOrder,
		"status":    string(p.Status),
		"search":    p.Search,
	}
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.Limit > 0 {
		q["limit"] = strconv.Itoa(p.Limit)
	}
	return q
}

func (r *Recordings) List(ctx context.Context, params ListParams) (*models.RecordingPage, error) {
	var page models.RecordingPage
	if err := r.c.Get(ctx, "/api/recordings", params.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Recordings) Get(ctx context.Context, id string) (*models.Recording, error) {
	var rec models.Recording
	if err := r.c.Get(ctx, "/api/recordings/"+id, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Recordings) Create(ctx context.Context, data models.CreateRecording) (*models.Recording, error) {
	var rec models.Recording
	if err := r.c.Post(ctx, "/api/recordings", data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Recordings) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, "/api/recordings/"+id)
}

type uploadURLRequest struct {
	FileName      string `json:"fileName"`
	ContentType   string `json:"contentType"`
	FileSizeBytes int64  `json:"fileSizeBytes,omitempty"`
}

// UploadTarget requests a presigned upload URL and storage key for the
// recording's audio file. The file size is included so the server can
// reject oversized files before any bytes move.
func (r *Recordings) UploadTarget(ctx context.Context, id, fileName, contentType string, fileSizeBytes int64) (*models.UploadTarget, error) {
	body := uploadURLRequest{FileName: fileName, ContentType: contentType, FileSizeBytes: fileSizeBytes}

	var target models.UploadTarget
	if err := r.c.Post(ctx, fmt.Sprintf("/api/recordings/%s/upload-url", id), body, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// ConfirmUpload notifies the backend that the object landed at fileKey,
// which moves the Recording into the processing pipeline.
func (r *Recordings) ConfirmUpload(ctx context.Context, id, fileKey string) (*models.Recording, error) {
	body := map[string]string{"fileKey": fileKey}

	var rec models.Recording
	if err := r.c.Post(ctx, fmt.Sprintf("/api/recordings/%s/confirm-upload", id), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Retry re-enters the processing pipeline. Only valid from failed; the
// server decides the next state, the client must re-observe it.
func (r *Recordings) Retry(ctx context.Context, id string) (*models.Recording, error) {
	var rec models.Recording
	if err := r.c.Post(ctx, fmt.Sprintf("/api/recordings/%s/retry", id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SoapNote fetches the generated note. Only meaningful once the recording
// reached completed.
func (r *Recordings) SoapNote(ctx context.Context, id string) (*models.SoapNote, error) {
	var note models.SoapNote
	if err := r.c.Get(ctx, fmt.Sprintf("/api/recordings/%s/soap-note", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UploadFile PUTs the audio bytes to the presigned URL.
func (r *Recordings) UploadFile(ctx context.Context, uploadURL, contentType string, data []byte) error {
	return r.c.Upload(ctx, uploadURL, contentType, data)
}
