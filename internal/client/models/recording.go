// Package models defines the server-owned entities the client consumes and
// the client-side input validation applied before anything reaches the
// network layer.
package models

// Status is the server-side processing state of a Recording. It only
// advances forward through the pipeline order, except that failed is
// reachable from any non-terminal state.
type Status string

const (
	StatusUploading    Status = "uploading"
	StatusUploaded     Status = "uploaded"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusGenerating   Status = "generating"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var statusRank = map[Status]int{
	StatusUploading:    0,
	StatusUploaded:     1,
	StatusTranscribing: 2,
	StatusTranscribed:  3,
	StatusGenerating:   4,
	StatusCompleted:    5,
}

// Terminal reports whether polling should stop at this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether a transition from s to next respects the
// pipeline order: strictly forward, or a jump to failed from any
// non-terminal state. Staying put is allowed (polling re-reads the same
// state).
func (s Status) CanAdvanceTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return s == next
	}
	if next == StatusFailed {
		return true
	}
	return statusRank[next] >= statusRank[s]
}

// Recording is the server-owned entity representing one appointment
// capture. The client creates it, the processing pipeline mutates it.
type Recording struct {
	ID              string `json:"id"`
	OrganizationID  string `json:"organizationId"`
	UserID          string `json:"userId"`
	PatientName     string `json:"patientName"`
	ClientName      string `json:"clientName"`
	Species         string `json:"species"`
	Breed           string `json:"breed,omitempty"`
	AppointmentType string `json:"appointmentType,omitempty"`
	Status          Status `json:"status"`

	AudioFileURL         string  `json:"audioFileUrl,omitempty"`
	AudioFileName        string  `json:"audioFileName,omitempty"`
	AudioDurationSeconds float64 `json:"audioDurationSeconds,omitempty"`
	AudioFileSizeBytes   int64   `json:"audioFileSizeBytes,omitempty"`

	TranscriptText       string  `json:"transcriptText,omitempty"`
	TranscriptConfidence float64 `json:"transcriptConfidence,omitempty"`

	SoapNoteID   string `json:"soapNoteId,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`

	ProcessingStartedAt   string `json:"processingStartedAt,omitempty"`
	ProcessingCompletedAt string `json:"processingCompletedAt,omitempty"`

	TemplateID string `json:"templateId,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// CreateRecording is the client-supplied metadata for a new Recording.
// PatientName, ClientName and Species are required; see Validate.
type CreateRecording struct {
	PatientName     string `json:"patientName"`
	ClientName      string `json:"clientName"`
	Species         string `json:"species"`
	Breed           string `json:"breed,omitempty"`
	AppointmentType string `json:"appointmentType,omitempty"`
	TemplateID      string `json:"templateId,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// RecordingPage is a paginated Recording list.
type RecordingPage struct {
	Data       []Recording `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// UploadTarget is the presigned upload destination for a recording's audio
// file.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
}
