package models

// SoapSection is one of the four fixed sections of a SOAP note.
type SoapSection struct {
	Content  string `json:"content"`
	IsEdited bool   `json:"isEdited"`
	EditedAt string `json:"editedAt,omitempty"`
}

// SoapNote is the generated artifact, one-to-one with a completed
// Recording. Immutable from the client's perspective except for
// export-tracking flags.
type SoapNote struct {
	ID          string `json:"id"`
	RecordingID string `json:"recordingId"`

	Subjective SoapSection `json:"subjective"`
	Objective  SoapSection `json:"objective"`
	Assessment SoapSection `json:"assessment"`
	Plan       SoapSection `json:"plan"`

	GeneratedAt      string `json:"generatedAt"`
	ModelUsed        string `json:"modelUsed"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`

	IsExported bool   `json:"isExported"`
	ExportedTo string `json:"exportedTo,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// PlainText renders the four sections as a single block, the format used
// when copying a note to the clipboard.
func (n *SoapNote) PlainText() string {
	return "SUBJECTIVE\n" + n.Subjective.Content +
		"\n\nOBJECTIVE\n" + n.Objective.Content +
		"\n\nASSESSMENT\n" + n.Assessment.Content +
		"\n\nPLAN\n" + n.Plan.Content
}
