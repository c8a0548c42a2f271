package models

// TemplateSection configures one SOAP section of a note template.
type TemplateSection struct {
	Enabled        bool     `json:"enabled"`
	CustomPrompt   string   `json:"customPrompt,omitempty"`
	DefaultContent string   `json:"defaultContent,omitempty"`
	RequiredFields []string `json:"requiredFields"`
}

// Template is a note-generation template owned by the organization.
type Template struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	IsDefault      bool     `json:"isDefault"`
	IsActive       bool     `json:"isActive"`
	Species        []string `json:"species"`

	Sections struct {
		Subjective TemplateSection `json:"subjective"`
		Objective  TemplateSection `json:"objective"`
		Assessment TemplateSection `json:"assessment"`
		Plan       TemplateSection `json:"plan"`
	} `json:"sections"`

	OutputFormat string `json:"outputFormat"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// TemplatePage is a paginated Template list.
type TemplatePage struct {
	Data       []Template `json:"data"`
	Pagination Pagination `json:"pagination"`
}
