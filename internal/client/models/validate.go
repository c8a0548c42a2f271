package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vetsoap/vetsoap-go/internal/common"
)

const (
	maxNameLen   = 200
	maxFieldLen  = 100
	maxSearchLen = 200
)

// Sanitize trims whitespace and strips control characters from a
// user-supplied string.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

// Validate sanitizes the input in place and checks the field rules:
// patient name, client name and species are required; all fields have
// length ceilings; the template reference must be a UUID.
func (c *CreateRecording) Validate() error {
	c.PatientName = Sanitize(c.PatientName)
	c.ClientName = Sanitize(c.ClientName)
	c.Species = Sanitize(c.Species)
	c.Breed = Sanitize(c.Breed)
	c.AppointmentType = Sanitize(c.AppointmentType)

	switch {
	case c.PatientName == "":
		return validationErr("patient name is required")
	case len(c.PatientName) > maxNameLen:
		return validationErr("patient name too long")
	case c.ClientName == "":
		return validationErr("client name is required")
	case len(c.ClientName) > maxNameLen:
		return validationErr("client name too long")
	case c.Species == "":
		return validationErr("species is required")
	case len(c.Species) > maxFieldLen:
		return validationErr("species name too long")
	case len(c.Breed) > maxFieldLen:
		return validationErr("breed name too long")
	case len(c.AppointmentType) > maxFieldLen:
		return validationErr("appointment type too long")
	}

	if c.TemplateID != "" {
		if _, err := uuid.Parse(c.TemplateID); err != nil {
			return validationErr("invalid template ID format")
		}
	}
	return nil
}

// ValidateRecordingID checks that id is a well-formed UUID before it is
// interpolated into a request path.
func ValidateRecordingID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return validationErr("invalid recording ID format")
	}
	return nil
}

// ValidateSearchQuery sanitizes a search string and enforces its length
// ceiling.
func ValidateSearchQuery(q string) (string, error) {
	q = Sanitize(q)
	if len(q) > maxSearchLen {
		return "", validationErr("search query too long")
	}
	return q, nil
}
