package models

// User is the authenticated user's profile.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
}
