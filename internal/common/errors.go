package common

import "errors"

var (

	// transport / API errors
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// validation errors, caught before any network call
	ErrValidation = errors.New("validation error")

	// security-policy errors; fatal, never retried
	ErrUntrustedURL = errors.New("request to untrusted domain rejected")
	ErrInsecureURL  = errors.New("insecure connection rejected: https required")
	ErrInvalidURL   = errors.New("invalid request url")

	// token lifecycle errors
	ErrTokenExpired = errors.New("token expired")
	ErrNoCredential = errors.New("no stored credential")
)
