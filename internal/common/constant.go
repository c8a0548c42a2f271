// Package common contains shared constants and sentinel errors used across
// VetSOAP client components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on every
	// authenticated request.
	AuthorizationHeaderName = "Authorization"

	// TimestampHeaderName and SignatureHeaderName carry the replay-protection
	// timestamp and HMAC digest on mutating requests.
	TimestampHeaderName = "X-Request-Timestamp"
	SignatureHeaderName = "X-Request-Signature"
)
