// Package securestore persists auth tokens and security preferences behind
// a narrow keystore port. Production builds use the encrypted file adapter;
// tests and development builds may use the in-memory adapter.
package securestore

import "context"

// Keystore is the capability required from the platform secret store:
// string values that survive restarts and are never written in plaintext.
type Keystore interface {
	// Get returns the value for key, or common.ErrNoCredential if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes the value for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

const (
	keyAccessToken      = "vetsoap:access_token"
	keyRefreshToken     = "vetsoap:refresh_token"
	keyBiometricEnabled = "vetsoap:biometric_enabled"
)
