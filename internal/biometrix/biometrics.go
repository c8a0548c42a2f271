// Package biometrix wraps the device authentication capability behind a
// narrow port. The core only needs to know whether a challenge succeeded;
// how the platform verifies the user is an adapter concern.
package biometrix

import (
	"context"
	"errors"

	"github.com/vetsoap/vetsoap-go/internal/securestore"
)

// ErrNotAvailable is returned when enabling the lock on a device that
// cannot run a challenge.
var ErrNotAvailable = errors.New("biometric authentication is not available on this device")

// Authenticator is the device challenge capability.
type Authenticator interface {
	// Available reports whether the device can run a challenge at all
	// (hardware present and an identity enrolled).
	Available(ctx context.Context) (bool, error)

	// Authenticate runs the challenge and reports whether it succeeded.
	// A false result is not an error: the UI stays locked and the user
	// may retry or fall back to password sign-in.
	Authenticate(ctx context.Context, reason string) (bool, error)
}

// Manager combines the device capability with the user's stored opt-in
// preference.
type Manager struct {
	auth  Authenticator
	creds *securestore.CredentialStore
}

func NewManager(auth Authenticator, creds *securestore.CredentialStore) *Manager {
	return &Manager{auth: auth, creds: creds}
}

// ShouldLock reports whether a returning app must be locked behind a
// challenge: the user opted in and the device can actually run one.
func (m *Manager) ShouldLock(ctx context.Context) (bool, error) {
	enabled, err := m.creds.BiometricEnabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	return m.auth.Available(ctx)
}

// SetEnabled stores the opt-in preference. Enabling requires the device
// capability to be present; disabling always succeeds.
func (m *Manager) SetEnabled(ctx context.Context, enabled bool) error {
	if enabled {
		ok, err := m.auth.Available(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAvailable
		}
	}
	return m.creds.SetBiometricEnabled(ctx, enabled)
}

// Authenticate proxies the challenge to the device.
func (m *Manager) Authenticate(ctx context.Context, reason string) (bool, error) {
	return m.auth.Authenticate(ctx, reason)
}
