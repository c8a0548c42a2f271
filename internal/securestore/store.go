package securestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// CredentialStore owns the access and refresh tokens. Every authenticated
// request reads from it; sign-in and refresh write to it; sign-out and 401
// handling clear it.
//
// ClearAll holds the store lock while removing every key, so a concurrent
// reader observes either the full session or no session, never one token
// without the other.
type CredentialStore struct {
	mu sync.RWMutex
	ks Keystore
}

func NewCredentialStore(ks Keystore) *CredentialStore {
	return &CredentialStore{ks: ks}
}

func (s *CredentialStore) GetToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ks.Get(ctx, keyAccessToken)
}

func (s *CredentialStore) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ks.Set(ctx, keyAccessToken, token); err != nil {
		return fmt.Errorf("saving access token: %w", err)
	}
	return nil
}

func (s *CredentialStore) GetRefreshToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ks.Get(ctx, keyRefreshToken)
}

func (s *CredentialStore) SetRefreshToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ks.Set(ctx, keyRefreshToken, token); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	return nil
}

// ClearAll erases the whole session. Individual delete failures do not stop
// the remaining deletes; the first error is returned after all keys were
// attempted.
func (s *CredentialStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, key := range []string{keyAccessToken, keyRefreshToken} {
		if err := s.ks.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BiometricEnabled reports whether the user opted into biometric locking.
// An absent preference means disabled.
func (s *CredentialStore) BiometricEnabled(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.ks.Get(ctx, keyBiometricEnabled)
	if err != nil {
		if errors.Is(err, common.ErrNoCredential) {
			return false, nil
		}
		return false, err
	}
	return v == "true", nil
}

// SetBiometricEnabled stores the opt-in preference. Disabling removes the
// key entirely rather than storing "false".
func (s *CredentialStore) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		return s.ks.Set(ctx, keyBiometricEnabled, "true")
	}
	return s.ks.Delete(ctx, keyBiometricEnabled)
}
