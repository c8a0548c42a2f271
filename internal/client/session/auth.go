package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/logging"
	"github.com/vetsoap/vetsoap-go/internal/securestore"
)

// refreshLeeway refreshes tokens slightly before they actually expire so an
// in-flight request does not race the expiry.
const refreshLeeway = 60 * time.Second

// Tokens is one issued session from the identity provider.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// TokenProvider is the identity provider's token endpoint.
type TokenProvider interface {
	SignIn(ctx context.Context, email, password string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
}

// Auth owns the sign-in, refresh and sign-out flows around the credential
// store.
type Auth struct {
	provider TokenProvider
	creds    *securestore.CredentialStore
	log      logging.Logger
	now      func() time.Time
}

func NewAuth(provider TokenProvider, creds *securestore.CredentialStore, log logging.Logger) *Auth {
	return &Auth{provider: provider, creds: creds, log: log, now: time.Now}
}

// SignIn exchanges credentials for tokens and stores them.
func (a *Auth) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") || len(email) < 3 {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidation)
	}

	tokens, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.store(ctx, tokens); err != nil {
		return err
	}
	a.log.Info(ctx, "signed in", "email", email)
	return nil
}

// SignOut erases the session and the biometric opt-in. It is also the
// handler for unrecoverable 401 responses.
func (a *Auth) SignOut(ctx context.Context) error {
	if err := a.creds.SetBiometricEnabled(ctx, false); err != nil {
		a.log.Warn(ctx, "failed to clear biometric preference", "error", err)
	}
	if err := a.creds.ClearAll(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

// SignedIn reports whether a session is stored.
func (a *Auth) SignedIn(ctx context.Context) bool {
	_, err := a.creds.GetToken(ctx)
	return err == nil
}

// EnsureFresh refreshes the access token when it is expired or about to
// expire. With no stored session it returns common.ErrNoCredential.
func (a *Auth) EnsureFresh(ctx context.Context) error {
	token, err := a.creds.GetToken(ctx)
	if err != nil {
		return err
	}

	exp, err := tokenExpiry(token)
	if err != nil {
		// An unreadable token is treated as expired.
		a.log.Warn(ctx, "stored access token is not parseable, refreshing", "error", err)
	} else if exp.After(a.now().Add(refreshLeeway)) {
		return nil
	}

	refresh, err := a.creds.GetRefreshToken(ctx)
	if err != nil {
		return common.ErrTokenExpired
	}

	tokens, err := a.provider.Refresh(ctx, refresh)
	if err != nil {
		return fmt.Errorf("refreshing session: %w", err)
	}
	if err := a.store(ctx, tokens); err != nil {
		return err
	}
	a.log.Debug(ctx, "access token refreshed")
	return nil
}

// HandleUnauthorized is wired as the API client's 401 callback: the session
// is gone server-side, so drop it client-side too.
func (a *Auth) HandleUnauthorized() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.SignOut(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session after 401", "error", err)
	}
}

func (a *Auth) store(ctx context.Context, tokens *Tokens) error {
	if err := a.creds.SetToken(ctx, tokens.AccessToken); err != nil {
		return err
	}
	if tokens.RefreshToken != "" {
		if err := a.creds.SetRefreshToken(ctx, tokens.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client only schedules refreshes with it; the server still verifies every
// request.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return exp.Time, nil
}
