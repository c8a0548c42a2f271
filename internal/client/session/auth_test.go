package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/logging"
	"github.com/vetsoap/vetsoap-go/internal/securestore"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	signIns   int
	refreshes int
	tokens    *Tokens
	err       error
}

func (f *fakeProvider) SignIn(_ context.Context, _, _ string) (*Tokens, error) {
	f.signIns++
	return f.tokens, f.err
}

func (f *fakeProvider) Refresh(_ context.Context, _ string) (*Tokens, error) {
	f.refreshes++
	return f.tokens, f.err
}

func testAuth(provider TokenProvider) (*Auth, *securestore.CredentialStore) {
	creds := securestore.NewCredentialStore(securestore.NewMemoryKeystore())
	return NewAuth(provider, creds, logging.NewSlogLogger(slog.Default())), creds
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSignIn_StoresTokens(t *testing.T) {
	provider := &fakeProvider{tokens: &Tokens{AccessToken: "at", RefreshToken: "rt"}}
	auth, creds := testAuth(provider)
	ctx := context.Background()

	require.NoError(t, auth.SignIn(ctx, "Vet@Clinic.example ", "longenough"))

	token, err := creds.GetToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "at", token)

	refresh, err := creds.GetRefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "rt", refresh)
}

func TestSignIn_ValidatesInputBeforeProviderCall(t *testing.T) {
	provider := &fakeProvider{}
	auth, _ := testAuth(provider)
	ctx := context.Background()

	require.ErrorIs(t, auth.SignIn(ctx, "not-an-email", "longenough"), common.ErrValidation)
	require.ErrorIs(t, auth.SignIn(ctx, "vet@clinic.example", "short"), common.ErrValidation)
	require.Zero(t, provider.signIns)
}

func TestSignOut_ClearsSessionAndBiometricOptIn(t *testing.T) {
	auth, creds := testAuth(&fakeProvider{})
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, "at"))
	require.NoError(t, creds.SetRefreshToken(ctx, "rt"))
	require.NoError(t, creds.SetBiometricEnabled(ctx, true))

	require.NoError(t, auth.SignOut(ctx))

	_, err := creds.GetToken(ctx)
	require.ErrorIs(t, err, common.ErrNoCredential)
	_, err = creds.GetRefreshToken(ctx)
	require.ErrorIs(t, err, common.ErrNoCredential)

	enabled, err := creds.BiometricEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)
}

func TestEnsureFresh_NoSession(t *testing.T) {
	auth, _ := testAuth(&fakeProvider{})
	require.ErrorIs(t, auth.EnsureFresh(context.Background()), common.ErrNoCredential)
}

func TestEnsureFresh_SkipsRefreshWhileTokenIsValid(t *testing.T) {
	provider := &fakeProvider{}
	auth, creds := testAuth(provider)
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, signedToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, auth.EnsureFresh(ctx))
	require.Zero(t, provider.refreshes)
}

func TestEnsureFresh_RefreshesExpiringToken(t *testing.T) {
	provider := &fakeProvider{tokens: &Tokens{AccessToken: "fresh", RefreshToken: "rt2"}}
	auth, creds := testAuth(provider)
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, signedToken(t, time.Now().Add(10*time.Second))))
	require.NoError(t, creds.SetRefreshToken(ctx, "rt"))

	require.NoError(t, auth.EnsureFresh(ctx))
	require.Equal(t, 1, provider.refreshes)

	token, err := creds.GetToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
}

func TestEnsureFresh_ExpiredTokenWithoutRefreshToken(t *testing.T) {
	auth, creds := testAuth(&fakeProvider{})
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, signedToken(t, time.Now().Add(-time.Hour))))
	require.ErrorIs(t, auth.EnsureFresh(ctx), common.ErrTokenExpired)
}

func TestEnsureFresh_MalformedTokenTriggersRefresh(t *testing.T) {
	provider := &fakeProvider{tokens: &Tokens{AccessToken: "fresh"}}
	auth, creds := testAuth(provider)
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, "garbage"))
	require.NoError(t, creds.SetRefreshToken(ctx, "rt"))

	require.NoError(t, auth.EnsureFresh(ctx))
	require.Equal(t, 1, provider.refreshes)
}

func TestEnsureFresh_ProviderFailureSurfaces(t *testing.T) {
	provider := &fakeProvider{err: errors.New("idp down")}
	auth, creds := testAuth(provider)
	ctx := context.Background()

	require.NoError(t, creds.SetToken(ctx, signedToken(t, time.Now().Add(-time.Minute))))
	require.NoError(t, creds.SetRefreshToken(ctx, "rt"))

	require.ErrorContains(t, auth.EnsureFresh(ctx), "idp down")
}
