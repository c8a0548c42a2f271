package signing

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/stretchr/testify/require"
)

func fixedSigner(at time.Time) *Signer {
	s := New()
	s.now = func() time.Time { return at }
	return s
}

func TestHeaders_GETIsExempt(t *testing.T) {
	s := New()
	h := s.Headers(context.Background(), http.MethodGet, "/api/recordings", nil)
	require.Empty(t, h)
}

func TestHeaders_PresentForMutations(t *testing.T) {
	s := New()
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		h := s.Headers(context.Background(), method, "/api/recordings", []byte(`{}`))
		require.Contains(t, h, common.TimestampHeaderName, method)
		require.Contains(t, h, common.SignatureHeaderName, method)
		require.Len(t, h[common.SignatureHeaderName], 64, "hex sha256 digest")
	}
}

func TestHeaders_TimestampIsMilliseconds(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	s := fixedSigner(at)

	h := s.Headers(context.Background(), http.MethodPost, "/p", nil)
	require.Equal(t, strconv.FormatInt(at.UnixMilli(), 10), h[common.TimestampHeaderName])
}

func TestHeaders_DeterministicForIdenticalInputs(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	h1 := fixedSigner(at).Headers(context.Background(), http.MethodPost, "/api/recordings", []byte(`{"a":1}`))
	h2 := fixedSigner(at).Headers(context.Background(), http.MethodPost, "/api/recordings", []byte(`{"a":1}`))
	require.Equal(t, h1, h2)
}

func TestHeaders_DifferentBodiesDiffer(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	h1 := fixedSigner(at).Headers(context.Background(), http.MethodPost, "/api/recordings", []byte(`{"a":1}`))
	h2 := fixedSigner(at).Headers(context.Background(), http.MethodPost, "/api/recordings", []byte(`{"a":2}`))
	require.NotEqual(t, h1[common.SignatureHeaderName], h2[common.SignatureHeaderName])
}

func TestHeaders_KeySourceUnavailableDegradesToNoHeaders(t *testing.T) {
	s := NewWithKeySource(func(ctx context.Context) (string, error) {
		return "", errors.New("keystore locked")
	})

	h := s.Headers(context.Background(), http.MethodPost, "/p", []byte(`{}`))
	require.Empty(t, h)
}

func TestHeaders_KeySourceChangesSignature(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	def := fixedSigner(at)

	keyed := NewWithKeySource(func(ctx context.Context) (string, error) { return "session-token", nil })
	keyed.now = func() time.Time { return at }

	h1 := def.Headers(context.Background(), http.MethodPost, "/p", []byte(`{}`))
	h2 := keyed.Headers(context.Background(), http.MethodPost, "/p", []byte(`{}`))
	require.NotEqual(t, h1[common.SignatureHeaderName], h2[common.SignatureHeaderName])
}
