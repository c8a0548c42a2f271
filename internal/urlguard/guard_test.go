package urlguard

import (
	"testing"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/stretchr/testify/require"
)

func newEnforcingGuard() *Guard {
	return New(PolicyEnforce, "https://api.vetsoap.example", "https://auth.vetsoap.example")
}

func TestValidateRequestURL_TrustedHost(t *testing.T) {
	g := newEnforcingGuard()

	require.NoError(t, g.ValidateRequestURL("https://api.vetsoap.example/api/recordings"))
	require.NoError(t, g.ValidateRequestURL("https://auth.vetsoap.example/auth/v1/token"))
}

func TestValidateRequestURL_SubdomainOfTrustedHost(t *testing.T) {
	g := newEnforcingGuard()

	require.NoError(t, g.ValidateRequestURL("https://cdn.api.vetsoap.example/file"))
}

func TestValidateRequestURL_UntrustedHost(t *testing.T) {
	g := newEnforcingGuard()

	err := g.ValidateRequestURL("https://evil.example.com/api/recordings")
	require.ErrorIs(t, err, common.ErrUntrustedURL)
}

func TestValidateRequestURL_HTTPRejectedEvenForTrustedHost(t *testing.T) {
	g := newEnforcingGuard()

	err := g.ValidateRequestURL("http://api.vetsoap.example/api/recordings")
	require.ErrorIs(t, err, common.ErrInsecureURL)
}

func TestValidateRequestURL_InvalidURL(t *testing.T) {
	g := newEnforcingGuard()

	require.ErrorIs(t, g.ValidateRequestURL("::not a url::"), common.ErrInvalidURL)
	require.ErrorIs(t, g.ValidateRequestURL(""), common.ErrInvalidURL)
}

func TestValidateRequestURL_StorageHostAllowed(t *testing.T) {
	g := newEnforcingGuard()

	require.NoError(t, g.ValidateRequestURL("https://bucket.r2.cloudflarestorage.com/key"))
}

func TestValidateRequestURL_PermissivePolicySkipsChecks(t *testing.T) {
	g := New(PolicyPermissive, "http://localhost:3000", "")

	require.NoError(t, g.ValidateRequestURL("http://localhost:3000/api/recordings"))
	require.NoError(t, g.ValidateRequestURL("http://anything.example"))
}

func TestValidateUploadURL_SignatureParams(t *testing.T) {
	g := newEnforcingGuard()

	require.NoError(t, g.ValidateUploadURL("https://any.host.example/key?X-Amz-Signature=abc"))
	require.NoError(t, g.ValidateUploadURL("https://any.host.example/key?sig=abc"))
	require.NoError(t, g.ValidateUploadURL("https://any.host.example/key?token=abc"))
}

func TestValidateUploadURL_KnownStorageHostWithoutSignature(t *testing.T) {
	g := newEnforcingGuard()

	require.NoError(t, g.ValidateUploadURL("https://bucket.s3.amazonaws.com/key"))
	require.NoError(t, g.ValidateUploadURL("https://pub.r2.dev/key"))
}

func TestValidateUploadURL_UnknownHostWithoutSignature(t *testing.T) {
	g := newEnforcingGuard()

	require.ErrorIs(t, g.ValidateUploadURL("https://any.host.example/key"), common.ErrUntrustedURL)
}

func TestValidateUploadURL_HTTPRejected(t *testing.T) {
	g := newEnforcingGuard()

	err := g.ValidateUploadURL("http://bucket.s3.amazonaws.com/key?X-Amz-Signature=abc")
	require.ErrorIs(t, err, common.ErrInsecureURL)
}
