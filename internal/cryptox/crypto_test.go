package cryptox

import (
	"testing"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	plaintext := []byte(`{"access_token":"abc"}`)

	ciphertext, nonce, err := Seal(plaintext, key)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)
	require.Len(t, nonce, NonceSize)

	out, err := Open(ciphertext, nonce, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, out)
}

func TestOpen_TamperedCiphertextFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	ciphertext, nonce, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	ciphertext[0] ^= 0xff
	_, err = Open(ciphertext, nonce, key)
	require.Error(t, err)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	other := common.GenerateRandByteArray(KeySize)

	ciphertext, nonce, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	_, err = Open(ciphertext, nonce, other)
	require.Error(t, err)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := common.GenerateRandByteArray(SaltSize)

	k1 := DeriveKey([]byte("passphrase"), salt)
	k2 := DeriveKey([]byte("passphrase"), salt)
	require.Equal(t, k1, k2)
	require.Len(t, k1, KeySize)

	k3 := DeriveKey([]byte("different"), salt)
	require.NotEqual(t, k1, k3)
}

func TestSeal_InvalidKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
