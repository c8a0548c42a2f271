// Package cryptox wraps the AES-GCM and key-derivation primitives used by
// the encrypted keystore. Keys are derived with argon2id so a leaked
// keystore file cannot be brute-forced cheaply.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12

	// KeySize is the derived AES-256 key length in bytes.
	KeySize = 32

	// SaltSize is the argon2 salt length in bytes.
	SaltSize = 16
)

// DeriveKey derives a 32-byte AES key from a passphrase and salt using
// argon2id. The same (passphrase, salt) pair always yields the same key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under the given key. A fresh random
// nonce is generated per call and returned alongside the ciphertext.
//
// The key must be a valid AES key length (16, 24, or 32 bytes).
func Seal(plaintext []byte, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal. The key and nonce must match
// the ones used during encryption; any tampering fails authentication.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
