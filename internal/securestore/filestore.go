package securestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/cryptox"
)

// FileKeystore stores values as a single AES-GCM encrypted JSON document on
// disk. The encryption key is derived from a passphrase with argon2id; the
// salt and nonce are stored as a plaintext prefix of the file.
//
// File layout: salt (16 bytes) | nonce (12 bytes) | ciphertext.
type FileKeystore struct {
	mu   sync.Mutex
	path string
	key  []byte
	salt []byte
}

// OpenFileKeystore opens (or initializes) the keystore at path. An existing
// file is decrypted eagerly so a wrong passphrase fails here, not on first
// read.
func OpenFileKeystore(path string, passphrase []byte) (*FileKeystore, error) {
	ks := &FileKeystore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		ks.salt = common.GenerateRandByteArray(cryptox.SaltSize)
		ks.key = cryptox.DeriveKey(passphrase, ks.salt)
		if err := ks.save(map[string]string{}); err != nil {
			return nil, err
		}
		return ks, nil
	case err != nil:
		return nil, fmt.Errorf("reading keystore: %w", err)
	}

	if len(data) < cryptox.SaltSize+cryptox.NonceSize {
		return nil, errors.New("keystore file is corrupt")
	}
	ks.salt = data[:cryptox.SaltSize]
	ks.key = cryptox.DeriveKey(passphrase, ks.salt)

	if _, err := ks.load(); err != nil {
		return nil, err
	}
	return ks, nil
}

func (ks *FileKeystore) load() (map[string]string, error) {
	data, err := os.ReadFile(ks.path)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	if len(data) < cryptox.SaltSize+cryptox.NonceSize {
		return nil, errors.New("keystore file is corrupt")
	}

	nonce := data[cryptox.SaltSize : cryptox.SaltSize+cryptox.NonceSize]
	ciphertext := data[cryptox.SaltSize+cryptox.NonceSize:]

	plaintext, err := cryptox.Open(ciphertext, nonce, ks.key)
	if err != nil {
		return nil, fmt.Errorf("decrypting keystore: %w", err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, fmt.Errorf("decoding keystore: %w", err)
	}
	return values, nil
}

func (ks *FileKeystore) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding keystore: %w", err)
	}

	ciphertext, nonce, err := cryptox.Seal(plaintext, ks.key)
	if err != nil {
		return fmt.Errorf("encrypting keystore: %w", err)
	}

	out := make([]byte, 0, len(ks.salt)+len(nonce)+len(ciphertext))
	out = append(out, ks.salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	// Write-then-rename so a crash mid-write never leaves a truncated
	// store. The temp name carries a random suffix so two processes on the
	// same store cannot clobber each other's half-written file.
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	tmp := ks.path + ".tmp." + suffix
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	if err := os.Rename(tmp, ks.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing keystore: %w", err)
	}
	return nil
}

func (ks *FileKeystore) Get(_ context.Context, key string) (string, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	values, err := ks.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", common.ErrNoCredential
	}
	return v, nil
}

func (ks *FileKeystore) Set(_ context.Context, key string, value string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	values, err := ks.load()
	if err != nil {
		return err
	}
	values[key] = value
	return ks.save(values)
}

func (ks *FileKeystore) Delete(_ context.Context, key string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	values, err := ks.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return ks.save(values)
}

// DefaultKeystorePath returns the conventional keystore location inside dir.
func DefaultKeystorePath(dir string) string {
	return filepath.Join(dir, "keystore.bin")
}
