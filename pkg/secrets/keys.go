package secrets

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for the application key and derived sub-keys.
	KeySize = 32 // 256 bits for AES-256

	// HKDF info labels provide domain separation between the two sub-keys.
	encryptionInfo = "opsdesk-secrets-enc-v1"
	searchInfo     = "opsdesk-secrets-search-v1"
)

// KeyProvider supplies the application key.
type KeyProvider interface {
	Key(ctx context.Context) ([]byte, error)
}

// KeyProviderFunc adapts a function to KeyProvider.
type KeyProviderFunc func(ctx context.Context) ([]byte, error)

func (f KeyProviderFunc) Key(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// StaticKey returns a provider that always yields the given key.
func StaticKey(key []byte) KeyProvider {
	return KeyProviderFunc(func(context.Context) ([]byte, error) {
		if len(key) != KeySize {
			return nil, ErrInvalidKey
		}
		return key, nil
	})
}

// Config holds the base64-encoded application key.
type Config struct {
	EncryptionKey string `env:"ENCRYPTION_KEY,required"`
}

// KeyFromConfig decodes the key from configuration into a StaticKey provider.
func KeyFromConfig(cfg Config) (KeyProvider, error) {
	if cfg.EncryptionKey == "" {
		return nil, ErrKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	return StaticKey(key), nil
}

// deriveKey expands the application key into a sub-key bound to info.
// The caller is responsible for clearing the returned key when it is no longer needed.
func deriveKey(appKey []byte, info string) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, appKey, nil, []byte(info))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

// clearBytes zeros out a byte slice holding key material.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random 32-byte key suitable for encryption.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateEncodedKey returns a new key encoded for the ENCRYPTION_KEY variable.
func GenerateEncodedKey() (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
