package secrets

import "errors"

var (
	// Key errors
	ErrInvalidKey          = errors.New("invalid key: must be 32 bytes")
	ErrKeyNotSet           = errors.New("encryption key not set")
	ErrKeyDerivationFailed = errors.New("key derivation failed")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
)
