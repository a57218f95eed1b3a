package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Iterations = 100_000
	KeyLength  = 64
	SaltLength = 16
)

// Credential is the stored form of a password.
type Credential struct {
	Hash string `bson:"hash"`
	Salt string `bson:"salt"`
}

// IsZero reports whether no password has been set.
func (c Credential) IsZero() bool {
	return c.Hash == "" || c.Salt == ""
}

// GenerateSalt returns a fresh random salt, hex-encoded.
func GenerateSalt() (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Join(ErrFailedToGenerateSalt, err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash derives the hex-encoded PBKDF2 hash of password with salt.
func Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), Iterations, KeyLength, sha512.New)
	return hex.EncodeToString(key)
}

// Verify recomputes the hash and compares it in constant time.
func Verify(password, salt, expectedHash string) bool {
	if salt == "" || expectedHash == "" {
		return false
	}
	actual := Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}

// New creates a credential with a fresh salt.
func New(password string) (Credential, error) {
	if password == "" {
		return Credential{}, ErrEmptyPassword
	}
	salt, err := GenerateSalt()
	if err != nil {
		return Credential{}, err
	}
	return Credential{Hash: Hash(password, salt), Salt: salt}, nil
}

// Matches verifies password against the credential.
func (c Credential) Matches(password string) bool {
	return Verify(password, c.Salt, c.Hash)
}
