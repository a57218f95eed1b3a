package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Field is the stored form of a sensitive value: ciphertext for display
// plus a deterministic digest for equality lookups.
type Field struct {
	Encrypted  string `bson:"encrypted" json:"-"`
	SearchHash string `bson:"search_hash" json:"-"`
}

// IsZero reports whether the field holds no value.
func (f Field) IsZero() bool {
	return f.Encrypted == "" && f.SearchHash == ""
}

// Cipher encrypts, decrypts and hashes field values.
// Safe for concurrent use.
type Cipher struct {
	aead      cipher.AEAD
	searchKey []byte
}

// NewCipher resolves the application key and derives the encryption and search sub-keys.
func NewCipher(ctx context.Context, provider KeyProvider) (*Cipher, error) {
	if provider == nil {
		return nil, ErrKeyNotSet
	}

	appKey, err := provider.Key(ctx)
	if err != nil {
		return nil, err
	}
	if len(appKey) != KeySize {
		return nil, ErrInvalidKey
	}

	encKey, err := deriveKey(appKey, encryptionInfo)
	if err != nil {
		return nil, err
	}
	defer clearBytes(encKey)

	searchKey, err := deriveKey(appKey, searchInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return &Cipher{aead: aesGCM, searchKey: searchKey}, nil
}

// EncryptBytes encrypts raw bytes.
// Returns ciphertext in format: nonce + encrypted data + tag
func (c *Cipher) EncryptBytes(data []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return c.aead.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes decrypts ciphertext produced by EncryptBytes.
func (c *Cipher) DecryptBytes(ciphertext []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) < nonceSize+c.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// EncryptString encrypts a string and returns base64-encoded ciphertext.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	ciphertext, err := c.EncryptBytes([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded ciphertext back to string.
func (c *Cipher) DecryptString(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}

	plaintext, err := c.DecryptBytes(raw)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// Normalize prepares a plaintext for search hashing: surrounding whitespace
// is trimmed, the text is brought to Unicode NFKC form and case-folded.
func Normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// HashForSearch returns the keyed, deterministic digest of the normalised plaintext.
func (c *Cipher) HashForSearch(plaintext string) string {
	mac := hmac.New(sha256.New, c.searchKey)
	mac.Write([]byte(Normalize(plaintext)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Seal encrypts plaintext and computes its search hash.
func (c *Cipher) Seal(plaintext string) (Field, error) {
	encrypted, err := c.EncryptString(plaintext)
	if err != nil {
		return Field{}, err
	}
	return Field{Encrypted: encrypted, SearchHash: c.HashForSearch(plaintext)}, nil
}

// Open decrypts the field's ciphertext.
func (c *Cipher) Open(f Field) (string, error) {
	return c.DecryptString(f.Encrypted)
}

// EncryptValue serialises v to JSON and encrypts it.
func (c *Cipher) EncryptValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	ciphertext, err := c.EncryptBytes(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts ciphertext produced by EncryptValue into dest.
func (c *Cipher) DecryptValue(ciphertext string, dest any) error {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return errors.Join(ErrInvalidCiphertext, err)
	}

	data, err := c.DecryptBytes(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Join(ErrInvalidCiphertext, err)
	}
	return nil
}

// EncryptInt encrypts a number.
func (c *Cipher) EncryptInt(n int64) (string, error) {
	return c.EncryptValue(n)
}

// DecryptInt decrypts a number encrypted with EncryptInt.
func (c *Cipher) DecryptInt(ciphertext string) (int64, error) {
	var n int64
	if err := c.DecryptValue(ciphertext, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// EncryptStrings encrypts a string slice as a single ciphertext.
func (c *Cipher) EncryptStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	return c.EncryptValue(values)
}

// DecryptStrings decrypts a slice encrypted with EncryptStrings.
func (c *Cipher) DecryptStrings(ciphertext string) ([]string, error) {
	var values []string
	if err := c.DecryptValue(ciphertext, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// IsDecryptionError reports whether err means the stored value is unreadable.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptionFailed) || errors.Is(err, ErrInvalidCiphertext)
}
