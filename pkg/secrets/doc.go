// Package secrets provides searchable encryption for sensitive document fields.
//
// A single application key is supplied through a KeyProvider. Two independent
// 32-byte sub-keys are derived from it with HKDF-SHA-256: one for AES-256-GCM
// encryption and one for HMAC-SHA-256 search hashes. Keeping the sub-keys
// separate means a search hash never reveals anything about the encryption key
// and vice versa.
//
// # Architecture
//
//  1. Key provisioning – a KeyProvider returns the 32-byte application key.
//     StaticKey wraps a key loaded from configuration; tests can supply a fixed key.
//  2. Key derivation – HKDF(SHA-256) with distinct info labels yields the
//     encryption and search sub-keys. Derivation happens once per Cipher.
//  3. Encryption – AES-GCM with a fresh random nonce for every call; the nonce
//     is prepended and the result base64-encoded. Encrypting the same value twice
//     yields different ciphertexts.
//  4. Search hashes – HMAC over the normalised plaintext (trimmed, lower-cased),
//     hex-encoded. Same input always produces the same digest, so documents can
//     be queried by equality without decrypting every row.
//
// # Usage
//
//	key, _ := secrets.GenerateKey()
//	c, err := secrets.NewCipher(ctx, secrets.StaticKey(key))
//	if err != nil {
//	    // handle error
//	}
//
//	field, err := c.Seal("alice")       // {Encrypted, SearchHash}
//	filter := bson.M{"username.search_hash": c.HashForSearch("Alice")}
//	plain, err := c.Open(field)         // "alice"
//
// Numeric and slice values are serialised to JSON before encryption and decoded
// back to their original type with DecryptInt and DecryptStrings.
//
// # Error Handling
//
// Decryption failures wrap ErrDecryptionFailed or ErrInvalidCiphertext. Callers
// treat them as "value absent" and must never surface them to clients.
//
// Losing the application key makes every encrypted value permanently
// unrecoverable. Key lifecycle is the operator's responsibility.
package secrets
