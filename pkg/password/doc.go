// Package password hashes and verifies user credentials.
//
// Hashes are PBKDF2-HMAC-SHA512 with 100 000 iterations and a 64-byte output,
// computed over the password and a per-credential random salt (16 bytes,
// hex-encoded). Hashing is deterministic for a given salt so a stored hash
// can be recomputed at login; verification uses a constant-time comparison.
//
// # Usage
//
//	cred, err := password.New("s3cret")
//	// persist cred.Hash and cred.Salt
//
//	if password.Verify("s3cret", cred.Salt, cred.Hash) {
//	    // authenticated
//	}
package password
