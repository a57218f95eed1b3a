// Package account manages users: signup, password login, the TOTP second
// factor and admin user management.
//
// Usernames are stored as secrets.Field pairs. Lookups go through the
// search hash and the plaintext is only recovered for display. Passwords use
// the PBKDF2 scheme of pkg/password. TOTP secrets are encrypted with the same
// cipher as the username.
//
// TOTP moves through three states:
//
//	unset -> pending   SetupTOTP stores a fresh secret
//	pending -> enabled EnableTOTP with a valid code
//	enabled -> unset   DisableTOTP discards the secret
//
// At most one super-root exists. The Mongo storage enforces it with a partial
// unique index and the service checks before writing.
package account
