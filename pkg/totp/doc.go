// Package totp implements time-based one-time passwords (RFC 6238) for the
// second authentication factor.
//
// It covers secret generation, otpauth:// enrollment URIs understood by
// authenticator apps, and code verification. Codes are six digits over
// 30-second steps using HMAC-SHA1. Verification accepts the current step and
// one step on either side to absorb clock skew between server and device.
//
// Malformed codes and secrets are reported as errors, never panics:
//
//	ok, err := totp.ValidateTOTP(secret, "123456")
//	if err != nil || !ok {
//	    // reject
//	}
//
// The package has no third-party TOTP dependency; HOTP (RFC 4226) is computed
// directly with crypto/hmac.
package totp
