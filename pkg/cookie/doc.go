// Package cookie sets and reads HMAC-signed HTTP cookies.
//
// Values are stored as base64(value) + "|" + base64(HMAC-SHA256(value)). Several
// secrets may be configured: the first one signs, all of them verify, so a
// secret can be rotated without logging every user out.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//	m.SetSigned(w, "opsdesk_session", payload, cookie.WithMaxAge(3600))
//	payload, err := m.GetSigned(r, "opsdesk_session")
//
// GetSigned returns ErrCookieNotFound when the cookie is absent, ErrInvalidFormat
// for malformed values and ErrInvalidSignature when no secret verifies it.
package cookie
