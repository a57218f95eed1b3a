// Package fingerprint derives a device fingerprint from an HTTP request.
//
// The fingerprint is a 32-character hex string built from a SHA-256 hash of
// the User-Agent and Accept-Language headers, optionally combined with the
// client IP. Headers that differ between page navigations and fetch calls
// from the same browser, such as Accept, are left out so a fingerprint stays
// stable for the lifetime of a session.
//
//	fp := fingerprint.New(fingerprint.WithClientIP(clientip.New()))
//	sessions := session.New(cookies, session.WithDeviceBinding(fp))
package fingerprint
