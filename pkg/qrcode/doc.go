// Package qrcode renders QR codes as PNG images or data URIs.
//
// It wraps github.com/skip2/go-qrcode and is used to turn otpauth:// enrollment
// URIs into images an authenticator app can scan. The data-URI form can be
// returned in JSON and dropped straight into an <img src>.
//
//	uri, err := qrcode.DataURI(otpauthURI, 0) // default 256px
package qrcode
