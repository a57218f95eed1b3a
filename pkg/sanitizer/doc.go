// Package sanitizer normalises free-form user input before it is validated
// and stored.
//
// Transforms are plain functions that can be chained with Apply or stored as
// reusable pipelines with Compose:
//
//	clean := sanitizer.Compose(sanitizer.StripControl, sanitizer.Trim)
//	description := clean(req.Description)
//
// Names are only trimmed, so control characters in them still reach the
// validator and are rejected.
package sanitizer
