// Package tools is the registry of tools addressed by a unique slug.
//
// Slugs are derived from the label and never change. Creation inserts the
// plain slug first and, when the unique index rejects it, retries with
// "-2", "-3" and so on. There is no separate existence check, so concurrent
// creators with the same label end up with distinct slugs.
package tools
