// Package slug turns display labels into URL-safe identifiers.
//
//	slug.Make("Café Menu!")   // "cafe-menu"
//	slug.Indexed("Report", 3) // "report-3"
//
// Accents are removed through Unicode decomposition; letters without a
// decomposition (ł, ø, ß, æ, œ, đ) are transliterated. Every other
// non-alphanumeric run collapses into a single separator.
package slug
