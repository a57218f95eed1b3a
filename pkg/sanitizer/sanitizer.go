package sanitizer

import (
	"strings"
	"unicode"
)

// Apply runs value through transforms in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, transform := range transforms {
		value = transform(value)
	}
	return value
}

// Compose returns a pipeline that applies transforms in order.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToUpper converts s to upper case.
func ToUpper(s string) string {
	return strings.ToUpper(s)
}

// StripControl drops control characters but keeps newlines and tabs.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// EachString applies transform to every element and returns a new slice.
// A nil input stays nil.
func EachString(transform func(string) string) func([]string) []string {
	return func(values []string) []string {
		if values == nil {
			return nil
		}
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = transform(v)
		}
		return out
	}
}

var (
	// Token normalises case-insensitive tokens such as HTTP methods.
	Token = Compose(Trim, ToUpper)

	// Text normalises multi-line text such as descriptions.
	Text = Compose(StripControl, Trim)

	// Strings trims every element of a list. Empty elements are kept so the
	// validator can report them.
	Strings = EachString(Compose(StripControl, Trim))
)
