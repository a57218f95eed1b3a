package validator

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RequiredString fails for empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MinLenString counts characters, not bytes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters long", min)},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// LenBetween checks min <= characters <= max.
func LenBetween(field, value string, min, max int) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			return n >= min && n <= max
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be %d-%d characters long", min, max)},
	}
}

// NoControlChars rejects control characters such as newlines and NUL.
func NoControlChars(field, value string) Rule {
	return Rule{
		Check: func() bool { return !strings.ContainsFunc(value, unicode.IsControl) },
		Error: ValidationError{Field: field, Message: "must not contain control characters"},
	}
}

// ValidNumericString accepts a non-empty string of ASCII digits.
func ValidNumericString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return false
			}
			for i := 0; i < len(value); i++ {
				if value[i] < '0' || value[i] > '9' {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must contain only digits"},
	}
}

// ValidOTP accepts exactly length ASCII digits.
func ValidOTP(field, value string, length int) Rule {
	numeric := ValidNumericString(field, value)
	return Rule{
		Check: func() bool { return length > 0 && len(value) == length && numeric.Check() },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be a %d-digit code", length)},
	}
}

// ValidURLWithScheme accepts absolute URLs with a host and one of schemes.
func ValidURLWithScheme(field, value string, schemes ...string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(strings.TrimSpace(value))
			if err != nil || u.Host == "" {
				return false
			}
			return slices.Contains(schemes, strings.ToLower(u.Scheme))
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", "))},
	}
}

func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be one of: %v", allowed)},
	}
}

func MinNum[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

func MaxNum[T Numeric](field string, value, max T) Rule {
	return Rule{
		Check: func() bool { return value <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %v", max)},
	}
}

func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must contain at most %d items", max)},
	}
}

// Each fails when check rejects any element of values.
func Each[T any](field string, values []T, check func(T) bool) Rule {
	return Rule{
		Check: func() bool {
			for _, v := range values {
				if !check(v) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "contains an invalid item"},
	}
}
