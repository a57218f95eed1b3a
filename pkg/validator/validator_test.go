package validator_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "Hammer"),
			validator.MaxLenString("name", "Hammer", 10),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", " "),
			validator.MinLenString("password", "abc", 6),
			validator.RequiredString("url", "https://example.com"),
		)
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 2)
		assert.True(t, errs.Has("name"))
		assert.True(t, errs.Has("password"))
		assert.False(t, errs.Has("url"))
		assert.Contains(t, err.Error(), "name: field is required")
	})

	t.Run("wrapped errors are detected", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("create: %w", validator.Fail("slug", "taken"))
		assert.True(t, validator.IsValidationError(err))
		assert.Equal(t, map[string][]string{"slug": {"taken"}}, validator.ExtractValidationErrors(err).Fields())
		assert.False(t, validator.IsValidationError(errors.New("plain")))
	})
}

func TestStringRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rule validator.Rule
		want bool
	}{
		{"required ok", validator.RequiredString("f", "x"), true},
		{"required empty", validator.RequiredString("f", ""), false},
		{"min len counts runes", validator.MinLenString("f", "żółw", 4), true},
		{"min len short", validator.MinLenString("f", "abc", 4), false},
		{"max len ok", validator.MaxLenString("f", "abc", 3), true},
		{"max len long", validator.MaxLenString("f", "abcd", 3), false},
		{"between ok", validator.LenBetween("f", "alice", 3, 64), true},
		{"between short", validator.LenBetween("f", "al", 3, 64), false},
		{"between long", validator.LenBetween("f", strings.Repeat("a", 65), 3, 64), false},
		{"no control ok", validator.NoControlChars("f", "plain text"), true},
		{"no control newline", validator.NoControlChars("f", "a\nb"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.Check())
		})
	}
}

func TestFormatRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rule validator.Rule
		want bool
	}{
		{"numeric", validator.ValidNumericString("code", "00123"), true},
		{"numeric empty", validator.ValidNumericString("code", ""), false},
		{"numeric sign", validator.ValidNumericString("code", "-1"), false},
		{"otp", validator.ValidOTP("code", "123456", 6), true},
		{"otp short", validator.ValidOTP("code", "12345", 6), false},
		{"otp letters", validator.ValidOTP("code", "12345a", 6), false},
		{"https url", validator.ValidURLWithScheme("url", "https://example.com/a", "http", "https"), true},
		{"upper scheme", validator.ValidURLWithScheme("url", "HTTP://example.com", "http", "https"), true},
		{"ftp url", validator.ValidURLWithScheme("url", "ftp://example.com", "http", "https"), false},
		{"relative url", validator.ValidURLWithScheme("url", "/path", "http", "https"), false},
		{"javascript url", validator.ValidURLWithScheme("url", "javascript:alert(1)", "http", "https"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.Check())
		})
	}
}

func TestGenericRules(t *testing.T) {
	t.Parallel()
	assert.True(t, validator.InList("kind", "url", []string{"url", "modal"}).Check())
	assert.False(t, validator.InList("kind", "popup", []string{"url", "modal"}).Check())

	assert.True(t, validator.MinNum("qty", 0, 0).Check())
	assert.False(t, validator.MinNum("qty", -1, 0).Check())
	assert.True(t, validator.MaxNum("price", 9.99, 10.0).Check())
	assert.False(t, validator.MaxNum("price", 10.01, 10.0).Check())

	assert.True(t, validator.MaxLenSlice("tags", []string{"a", "b"}, 2).Check())
	assert.False(t, validator.MaxLenSlice("tags", []string{"a", "b", "c"}, 2).Check())

	notEmpty := func(s string) bool { return strings.TrimSpace(s) != "" }
	assert.True(t, validator.Each("tags", []string{"a", "b"}, notEmpty).Check())
	assert.False(t, validator.Each("tags", []string{"a", " "}, notEmpty).Check())
}
