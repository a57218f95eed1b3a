package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength bounds slugs produced without a MaxLength option.
const DefaultMaxLength = 64

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength     int
	separator     string
	customReplace map[string]string
}

// MaxLength sets the maximum length in runes. Zero disables the limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator sets the separator. Default is "-".
func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// CustomReplace applies replacements before slugification,
// for example {"&": "and"}.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) {
		c.customReplace = replacements
	}
}

var transliterations = map[rune]string{
	'ł': "l", 'ø': "o", 'ß': "ss", 'æ': "ae", 'œ': "oe", 'đ': "d", 'ð': "d", 'þ': "th",
}

func newConfig(opts []Option) *config {
	cfg := &config{maxLength: DefaultMaxLength, separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Make creates a lower-case slug from s. The result is empty when s
// contains no letters or digits.
func Make(s string, opts ...Option) string {
	cfg := newConfig(opts)
	return truncate(build(s, cfg), cfg.maxLength, cfg.separator)
}

// Indexed returns the n-th candidate slug for s: Make(s) for n <= 1 and
// Make(s) with "-n" appended otherwise. The base is shortened so the whole
// candidate respects MaxLength.
func Indexed(s string, n int, opts ...Option) string {
	cfg := newConfig(opts)
	base := build(s, cfg)
	if n <= 1 || base == "" {
		return truncate(base, cfg.maxLength, cfg.separator)
	}

	suffix := cfg.separator + strconv.Itoa(n)
	limit := 0
	if cfg.maxLength > 0 {
		limit = max(cfg.maxLength-len(suffix), 1)
	}
	return truncate(base, limit, cfg.separator) + suffix
}

func build(s string, cfg *config) string {
	for old, replacement := range cfg.customReplace {
		s = strings.ReplaceAll(s, old, replacement)
	}

	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	lastWasSep := true

	for _, r := range strings.ToLower(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastWasSep = false
		case transliterations[r] != "":
			b.WriteString(transliterations[r])
			lastWasSep = false
		case !lastWasSep:
			b.WriteString(cfg.separator)
			lastWasSep = true
		}
	}

	return strings.TrimSuffix(b.String(), cfg.separator)
}

func truncate(s string, limit int, sep string) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// Slugs are ASCII at this point, so byte length equals rune count.
	return strings.TrimSuffix(s[:limit], sep)
}
