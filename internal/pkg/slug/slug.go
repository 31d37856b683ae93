// Package slug builds URL-safe identifiers for content records.
package slug

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen bounds the length of a slug, suffix included.
const MaxLen = 160

const placeholderPrefix = "item-"

// NewUUID returns a random (v4) UUID string.
func NewUUID() string {
	return uuid.New().String()
}

// Make lower-cases text, strips diacritics and joins every run of characters
// outside [a-z0-9] into a single hyphen. Input that yields nothing usable is
// mapped to a deterministic placeholder, so Make never returns "".
func Make(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := cut(b.String(), MaxLen)
	if out == "" {
		return Placeholder(text)
	}
	return out
}

// Placeholder is the stable fallback slug for text without any letters or digits.
func Placeholder(text string) string {
	sum := sha1.Sum([]byte(text))
	return placeholderPrefix + hex.EncodeToString(sum[:])[:8]
}

// WithSuffix returns base-n, shortening base so the result stays within MaxLen.
// n below 2 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n < 2 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	room := MaxLen - len(suffix)
	if room < 1 {
		room = 1
	}
	trimmed := cut(base, room)
	if trimmed == "" {
		trimmed = "x"
	}
	return trimmed + suffix
}

func cut(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.Trim(s, "-")
}
