// Package nodes turns natural-language terms into canonical concept
// identifiers of the form /c/<lang>/<text>[/<pos>].
//
// Normalization is a pure function of (language, surface text): it performs
// no I/O, keeps no state between calls, and is total for valid, non-empty
// UTF-8 input.
package nodes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizationError is returned when a surface string cannot be turned into
// an identifier at all.
type NormalizationError struct {
	Surface string
	Reason  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %q: %s", e.Surface, e.Reason)
}

// Normalize returns the canonical identifier for surface in the given
// language.
func Normalize(lang, surface string) (ID, error) {
	return NormalizeSense(lang, surface, "")
}

// NormalizeSense is Normalize with an optional part-of-speech suffix. POS
// values that NormalizePOS does not recognize are ignored.
func NormalizeSense(lang, surface, pos string) (ID, error) {
	if !utf8.ValidString(surface) {
		return ID{}, &NormalizationError{Surface: surface, Reason: "invalid utf-8"}
	}
	trimmed := strings.TrimSpace(surface)
	if trimmed == "" {
		return ID{}, &NormalizationError{Surface: surface, Reason: "empty"}
	}

	tag := CanonicalLanguage(lang)
	slug := Slug(tag, trimmed)

	var b strings.Builder
	b.Grow(len(conceptPrefix) + len(tag) + len(slug) + 3)
	b.WriteString(conceptPrefix)
	b.WriteString(tag)
	b.WriteByte('/')
	b.WriteString(slug)
	if p := NormalizePOS(pos); p != "" {
		b.WriteByte('/')
		b.WriteString(p)
	}
	return ID{uri: b.String()}, nil
}

// MustNormalize panics on error. Intended for tests and static tables.
func MustNormalize(lang, surface string) ID {
	id, err := Normalize(lang, surface)
	if err != nil {
		panic(err)
	}
	return id
}

// Slug returns the text segment of an identifier for surface, which must
// already be valid UTF-8. lang must be a canonical tag.
func Slug(lang, surface string) string {
	folded := cases.Lower(language.Make(lang)).String(norm.NFKC.String(surface))

	if s := joinWords(folded); s != "" {
		return s
	}

	// Nothing but punctuation: keep it rather than fail.
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '_'
	})
	if len(parts) == 0 {
		return "_"
	}
	return strings.Join(parts, "_")
}

// joinWords splits s into words at whitespace, underscores, punctuation and
// symbols, and joins the words with underscores. Hyphens, apostrophes and
// periods survive only between two word characters; a run of '+' survives at
// the end of a word, as in "c++".
func joinWords(s string) string {
	runes := []rune(s)

	var (
		words   []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	suffix := false
	for i, r := range runes {
		switch {
		case isWordRune(r):
			if suffix {
				flush()
				suffix = false
			}
			current.WriteRune(r)
		case isJoiner(r) && i > 0 && i+1 < len(runes) && isWordRune(runes[i-1]) && isWordRune(runes[i+1]):
			current.WriteRune(r)
		case isSuffix(r) && current.Len() > 0 && trailingSuffix(runes[i:]):
			current.WriteRune(r)
			suffix = true
		default:
			flush()
			suffix = false
		}
	}
	flush()

	return strings.Join(words, "_")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

func isJoiner(r rune) bool {
	return r == '-' || r == '\'' || r == '.'
}

func isSuffix(r rune) bool {
	return r == '+'
}

// trailingSuffix reports whether rest starts with a run of suffix runes that
// is not followed by a word character.
func trailingSuffix(rest []rune) bool {
	for _, r := range rest {
		if !isSuffix(r) {
			return !isWordRune(r)
		}
	}
	return true
}

// NormalizePOS maps part-of-speech labels from the dictionary sources onto
// the single-letter suffixes used in identifiers. Unknown labels map to "".
func NormalizePOS(pos string) string {
	switch strings.ToLower(strings.TrimSpace(pos)) {
	case "n", "noun", "proper noun", "propn":
		return "n"
	case "v", "verb":
		return "v"
	case "a", "s", "adj", "adjective", "adjective satellite":
		return "a"
	case "r", "adv", "adverb":
		return "r"
	}
	return ""
}
