package nodes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	conceptPrefix = "/c/"

	// ExternalBase is prepended to identifiers when they are written as
	// Semantic Web IRIs.
	ExternalBase = "http://conceptnet.io"
)

// ID is a canonical concept identifier. The zero value is not a valid
// identifier; values are only produced by Normalize, NormalizeSense and Parse.
type ID struct {
	uri string
}

// String returns the identifier, e.g. "/c/en/network_effect".
func (id ID) String() string { return id.uri }

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id.uri == "" }

func (id ID) segments() []string {
	if id.uri == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(id.uri, conceptPrefix), "/")
}

// Language returns the language segment.
func (id ID) Language() string {
	if s := id.segments(); len(s) > 0 {
		return s[0]
	}
	return ""
}

// Text returns the text segment with word separators turned back into spaces.
func (id ID) Text() string {
	if s := id.segments(); len(s) > 1 {
		return strings.ReplaceAll(s[1], "_", " ")
	}
	return ""
}

// POS returns the part-of-speech suffix, or "".
func (id ID) POS() string {
	if s := id.segments(); len(s) > 2 {
		return s[2]
	}
	return ""
}

// WithoutPOS returns id with any part-of-speech suffix removed.
func (id ID) WithoutPOS() ID {
	s := id.segments()
	if len(s) <= 2 {
		return id
	}
	return ID{uri: conceptPrefix + s[0] + "/" + s[1]}
}

// Parse validates a string that is already in canonical form, such as one
// read back from an edge file.
func Parse(s string) (ID, error) {
	if !utf8.ValidString(s) || !strings.HasPrefix(s, conceptPrefix) {
		return ID{}, fmt.Errorf("not a concept identifier: %q", s)
	}
	parts := strings.Split(strings.TrimPrefix(s, conceptPrefix), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return ID{}, fmt.Errorf("not a concept identifier: %q", s)
	}
	if parts[0] == "" || CanonicalLanguage(parts[0]) != parts[0] {
		return ID{}, fmt.Errorf("identifier %q: bad language %q", s, parts[0])
	}
	if parts[1] == "" || strings.IndexFunc(parts[1], unicode.IsSpace) >= 0 {
		return ID{}, fmt.Errorf("identifier %q: bad text segment", s)
	}
	if len(parts) == 3 && NormalizePOS(parts[2]) != parts[2] {
		return ID{}, fmt.Errorf("identifier %q: bad part of speech %q", s, parts[2])
	}
	return ID{uri: s}, nil
}

// ExternalURL returns id as an absolute IRI.
func ExternalURL(id ID) string {
	return ExternalBase + id.uri
}

// FromExternalURL is the inverse of ExternalURL.
func FromExternalURL(url string) (ID, error) {
	if !strings.HasPrefix(url, ExternalBase+conceptPrefix) {
		return ID{}, fmt.Errorf("not a concept IRI: %q", url)
	}
	return Parse(strings.TrimPrefix(url, ExternalBase))
}
