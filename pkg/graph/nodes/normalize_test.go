package nodes

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		surface string
		want    string
	}{
		{"simple", "en", "cat", "/c/en/cat"},
		{"uppercase", "en", "Cat", "/c/en/cat"},
		{"phrase", "en", "network effect", "/c/en/network_effect"},
		{"compound", "en", "networkeffect", "/c/en/networkeffect"},
		{"collapse whitespace", "en", "  network \t  effect ", "/c/en/network_effect"},
		{"underscore is a separator", "en", "network_effect", "/c/en/network_effect"},
		{"punctuation stripped", "en", "cat!", "/c/en/cat"},
		{"inner hyphen kept", "en", "ice-cream", "/c/en/ice-cream"},
		{"inner apostrophe kept", "en", "Don't", "/c/en/don't"},
		{"dangling hyphen dropped", "en", "- cat -", "/c/en/cat"},
		{"slash separates", "en", "and/or", "/c/en/and_or"},
		{"comma separates", "en", "network,effect", "/c/en/network_effect"},
		{"semicolon separates", "en", "network;effect", "/c/en/network_effect"},
		{"dash separates", "en", "network—effect", "/c/en/network_effect"},
		{"symbol separates", "en", "a+b", "/c/en/a_b"},
		{"trailing plus kept", "en", "C++", "/c/en/c++"},
		{"fullwidth folded", "en", "ｃａｔ", "/c/en/cat"},
		{"turkish dotless i", "tr", "Istanbul", "/c/tr/ıstanbul"},
		{"turkish dotted I", "tr", "İzmir", "/c/tr/izmir"},
		{"english I", "en", "Istanbul", "/c/en/istanbul"},
		{"japanese", "ja", "猫", "/c/ja/猫"},
		{"iso 639-2 code", "eng", "cat", "/c/en/cat"},
		{"language name", "English", "cat", "/c/en/cat"},
		{"region dropped", "zh_TW", "貓", "/c/zh/貓"},
		{"unknown language", "not a tag!", "cat", "/c/und/cat"},
		{"empty language", "", "cat", "/c/und/cat"},
		{"punctuation only", "en", "?!", "/c/en/?!"},
		{"slash only", "en", "/", "/c/en/_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Normalize(tt.lang, tt.surface)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestNormalizeSense(t *testing.T) {
	id, err := NormalizeSense("en", "Cat", "noun")
	require.NoError(t, err)
	assert.Equal(t, "/c/en/cat/n", id.String())
	assert.Equal(t, "n", id.POS())
	assert.Equal(t, "/c/en/cat", id.WithoutPOS().String())

	id, err = NormalizeSense("en", "cat", "interjection")
	require.NoError(t, err)
	assert.Equal(t, "/c/en/cat", id.String())
}

func TestNormalizeRejects(t *testing.T) {
	for _, surface := range []string{"", "   ", string([]byte{0xff, 0xfe})} {
		_, err := Normalize("en", surface)
		var nerr *NormalizationError
		require.True(t, errors.As(err, &nerr), "surface %q", surface)
	}
}

func TestNormalizeDeterministicAndTotal(t *testing.T) {
	inputs := []string{
		"cat", "The Cat", "a b c", "ß", "İstanbul", "...", "--", "'", "x.y.z",
		"日本語 の テキスト", "emoji 🐈 cat", " nbsp ", "tab\tsep", "a/b/c",
		strings.Repeat("long ", 50),
	}
	for _, lang := range []string{"en", "tr", "ja", "und", "bogus"} {
		for _, in := range inputs {
			first, err := Normalize(lang, in)
			require.NoError(t, err, "lang=%s input=%q", lang, in)
			second, err := Normalize(lang, in)
			require.NoError(t, err)
			assert.Equal(t, first, second)

			parsed, err := Parse(first.String())
			require.NoError(t, err, "identifier %q should parse", first)
			assert.Equal(t, first, parsed)
		}
	}
}

func TestIDAccessors(t *testing.T) {
	id := MustNormalize("en", "network effect")
	assert.Equal(t, "en", id.Language())
	assert.Equal(t, "network effect", id.Text())
	assert.Equal(t, "", id.POS())
	assert.False(t, id.IsZero())
	assert.True(t, ID{}.IsZero())
}

func TestParse(t *testing.T) {
	_, err := Parse("/c/en/cat/n")
	require.NoError(t, err)

	for _, bad := range []string{"", "cat", "/c/en", "/c//cat", "/c/en/cat/x", "/c/en/two words", "/r/IsA"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestExternalURL(t *testing.T) {
	id := MustNormalize("en", "cat")
	url := ExternalURL(id)
	assert.Equal(t, "http://conceptnet.io/c/en/cat", url)

	back, err := FromExternalURL(url)
	require.NoError(t, err)
	assert.Equal(t, id, back)

	_, err = FromExternalURL("http://example.org/Cat")
	assert.Error(t, err)
}

func TestCanonicalLanguage(t *testing.T) {
	assert.Equal(t, "en", CanonicalLanguage("EN"))
	assert.Equal(t, "ja", CanonicalLanguage("jpn"))
	assert.Equal(t, "zh", CanonicalLanguage("cht"))
	assert.Equal(t, "zh", CanonicalLanguage("zh-Hant"))
	assert.Equal(t, Undetermined, CanonicalLanguage("   "))
	assert.True(t, RecognizedLanguage("fr"))
	assert.False(t, RecognizedLanguage("???"))
}

func TestNormalizeKeepsWordBoundaries(t *testing.T) {
	compound := MustNormalize("en", "networkeffect")
	for _, in := range []string{"network,effect", "network/effect", "network—effect", "network;effect"} {
		assert.NotEqual(t, compound, MustNormalize("en", in), in)
	}
	assert.NotEqual(t, MustNormalize("en", "c"), MustNormalize("en", "c++"))
}
