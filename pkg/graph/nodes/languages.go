package nodes

import (
	"strings"

	"golang.org/x/text/language"
)

// Undetermined is the language tag used when a source declares no language,
// or one that cannot be recognized.
const Undetermined = "und"

// languageAliases maps the codes and names used by the upstream sources onto
// the two-letter tags used in identifiers. It is read-only after init.
var languageAliases = map[string]string{
	// ISO 639-2 bibliographic and terminology codes (JMdict, WordNet-RDF)
	"eng": "en",
	"jpn": "ja",
	"fre": "fr",
	"fra": "fr",
	"ger": "de",
	"deu": "de",
	"spa": "es",
	"ita": "it",
	"por": "pt",
	"rus": "ru",
	"kor": "ko",
	"chi": "zh",
	"zho": "zh",
	"dut": "nl",
	"nld": "nl",
	"swe": "sv",
	"hun": "hu",
	"slv": "sl",
	"fin": "fi",
	"tur": "tr",

	// GlobalMind and ConceptNet 4 codes
	"cht": "zh",
	"chs": "zh",
	"jp":  "ja",

	// language names (Wiktionary headers)
	"english":    "en",
	"japanese":   "ja",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"russian":    "ru",
	"korean":     "ko",
	"chinese":    "zh",
	"mandarin":   "zh",
	"dutch":      "nl",
	"swedish":    "sv",
	"finnish":    "fi",
	"latin":      "la",
	"arabic":     "ar",
	"turkish":    "tr",
	"greek":      "el",
	"polish":     "pl",
	"hungarian":  "hu",
	"czech":      "cs",
}

// CanonicalLanguage maps a source language tag, code or name onto the tag used
// in identifiers. It never fails: anything unrecognized becomes Undetermined.
func CanonicalLanguage(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.ReplaceAll(t, "_", "-")
	if t == "" {
		return Undetermined
	}
	if c, ok := languageAliases[t]; ok {
		return c
	}

	// Region and script subtags are not part of identifiers (zh-TW -> zh).
	if i := strings.IndexByte(t, '-'); i > 0 {
		t = t[:i]
		if c, ok := languageAliases[t]; ok {
			return c
		}
	}

	base, err := language.ParseBase(t)
	if err != nil {
		return Undetermined
	}
	return base.String()
}

// RecognizedLanguage reports whether tag maps to something other than
// Undetermined.
func RecognizedLanguage(tag string) bool {
	return CanonicalLanguage(tag) != Undetermined
}
