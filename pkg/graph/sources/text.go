package sources

import (
	"regexp"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jdkato/prose/v2"

	"github.com/athapong/kgimport/pkg/graph"
)

var determiners = mapset.NewSet("a", "an", "the", "to", "some", "my", "your", "his", "her", "their", "its", "our")

// stripDeterminers removes leading English determiners ("a", "the", "to"...)
// so "a cat" and "the cat" name the same concept. A phrase consisting only
// of determiners is returned unchanged.
func stripDeterminers(text string) string {
	text = strings.TrimSpace(text)
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return text
	}

	rest := text
	for _, tok := range doc.Tokens() {
		if !determiners.Contains(strings.ToLower(tok.Text)) {
			break
		}
		i := strings.Index(rest, tok.Text)
		if i < 0 {
			break
		}
		next := strings.TrimSpace(rest[i+len(tok.Text):])
		if next == "" {
			break
		}
		rest = next
	}
	return rest
}

// splitCamelCase turns an ontology local name such as "HouseCat" or
// "XMLParser" into words: "House Cat", "XML Parser".
func splitCamelCase(s string) string {
	var words []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}
		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return strings.Join(words, " ")
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) {
		return true
	}
	nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	return unicode.IsUpper(r) && unicode.IsUpper(prev) && nextLower
}

var parenthetical = regexp.MustCompile(`\s*[(（][^)）]*[)）]\s*`)

// cleanGloss drops parenthetical remarks from a dictionary gloss.
func cleanGloss(s string) string {
	s = parenthetical.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// fillTemplate puts bracketed start and end texts into a frame such as
// "{1} is a kind of {2}".
func fillTemplate(frame, start, end string) string {
	r := strings.NewReplacer("{1}", "[["+start+"]]", "{2}", "[["+end+"]]")
	return r.Replace(frame)
}

// canonicalRelations maps every canonical relation name, lowercased, to
// itself. Source tables start from it and add their own markers.
func canonicalRelations(extra RelationTable) RelationTable {
	t := make(RelationTable, len(extra)+len(graph.Relations()))
	for _, rel := range graph.Relations() {
		t[strings.ToLower(string(rel))] = RelationRule{Rel: rel}
	}
	for k, v := range extra {
		t[strings.ToLower(k)] = v
	}
	return t
}
