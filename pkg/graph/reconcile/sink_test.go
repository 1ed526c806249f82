package reconcile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
)

const catURI = "http://umbel.org/umbel/rc/Cat"

func TestRecordIgnoresRepeats(t *testing.T) {
	s := NewSink(AliasTable{}, nil)
	cat := nodes.MustNormalize("en", "cat")

	s.Record(catURI, cat)
	s.Record(catURI, cat)
	s.Record("http://umbel.org/umbel/rc/HouseCat", cat)

	assert.Equal(t, []Pair{
		{URI: catURI, ID: cat},
		{URI: "http://umbel.org/umbel/rc/HouseCat", ID: cat},
	}, s.Pairs())
}

func TestRecordRefusesAmbiguousMapping(t *testing.T) {
	var advisories []graph.Kind
	s := NewSink(AliasTable{}, func(kind graph.Kind, detail string) {
		advisories = append(advisories, kind)
		assert.Contains(t, detail, catURI)
	})

	s.Record(catURI, nodes.MustNormalize("en", "cat"))
	s.Record(catURI, nodes.MustNormalize("en", "dog"))

	assert.Equal(t, []graph.Kind{graph.KindAmbiguousAlias}, advisories)
	assert.Equal(t, []nodes.ID{nodes.MustNormalize("en", "cat")}, s.Lookup(catURI))
}

func TestRecordAcceptsDeclaredAliases(t *testing.T) {
	aliases := NewAliasTable([][]string{{"/c/en/cat", "/c/en/house_cat"}, {"not an id"}})
	var advisories int
	s := NewSink(aliases, func(graph.Kind, string) { advisories++ })

	s.Record(catURI, nodes.MustNormalize("en", "cat"))
	s.Record(catURI, nodes.MustNormalize("en", "house cat"))

	assert.Zero(t, advisories)
	assert.Len(t, s.Lookup(catURI), 2)
	assert.Equal(t, 2, s.Len())
}

func TestMappingRoundTrip(t *testing.T) {
	s := NewSink(AliasTable{}, nil)
	s.Record(catURI, nodes.MustNormalize("en", "cat"))
	s.Record("http://wordnet-rdf.princeton.edu/wn31/cat n", nodes.MustNormalize("en", "cat"))
	s.Record("http://umbel.org/umbel/rc/Café", nodes.MustNormalize("fr", "café"))

	var buf bytes.Buffer
	w := NewNTriplesWriter(&buf)
	require.NoError(t, s.WriteTo(w))
	require.NoError(t, w.Flush())

	assert.Contains(t, buf.String(),
		"<http://umbel.org/umbel/rc/Cat> <http://www.w3.org/2002/07/owl#sameAs> <http://conceptnet.io/c/en/cat> .\n")
	assert.Contains(t, buf.String(), `cat\u0020n`)

	got, err := ReadPairs(&buf)
	require.NoError(t, err)
	assert.ElementsMatch(t, s.Pairs(), got)
}

func TestReadPairsSkipsOtherStatements(t *testing.T) {
	input := strings.Join([]string{
		"<http://x/a> <http://www.w3.org/2000/01/rdf-schema#label> \"a\" .",
		"<http://x/a> <http://www.w3.org/2002/07/owl#sameAs> <http://example.com/a> .",
		"<http://x/a> <http://www.w3.org/2002/07/owl#sameAs> <http://conceptnet.io/c/en/a> .",
	}, "\n")

	got, err := ReadPairs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Pair{{URI: "http://x/a", ID: nodes.MustNormalize("en", "a")}}, got)
}
