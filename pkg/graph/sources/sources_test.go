package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/config"
	"github.com/athapong/kgimport/pkg/graph/reconcile"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestConceptNet4(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "cn4.jsonl", lines(
		`{"start":"a dog","end":"an animal","rel":"IsA","lang":"en","score":2,"contributor":"alice","activity":"/s/activity/omcs/vote","frame_text":"{1} is a kind of {2}"}`,
		`{"start":"a dog","end":"an animal","rel":"IsA","lang":"en","score":2,"contributor":"alice","activity":"/s/activity/omcs/vote"}`,
		`{"start":"wake up","end":"open eyes","rel":"SubeventOf"}`,
		`{"start":"x","end":"y","rel":"SeesAs"}`,
		`{"start":"x","end":"y","rel":"IsA","score":0}`,
		`{"start":"x","end":"y","rel":"IsA","contributor":"bugmenot"}`,
		`{"start":"x","end":"y","rel":"HasPainIntensity"}`,
		`{"start":"x","rel":"IsA"}`,
		`not json`,
	))

	res := runSource(t, "conceptnet4", Job{Inputs: []string{in}})
	r := res.report

	e, ok := res.find(concept("en", "dog"), concept("en", "animal"), graph.IsA)
	require.True(t, ok)
	assert.Equal(t, 4.0, e.Weight, "duplicates are summed")
	assert.Equal(t, "[[dog]] is a kind of [[animal]]", e.SurfaceText)
	assert.Equal(t, "/s/contributor/omcs/alice", e.Source.Contributor)
	assert.Equal(t, "/s/activity/omcs/vote", e.Source.Activity)
	assert.Equal(t, "/d/conceptnet/4", e.Dataset)

	assert.True(t, res.has(concept("en", "open eyes"), concept("en", "wake up"), graph.HasSubevent),
		"legacy SubeventOf is reversed")

	assert.Len(t, res.edges, 2)
	assert.Equal(t, 9, r.Records)
	assert.Equal(t, 1, r.Count(graph.KindUnknownRelation))
	assert.Equal(t, 3, r.Count(graph.KindFiltered))
	assert.Equal(t, 2, r.Count(graph.KindMalformedRecord))
}

func TestGlobalMind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "GMFrame.jsons", lines(
		`{"pk":1,"fields":{"language":"en","relation":"IsA","text":"{1} is a kind of {2}"}}`,
		`{"pk":2,"fields":{"language":"zh-Hant","relation":"IsA","text":"{1}是一種{2}"}}`,
	))
	writeFile(t, dir, "GMAssertion.jsons", lines(
		`{"pk":10,"fields":{"node1":"cat","node2":"animal","frame":1,"author":5}}`,
		`{"pk":11,"fields":{"node1":"貓","node2":"動物","frame":2,"author":6}}`,
		`{"pk":12,"fields":{"node1":"dog","node2":"animal","frame":99}}`,
	))
	writeFile(t, dir, "GMUser.jsons", lines(`{"pk":5,"fields":{"username":"bob"}}`))
	writeFile(t, dir, "GMTranslation.jsons", lines(`{"pk":1,"fields":{"assertion1":10,"assertion2":11}}`))
	writeFile(t, dir, "README.txt", "not an export\n")

	res := runSource(t, "globalmind", Job{Inputs: []string{dir}})

	e, ok := res.find(concept("en", "cat"), concept("en", "animal"), graph.IsA)
	require.True(t, ok)
	assert.Equal(t, "/s/contributor/globalmind/bob", e.Source.Contributor)
	assert.Equal(t, "[[cat]] is a kind of [[animal]]", e.SurfaceText)

	zh, ok := res.find(concept("zh", "貓"), concept("zh", "動物"), graph.IsA)
	require.True(t, ok)
	assert.Equal(t, "/s/process/globalmind", zh.Source.Process, "unknown author falls back to the process")

	assert.True(t, res.has(concept("en", "cat"), concept("zh", "貓"), graph.Synonym))
	assert.True(t, res.has(concept("en", "animal"), concept("zh", "動物"), graph.Synonym))
	assert.Len(t, res.edges, 4)

	assert.Equal(t, 7, res.report.Staged)
	assert.Equal(t, 2, res.report.Count(graph.KindDanglingReference), "frame 99 and user 6")
}

const jmdictSample = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE JMdict [
<!ENTITY n "noun (common) (futsuumeishi)">
<!ENTITY v5r "Godan verb with 'ru' ending">
<!ENTITY zool "zoology">
]>
<JMdict>
<entry>
<ent_seq>1000</ent_seq>
<k_ele><keb>猫</keb></k_ele>
<r_ele><reb>ねこ</reb></r_ele>
<sense>
<pos>&n;</pos>
<xref>犬・いぬ・1</xref>
<field>&zool;</field>
<gloss>cat (esp. the domestic cat)</gloss>
<gloss xml:lang="ger">Katze</gloss>
</sense>
</entry>
<entry>
<ent_seq>1001</ent_seq>
<k_ele><keb>犬</keb></k_ele>
<r_ele><reb>いぬ</reb></r_ele>
<sense>
<pos>&n;</pos>
<ant>存在しない</ant>
<gloss>dog</gloss>
</sense>
</entry>
<entry>
<ent_seq>1002</ent_seq>
<r_ele><reb>はしる</reb></r_ele>
<sense>
<pos>&v5r;</pos>
<gloss>to run</gloss>
</sense>
</entry>
<entry>
<k_ele><keb>無番号</keb></k_ele>
</entry>
</JMdict>
`

func TestJMdict(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "JMdict.xml", jmdictSample)

	res := runSource(t, "jmdict", Job{Inputs: []string{in}})

	neko := sense(t, "ja", "猫", "n")
	assert.True(t, res.has(neko, sense(t, "ja", "ねこ", "n"), graph.Synonym))
	assert.True(t, res.has(neko, sense(t, "en", "cat", "n"), graph.Synonym), "parenthetical removed")
	assert.True(t, res.has(neko, sense(t, "de", "Katze", "n"), graph.Synonym))
	assert.True(t, res.has(neko, concept("ja", "犬"), graph.RelatedTo))
	assert.True(t, res.has(neko, concept("en", "zoology"), graph.HasContext))
	assert.True(t, res.has(sense(t, "ja", "はしる", "v"), sense(t, "en", "run", "v"), graph.Synonym), "leading to removed")

	e, ok := res.find(neko, sense(t, "en", "cat", "n"), graph.Synonym)
	require.True(t, ok)
	assert.Equal(t, 0.5, e.Weight)

	assert.Equal(t, 1, res.report.Count(graph.KindDanglingReference), "antonym with no entry")
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord), "entry without ent_seq")
	assert.Equal(t, 4, res.report.Records)
	assert.Equal(t, 3, res.report.Staged)
}

func TestNadya(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "nadya.csv", lines(
		"relation,start,end,user,frequency",
		"IsA,猫,動物,taro,3",
		"isa,猫,動物,hanako,",
		"PartOf,尻尾,猫",
		"Bogus,猫,犬",
		"IsA,猫,動物,taro,many",
		"IsA,猫",
	))

	res := runSource(t, "nadya", Job{Inputs: []string{in}})

	cat, animal := concept("ja", "猫"), concept("ja", "動物")
	var weights []float64
	for _, e := range res.edges {
		if e.Start == cat && e.End == animal {
			assert.Equal(t, graph.IsA, e.Rel)
			weights = append(weights, e.Weight)
		}
	}
	assert.ElementsMatch(t, []float64{3, 1}, weights, "one edge per contributor")
	assert.True(t, res.has(concept("ja", "尻尾"), cat, graph.PartOf))

	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation))
	assert.Equal(t, 2, res.report.Count(graph.KindMalformedRecord))
	assert.Equal(t, 1, res.report.Count(graph.KindFiltered), "header row")
}

func TestPTTPetGame(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "petgame.txt", lines(
		"{1}是一種{2}\t貓\t動物\tuser1\t2",
		"{1}想要{2}\t貓\t魚\tuser2\t-1",
		"{1}喜歡{2}\t貓\t魚\tuser2\t1",
		"{1}是一種{2}\t貓",
	))

	res := runSource(t, "ptt_petgame", Job{Inputs: []string{in}})
	require.Len(t, res.edges, 1)

	e := res.edges[0]
	assert.Equal(t, concept("zh", "貓"), e.Start)
	assert.Equal(t, concept("zh", "動物"), e.End)
	assert.Equal(t, graph.IsA, e.Rel)
	assert.Equal(t, 2.0, e.Weight)
	assert.Equal(t, "[[貓]]是一種[[動物]]", e.SurfaceText)
	assert.Equal(t, "/s/contributor/petgame/user1", e.Source.Contributor)

	assert.Equal(t, 1, res.report.Count(graph.KindFiltered))
	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation))
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
}

func TestVerbosity(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "verbosity.txt", lines(
		"dog\tit is a kind of\tan animal\t4\t1",
		"dog\tit is a kind of\tanimal\t1\t0",
		"cat\tit sounds like\tbat\t1\t0",
		"dog\tit is related to\thotdog\t1\t0",
		"dog\tit smells like\twet fur\t1\t0",
		"dog\tit has\tfur\tmany\t0",
	))

	res := runSource(t, "verbosity", Job{Inputs: []string{in}})
	require.Len(t, res.edges, 1)

	e := res.edges[0]
	assert.Equal(t, concept("en", "dog"), e.Start)
	assert.Equal(t, concept("en", "animal"), e.End)
	assert.Equal(t, 2.0, e.Weight, "max of 4/(1+1) and 1/(0+1)")
	assert.Equal(t, "[[dog]] is a kind of [[animal]]", e.SurfaceText)

	assert.Equal(t, 2, res.report.Count(graph.KindFiltered), "sound-alike and give-away")
	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation))
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
}

func TestVerbosityRejectsEmptyConcept(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "verbosity.txt", lines(
		"dog\tit is a kind of\t\t1\t0",
		"dog\tit is a kind of\t \t4\t1",
	))

	res := runSource(t, "verbosity", Job{Inputs: []string{in}})
	assert.Empty(t, res.edges)
	assert.Equal(t, 2, res.report.Count(graph.KindMalformedRecord))
	assert.Equal(t, 0, res.report.Count(graph.KindFiltered), "an empty side is not a give-away")
}

func TestWiktionaryExample(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(
		`{"id":1,"lemma":"cat","sees_as":2}`,
		`{"id":2,"lemma":"feline"}`,
	))

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}})
	require.Len(t, res.edges, 1)
	assert.True(t, res.has(concept("en", "cat"), concept("en", "feline"), graph.Synonym))
	assert.Equal(t, "/c/en/cat", res.edges[0].Start.String())
	assert.Equal(t, "/c/en/feline", res.edges[0].End.String())
	assert.Equal(t, 2, res.report.Records)
	assert.Equal(t, 2, res.report.Staged)
}

func TestWiktionaryDanglingReference(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(
		`{"id":"A","lemma":"alpha","synonym":"B"}`,
		`{"id":"B","lemma":"beta","related":"Z"}`,
	))

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}})
	require.Len(t, res.edges, 1)
	assert.True(t, res.has(concept("en", "alpha"), concept("en", "beta"), graph.Synonym))
	assert.Equal(t, 1, res.report.Count(graph.KindDanglingReference))
	assert.Equal(t, 1, res.report.Advisories())
}

func TestWiktionaryFields(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(
		`{"id":"cat","lemma":"cat","pos":"noun","hypernyms":["mammal"],"hyponyms":[{"id":"kitten"}],"antonym":{"id":"Z","term":"dog"},"translations":[{"lang":"fr","term":"chat"}],"contexts":["zoology"],"etymology":[{"lang":"la","term":"cattus"}],"quotes":"x"}`,
		`{"id":"mammal","lemma":"mammal","pos":"noun"}`,
		`{"id":"kitten","lemma":"kitten","pos":"noun","lang":"English","form_of":{"term":"cat"}}`,
		`{"id":"broken"}`,
	))

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}})

	cat := sense(t, "en", "cat", "n")
	assert.True(t, res.has(cat, sense(t, "en", "mammal", "n"), graph.IsA))
	assert.True(t, res.has(sense(t, "en", "kitten", "n"), cat, graph.IsA), "hyponyms are reversed")
	assert.True(t, res.has(cat, concept("fr", "chat"), graph.Synonym))
	assert.True(t, res.has(cat, concept("en", "zoology"), graph.HasContext))
	assert.True(t, res.has(cat, concept("la", "cattus"), graph.EtymologicallyDerivedFrom))
	assert.True(t, res.has(sense(t, "en", "kitten", "n"), concept("en", "cat"), graph.FormOf))
	assert.False(t, res.has(cat, concept("en", "dog"), graph.Antonym), "dangling ids are dropped by default")

	assert.Equal(t, 1, res.report.Count(graph.KindDanglingReference))
	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation), "quotes")
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
}

func TestWiktionarySkipsRecordWithoutID(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(
		`{"lemma":"cat","synonym":"2"}`,
		`{"id":"2","lemma":"feline"}`,
	))

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}})
	assert.Empty(t, res.edges)
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
	assert.Equal(t, 1, res.report.Rejected())

	db := filepath.Join(dir, "wiktionary.db")
	runSource(t, "wiktionary_pre", Job{Inputs: []string{in}, DB: db})
	res = runSource(t, "wiktionary", Job{Inputs: []string{in}, DB: db})
	assert.Empty(t, res.edges)
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
}

func TestWiktionaryFallbackPolicy(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(`{"id":"cat","lemma":"cat","antonym":{"id":"Z","term":"dog"}}`))

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}, Policy: config.SourcePolicy{Dangling: "fallback"}})
	assert.True(t, res.has(concept("en", "cat"), concept("en", "dog"), graph.Antonym))
	assert.Equal(t, 1, res.report.Count(graph.KindDanglingReference))
}

func TestWiktionaryPrepareThenResolve(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(
		`{"id":1,"lemma":"cat","sees_as":2}`,
		`{"id":2,"lemma":"feline"}`,
	))
	db := filepath.Join(dir, "wiktionary.db")

	pre := runSource(t, "wiktionary_pre", Job{Inputs: []string{in}, DB: db})
	assert.Equal(t, 2, pre.report.Staged)
	assert.Zero(t, pre.report.Edges)
	require.FileExists(t, db)

	res := runSource(t, "wiktionary", Job{Inputs: []string{in}, DB: db})
	require.Len(t, res.edges, 1)
	assert.True(t, res.has(concept("en", "cat"), concept("en", "feline"), graph.Synonym))
	assert.Equal(t, 2, res.report.Records)
	assert.FileExists(t, db, "a prepared store survives the resolve run")
}

func TestWiktionaryRejectsUnpreparedStore(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wiktionary.jsonl", lines(`{"id":1,"lemma":"cat"}`))
	out := filepath.Join(dir, "out.msgpack")

	_, err := tryRunSource(t, "wiktionary", Job{Inputs: []string{in}, DB: filepath.Join(dir, "missing.db"), Output: out})
	assert.ErrorContains(t, err, "wiktionary_pre")
	assert.NoFileExists(t, out)
}

const umbelSample = `<http://example.org/Cat> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Animal> .
`

func TestUMBELExample(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "umbel")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeFile(t, in, "umbel.nt", umbelSample)
	mapping := filepath.Join(dir, "umbel-mapping.nt")

	res := runSource(t, "umbel", Job{Inputs: []string{in}, Mapping: mapping})
	require.Len(t, res.edges, 1)
	e := res.edges[0]
	assert.Equal(t, "/c/en/cat", e.Start.String())
	assert.Equal(t, "/c/en/animal", e.End.String())
	assert.Equal(t, graph.IsA, e.Rel)
	assert.Equal(t, 2, res.report.Count(graph.KindUnlabeledURI))
	assert.Equal(t, 2, res.report.Mappings)

	f, err := os.Open(mapping)
	require.NoError(t, err)
	defer f.Close()
	pairs, err := reconcile.ReadPairs(f)
	require.NoError(t, err)
	assert.ElementsMatch(t, []reconcile.Pair{
		{URI: "http://example.org/Cat", ID: concept("en", "cat")},
		{URI: "http://example.org/Animal", ID: concept("en", "animal")},
	}, pairs)
}

func TestUMBELLabels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labels.nt", lines(
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2000/01/rdf-schema#label> "domestic cat"@en .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2004/02/skos/core#prefLabel> "house cat"@en .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2004/02/skos/core#altLabel> "moggy" .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2004/02/skos/core#prefLabel> "chat domestique"@fr .`,
	))
	writeFile(t, dir, "relations.nt", lines(
		`# relations`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2000/01/rdf-schema#subClassOf> <http://umbel.org/umbel/rc/DomesticAnimal> .`,
		`<http://umbel.org/umbel/rc/Mammal> <http://www.w3.org/2004/02/skos/core#narrower> <http://umbel.org/umbel/rc/HouseCat> .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2002/07/owl#disjointWith> <http://umbel.org/umbel/rc/Dog> .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://umbel.org/umbel#isAbout> <http://umbel.org/umbel/rc/Dog> .`,
		`<http://umbel.org/umbel/rc/HouseCat> <http://www.w3.org/2000/01/rdf-schema#comment> "A small cat." .`,
		`this is not a triple`,
	))

	res := runSource(t, "umbel", Job{Inputs: []string{dir}})

	houseCat := concept("en", "house cat")
	assert.True(t, res.has(houseCat, concept("en", "Domestic Animal"), graph.IsA))
	assert.True(t, res.has(houseCat, concept("en", "Mammal"), graph.IsA), "narrower is reversed")
	assert.True(t, res.has(houseCat, concept("en", "Dog"), graph.DistinctFrom))
	assert.True(t, res.has(houseCat, concept("en", "moggy"), graph.Synonym))
	assert.Len(t, res.edges, 4)

	assert.Equal(t, 1, res.report.Count(graph.KindFiltered), "schema class")
	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation))
	assert.Equal(t, 1, res.report.Count(graph.KindMalformedRecord))
	assert.Equal(t, 3, res.report.Count(graph.KindUnlabeledURI))
}

const wordnetSample = `<http://wordnet-rdf.princeton.edu/wn31/cat-n> <http://www.w3.org/2000/01/rdf-schema#label> "cat"@eng .
<http://wordnet-rdf.princeton.edu/wn31/cat-n> <http://lemon-model.net/lemon#sense> <http://wordnet-rdf.princeton.edu/wn31/cat-n#1-n> .
<http://wordnet-rdf.princeton.edu/wn31/true_cat-n> <http://www.w3.org/2000/01/rdf-schema#label> "true cat"@eng .
<http://wordnet-rdf.princeton.edu/wn31/true_cat-n> <http://lemon-model.net/lemon#sense> <http://wordnet-rdf.princeton.edu/wn31/true_cat-n#1-n> .
<http://wordnet-rdf.princeton.edu/wn31/cat-n#1-n> <http://lemon-model.net/lemon#reference> <http://wordnet-rdf.princeton.edu/wn31/102124272-n> .
<http://wordnet-rdf.princeton.edu/wn31/true_cat-n#1-n> <http://lemon-model.net/lemon#reference> <http://wordnet-rdf.princeton.edu/wn31/102124272-n> .
<http://wordnet-rdf.princeton.edu/wn31/102124272-n> <http://wordnet-rdf.princeton.edu/ontology#part_of_speech> <http://wordnet-rdf.princeton.edu/ontology#noun> .
<http://wordnet-rdf.princeton.edu/wn31/102124272-n> <http://wordnet-rdf.princeton.edu/ontology#hypernym> <http://wordnet-rdf.princeton.edu/wn31/102123242-n> .
<http://wordnet-rdf.princeton.edu/wn31/102124272-n> <http://wordnet-rdf.princeton.edu/ontology#gloss> "feline mammal"@eng .
<http://wordnet-rdf.princeton.edu/wn31/102123242-n> <http://www.w3.org/2000/01/rdf-schema#label> "feline"@eng .
<http://wordnet-rdf.princeton.edu/wn31/102123242-n> <http://wordnet-rdf.princeton.edu/ontology#part_of_speech> <http://wordnet-rdf.princeton.edu/ontology#noun> .
<http://wordnet-rdf.princeton.edu/wn31/102124272-n> <http://wordnet-rdf.princeton.edu/ontology#member_meronym> <http://wordnet-rdf.princeton.edu/wn31/199999999-n> .
<http://wordnet-rdf.princeton.edu/wn31/102124272-n> <http://wordnet-rdf.princeton.edu/ontology#frobnicates> <http://wordnet-rdf.princeton.edu/wn31/102123242-n> .
`

func TestWordNet(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "wordnet.nt", wordnetSample)
	mapping := filepath.Join(dir, "wordnet-mapping.nt")

	res := runSource(t, "wordnet", Job{Inputs: []string{in}, Mapping: mapping})

	cat, feline := sense(t, "en", "cat", "n"), sense(t, "en", "feline", "n")
	assert.True(t, res.has(sense(t, "en", "true cat", "n"), cat, graph.Synonym))
	assert.False(t, res.has(cat, cat, graph.Synonym), "an entry is not its own synonym")
	e, ok := res.find(cat, feline, graph.IsA)
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Weight)
	assert.Len(t, res.edges, 2)

	assert.Equal(t, 1, res.report.Count(graph.KindDanglingReference), "meronym synset never described")
	assert.Equal(t, 1, res.report.Count(graph.KindUnknownRelation))

	f, err := os.Open(mapping)
	require.NoError(t, err)
	defer f.Close()
	pairs, err := reconcile.ReadPairs(f)
	require.NoError(t, err)
	assert.Contains(t, pairs, reconcile.Pair{URI: "http://wordnet-rdf.princeton.edu/wn31/cat-n", ID: cat})
	assert.Contains(t, pairs, reconcile.Pair{URI: "http://wordnet-rdf.princeton.edu/wn31/102124272-n", ID: cat})
	assert.Contains(t, pairs, reconcile.Pair{URI: "http://wordnet-rdf.princeton.edu/wn31/102123242-n", ID: feline})
}
