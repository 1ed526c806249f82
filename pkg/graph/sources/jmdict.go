package sources

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/records"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

var jmdict = Transform{
	Name:            "jmdict",
	Description:     "Import the JMdict Japanese-multilingual dictionary (XML)",
	Inputs:          InputFile,
	Staged:          true,
	Backend:         StageInMemory,
	Relations:       jmdictRelations,
	DefaultWeight:   0.5,
	Merge:           graph.MergeMax,
	Dangling:        staging.DanglingDrop,
	DefaultLanguage: "ja",
	Dataset:         "/d/jmdict",
	License:         "cc:by-sa/4.0",
	Process:         "/s/process/jmdict",
	drive:           driveJMdict,
}

// Sense elements that point at another entry.
var jmdictRelations = RelationTable{
	"xref": {Rel: graph.RelatedTo},
	"ant":  {Rel: graph.Antonym},
}

// JMdict field codes that name a domain of use.
var jmdictFields = map[string]string{
	"Buddh":   "Buddhism",
	"MA":      "martial arts",
	"Shinto":  "Shinto",
	"anat":    "anatomy",
	"archit":  "architecture",
	"astron":  "astronomy",
	"baseb":   "baseball",
	"biol":    "biology",
	"bot":     "botany",
	"bus":     "business",
	"chem":    "chemistry",
	"comp":    "computing",
	"econ":    "economics",
	"engr":    "engineering",
	"finc":    "finance",
	"food":    "food",
	"geol":    "geology",
	"geom":    "geometry",
	"law":     "law",
	"ling":    "linguistics",
	"mahj":    "mahjong",
	"math":    "mathematics",
	"med":     "medicine",
	"mil":     "military",
	"music":   "music",
	"physics": "physics",
	"shogi":   "shogi",
	"sports":  "sports",
	"sumo":    "sumo",
	"zool":    "zoology",
}

type jmGloss struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type jmSense struct {
	POS   []string  `xml:"pos"`
	Xref  []string  `xml:"xref"`
	Ant   []string  `xml:"ant"`
	Field []string  `xml:"field"`
	Gloss []jmGloss `xml:"gloss"`
}

type jmEntry struct {
	Seq      string    `xml:"ent_seq"`
	Kanji    []string  `xml:"k_ele>keb"`
	Readings []string  `xml:"r_ele>reb"`
	Senses   []jmSense `xml:"sense"`
}

// headwords lists kanji forms first, then readings.
func (e *jmEntry) headwords() []string {
	return append(append([]string(nil), e.Kanji...), e.Readings...)
}

// jmStaged is either an entry (keyed by sequence number) or an index row
// listing the entries a headword belongs to.
type jmStaged struct {
	Entry *jmEntry
	Seqs  []string
}

func mergeJMStaged(old, rec jmStaged) jmStaged {
	if rec.Entry != nil {
		return rec
	}
	seqs := old.Seqs
	for _, s := range rec.Seqs {
		if !containsString(seqs, s) {
			seqs = append(seqs, s)
		}
	}
	return jmStaged{Seqs: seqs}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func headKey(text string) string { return "head:" + text }

// jmdictPOS maps entity codes to a coarse part of speech.
func jmdictPOS(codes []string) string {
	for _, c := range codes {
		code := records.EntityCode(c)
		switch {
		case strings.HasPrefix(code, "n"), code == "pn":
			return "n"
		case strings.HasPrefix(code, "v"):
			return "v"
		case strings.HasPrefix(code, "adj"):
			return "a"
		case code == "adv" || strings.HasPrefix(code, "adv-"):
			return "r"
		}
	}
	return ""
}

func glossLanguage(lang string) string {
	if lang == "" {
		lang = "eng"
	}
	return nodes.CanonicalLanguage(lang)
}

// cleanDefinition turns an English gloss like "to run (quickly)" into "run".
func cleanDefinition(lang, gloss string) string {
	gloss = cleanGloss(gloss)
	if lang == "en" {
		gloss = strings.TrimPrefix(gloss, "to ")
	}
	return gloss
}

func driveJMdict(ctx context.Context, run *Run) error {
	store, err := openStore[jmStaged](run, staging.WithMerge(mergeJMStaged))
	if err != nil {
		return err
	}
	return staging.Run(ctx, store,
		func(ctx context.Context, put staging.Putter[jmStaged]) error {
			return stageJMdict(ctx, run, put)
		},
		func(ctx context.Context, read staging.Reader[jmStaged]) error {
			return resolveJMdict(ctx, run, read)
		})
}

func stageJMdict(ctx context.Context, run *Run, put staging.Putter[jmStaged]) error {
	return eachFile(run, func(path string, r io.Reader) error {
		return read(ctx, run, records.XMLElements[jmEntry](r, path, "entry"), func(rec records.Record[jmEntry]) error {
			e := rec.Value
			if e.Seq == "" || len(e.headwords()) == 0 {
				return run.Reject(graph.Malformed(rec.Position, "entry without ent_seq or headword"))
			}
			if err := put.Put(e.Seq, jmStaged{Entry: &e}); err != nil {
				return err
			}
			run.Staged()
			for _, h := range e.headwords() {
				if err := put.Put(headKey(h), jmStaged{Seqs: []string{e.Seq}}); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func resolveJMdict(ctx context.Context, run *Run, store staging.Reader[jmStaged]) error {
	return store.Each(func(key string, rec jmStaged) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.Entry == nil {
			return nil
		}
		return jmdictEntry(ctx, run, store, rec.Entry)
	})
}

func jmdictEntry(ctx context.Context, run *Run, store staging.Reader[jmStaged], e *jmEntry) error {
	var pos string
	if len(e.Senses) > 0 {
		pos = jmdictPOS(e.Senses[0].POS)
	}
	head := e.headwords()[0]
	headID, ok := run.Sense("ja", head, pos)
	if !ok {
		return nil
	}

	for _, k := range e.Kanji {
		for _, reading := range e.Readings {
			if err := jmdictPair(ctx, run, graph.Synonym, "ja", k, "ja", reading, pos,
				fmt.Sprintf("[[%s]] is read as [[%s]]", k, reading)); err != nil {
				return err
			}
		}
	}

	for _, s := range e.Senses {
		if p := jmdictPOS(s.POS); p != "" {
			pos = p
		}
		for _, g := range s.Gloss {
			lang := glossLanguage(g.Lang)
			def := cleanDefinition(lang, g.Text)
			if def == "" {
				run.Filtered("empty gloss for %s", head)
				continue
			}
			if err := jmdictPair(ctx, run, graph.Synonym, "ja", head, lang, def, pos,
				fmt.Sprintf("[[%s]] means [[%s]]", head, def)); err != nil {
				return err
			}
		}

		for _, refs := range []struct {
			marker string
			refs   []string
		}{{"xref", s.Xref}, {"ant", s.Ant}} {
			if len(refs.refs) == 0 {
				continue
			}
			rule, ok := run.Rule(refs.marker)
			if !ok {
				continue
			}
			for _, ref := range refs.refs {
				if err := jmdictRef(ctx, run, store, headID, rule, ref); err != nil {
					return err
				}
			}
		}

		for _, f := range s.Field {
			code := records.EntityCode(f)
			field, ok := jmdictFields[code]
			if !ok {
				run.Filtered("unknown field code %q", code)
				continue
			}
			end, ok := run.Concept("en", field)
			if !ok {
				continue
			}
			err := run.Emit(ctx, graph.EdgeSpec{Start: headID, End: end, Rel: graph.HasContext})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func jmdictPair(ctx context.Context, run *Run, rel graph.Relation, startLang, start, endLang, end, pos, surface string) error {
	startID, ok := run.Sense(startLang, start, pos)
	if !ok {
		return nil
	}
	endID, ok := run.Sense(endLang, end, pos)
	if !ok {
		return nil
	}
	return run.Emit(ctx, graph.EdgeSpec{Start: startID, End: endID, Rel: rel, SurfaceText: surface})
}

// jmdictRef resolves a cross reference such as "漢字・かんじ・2" to the entry
// carrying that headword.
func jmdictRef(ctx context.Context, run *Run, store staging.Reader[jmStaged], start nodes.ID, rule RelationRule, ref string) error {
	text := strings.TrimSpace(strings.Split(ref, "・")[0])
	if text == "" {
		return run.Reject(graph.Malformed(ref, "empty cross reference"))
	}

	idx, ok, err := store.Get(headKey(text))
	if err != nil {
		return err
	}
	if !ok || len(idx.Seqs) == 0 {
		run.Dangling(headKey(text))
		if !run.Fallback() {
			return nil
		}
	} else {
		run.Resolved()
		target, ok, err := store.Get(idx.Seqs[0])
		if err != nil {
			return err
		}
		if ok && target.Entry != nil {
			text = target.Entry.headwords()[0]
		}
	}

	end, ok := run.Concept("ja", text)
	if !ok {
		return nil
	}
	return run.EmitRule(ctx, rule, graph.EdgeSpec{Start: start, End: end})
}
