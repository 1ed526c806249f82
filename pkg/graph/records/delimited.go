package records

import (
	"encoding/csv"
	"io"
	"iter"
	"strings"

	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph"
)

// CSV yields the rows of a comma-separated file. Quoting follows RFC 4180
// loosely; rows may have differing field counts.
func CSV(r io.Reader, name string) iter.Seq2[Record[[]string], error] {
	return func(yield func(Record[[]string], error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		cr.ReuseRecord = false

		for {
			fields, err := cr.Read()
			if err == io.EOF {
				return
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				pos := position(name, parseErr.Line)
				if !yield(Record[[]string]{Position: pos}, graph.Malformed(pos, "%v", parseErr.Err)) {
					return
				}
				continue
			}
			if err != nil {
				yield(Record[[]string]{}, err)
				return
			}
			line, _ := cr.FieldPos(0)
			pos := position(name, line)
			if !yield(Record[[]string]{Position: pos, Value: fields}, nil) {
				return
			}
		}
	}
}

// TSV yields the tab-separated fields of each non-blank line. Quotes carry
// no meaning in TSV exports and are kept.
func TSV(r io.Reader, name string) iter.Seq2[Record[[]string], error] {
	return func(yield func(Record[[]string], error) bool) {
		for rec, err := range Lines(r, name) {
			if err != nil {
				yield(Record[[]string]{}, err)
				return
			}
			fields := strings.Split(rec.Value, "\t")
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			if !yield(Record[[]string]{Position: rec.Position, Value: fields}, nil) {
				return
			}
		}
	}
}
