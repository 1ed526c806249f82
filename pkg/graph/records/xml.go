package records

import (
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/athapong/kgimport/pkg/graph"
)

// XMLElements decodes every element named local into a T, wherever it
// appears in the document. The decoder is lenient: undeclared entities such
// as JMdict's "&n;" are kept verbatim, so EntityCode can recover them.
func XMLElements[T any](r io.Reader, name, local string) iter.Seq2[Record[T], error] {
	return func(yield func(Record[T], error) bool) {
		dec := xml.NewDecoder(r)
		dec.Strict = false
		dec.AutoClose = xml.HTMLAutoClose

		count := 0
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Record[T]{}, fmt.Errorf("%s: %w", name, err))
				return
			}

			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != local {
				continue
			}
			count++
			pos := fmt.Sprintf("%s#%s[%d]", name, local, count)

			var v T
			if err := dec.DecodeElement(&v, &start); err != nil {
				if !yield(Record[T]{Position: pos}, graph.Malformed(pos, "%v", err)) {
					return
				}
				continue
			}
			if !yield(Record[T]{Position: pos, Value: v}, nil) {
				return
			}
		}
	}
}

// EntityCode strips the "&" and ";" of an entity reference left in text by
// the lenient decoder, e.g. "&v5r;" becomes "v5r".
func EntityCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "&") {
		return strings.TrimSuffix(s[1:], ";")
	}
	return s
}
