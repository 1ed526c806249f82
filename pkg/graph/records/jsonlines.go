package records

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/athapong/kgimport/pkg/graph"
)

const maxLineSize = 64 << 20

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return sc
}

// JSONLines yields one parsed JSON object per non-blank line of r. Lines
// that are not JSON objects are yielded as malformed records.
func JSONLines(r io.Reader, name string) iter.Seq2[Record[gjson.Result], error] {
	return func(yield func(Record[gjson.Result], error) bool) {
		sc := newLineScanner(r)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}

			pos := position(name, line)
			if !gjson.Valid(text) {
				if !yield(Record[gjson.Result]{Position: pos}, graph.Malformed(pos, "invalid JSON")) {
					return
				}
				continue
			}
			value := gjson.Parse(text)
			if !value.IsObject() {
				if !yield(Record[gjson.Result]{Position: pos}, graph.Malformed(pos, "expected a JSON object")) {
					return
				}
				continue
			}
			if !yield(Record[gjson.Result]{Position: pos, Value: value}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Record[gjson.Result]{}, err)
		}
	}
}

// Lines yields the non-blank lines of r with surrounding whitespace
// removed.
func Lines(r io.Reader, name string) iter.Seq2[Record[string], error] {
	return func(yield func(Record[string], error) bool) {
		sc := newLineScanner(r)
		line := 0
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			if !yield(Record[string]{Position: position(name, line), Value: text}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Record[string]{}, err)
		}
	}
}
