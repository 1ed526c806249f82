// Package records reads the raw exports of knowledge sources: JSON lines,
// N-Triples, delimited text and XML, optionally gzip-compressed. Readers
// yield one positioned record at a time; a record that cannot be decoded is
// yielded as a *graph.MalformedRecordError and reading continues.
package records

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Record is a decoded value and where it came from.
type Record[T any] struct {
	Position string
	Value    T
}

func position(name string, line int) string {
	return fmt.Sprintf("%s:%d", name, line)
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

type plainFile struct {
	*bufio.Reader
	file *os.File
}

func (p *plainFile) Close() error { return p.file.Close() }

// Open opens path for reading, transparently decompressing gzip content.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "corrupt gzip stream in %s", path)
		}
		return &gzipFile{Reader: zr, file: f}, nil
	}
	return &plainFile{Reader: br, file: f}, nil
}

// Files lists the regular files under root whose base name satisfies match,
// in lexical order. A nil match accepts everything except hidden files.
func Files(root string, match func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if match == nil || match(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read input directory %s", root)
	}
	return files, nil
}

// WithExtensions returns a Files matcher accepting the given extensions,
// with or without a trailing ".gz".
func WithExtensions(exts ...string) func(string) bool {
	return func(name string) bool {
		name = strings.TrimSuffix(strings.ToLower(name), ".gz")
		ext := filepath.Ext(name)
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}
