package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/records"
)

// Format is an edge file encoding.
type Format string

const (
	// Msgpack writes one msgpack map per edge, back to back.
	Msgpack Format = "msgpack"
	// JSONLines writes one JSON object per line.
	JSONLines Format = "jsonl"
)

// FormatFor picks the encoding from a file name: .jsonl, .ndjson and .json
// select JSON lines, anything else msgpack.
func FormatFor(path string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz")))
	switch ext {
	case ".jsonl", ".ndjson", ".json":
		return JSONLines
	}
	return Msgpack
}

type encoder interface {
	Encode(v interface{}) error
}

// FileSink writes edges to a temporary file beside its destination and
// moves it into place on Close. Abort discards the partial file instead.
type FileSink struct {
	path   string
	tmp    string
	format Format
	file   *os.File
	buf    *bufio.Writer
	enc    encoder
	closed bool
}

// Create opens a sink that will produce the file at path.
func Create(path string) (*FileSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create output directory %s", dir)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", tmp)
	}

	s := &FileSink{
		path:   path,
		tmp:    tmp,
		format: FormatFor(path),
		file:   f,
		buf:    bufio.NewWriter(f),
	}
	if s.format == JSONLines {
		s.enc = json.NewEncoder(s.buf)
	} else {
		s.enc = msgpack.NewEncoder(s.buf)
	}
	return s, nil
}

// Path returns the destination path.
func (s *FileSink) Path() string { return s.path }

// Format returns the encoding in use.
func (s *FileSink) Format() Format { return s.format }

func (s *FileSink) Write(ctx context.Context, e graph.Edge) error {
	if s.closed {
		return errors.Errorf("write to closed sink %s", s.path)
	}
	return s.enc.Encode(toRecord(e))
}

// Close flushes the file and renames it to its destination.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		os.Remove(s.tmp)
		return errors.Wrapf(err, "flush %s", s.tmp)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.tmp)
		return errors.Wrapf(err, "close %s", s.tmp)
	}
	return errors.Wrapf(os.Rename(s.tmp, s.path), "move %s into place", s.path)
}

// Abort closes the sink and deletes the partial file.
func (s *FileSink) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.file.Close()
	return os.Remove(s.tmp)
}

// ReadFile decodes every edge in the file at path, in file order.
func ReadFile(path string, fn func(graph.Edge) error) error {
	rc, err := records.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	if FormatFor(path) == JSONLines {
		return ReadJSONLines(rc, fn)
	}
	return ReadMsgpack(rc, fn)
}

// ReadMsgpack decodes a stream written by a msgpack FileSink.
func ReadMsgpack(r io.Reader, fn func(graph.Edge) error) error {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	for {
		var rec edgeRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "decode msgpack edge")
		}
		e, err := rec.edge()
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

// ReadJSONLines decodes a stream written by a JSON lines FileSink.
func ReadJSONLines(r io.Reader, fn func(graph.Edge) error) error {
	dec := json.NewDecoder(r)
	for {
		var rec edgeRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "decode JSON edge")
		}
		e, err := rec.edge()
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}
