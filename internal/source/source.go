// Package source reads raw product records from a JSON array or NDJSON file.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"productprep/internal/models"
)

// Source errors.
var (
	ErrConsumed  = errors.New("source already consumed")
	ErrMalformed = errors.New("malformed JSON")
)

// Format is the container layout of a record file.
type Format int

const (
	// FormatLines holds one JSON value per line.
	FormatLines Format = iota
	// FormatArray holds a single top-level JSON array.
	FormatArray
)

func (f Format) String() string {
	if f == FormatArray {
		return "array"
	}

	return "lines"
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source is a single-pass, pull-based record reader.
type Source struct {
	name     string
	closer   io.Closer
	r        *bufio.Reader
	format   Format
	line     int
	consumed atomic.Bool
}

// Open opens the file at path and detects its layout from the first
// non-whitespace byte.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	src, err := newSource(path, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	src.closer = f

	return src, nil
}

// NewReader wraps r. The caller keeps ownership of r.
func NewReader(r io.Reader) (*Source, error) {
	return newSource("<reader>", r)
}

func newSource(name string, r io.Reader) (*Source, error) {
	s := &Source{
		name: name,
		r:    bufio.NewReaderSize(r, 64*1024),
		line: 1,
	}

	if err := s.detect(); err != nil {
		return nil, err
	}

	return s, nil
}

// detect skips a byte-order mark and leading whitespace, then peeks at the
// first significant byte.
func (s *Source) detect() error {
	if head, _ := s.r.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = s.r.Discard(len(utf8BOM))
	}

	for {
		b, err := s.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read %s: %w", s.name, err)
		}

		switch b {
		case '\n':
			s.line++
		case ' ', '\t', '\r':
		default:
			if b == '[' {
				s.format = FormatArray
			}

			return s.r.UnreadByte()
		}
	}
}

// Format reports the detected layout.
func (s *Source) Format() Format {
	return s.format
}

// Close releases the underlying file, if the source opened one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// Records yields raw records in file order. The first error stops the
// iteration. A source can be iterated only once; later calls yield
// ErrConsumed.
func (s *Source) Records() iter.Seq2[models.RawRecord, error] {
	return func(yield func(models.RawRecord, error) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			yield(models.RawRecord{}, ErrConsumed)
			return
		}

		if s.format == FormatArray {
			s.readArray(yield)
			return
		}

		s.readLines(yield)
	}
}

func (s *Source) readArray(yield func(models.RawRecord, error) bool) {
	dec := json.NewDecoder(s.r)

	if _, err := dec.Token(); err != nil {
		yield(models.RawRecord{}, fmt.Errorf("%w: %s: %w", ErrMalformed, s.name, err))
		return
	}

	for i := 0; dec.More(); i++ {
		var elem json.RawMessage
		if err := dec.Decode(&elem); err != nil {
			yield(models.RawRecord{}, fmt.Errorf("%w: %s element %d: %w", ErrMalformed, s.name, i, err))
			return
		}

		if !yield(models.NewRawRecord(elem), nil) {
			return
		}
	}

	if _, err := dec.Token(); err != nil {
		yield(models.RawRecord{}, fmt.Errorf("%w: %s: unterminated array: %w", ErrMalformed, s.name, err))
		return
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		yield(models.RawRecord{}, fmt.Errorf("%w: %s: unexpected data after array", ErrMalformed, s.name))
	}
}

func (s *Source) readLines(yield func(models.RawRecord, error) bool) {
	for line := s.line; ; line++ {
		data, err := s.r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			yield(models.RawRecord{}, fmt.Errorf("failed to read %s line %d: %w", s.name, line, err))
			return
		}

		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
			if !gjson.ValidBytes(trimmed) {
				yield(models.RawRecord{}, fmt.Errorf("%w: %s line %d", ErrMalformed, s.name, line))
				return
			}

			if !yield(models.NewRawRecord(trimmed), nil) {
				return
			}
		}

		if err != nil {
			return
		}
	}
}

// ReadAll drains src into a slice.
func ReadAll(src *Source) ([]models.RawRecord, error) {
	var records []models.RawRecord

	for rec, err := range src.Records() {
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}
