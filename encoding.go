package grepnir

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves an encoding label such as "latin1", "Shift_JIS" or
// "utf-16le". The empty label means input is read as raw bytes and checked
// for UTF-8 line by line.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Transcoder converts input from a fixed encoding to UTF-8
type Transcoder struct {
	enc encoding.Encoding
}

// NewTranscoder creates a transcoder for enc. A nil enc passes input
// through unchanged.
func NewTranscoder(enc encoding.Encoding) *Transcoder {
	return &Transcoder{enc: enc}
}

// Reader wraps r so that it yields UTF-8. A leading UTF-8 or UTF-16 byte
// order mark overrides the configured encoding and is stripped.
func (t *Transcoder) Reader(r io.Reader) io.Reader {
	if t == nil || t.enc == nil {
		return r
	}
	return transform.NewReader(r, unicode.BOMOverride(t.enc.NewDecoder()))
}

// Name returns the canonical name of the configured encoding
func (t *Transcoder) Name() string {
	if t == nil || t.enc == nil {
		return ""
	}
	name, err := htmlindex.Name(t.enc)
	if err != nil {
		return fmt.Sprint(t.enc)
	}
	return name
}
