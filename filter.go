package grepnir

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Select reports whether line should be printed. With invert set the result
// is the exact complement of p.IsMatch(line).
func Select(line string, p *Pattern, invert bool) bool {
	return p.IsMatch(line) != invert
}

// DecodeError reports a line that is not valid UTF-8
type DecodeError struct {
	Label string
	Line  int // 1-indexed
}

func (e *DecodeError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("line %d: stream did not contain valid UTF-8", e.Line)
	}
	return fmt.Sprintf("%s: line %d: stream did not contain valid UTF-8", e.Label, e.Line)
}

// LineReader splits a source into lines without a length limit
type LineReader struct {
	r      *bufio.Reader
	label  string
	lineNo int
	line   string
	bad    error // Decode error of the current line
	err    error // Read error that ended the input
	done   bool
}

// NewLineReader wraps r. label is only used to name decode errors.
func NewLineReader(r io.Reader, label string) *LineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64*1024)
	}
	return &LineReader{r: br, label: label}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err distinguishes the two. A line that fails to decode makes
// Next return true with Err set to a *DecodeError; the caller drops it and
// keeps reading.
func (lr *LineReader) Next() bool {
	lr.line, lr.bad = "", nil
	if lr.done {
		return false
	}

	raw, err := lr.r.ReadString('\n')
	if err != nil {
		lr.done = true
		if !errors.Is(err, io.EOF) {
			lr.err = err
			return false
		}
		if raw == "" {
			return false
		}
	}

	lr.lineNo++
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")

	if !utf8.ValidString(raw) {
		lr.bad = &DecodeError{Label: lr.label, Line: lr.lineNo}
		return true
	}

	lr.line = raw
	return true
}

// Text returns the current line without its terminator
func (lr *LineReader) Text() string {
	return lr.line
}

// LineNumber returns the 1-indexed number of the current line
func (lr *LineReader) LineNumber() int {
	return lr.lineNo
}

// Err returns the decode error for the current line, or the read error that
// ended the input
func (lr *LineReader) Err() error {
	if lr.bad != nil {
		return lr.bad
	}
	return lr.err
}
