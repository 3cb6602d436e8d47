package grepnir

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Reporter writes non-fatal diagnostics, one per line, prefixed with the tool name
type Reporter struct {
	w     io.Writer
	tool  string
	count int
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, tool string) *Reporter {
	return &Reporter{w: w, tool: tool}
}

// Count returns how many diagnostics have been written
func (r *Reporter) Count() int {
	return r.count
}

// IsDirectory reports a directory met while not recursing
func (r *Reporter) IsDirectory(path string) {
	r.printf("%s: %s: Is a directory\n", r.tool, path)
}

// PathError reports a path that could not be stat'ed or opened. The path is
// printed once even when err already carries it.
func (r *Reporter) PathError(path string, err error) {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	r.printf("%s: %s: %v\n", r.tool, path, err)
}

// Traversal reports an unreadable directory entry
func (r *Reporter) Traversal(err error) {
	r.printf("%s: %v\n", r.tool, err)
}

// Decode reports a line that could not be decoded
func (r *Reporter) Decode(err error) {
	r.printf("%s: %v\n", r.tool, err)
}

func (r *Reporter) printf(format string, args ...interface{}) {
	r.count++
	if r.w == nil {
		return
	}
	// Nowhere left to report a failing diagnostic writer
	_, _ = fmt.Fprintf(r.w, format, args...)
}
