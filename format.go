package grepnir

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// LabelSeparator sits between a source label and the line content
const LabelSeparator = ":"

// Segment is a piece of a line, either matched text or the text between matches
type Segment struct {
	Text    string
	Matched bool
}

// Segments cuts line at the given spans. Spans must be ascending and
// non-overlapping, as returned by Pattern.FindAll. Joining the Text of every
// segment gives back line.
func Segments(line string, spans []MatchSpan) []Segment {
	if len(spans) == 0 {
		return []Segment{{Text: line}}
	}

	segments := make([]Segment, 0, len(spans)*2+1)
	lastEnd := 0
	for _, span := range spans {
		if span.Start > lastEnd {
			segments = append(segments, Segment{Text: line[lastEnd:span.Start]})
		}
		if span.End > span.Start {
			segments = append(segments, Segment{Text: line[span.Start:span.End], Matched: true})
		}
		lastEnd = span.End
	}
	if lastEnd < len(line) {
		segments = append(segments, Segment{Text: line[lastEnd:]})
	}
	return segments
}

// Formatter prints selected lines to an injected writer
type Formatter struct {
	w         io.Writer
	highlight bool

	label *color.Color
	sep   *color.Color
	match *color.Color
}

// NewFormatter creates a formatter writing to w. Colour state lives on the
// formatter, so highlight decides alone whether escape codes are written.
func NewFormatter(w io.Writer, highlight bool) *Formatter {
	f := &Formatter{
		w:         w,
		highlight: highlight,
		label:     color.New(color.FgMagenta),
		sep:       color.New(color.FgCyan),
		match:     color.New(color.FgRed, color.Bold),
	}

	for _, c := range []*color.Color{f.label, f.sep, f.match} {
		if highlight {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return f
}

// Highlight reports whether escape codes are emitted
func (f *Formatter) Highlight() bool {
	return f.highlight
}

// Format writes one newline-terminated line. The label prefix is only
// printed in recursive mode, and spans only change how the line looks.
func (f *Formatter) Format(line string, spans []MatchSpan, label string, recursive bool) error {
	var b strings.Builder
	b.Grow(len(line) + len(label) + 16)

	if recursive && label != "" {
		b.WriteString(f.label.Sprint(label))
		b.WriteString(f.sep.Sprint(LabelSeparator))
	}

	if !f.highlight || len(spans) == 0 {
		b.WriteString(line)
	} else {
		for _, seg := range Segments(line, spans) {
			if seg.Matched {
				b.WriteString(f.match.Sprint(seg.Text))
			} else {
				b.WriteString(seg.Text)
			}
		}
	}
	b.WriteByte('\n')

	_, err := io.WriteString(f.w, b.String())
	return err
}
