package grepnir

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		spans []MatchSpan
		want  []Segment
	}{
		{
			name: "NoSpans",
			line: "plain line",
			want: []Segment{{Text: "plain line"}},
		},
		{
			name:  "Middle",
			line:  "say hello there",
			spans: []MatchSpan{{4, 9}},
			want:  []Segment{{Text: "say "}, {Text: "hello", Matched: true}, {Text: " there"}},
		},
		{
			name:  "WholeLine",
			line:  "hello",
			spans: []MatchSpan{{0, 5}},
			want:  []Segment{{Text: "hello", Matched: true}},
		},
		{
			name:  "Adjacent",
			line:  "aab",
			spans: []MatchSpan{{0, 1}, {1, 2}},
			want:  []Segment{{Text: "a", Matched: true}, {Text: "a", Matched: true}, {Text: "b"}},
		},
		{
			name:  "EmptyLine",
			line:  "",
			spans: nil,
			want:  []Segment{{Text: ""}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Segments(test.line, test.spans)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSegmentsRoundTrip(t *testing.T) {
	patterns := []string{"o", "Watts", "[aeiou]+", "l\nW", `\s`}
	lines := []string{
		"Alan Watts wrote...",
		"Then they can be long-lived.",
		"nothing to see",
		"",
		"ooo",
	}

	for _, pattern := range patterns {
		p, err := CompilePattern(pattern, true)
		if err != nil {
			t.Fatalf("CompilePattern(%q): %v", pattern, err)
		}
		for _, line := range lines {
			var b strings.Builder
			for _, seg := range Segments(line, p.FindAll(line)) {
				b.WriteString(seg.Text)
			}
			if b.String() != line {
				t.Errorf("pattern %q: reconstructed %q, want %q", pattern, b.String(), line)
			}
		}
	}
}

func TestFormatterPlain(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		spans     []MatchSpan
		label     string
		recursive bool
		want      string
	}{
		{
			name: "NoLabel",
			line: "Alan Watts wrote...",
			want: "Alan Watts wrote...\n",
		},
		{
			name:  "LabelIgnoredWhenNotRecursive",
			line:  "Alan Watts wrote...",
			label: "phrase.txt",
			want:  "Alan Watts wrote...\n",
		},
		{
			name:      "RecursiveLabel",
			line:      "Then they can be long-lived.",
			spans:     []MatchSpan{{5, 9}},
			label:     "tests/inputs/tao.txt",
			recursive: true,
			want:      "tests/inputs/tao.txt:Then they can be long-lived.\n",
		},
		{
			name:      "RecursiveWithoutLabel",
			line:      "from stdin",
			recursive: true,
			want:      "from stdin\n",
		},
		{
			name:  "ManyMatchesOneLine",
			line:  "a a a",
			spans: []MatchSpan{{0, 1}, {2, 3}, {4, 5}},
			want:  "a a a\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewFormatter(&buf, false)

			if err := f.Format(test.line, test.spans, test.label, test.recursive); err != nil {
				t.Fatalf("Format: %v", err)
			}
			if buf.String() != test.want {
				t.Errorf("Format() wrote %q, want %q", buf.String(), test.want)
			}
		})
	}
}

func TestFormatterHighlight(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)

	line := "Then they can be long-lived."
	if err := f.Format(line, []MatchSpan{{5, 9}}, "dir/tao.txt", true); err != nil {
		t.Fatalf("Format: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"\x1b[35mdir/tao.txt", "\x1b[36m:", "\x1b[31;1mthey"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() wrote %q, missing %q", out, want)
		}
	}
	if got := stripANSI(out); got != "dir/tao.txt:"+line+"\n" {
		t.Errorf("without escapes got %q", got)
	}
}

func TestFormatterHighlightWithoutSpans(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)

	if err := f.Format("no match here", nil, "", false); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if buf.String() != "no match here\n" {
		t.Errorf("Format() wrote %q, want the line verbatim", buf.String())
	}
}

func TestFormatterDisabledWritesNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, false)

	if err := f.Format("hello", []MatchSpan{{0, 5}}, "x.txt", true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("unexpected escape codes in %q", buf.String())
	}
	if f.Highlight() {
		t.Error("Highlight() = true, want false")
	}
}

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
