package grepnir

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	p, err := CompilePattern("Alan", false)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}

	lines := []string{
		"Alan Watts wrote...",
		"alan watts",
		"nothing",
		"",
		"Say Alan twice: Alan",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			normal := Select(line, p, false)
			inverted := Select(line, p, true)

			if normal != p.IsMatch(line) {
				t.Errorf("Select(%q, false) = %v, want %v", line, normal, p.IsMatch(line))
			}
			if inverted == normal {
				t.Errorf("Select(%q, true) = %v, want complement of %v", line, inverted, normal)
			}
		})
	}
}

type lineResult struct {
	text   string
	decode bool
}

func readAllLines(t *testing.T, lr *LineReader) []lineResult {
	t.Helper()
	var out []lineResult
	for lr.Next() {
		if err := lr.Err(); err != nil {
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			out = append(out, lineResult{decode: true})
			continue
		}
		out = append(out, lineResult{text: lr.Text()})
	}
	return out
}

func TestLineReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lineResult
	}{
		{
			name:  "Empty",
			input: "",
			want:  nil,
		},
		{
			name:  "TrailingNewline",
			input: "one\ntwo\n",
			want:  []lineResult{{text: "one"}, {text: "two"}},
		},
		{
			name:  "NoTrailingNewline",
			input: "one\ntwo",
			want:  []lineResult{{text: "one"}, {text: "two"}},
		},
		{
			name:  "CRLF",
			input: "one\r\ntwo\r\n",
			want:  []lineResult{{text: "one"}, {text: "two"}},
		},
		{
			name:  "BlankLines",
			input: "\n\nx\n",
			want:  []lineResult{{text: ""}, {text: ""}, {text: "x"}},
		},
		{
			name:  "InvalidUTF8Dropped",
			input: "good\n\xff\xfe bad\nalso good\n",
			want:  []lineResult{{text: "good"}, {decode: true}, {text: "also good"}},
		},
		{
			name:  "InvalidLastLine",
			input: "good\n\xff",
			want:  []lineResult{{text: "good"}, {decode: true}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lr := NewLineReader(strings.NewReader(test.input), "in.txt")
			got := readAllLines(t, lr)

			if len(got) != len(test.want) {
				t.Fatalf("got %d lines %v, want %d %v", len(got), got, len(test.want), test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("line %d = %+v, want %+v", i+1, got[i], test.want[i])
				}
			}
			if err := lr.Err(); err != nil {
				t.Errorf("Err() after end = %v, want nil", err)
			}
		})
	}
}

func TestLineReaderLongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)
	lr := NewLineReader(strings.NewReader(long+"\nshort\n"), "")

	if !lr.Next() || lr.Text() != long {
		t.Fatal("expected the long line in one piece")
	}
	if !lr.Next() || lr.Text() != "short" {
		t.Fatal("expected the short line next")
	}
	if lr.Next() {
		t.Fatal("expected end of input")
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	lr := NewLineReader(strings.NewReader("\xff\n"), "data.txt")
	if !lr.Next() {
		t.Fatal("expected a line")
	}

	err := lr.Err()
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "data.txt: line 1") {
		t.Errorf("error %q does not name the source and line", err)
	}
	if lr.LineNumber() != 1 {
		t.Errorf("LineNumber() = %d, want 1", lr.LineNumber())
	}
}

type failingReader struct {
	data string
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestLineReaderReadError(t *testing.T) {
	boom := errors.New("boom")
	lr := NewLineReader(&failingReader{data: "first\nsecond", err: boom}, "")

	if !lr.Next() || lr.Text() != "first" {
		t.Fatal("expected first line")
	}
	if lr.Next() {
		t.Fatal("expected Next to stop on read error")
	}
	if !errors.Is(lr.Err(), boom) {
		t.Errorf("Err() = %v, want %v", lr.Err(), boom)
	}
	if errors.Is(lr.Err(), io.EOF) {
		t.Error("read error must not look like EOF")
	}
}
