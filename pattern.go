package grepnir

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled set of newline-separated alternatives. It is built
// once per run and is safe to share between every source.
type Pattern struct {
	text         string
	ignoreCase   bool
	alternatives []string
	re           *regexp.Regexp
}

// CompileError reports pattern text that does not compile
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompilePattern splits text on newlines and compiles the pieces into a single
// alternation. An empty alternative matches every line.
func CompilePattern(text string, ignoreCase bool) (*Pattern, error) {
	if text == "" {
		return nil, &CompileError{Pattern: text, Err: fmt.Errorf("pattern cannot be empty")}
	}

	alternatives := strings.Split(text, "\n")

	// Compile every piece on its own first so the error names the culprit
	groups := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		if _, err := regexp.Compile(alt); err != nil {
			return nil, &CompileError{Pattern: alt, Err: err}
		}
		groups = append(groups, "(?:"+alt+")")
	}

	expr := strings.Join(groups, "|")
	if ignoreCase {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompileError{Pattern: text, Err: err}
	}

	return &Pattern{
		text:         text,
		ignoreCase:   ignoreCase,
		alternatives: alternatives,
		re:           re,
	}, nil
}

// String returns the pattern text as given
func (p *Pattern) String() string {
	return p.text
}

// IgnoreCase reports whether the pattern was compiled case-insensitively
func (p *Pattern) IgnoreCase() bool {
	return p.ignoreCase
}

// Alternatives returns the newline-separated pieces of the pattern
func (p *Pattern) Alternatives() []string {
	out := make([]string, len(p.alternatives))
	copy(out, p.alternatives)
	return out
}

// IsMatch reports whether any alternative matches anywhere in line
func (p *Pattern) IsMatch(line string) bool {
	return p.re.MatchString(line)
}

// FindAll returns the successive non-overlapping matches in line, left to
// right. Empty matches carry nothing to highlight and are left out.
func (p *Pattern) FindAll(line string) []MatchSpan {
	indices := p.re.FindAllStringIndex(line, -1)
	if len(indices) == 0 {
		return nil
	}

	spans := make([]MatchSpan, 0, len(indices))
	for _, m := range indices {
		if m[1] > m[0] {
			spans = append(spans, MatchSpan{Start: m[0], End: m[1]})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	return spans
}
