// Package grepnir prints the lines of files, directories or standard input
// that match one or more patterns.
package grepnir

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ToolName prefixes every diagnostic
const ToolName = "grepnir"

// Option represents a functional option for configuring a Searcher
type Option func(*searchOptions)

type searchOptions struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	detector BinaryDetector
	logger   zerolog.Logger
	tool     string
}

func defaultOptions() *searchOptions {
	return &searchOptions{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		detector: NullByteDetector{},
		logger:   zerolog.Nop(),
		tool:     ToolName,
	}
}

// WithStdin sets the stream read for the "-" path
func WithStdin(r io.Reader) Option {
	return func(opts *searchOptions) {
		opts.stdin = r
	}
}

// WithStdout sets where selected lines are written
func WithStdout(w io.Writer) Option {
	return func(opts *searchOptions) {
		opts.stdout = w
	}
}

// WithStderr sets where diagnostics are written
func WithStderr(w io.Writer) Option {
	return func(opts *searchOptions) {
		opts.stderr = w
	}
}

// WithBinaryDetector replaces the null-byte heuristic
func WithBinaryDetector(d BinaryDetector) Option {
	return func(opts *searchOptions) {
		opts.detector = d
	}
}

// WithLogger sets the debug logger
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *searchOptions) {
		opts.logger = logger
	}
}

// WithToolName changes the prefix of diagnostics
func WithToolName(name string) Option {
	return func(opts *searchOptions) {
		if name != "" {
			opts.tool = name
		}
	}
}

// Searcher runs one configured search
type Searcher struct {
	config    Config
	pattern   *Pattern
	resolver  *Resolver
	formatter *Formatter
	report    *Reporter
	logger    zerolog.Logger
}

// New compiles the pattern and wires the search. A pattern that does not
// compile is returned as a *CompileError before any input is touched.
func New(config Config, opts ...Option) (*Searcher, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	pattern, err := CompilePattern(config.PatternText, config.IgnoreCase)
	if err != nil {
		return nil, err
	}

	enc, err := LookupEncoding(config.Encoding)
	if err != nil {
		return nil, err
	}

	detector := options.detector
	if config.SearchBinary || detector == nil {
		detector = TextDetector{}
	}

	report := NewReporter(options.stderr, options.tool)
	resolver := NewResolver(ResolverConfig{
		Recursive:  config.Recursive,
		Stdin:      options.stdin,
		Detector:   detector,
		Decompress: config.SearchCompressed,
		Transcoder: NewTranscoder(enc),
		Logger:     options.logger,
	}, report)

	return &Searcher{
		config:    config,
		pattern:   pattern,
		resolver:  resolver,
		formatter: NewFormatter(options.stdout, config.Highlight),
		report:    report,
		logger:    options.logger,
	}, nil
}

// Pattern returns the compiled pattern shared by the run
func (s *Searcher) Pattern() *Pattern {
	return s.pattern
}

// Run searches every configured path in order. Unreadable paths, files and
// lines are reported and skipped; only a failing stdout ends the run early.
func (s *Searcher) Run() (Stats, error) {
	start := time.Now()
	paths := s.config.paths()
	multi := len(paths) > 1

	var stats Stats
	for _, path := range paths {
		stats.Paths++
		for src := range s.resolver.Resolve(path, multi) {
			if err := s.searchSource(src, &stats); err != nil {
				stats.FilesSkipped = s.resolver.Skipped()
				stats.Diagnostics = s.report.Count()
				return stats, err
			}
		}
	}

	stats.FilesSkipped = s.resolver.Skipped()
	stats.Diagnostics = s.report.Count()

	s.logger.Debug().
		Int("paths", stats.Paths).
		Int("files_searched", stats.FilesSearched).
		Int("files_skipped", stats.FilesSkipped).
		Int("lines_selected", stats.LinesSelected).
		Int("diagnostics", stats.Diagnostics).
		Dur("duration", time.Since(start)).
		Msg("search complete")

	return stats, nil
}

// searchSource filters the lines of one source and prints the selected ones
func (s *Searcher) searchSource(src *Source, stats *Stats) error {
	stats.FilesSearched++

	lines := NewLineReader(src.Reader(), src.Label)
	for lines.Next() {
		if err := lines.Err(); err != nil {
			s.report.Decode(err)
			continue
		}

		stats.LinesRead++
		line := lines.Text()
		if !Select(line, s.pattern, s.config.InvertMatch) {
			continue
		}
		stats.LinesSelected++

		var spans []MatchSpan
		if s.formatter.Highlight() && !s.config.InvertMatch {
			spans = s.pattern.FindAll(line)
		}

		if err := s.formatter.Format(line, spans, src.Label, s.config.Recursive); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if err := lines.Err(); err != nil {
		s.report.PathError(src.Path, err)
	}
	return nil
}
