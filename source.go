package grepnir

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// StdinPath is the path argument that stands for standard input
	StdinPath = "-"

	// StdinLabel names standard input when it is one of several paths
	StdinLabel = "(standard input)"

	readBufferSize = 64 * 1024 // 64KB
)

// Source is one readable stream of lines. Label is empty for standard input
// when it is the only configured path.
type Source struct {
	Label string
	Path  string
	r     *bufio.Reader
}

// Reader returns the decoded content of the source. It is only valid while
// the source is being yielded.
func (s *Source) Reader() io.Reader {
	return s.r
}

// ResolverConfig holds the traversal policy
type ResolverConfig struct {
	Recursive  bool
	Stdin      io.Reader
	Detector   BinaryDetector // nil searches every file
	Decompress bool           // Look through gzip and bzip2 files
	Transcoder *Transcoder    // nil reads raw bytes
	Logger     zerolog.Logger
}

// Resolver turns path arguments into sources
type Resolver struct {
	config  ResolverConfig
	report  *Reporter
	skipped int
}

// NewResolver creates a resolver that reports problems to report
func NewResolver(config ResolverConfig, report *Reporter) *Resolver {
	if config.Stdin == nil {
		config.Stdin = os.Stdin
	}
	return &Resolver{config: config, report: report}
}

// Skipped returns how many files the binary heuristic has left out
func (r *Resolver) Skipped() int {
	return r.skipped
}

// Resolve lazily yields the sources behind path. A file is opened right
// before it is yielded and closed as soon as yield returns. multi tells the
// resolver that path is one of several configured paths, which labels
// standard input.
//
// Symbolic links are followed only when path itself is one; links met while
// descending are skipped along with every other non-regular entry.
func (r *Resolver) Resolve(path string, multi bool) iter.Seq[*Source] {
	return func(yield func(*Source) bool) {
		if path == StdinPath {
			r.resolveStdin(multi, yield)
			return
		}

		// Phase 1: the literal argument, following a symlink
		info, err := os.Stat(path)
		if err != nil {
			r.report.PathError(path, err)
			return
		}

		switch {
		case info.IsDir():
			if !r.config.Recursive {
				r.report.IsDirectory(path)
				return
			}
			// Phase 2: entries below the root, never following links
			r.walk(path, yield)
		case info.Mode().IsRegular():
			r.openFile(path, yield)
		default:
			r.config.Logger.Debug().Str("path", path).Str("mode", info.Mode().String()).Msg("skipping non-regular file")
		}
	}
}

func (r *Resolver) resolveStdin(multi bool, yield func(*Source) bool) {
	label := ""
	if multi {
		label = StdinLabel
		// Keep the directory diagnostics in line with a defaulted "." path
		if !r.config.Recursive {
			if info, err := os.Stat("."); err == nil && info.IsDir() {
				r.report.IsDirectory(".")
			}
		}
	}

	r.config.Logger.Debug().Msg("reading standard input")
	r.yieldStream(r.config.Stdin, label, StdinPath, false, yield)
}

// walk descends dir depth-first in directory-entry order. It returns false
// once the consumer has stopped.
func (r *Resolver) walk(dir string, yield func(*Source) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.report.Traversal(err)
		// ReadDir returns whatever it read before failing
	}

	for _, entry := range entries {
		entryPath := joinPath(dir, entry.Name())

		switch {
		case entry.IsDir():
			if !r.walk(entryPath, yield) {
				return false
			}
		case entry.Type().IsRegular():
			if !r.openFile(entryPath, yield) {
				return false
			}
		default:
			r.config.Logger.Debug().Str("path", entryPath).Str("type", entry.Type().String()).Msg("skipping non-regular entry")
		}
	}

	return true
}

func (r *Resolver) openFile(path string, yield func(*Source) bool) bool {
	file, err := os.Open(path)
	if err != nil {
		r.report.PathError(path, err)
		return true
	}
	defer file.Close()

	return r.yieldStream(file, path, path, r.config.Detector != nil, yield)
}

// yieldStream stacks decompression, transcoding and the binary check on top
// of raw, then hands the result to yield
func (r *Resolver) yieldStream(raw io.Reader, label, path string, sniff bool, yield func(*Source) bool) bool {
	var rd io.Reader = raw

	if r.config.Decompress {
		br := bufio.NewReaderSize(raw, readBufferSize)
		head, _ := br.Peek(4)
		rd = br

		if ct := DetectCompression(head); ct != CompressionNone {
			dr, closer, err := Decompress(br, ct)
			if err != nil {
				r.report.PathError(path, err)
				return true
			}
			defer closer.Close()

			r.config.Logger.Debug().Str("path", path).Stringer("compression", ct).Msg("decompressing")
			rd = dr
		}
	}

	buffered := bufio.NewReaderSize(r.config.Transcoder.Reader(rd), readBufferSize)

	if sniff {
		head, err := buffered.Peek(BinarySniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			r.report.PathError(path, err)
			return true
		}
		if r.config.Detector.IsBinary(head) {
			r.skipped++
			r.config.Logger.Debug().Str("path", path).Msg("skipping binary file")
			return true
		}
	}

	r.config.Logger.Debug().Str("path", path).Msg("source opened")
	return yield(&Source{Label: label, Path: path, r: buffered})
}

// joinPath appends name to dir without cleaning dir, so labels keep the
// spelling of the argument (for example a leading "./")
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
