package grepnir

// Config is the validated input of a run, filled in by the command line layer
type Config struct {
	PatternText string   // One or more alternatives separated by newlines
	Paths       []string // "-" is standard input
	IgnoreCase  bool
	Recursive   bool
	InvertMatch bool

	Highlight        bool   // Emit colour escape codes
	Encoding         string // Input encoding label, empty for raw UTF-8
	SearchCompressed bool   // Look through gzip and bzip2 files
	SearchBinary     bool   // Disable the binary heuristic
}

// DefaultPaths returns the paths searched when none are given: standard
// input normally, the working directory when recursing
func DefaultPaths(recursive bool) []string {
	if recursive {
		return []string{"."}
	}
	return []string{StdinPath}
}

func (c Config) paths() []string {
	if len(c.Paths) == 0 {
		return DefaultPaths(c.Recursive)
	}
	return c.Paths
}
