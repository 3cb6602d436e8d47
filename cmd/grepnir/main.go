package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/localrivet/grepnir"
	"github.com/localrivet/grepnir/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

// exitUsage is returned for bad patterns, flags and config files
const exitUsage = 2

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	rootCmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", grepnir.ToolName, err)
		os.Exit(exitUsage)
	}
}

type flags struct {
	ignoreCase  bool
	recursive   bool
	invertMatch bool
	color       string
	encoding    string
	searchZip   bool
	text        bool
	configPath  string
	logLevel    string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "grepnir [flags] PATTERNS [PATH...]",
		Short: "Print lines that match patterns",
		Long: `grepnir searches for PATTERNS in each PATH. PATTERNS is one or more
regular expressions separated by newline characters, and grepnir prints each
line that matches any of them. A PATH of "-" stands for standard input.

Without a PATH grepnir reads standard input, or the working directory when
searching recursively. Directories are only searched with -r/--recursive,
which follows symbolic links only if they are on the command line.

EXAMPLES:
  grepnir "Alan Watts" phrase.txt              # Lines containing a phrase
  grepnir -i "alan watts" phrase.txt           # Ignore case
  grepnir -r "they" tests/inputs               # Recursive, lines prefixed with their file
  grepnir -v "Alan" phrase.txt                 # Lines that do not match
  grepnir $'foo\nbar' notes.txt                # Either pattern
  grepnir -z "ERROR" logs/app.log.gz           # Look inside compressed files`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, &f, args, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// Search behavior flags
	cmd.Flags().BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "Ignore case distinctions in patterns and input data")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Read all files under each directory, recursively")
	cmd.Flags().BoolVarP(&f.invertMatch, "invert-match", "v", false, "Select non-matching lines")

	// Input flags
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Input encoding (for example latin1, shift_jis, utf-16le)")
	cmd.Flags().BoolVarP(&f.searchZip, "search-zip", "z", false, "Search inside gzip and bzip2 files")
	cmd.Flags().BoolVarP(&f.text, "text", "a", false, "Search binary files as if they were text")

	// Output and ambient flags
	cmd.Flags().StringVar(&f.color, "color", "", "Highlight matches: auto, always or never")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file (default $GREPNIR_CONFIG or the user config dir)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Debug log level: debug, info, warn, error or disabled")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runSearch(cmd *cobra.Command, f *flags, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	configPath := f.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mergeFlags(cmd, f, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	highlight, err := config.ResolveColor(cfg.Color, fdOf(stdout))
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	searchCfg := grepnir.Config{
		PatternText:      args[0],
		Paths:            args[1:],
		IgnoreCase:       f.ignoreCase,
		Recursive:        f.recursive,
		InvertMatch:      f.invertMatch,
		Highlight:        highlight,
		Encoding:         cfg.Encoding,
		SearchCompressed: cfg.SearchCompressed,
		SearchBinary:     cfg.Binary == config.BinaryText,
	}
	if len(searchCfg.Paths) == 0 {
		searchCfg.Paths = grepnir.DefaultPaths(searchCfg.Recursive)
	}

	searcher, err := grepnir.New(searchCfg,
		grepnir.WithStdin(stdin),
		grepnir.WithStdout(stdout),
		grepnir.WithStderr(stderr),
		grepnir.WithLogger(logger),
	)
	if err != nil {
		var compileErr *grepnir.CompileError
		if errors.As(err, &compileErr) {
			return &usageError{err: compileErr}
		}
		return err
	}

	_, err = searcher.Run()
	return err
}

// mergeFlags lets explicitly set flags override the config file
func mergeFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	if cmd.Flags().Changed("color") {
		cfg.Color = strings.ToLower(f.color)
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if cmd.Flags().Changed("search-zip") {
		cfg.SearchCompressed = f.searchZip
	}
	if cmd.Flags().Changed("text") {
		if f.text {
			cfg.Binary = config.BinaryText
		} else {
			cfg.Binary = config.BinarySkip
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(f.logLevel)
	}
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nil
}

// fdOf returns the descriptor behind w, or an invalid one for plain writers
func fdOf(w io.Writer) uintptr {
	if file, ok := w.(*os.File); ok {
		return file.Fd()
	}
	return ^uintptr(0)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "grepnir %s\n", version)
		},
	}
}
