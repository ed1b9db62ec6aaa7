package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for flag handling.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// errHelp reports that -h was handled and the command should stop.
var errHelp = flag.ErrHelp

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	content   string
	output    string
	logLevel  string
	logFormat string
	quiet     bool
	verbose   bool
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common   commonFlags
	clean    bool
	strict   bool
	pdf      bool
	workers  int
	timeout  string
	pageSize string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
	watch  bool
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.content, "content", "", "content directory")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json, pretty")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addBuildFlags adds build command flags to a FlagSet.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.BoolVar(&f.clean, "clean", false, "remove the output directory first")
	fs.BoolVar(&f.strict, "strict", false, "fail when a pdf: link does not resolve")
	fs.BoolVar(&f.pdf, "pdf", false, "export every post to PDF")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel export browsers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-post export timeout (e.g., 30s, 2m)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "export page size: letter, a4, legal")
}

// addServeFlags adds serve command flags to a FlagSet.
func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when content changes")
}

// addCheckFlags adds check command flags to a FlagSet.
func addCheckFlags(fs *flag.FlagSet, f *checkFlags) {
	fs.BoolVar(&f.json, "json", false, "print problems as JSON")
}

func buildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addBuildFlags(fs, f)
	return fs
}

func serveFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addServeFlags(fs, f)
	return fs
}

func checkFlagSet(f *checkFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addCheckFlags(fs, f)
	return fs
}

// parseFlagSet parses args and rejects positional arguments.
// Returns errHelp after printing usage for -h.
func parseFlagSet(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) error {
	// Parse errors are reported once by runMain.
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(fs.Args(), " "))
	}
	return nil
}

func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, error) {
	f := &buildFlags{}
	if err := parseFlagSet(buildFlagSet(f), args, stderr, printBuildUsage); err != nil {
		return nil, err
	}
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, f.workers)
	}
	return f, nil
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	if err := parseFlagSet(serveFlagSet(f), args, stderr, printServeUsage); err != nil {
		return nil, err
	}
	return f, nil
}

func parseCheckFlags(args []string, stderr io.Writer) (*checkFlags, error) {
	f := &checkFlags{}
	if err := parseFlagSet(checkFlagSet(f), args, stderr, printCheckUsage); err != nil {
		return nil, err
	}
	return f, nil
}
