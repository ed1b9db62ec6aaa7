package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/hints"
)

// runBuildCmd builds the site and, with --pdf or export.enabled, exports
// every post.
func runBuildCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseBuildFlags(args, env.Stderr)
	if errors.Is(err, errHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&flags.common)
	if err != nil {
		return err
	}
	mergeBuildFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logs, err := newLogProvider(cfg)
	if err != nil {
		return err
	}
	b, err := newBuilder(cfg, logs, env)
	if err != nil {
		return err
	}

	if flags.strict {
		res, err := b.Check(ctx)
		if err != nil {
			return err
		}
		if !res.OK() {
			printProblems(env.Stderr, res)
			return fmt.Errorf("%w: %d found%s", ErrBrokenLinks, len(res.Problems), hints.ForBrokenLinks())
		}
	}

	res, err := b.Build(ctx)
	if err != nil {
		return err
	}
	if res.Store.Len() == 0 && !fileutil.DirExists(cfg.PostsPath()) {
		fmt.Fprintf(env.Stderr, "warning: no posts found%s\n", hints.ForContentDirectory(cfg.PostsPath()))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Built %d posts, %d pages -> %s (%s)\n",
			res.Store.Len(), res.Site.Pages, cfg.Output.Dir, res.Duration.Round(time.Millisecond))
	}

	if !cfg.Export.Enabled || res.Store.Len() == 0 {
		return nil
	}
	return exportPosts(ctx, b, res, cfg, flags, env)
}

// mergeBuildFlags applies build flags that were set over cfg (CLI wins).
func mergeBuildFlags(f *buildFlags, cfg *config.Config) {
	if f.clean {
		cfg.Output.Clean = true
	}
	if f.pdf {
		cfg.Export.Enabled = true
	}
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.pageSize != "" {
		cfg.Export.PageSize = f.pageSize
	}
}

// exportPosts prints every built post through a browser pool.
func exportPosts(ctx context.Context, b *termblog.Builder, res *termblog.BuildResult, cfg *config.Config, flags *buildFlags, env *Environment) error {
	workers := flags.workers
	if workers == 0 {
		workers = loadEnvConfig().Workers
	}
	size := min(termblog.ResolvePoolSize(workers), res.Store.Len())
	timeout := cfg.ExportTimeout()

	pool := termblog.NewExporterPool(size, func() termblog.PDFExporter {
		return env.NewExporter(timeout)
	})
	defer func() { _ = pool.Close() }()

	reporter := newReporter(env.Stderr, env.Interactive, flags.common.quiet)
	reporter.Start(res.Store.Len())
	var finished atomic.Int32
	results, err := b.Export(ctx, res, pool, func(r termblog.ExportResult) {
		status := "ok"
		if r.Err != nil {
			status = "failed"
		}
		reporter.Update(int(finished.Add(1)), r.Slug+" "+status)
	})
	reporter.Finish()
	if err != nil {
		return err
	}

	sum := termblog.Summarize(results)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Exported %d/%d posts -> %s\n", sum.Succeeded, len(results), cfg.ExportPath())
	}
	if sum.Failed == 0 {
		return nil
	}
	printExportFailures(env.Stderr, results)
	first := firstExportError(results)
	return fmt.Errorf("%d of %d exports failed: %w%s", sum.Failed, len(results), first, exportHint(first))
}

func printExportFailures(w io.Writer, results []termblog.ExportResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", r.Slug, r.Err)
		}
	}
}

func firstExportError(results []termblog.ExportResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// exportHint picks the hint matching an export failure.
func exportHint(err error) string {
	switch {
	case errors.Is(err, termblog.ErrBrowserConnect), errors.Is(err, termblog.ErrExporterInit):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
