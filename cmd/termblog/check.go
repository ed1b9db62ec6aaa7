package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/pdfindex"
)

// ErrBrokenLinks is returned when pdf: links do not resolve.
var ErrBrokenLinks = errors.New("broken pdf links")

// checkReport is the --json output of the check command.
type checkReport struct {
	Links    int                `json:"links"`
	Files    int                `json:"files"`
	Problems []pdfindex.Problem `json:"problems"`
}

// runCheckCmd verifies every pdf: link without writing the site.
func runCheckCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseCheckFlags(args, env.Stderr)
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
	logs, err := newLogProvider(cfg)
	if err != nil {
		return err
	}
	b, err := newBuilder(cfg, logs, env)
	if err != nil {
		return err
	}

	res, err := b.Check(ctx)
	if err != nil {
		return err
	}

	if flags.json {
		report := checkReport{Links: len(res.Links), Files: res.Index.Len(), Problems: res.Problems}
		if report.Problems == nil {
			report.Problems = []pdfindex.Problem{}
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printProblems(env.Stdout, res)
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "%d links checked against %d PDFs, %d problems\n",
				len(res.Links), res.Index.Len(), len(res.Problems))
		}
	}

	if !res.OK() {
		return fmt.Errorf("%w: %d found", ErrBrokenLinks, len(res.Problems))
	}
	return nil
}

// printProblems writes one source:line: link: kind (detail) line per problem.
func printProblems(w io.Writer, res *termblog.CheckResult) {
	for _, p := range res.Problems {
		fmt.Fprintln(w, p.String())
	}
}
