package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/logging"
	"github.com/alnah/go-termblog/internal/server"
)

// shutdownTimeout bounds graceful shutdown of the dev server.
const shutdownTimeout = 5 * time.Second

// runServeCmd builds the site, serves it and, with --watch, rebuilds on
// content changes until interrupted.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
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
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
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

	res, err := b.Build(ctx)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		OutputDir:      cfg.Output.Dir,
		PDFDir:         cfg.PDFPath(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logging.For(logs, logging.ModuleServer),
	}, res.Index)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Start() }()

	if flags.watch {
		w := server.NewWatcher(rebuildFunc(b, srv), []string{cfg.Content.Dir},
			server.WithWatchLogger(logging.For(logs, logging.ModuleServer)),
		)
		go func() { errCh <- w.Run(ctx) }()
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s/\n", cfg.Output.Dir, srv.Addr())
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, server.ErrNotStarted) {
		return errors.Join(runErr, err)
	}
	return runErr
}

// rebuildFunc rebuilds the site and swaps the viewer's PDF index.
func rebuildFunc(b *termblog.Builder, srv *server.Server) server.RebuildFunc {
	return func(ctx context.Context) error {
		res, err := b.Build(ctx)
		if err != nil {
			return err
		}
		srv.SetIndex(res.Index)
		return nil
	}
}
