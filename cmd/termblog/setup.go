package main

import (
	"errors"
	"fmt"

	termblog "github.com/alnah/go-termblog"
	"github.com/alnah/go-termblog/internal/config"
	"github.com/alnah/go-termblog/internal/hints"
	"github.com/alnah/go-termblog/internal/logging"
)

// defaultConfigName is looked up when neither --config nor TERMBLOG_CONFIG
// is set. Its absence is not an error.
const defaultConfigName = config.AppName

// loadConfig resolves the configuration: defaults, then the config file,
// then TERMBLOG_* variables, then the common flags.
func loadConfig(f *commonFlags) (*config.Config, error) {
	env := loadEnvConfig()

	name, explicit := f.config, true
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		name, explicit = defaultConfigName, false
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
	case errors.Is(err, config.ErrConfigNotFound):
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(env, cfg)
	mergeCommonFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeCommonFlags applies flags that were set over cfg (CLI wins).
func mergeCommonFlags(f *commonFlags, cfg *config.Config) {
	if f.content != "" {
		cfg.Content.Dir = f.content
	}
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	switch {
	case f.logLevel != "":
		cfg.Log.Level = f.logLevel
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
}

// newLogProvider builds the structured logger from cfg.log.
func newLogProvider(cfg *config.Config) (*logging.GlogProvider, error) {
	return logging.NewProvider(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// newBuilder wires the builder with the environment's dependencies.
func newBuilder(cfg *config.Config, logs logging.Provider, env *Environment, extra ...termblog.Option) (*termblog.Builder, error) {
	opts := []termblog.Option{
		termblog.WithLogger(logs),
		termblog.WithClock(env.Now),
	}
	if env.Inspector != nil {
		opts = append(opts, termblog.WithInspector(env.Inspector))
	}
	return termblog.New(cfg, append(opts, extra...)...)
}
