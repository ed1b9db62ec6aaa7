package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-termblog/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // TERMBLOG_CONFIG: config file name or path

	ContentDir string // TERMBLOG_CONTENT_DIR
	OutputDir  string // TERMBLOG_OUTPUT_DIR
	BaseURL    string // TERMBLOG_BASE_URL
	Style      string // TERMBLOG_STYLE: chroma style
	Addr       string // TERMBLOG_ADDR: serve listen address

	LogLevel  string // TERMBLOG_LOG_LEVEL
	LogFormat string // TERMBLOG_LOG_FORMAT

	PageSize      string // TERMBLOG_PAGE_SIZE: letter, a4, legal
	ExportTimeout string // TERMBLOG_EXPORT_TIMEOUT: Go duration
	Workers       int    // TERMBLOG_WORKERS: export workers
}

// knownEnvVars lists valid TERMBLOG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TERMBLOG_CONFIG":         true,
	"TERMBLOG_CONTENT_DIR":    true,
	"TERMBLOG_OUTPUT_DIR":     true,
	"TERMBLOG_BASE_URL":       true,
	"TERMBLOG_STYLE":          true,
	"TERMBLOG_ADDR":           true,
	"TERMBLOG_LOG_LEVEL":      true,
	"TERMBLOG_LOG_FORMAT":     true,
	"TERMBLOG_PAGE_SIZE":      true,
	"TERMBLOG_EXPORT_TIMEOUT": true,
	"TERMBLOG_WORKERS":        true,
	"TERMBLOG_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("TERMBLOG_CONFIG"),
		ContentDir:    os.Getenv("TERMBLOG_CONTENT_DIR"),
		OutputDir:     os.Getenv("TERMBLOG_OUTPUT_DIR"),
		BaseURL:       os.Getenv("TERMBLOG_BASE_URL"),
		Style:         os.Getenv("TERMBLOG_STYLE"),
		Addr:          os.Getenv("TERMBLOG_ADDR"),
		LogLevel:      os.Getenv("TERMBLOG_LOG_LEVEL"),
		LogFormat:     os.Getenv("TERMBLOG_LOG_FORMAT"),
		PageSize:      os.Getenv("TERMBLOG_PAGE_SIZE"),
		ExportTimeout: os.Getenv("TERMBLOG_EXPORT_TIMEOUT"),
	}

	// Invalid worker counts are ignored; --workers still validates.
	if workers := os.Getenv("TERMBLOG_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized TERMBLOG_* variables.
// Helps catch typos like TERMBLOG_OUTPUTDIR.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TERMBLOG_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				unknown = append(unknown, name)
			}
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config file values with the environment.
// CLI flags are applied afterwards: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Content.Dir, env.ContentDir)
	set(&cfg.Output.Dir, env.OutputDir)
	set(&cfg.Site.BaseURL, env.BaseURL)
	set(&cfg.Highlight.Style, env.Style)
	set(&cfg.Server.Addr, env.Addr)
	set(&cfg.Log.Level, env.LogLevel)
	set(&cfg.Log.Format, env.LogFormat)
	set(&cfg.Export.PageSize, env.PageSize)
	set(&cfg.Export.Timeout, env.ExportTimeout)
}
