package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-termblog/internal/dateutil"
	"github.com/alnah/go-termblog/internal/fileutil"
	"github.com/alnah/go-termblog/internal/yamlutil"
)

// AppName is the directory searched under the user config directory.
const AppName = "termblog"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxAuthorLength      = 100
	MaxURLLength         = 2048
	MaxPathLength        = 4096
	MaxPatternLength     = 256
	MaxStyleLength       = 50
	MaxAddrLength        = 256
	MaxPageSizeLength    = 10
)

// Range limits.
const (
	MaxRecentPosts   = 100
	MaxPatterns      = 64
	MaxExportTimeout = 10 * time.Minute
)

// Config holds the site, build, server and export configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Output    OutputConfig    `yaml:"output"`
	Highlight HighlightConfig `yaml:"highlight"`
	Assets    AssetsConfig    `yaml:"assets"`
	Server    ServerConfig    `yaml:"server"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
}

// SiteConfig describes the blog itself.
type SiteConfig struct {
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Author         string `yaml:"author"`
	BaseURL        string `yaml:"baseURL"`        // absolute URL used in sitemap.xml (empty = relative)
	DateFormat     string `yaml:"dateFormat"`     // post pages, dateutil tokens or preset
	ListDateFormat string `yaml:"listDateFormat"` // post lists
	RecentPosts    int    `yaml:"recentPosts"`    // posts on the home page
}

// ContentConfig locates the markdown sources and PDF documents.
type ContentConfig struct {
	Dir      string   `yaml:"dir"`      // content root (home.md, about.md)
	PostsDir string   `yaml:"postsDir"` // relative to Dir
	PDFDir   string   `yaml:"pdfDir"`   // relative to Dir
	Include  []string `yaml:"include"`  // doublestar patterns, relative to PostsDir
	Exclude  []string `yaml:"exclude"`
}

// OutputConfig controls where the site is written.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"` // remove Dir before building
}

// HighlightConfig selects the chroma style for code blocks.
type HighlightConfig struct {
	Style string `yaml:"style"`
}

// AssetsConfig overrides embedded templates and static files.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// ServerConfig configures `termblog serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ExportConfig configures PDF export of posts.
type ExportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`      // relative to output.dir
	PageSize string `yaml:"pageSize"` // letter, a4, legal
	Timeout  string `yaml:"timeout"`  // per post, Go duration
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Page sizes accepted by export.pageSize.
var PageSizes = []string{"letter", "a4", "legal"}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	logFormats = []string{"console", "json", "pretty"}
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:          "termblog",
			DateFormat:     "long",
			ListDateFormat: "iso",
			RecentPosts:    5,
		},
		Content: ContentConfig{
			Dir:      "content",
			PostsDir: "posts",
			PDFDir:   "pdfs",
			Include:  []string{"*.md"},
		},
		Output:    OutputConfig{Dir: "public"},
		Highlight: HighlightConfig{Style: "monokai"},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
		Export: ExportConfig{
			Dir:      "exports",
			PageSize: "a4",
			Timeout:  "30s",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// PostsPath returns the posts directory joined onto the content root.
func (c *Config) PostsPath() string {
	return filepath.Join(c.Content.Dir, c.Content.PostsDir)
}

// PDFPath returns the PDF directory joined onto the content root.
func (c *Config) PDFPath() string {
	return filepath.Join(c.Content.Dir, c.Content.PDFDir)
}

// ExportPath returns the export directory joined onto the output root.
func (c *Config) ExportPath() string {
	return filepath.Join(c.Output.Dir, c.Export.Dir)
}

// ExportTimeout returns export.timeout as a duration, or 0 when unset.
func (c *Config) ExportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Export.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks field lengths, enumerations and ranges.
// Called by LoadConfig; call it again after applying overrides.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.description", c.Site.Description, MaxDescriptionLength},
		{"site.author", c.Site.Author, MaxAuthorLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"content.postsDir", c.Content.PostsDir, MaxPathLength},
		{"content.pdfDir", c.Content.PDFDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"export.dir", c.Export.Dir, MaxPathLength},
		{"export.pageSize", c.Export.PageSize, MaxPageSizeLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: site.baseURL must be an absolute http(s) URL, got %q", ErrInvalidValue, c.Site.BaseURL)
		}
	}
	for field, format := range map[string]string{
		"site.dateFormat":     c.Site.DateFormat,
		"site.listDateFormat": c.Site.ListDateFormat,
	} {
		if format == "" {
			continue
		}
		if _, err := dateutil.Layout(format); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if c.Site.RecentPosts < 0 || c.Site.RecentPosts > MaxRecentPosts {
		return fmt.Errorf("%w: site.recentPosts must be between 0 and %d, got %d", ErrInvalidValue, MaxRecentPosts, c.Site.RecentPosts)
	}

	if err := validatePatterns("content.include", c.Content.Include); err != nil {
		return err
	}
	if err := validatePatterns("content.exclude", c.Content.Exclude); err != nil {
		return err
	}

	for i, origin := range c.Server.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxURLLength); err != nil {
			return err
		}
	}

	if c.Export.PageSize != "" && !slices.Contains(PageSizes, strings.ToLower(c.Export.PageSize)) {
		return fmt.Errorf("%w: export.pageSize %q (must be %s)", ErrInvalidValue, c.Export.PageSize, strings.Join(PageSizes, ", "))
	}
	if c.Export.Timeout != "" {
		d, err := time.ParseDuration(c.Export.Timeout)
		if err != nil {
			return fmt.Errorf("%w: export.timeout %q: %v", ErrInvalidValue, c.Export.Timeout, err)
		}
		if d <= 0 || d > MaxExportTimeout {
			return fmt.Errorf("%w: export.timeout must be between 0 and %s, got %s", ErrInvalidValue, MaxExportTimeout, d)
		}
	}

	if c.Log.Level != "" && !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	if c.Log.Format != "" && !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: log.format %q (must be %s)", ErrInvalidValue, c.Log.Format, strings.Join(logFormats, ", "))
	}

	return nil
}

func validatePatterns(field string, patterns []string) error {
	if len(patterns) > MaxPatterns {
		return fmt.Errorf("%w: %s has %d patterns (max %d)", ErrInvalidValue, field, len(patterns), MaxPatterns)
	}
	for i, p := range patterns {
		name := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name, p, MaxPatternLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; otherwise it names
// <name>.yaml or <name>.yml in the working directory, then in the user
// config directory under termblog/. Fields absent from the file keep their
// DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg, yamlutil.Strict()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
