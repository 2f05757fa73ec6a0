package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

var ErrSiteTitleRequired = errors.New("llms config: site title is required")
var ErrOriginInvalid = errors.New("llms config: origin must be an absolute http(s) url")
var ErrEndpointPathInvalid = errors.New("llms config: endpoint path is invalid")
var ErrEndpointPathConflict = errors.New("llms config: endpoints share a path")
var ErrFileNameInvalid = errors.New("llms config: output file name is invalid")
var ErrContentSourceUnknown = errors.New("llms config: content source is invalid")
var ErrContentDirRequired = errors.New("llms config: content directory is required for the markdown source")
var ErrStorageDialectUnknown = errors.New("llms config: storage dialect is invalid")
var ErrStorageDSNRequired = errors.New("llms config: storage dsn is required")
var ErrGeneratorOutputDirRequired = errors.New("llms config: generator output directory is required")
var ErrGeneratorWorkersInvalid = errors.New("llms config: generator workers must be zero or positive")
var ErrHTTPAddrRequired = errors.New("llms config: http address is required")
var ErrLoggingProviderUnknown = errors.New("llms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("llms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("llms config: logging format is invalid")

const (
	ContentSourceMarkdown = "markdown"
	ContentSourceSQL      = "sql"
	ContentSourceMemory   = "memory"
)

// Config aggregates everything the exporter, its surfaces and its stores
// read at runtime.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Index     IndexConfig     `yaml:"index"`
	Full      FullConfig      `yaml:"full"`
	Pages     PagesConfig     `yaml:"pages"`
	Content   ContentConfig   `yaml:"content"`
	Storage   StorageConfig   `yaml:"storage"`
	Generator GeneratorConfig `yaml:"generator"`
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig holds the defaults every export falls back to.
type SiteConfig struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Origin  string `yaml:"origin"`
}

// IndexConfig configures llms.txt. Blank Title, Summary and Origin fall back
// to the site values.
type IndexConfig struct {
	Path      string   `yaml:"path"`
	FileName  string   `yaml:"file_name"`
	Title     string   `yaml:"title"`
	Summary   string   `yaml:"summary"`
	Origin    string   `yaml:"origin"`
	Canonical []string `yaml:"canonical"`
}

// FullConfig configures llms-full.txt.
type FullConfig struct {
	Path      string   `yaml:"path"`
	FileName  string   `yaml:"file_name"`
	Title     string   `yaml:"title"`
	Summary   string   `yaml:"summary"`
	Canonical []string `yaml:"canonical"`
}

// PagesConfig toggles per-page markdown mirrors.
type PagesConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ContentConfig selects and configures the corpus source.
type ContentConfig struct {
	Source        string   `yaml:"source"`
	Dir           string   `yaml:"dir"`
	Patterns      []string `yaml:"patterns"`
	IncludeDrafts bool     `yaml:"include_drafts"`
}

// StorageConfig configures the SQL store used by the sql source and by sync.
type StorageConfig struct {
	Dialect      string `yaml:"dialect"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

// GeneratorConfig captures behaviour for static builds.
type GeneratorConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Workers   int           `yaml:"workers"`
	Manifest  bool          `yaml:"manifest"`
	Timeout   time.Duration `yaml:"timeout"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MetricsConfig toggles the prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns defaults suitable for a local markdown tree.
func DefaultConfig() Config {
	return Config{
		Index: IndexConfig{
			Path:     "/llms.txt",
			FileName: "llms.txt",
		},
		Full: FullConfig{
			Path:     "/llms-full.txt",
			FileName: "llms-full.txt",
		},
		Content: ContentConfig{
			Source:   ContentSourceMarkdown,
			Dir:      "content",
			Patterns: []string{"*.md", "*.mdx"},
		},
		Storage: StorageConfig{
			Dialect: "sqlite",
			DSN:     "file:llms.db?cache=shared",
		},
		Generator: GeneratorConfig{
			OutputDir: "dist",
			Workers:   4,
			Manifest:  true,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
	}
}

var endpointPathPattern = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)

// Validate performs consistency checks. The first failure is returned.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Title) == "" && strings.TrimSpace(cfg.Index.Title) == "" {
		return ErrSiteTitleRequired
	}
	for _, origin := range []struct{ field, value string }{
		{"site.origin", cfg.Site.Origin},
		{"index.origin", cfg.Index.Origin},
	} {
		if strings.TrimSpace(origin.value) == "" {
			continue
		}
		if !isAbsoluteHTTPURL(origin.value) {
			return fmt.Errorf("%w: %s %q", ErrOriginInvalid, origin.field, origin.value)
		}
	}

	if err := validatePath("index.path", cfg.Index.Path); err != nil {
		return err
	}
	if err := validatePath("full.path", cfg.Full.Path); err != nil {
		return err
	}
	if CleanPath(cfg.Index.Path) == CleanPath(cfg.Full.Path) {
		return fmt.Errorf("%w: index.path and full.path resolve to %s", ErrEndpointPathConflict, CleanPath(cfg.Index.Path))
	}
	if err := validateFileName("index.file_name", cfg.Index.FileName); err != nil {
		return err
	}
	if err := validateFileName("full.file_name", cfg.Full.FileName); err != nil {
		return err
	}

	switch source := normalize(cfg.Content.Source); source {
	case ContentSourceMarkdown:
		if strings.TrimSpace(cfg.Content.Dir) == "" {
			return ErrContentDirRequired
		}
	case ContentSourceSQL, ContentSourceMemory:
	default:
		return fmt.Errorf("%w: %s", ErrContentSourceUnknown, cfg.Content.Source)
	}

	if normalize(cfg.Content.Source) == ContentSourceSQL {
		if err := cfg.Storage.Validate(); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if err := validation.Validate(cfg.Generator.Workers, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneratorWorkersInvalid, err)
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.Metrics.Enabled {
		if err := validatePath("metrics.path", cfg.Metrics.Path); err != nil {
			return err
		}
		metricsPath := CleanPath(cfg.Metrics.Path)
		if metricsPath == CleanPath(cfg.Index.Path) || metricsPath == CleanPath(cfg.Full.Path) {
			return fmt.Errorf("%w: metrics.path %s", ErrEndpointPathConflict, metricsPath)
		}
	}
	if cfg.Pages.Enabled {
		// page mirrors take the catch-all route, which "/" would duplicate
		for _, route := range cfg.registeredPaths() {
			if route.path == "/" {
				return fmt.Errorf("%w: %s is / while page mirrors are enabled", ErrEndpointPathConflict, route.field)
			}
		}
	}

	return cfg.Logging.Validate()
}

// Validate checks the dialect and dsn.
func (s StorageConfig) Validate() error {
	if !isSupportedDialect(s.Dialect) {
		return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, s.Dialect)
	}
	if strings.TrimSpace(s.DSN) == "" {
		return ErrStorageDSNRequired
	}
	return nil
}

// Validate checks provider, level and format.
func (l LoggingConfig) Validate() error {
	provider := normalize(l.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, l.Provider)
	}
	if level := strings.TrimSpace(l.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(l.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// IndexHeader returns the index header with site fallbacks applied.
func (cfg Config) IndexHeader() interfaces.Header {
	return interfaces.Header{
		Title:   firstNonBlank(cfg.Index.Title, cfg.Site.Title),
		Summary: firstNonBlank(cfg.Index.Summary, cfg.Site.Summary),
	}
}

// FullHeader returns the full-export header with site fallbacks applied.
func (cfg Config) FullHeader() interfaces.Header {
	return interfaces.Header{
		Title:   firstNonBlank(cfg.Full.Title, cfg.Site.Title),
		Summary: firstNonBlank(cfg.Full.Summary, cfg.Site.Summary),
	}
}

// IndexOrigin returns the link origin for the index.
func (cfg Config) IndexOrigin() string {
	return firstNonBlank(cfg.Index.Origin, cfg.Site.Origin)
}

// IndexRequest builds the export request served for llms.txt.
func (cfg Config) IndexRequest() interfaces.IndexRequest {
	return interfaces.IndexRequest{
		Header:    cfg.IndexHeader(),
		Origin:    cfg.IndexOrigin(),
		Canonical: append([]string(nil), cfg.Index.Canonical...),
	}
}

// FullRequest builds the export request served for llms-full.txt.
func (cfg Config) FullRequest() interfaces.FullRequest {
	return interfaces.FullRequest{
		Header:    cfg.FullHeader(),
		Canonical: append([]string(nil), cfg.Full.Canonical...),
	}
}

// ContentSource returns the normalised content source.
func (cfg Config) ContentSource() string {
	return normalize(cfg.Content.Source)
}

// CleanPath returns path the way it is mounted on the mux: trimmed, with a
// single leading slash.
func CleanPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	return "/" + strings.TrimLeft(trimmed, "/")
}

type routePath struct {
	field string
	path  string
}

func (cfg Config) registeredPaths() []routePath {
	paths := []routePath{
		{field: "index.path", path: CleanPath(cfg.Index.Path)},
		{field: "full.path", path: CleanPath(cfg.Full.Path)},
	}
	if cfg.Metrics.Enabled {
		paths = append(paths, routePath{field: "metrics.path", path: CleanPath(cfg.Metrics.Path)})
	}
	return paths
}

func validatePath(field, value string) error {
	err := validation.Validate(strings.TrimSpace(value),
		validation.Required,
		validation.Match(endpointPathPattern),
	)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrEndpointPathInvalid, field, value, err)
	}
	return nil
}

func validateFileName(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "..") {
		return fmt.Errorf("%w: %s %q", ErrFileNameInvalid, field, value)
	}
	return nil
}

func isAbsoluteHTTPURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDialect(dialect string) bool {
	switch normalize(dialect) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
