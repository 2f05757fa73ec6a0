package di

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-llms/internal/commands"
	exportcmd "github.com/goliatone/go-llms/internal/commands/export"
	"github.com/goliatone/go-llms/internal/content"
	"github.com/goliatone/go-llms/internal/export"
	"github.com/goliatone/go-llms/internal/generator"
	llmshttp "github.com/goliatone/go-llms/internal/http"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/internal/logging/gologger"
	"github.com/goliatone/go-llms/internal/markdown"
	"github.com/goliatone/go-llms/internal/metrics"
	"github.com/goliatone/go-llms/internal/runtimeconfig"
	"github.com/goliatone/go-llms/pkg/interfaces"
	"github.com/goliatone/go-llms/pkg/storage"
)

// ErrSyncSourceIsTarget is returned when the sql store is both the configured
// content source and the sync target.
var ErrSyncSourceIsTarget = errors.New("di: sync source and target are the same sql store")

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	mu sync.Mutex

	loggerProvider interfaces.LoggerProvider
	fsys           fs.FS
	registry       *prometheus.Registry

	bunDB  *bun.DB
	ownsDB bool

	store       interfaces.ContentStore
	syncTarget  interfaces.WritableContentStore
	exportSvc   *export.Service
	generator   *generator.Service
	metrics     *metrics.Metrics
	httpHandler http.Handler

	buildHandler *exportcmd.BuildExportHandler
	syncHandler  *exportcmd.SyncCorpusHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by logging.provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentStore replaces the store selected by content.source.
func WithContentStore(store interfaces.ContentStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithBunDB supplies the database used by the sql store and sync. The
// container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithFS replaces os.DirFS(content.dir) as the markdown tree. The filesystem
// root is treated as the content root.
func WithFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.fsys = fsys
	}
}

// WithMetricsRegistry registers collectors on registry instead of a fresh one.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and prepares a container. Stores and services are
// built on first access.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	return c, nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "noop":
		return logging.NoOpProvider(), nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
}

// LoggerProvider returns the provider every module logger derives from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ContentStore returns the corpus source.
func (c *Container) ContentStore(ctx context.Context) (interfaces.ContentStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contentStoreLocked(ctx)
}

func (c *Container) contentStoreLocked(ctx context.Context) (interfaces.ContentStore, error) {
	if c.store != nil {
		return c.store, nil
	}
	switch c.Config.ContentSource() {
	case runtimeconfig.ContentSourceSQL:
		target, err := c.bunStoreLocked(ctx)
		if err != nil {
			return nil, err
		}
		c.store = target
	case runtimeconfig.ContentSourceMemory:
		c.store = content.NewMemoryStore()
	default:
		c.store = c.markdownStore()
	}
	return c.store, nil
}

func (c *Container) markdownStore() *markdown.Store {
	fsys := c.fsys
	if fsys == nil {
		fsys = os.DirFS(c.Config.Content.Dir)
	}
	return markdown.NewStore(fsys, markdown.StoreConfig{
		Root:          ".",
		Patterns:      c.Config.Content.Patterns,
		IncludeDrafts: c.Config.Content.IncludeDrafts,
	}, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
}

// SyncTarget returns the sql store written by the sync command.
func (c *Container) SyncTarget(ctx context.Context) (interfaces.WritableContentStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bunStoreLocked(ctx)
}

func (c *Container) bunStoreLocked(ctx context.Context) (interfaces.WritableContentStore, error) {
	if c.syncTarget != nil {
		return c.syncTarget, nil
	}
	db, err := c.databaseLocked(ctx)
	if err != nil {
		return nil, err
	}
	c.syncTarget = content.NewBunStore(db, content.WithLogger(logging.ContentLogger(c.loggerProvider)))
	return c.syncTarget, nil
}

func (c *Container) databaseLocked(ctx context.Context) (*bun.DB, error) {
	if c.bunDB == nil {
		db, err := storage.Open(storage.Config{
			Dialect:      c.Config.Storage.Dialect,
			DSN:          c.Config.Storage.DSN,
			MaxOpenConns: c.Config.Storage.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Storage.AutoMigrate {
		if err := content.Migrate(ctx, c.bunDB); err != nil {
			return nil, err
		}
	}
	return c.bunDB, nil
}

// ExportService returns the export service over the content store.
func (c *Container) ExportService(ctx context.Context) (*export.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exportServiceLocked(ctx)
}

func (c *Container) exportServiceLocked(ctx context.Context) (*export.Service, error) {
	if c.exportSvc != nil {
		return c.exportSvc, nil
	}
	store, err := c.contentStoreLocked(ctx)
	if err != nil {
		return nil, err
	}
	c.exportSvc = export.NewService(store, export.WithLogger(logging.ExportLogger(c.loggerProvider)))
	return c.exportSvc, nil
}

// Generator returns the static generator configured from generator.* and the
// index and full export settings.
func (c *Container) Generator(ctx context.Context) (*generator.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generatorLocked(ctx)
}

func (c *Container) generatorLocked(ctx context.Context) (*generator.Service, error) {
	if c.generator != nil {
		return c.generator, nil
	}
	svc, err := c.exportServiceLocked(ctx)
	if err != nil {
		return nil, err
	}
	cfg := c.Config
	c.generator = generator.NewService(svc, generator.Config{
		OutputDir:     cfg.Generator.OutputDir,
		IndexFileName: cfg.Index.FileName,
		FullFileName:  cfg.Full.FileName,
		Index:         cfg.IndexRequest(),
		Full:          cfg.FullRequest(),
		Pages:         cfg.Pages.Enabled,
		Manifest:      cfg.Generator.Manifest,
		Workers:       cfg.Generator.Workers,
	}, generator.WithLogger(logging.GeneratorLogger(c.loggerProvider)))
	return c.generator, nil
}

// Metrics returns the prometheus collectors shared by the HTTP surface.
func (c *Container) Metrics() (*metrics.Metrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metricsLocked()
}

func (c *Container) metricsLocked() (*metrics.Metrics, error) {
	if c.metrics != nil {
		return c.metrics, nil
	}
	m, err := metrics.New(c.registry)
	if err != nil {
		return nil, err
	}
	c.metrics = m
	return m, nil
}

// HTTPHandler returns the mux serving the export endpoints.
func (c *Container) HTTPHandler(ctx context.Context) (http.Handler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpHandler != nil {
		return c.httpHandler, nil
	}
	svc, err := c.exportServiceLocked(ctx)
	if err != nil {
		return nil, err
	}
	opts := []llmshttp.ExportOption{llmshttp.WithLogger(logging.HTTPLogger(c.loggerProvider))}
	if c.Config.Metrics.Enabled {
		m, err := c.metricsLocked()
		if err != nil {
			return nil, err
		}
		opts = append(opts, llmshttp.WithMetrics(m))
	}
	handler, err := llmshttp.NewExportAPI(svc, c.Config, opts...).Handler()
	if err != nil {
		return nil, err
	}
	c.httpHandler = handler
	return handler, nil
}

// BuildCommandHandler returns the handler executing BuildExportCommand.
func (c *Container) BuildCommandHandler(ctx context.Context) (*exportcmd.BuildExportHandler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buildHandler != nil {
		return c.buildHandler, nil
	}
	gen, err := c.generatorLocked(ctx)
	if err != nil {
		return nil, err
	}
	var opts []commands.HandlerOption[exportcmd.BuildExportCommand]
	if timeout := c.Config.Generator.Timeout; timeout > 0 {
		opts = append(opts, commands.WithTimeout[exportcmd.BuildExportCommand](timeout))
	}
	c.buildHandler = exportcmd.NewBuildExportHandler(gen, commands.CommandLogger(c.loggerProvider, "export"), opts...)
	return c.buildHandler, nil
}

// SyncCommandHandler returns the handler executing SyncCorpusCommand.
func (c *Container) SyncCommandHandler(ctx context.Context) (*exportcmd.SyncCorpusHandler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.syncHandler != nil {
		return c.syncHandler, nil
	}
	if c.store == nil && c.Config.ContentSource() == runtimeconfig.ContentSourceSQL {
		return nil, ErrSyncSourceIsTarget
	}
	source, err := c.contentStoreLocked(ctx)
	if err != nil {
		return nil, err
	}
	target, err := c.bunStoreLocked(ctx)
	if err != nil {
		return nil, err
	}
	c.syncHandler = exportcmd.NewSyncCorpusHandler(source, target, commands.CommandLogger(c.loggerProvider, "export"))
	return c.syncHandler, nil
}

// Close releases the database opened by the container. Databases passed via
// WithBunDB are left open.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	c.syncTarget = nil
	return err
}
