// Package llms exposes the llms.txt exporter: a page index (llms.txt) and a
// full-text dump (llms-full.txt) rendered from a documentation corpus, served
// over HTTP or written as static files.
package llms

import (
	"context"
	"net/http"

	exportcmd "github.com/goliatone/go-llms/internal/commands/export"
	"github.com/goliatone/go-llms/internal/di"
	"github.com/goliatone/go-llms/internal/export"
	"github.com/goliatone/go-llms/internal/generator"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

// ExportService renders the index, full and per-page exports.
type ExportService = export.Service

// GeneratorService writes static export artifacts.
type GeneratorService = generator.Service

// BuildOptions narrows a static build.
type BuildOptions = generator.BuildOptions

// BuildResult reports the artifacts a static build produced.
type BuildResult = generator.BuildResult

// BuildExportCommand triggers a static build through the command handler.
type BuildExportCommand = exportcmd.BuildExportCommand

// SyncCorpusCommand copies the configured corpus into the SQL store.
type SyncCorpusCommand = exportcmd.SyncCorpusCommand

// CommandResult is handed to command result callbacks.
type CommandResult = exportcmd.ResultEnvelope

// BuildCommandHandler executes BuildExportCommand.
type BuildCommandHandler = exportcmd.BuildExportHandler

// SyncCommandHandler executes SyncCorpusCommand.
type SyncCommandHandler = exportcmd.SyncCorpusHandler

// DocumentEntry is one page of the corpus.
type DocumentEntry = interfaces.DocumentEntry

// ContentStore supplies the corpus.
type ContentStore = interfaces.ContentStore

// Option overrides a container dependency.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithContentStore    = di.WithContentStore
	WithBunDB           = di.WithBunDB
	WithFS              = di.WithFS
	WithMetricsRegistry = di.WithMetricsRegistry
)

// Module is the entry point host applications embed.
type Module struct {
	container *di.Container
}

// New validates cfg and constructs a module. opts override container
// dependencies.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container.
func (m *Module) Container() *di.Container {
	return m.container
}

// Export returns the export service.
func (m *Module) Export(ctx context.Context) (*ExportService, error) {
	return m.container.ExportService(ctx)
}

// Generator returns the static generator.
func (m *Module) Generator(ctx context.Context) (*GeneratorService, error) {
	return m.container.Generator(ctx)
}

// HTTPHandler returns a handler serving the configured export endpoints.
func (m *Module) HTTPHandler(ctx context.Context) (http.Handler, error) {
	return m.container.HTTPHandler(ctx)
}

// BuildCommand returns the static build command handler.
func (m *Module) BuildCommand(ctx context.Context) (*BuildCommandHandler, error) {
	return m.container.BuildCommandHandler(ctx)
}

// SyncCommand returns the corpus sync command handler.
func (m *Module) SyncCommand(ctx context.Context) (*SyncCommandHandler, error) {
	return m.container.SyncCommandHandler(ctx)
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	return m.container.Close()
}
