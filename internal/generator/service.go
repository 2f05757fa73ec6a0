package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-llms/internal/identity"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

var (
	// ErrSourceRequired indicates the generator has nothing to render from.
	ErrSourceRequired = errors.New("generator: export source is required")
	// ErrOutputDirRequired indicates a non-dry-run build without an output directory.
	ErrOutputDirRequired = errors.New("generator: output directory is required")
	// ErrUnsafePath indicates an artifact path that would escape the output directory.
	ErrUnsafePath = errors.New("generator: unsafe artifact path")
)

// Source renders the documents a build writes. *export.Service satisfies it.
type Source interface {
	interfaces.Exporter
	Pages(ctx context.Context) ([]*interfaces.ExportDocument, error)
}

// Config captures runtime behaviour for the generator.
type Config struct {
	OutputDir     string
	IndexFileName string
	FullFileName  string
	Index         interfaces.IndexRequest
	Full          interfaces.FullRequest
	Pages         bool
	Manifest      bool
	Workers       int
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// OutputDir overrides Config.OutputDir when set.
	OutputDir string
	DryRun    bool
}

// Artifact describes one produced file.
type Artifact struct {
	ID          uuid.UUID    `json:"id"`
	Path        string       `json:"path"`
	Kind        ArtifactKind `json:"kind"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	Checksum    string       `json:"checksum"`
	Entries     int          `json:"entries"`
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	OutputDir string
	Artifacts []Artifact
	Duration  time.Duration
	DryRun    bool
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the build logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service builds static artifacts.
type Service struct {
	source    Source
	cfg       Config
	logger    interfaces.Logger
	now       func() time.Time
	newWriter func(outputDir string, dryRun bool) artifactWriter
}

// NewService wires a generator over source.
func NewService(source Source, cfg Config, opts ...Option) *Service {
	s := &Service{
		source:    source,
		cfg:       cfg,
		logger:    logging.NoOp(),
		now:       time.Now,
		newWriter: newArtifactWriter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type pendingArtifact struct {
	path string
	kind ArtifactKind
	doc  *interfaces.ExportDocument
}

// Build renders every export and writes it. Writes run concurrently, bounded
// by Config.Workers; the first failure cancels the rest. The manifest is
// written after every other artifact succeeded.
func (s *Service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if s == nil || s.source == nil {
		return nil, ErrSourceRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = strings.TrimSpace(s.cfg.OutputDir)
	}
	if outputDir == "" && !opts.DryRun {
		return nil, ErrOutputDirRequired
	}
	outputDir = filepath.Clean(outputDir)

	start := s.now()
	logger := logging.WithFields(logging.FromContext(ctx, s.logger), map[string]any{
		"output_dir": outputDir,
		"dry_run":    opts.DryRun,
	})
	logger.Info("generator.build.started")

	pending, err := s.render(ctx)
	if err != nil {
		logger.Error("generator.build.failed", "stage", "render", "error", err)
		return nil, err
	}

	writer := s.newWriter(outputDir, opts.DryRun)
	artifacts, err := s.write(ctx, writer, pending)
	if err != nil {
		logger.Error("generator.build.failed", "stage", "write", "error", err)
		return nil, err
	}

	if s.cfg.Manifest {
		manifest, err := s.writeManifest(ctx, writer, artifacts)
		if err != nil {
			logger.Error("generator.build.failed", "stage", "manifest", "error", err)
			return nil, err
		}
		artifacts = append(artifacts, manifest)
	}

	result := &BuildResult{
		OutputDir: outputDir,
		Artifacts: artifacts,
		Duration:  s.now().Sub(start),
		DryRun:    opts.DryRun,
	}
	logger.Info("generator.build.completed",
		"artifacts", len(result.Artifacts),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (s *Service) render(ctx context.Context) ([]pendingArtifact, error) {
	indexName, err := outputPath(defaultString(s.cfg.IndexFileName, "llms.txt"))
	if err != nil {
		return nil, err
	}
	fullName, err := outputPath(defaultString(s.cfg.FullFileName, "llms-full.txt"))
	if err != nil {
		return nil, err
	}

	var (
		index *interfaces.ExportDocument
		full  *interfaces.ExportDocument
		pages []*interfaces.ExportDocument
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		doc, err := s.source.Index(groupCtx, s.cfg.Index)
		if err != nil {
			return fmt.Errorf("generator: render index: %w", err)
		}
		index = doc
		return nil
	})
	group.Go(func() error {
		doc, err := s.source.Full(groupCtx, s.cfg.Full)
		if err != nil {
			return fmt.Errorf("generator: render full: %w", err)
		}
		full = doc
		return nil
	})
	if s.cfg.Pages {
		group.Go(func() error {
			docs, err := s.source.Pages(groupCtx)
			if err != nil {
				return fmt.Errorf("generator: render pages: %w", err)
			}
			pages = docs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	pending := []pendingArtifact{
		{path: indexName, kind: KindIndex, doc: index},
		{path: fullName, kind: KindFull, doc: full},
	}
	seen := map[string]struct{}{indexName: {}, fullName: {}, manifestFileName: {}}
	for _, page := range pages {
		name, err := outputPath(page.Name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q collides with another artifact", ErrUnsafePath, name)
		}
		seen[name] = struct{}{}
		pending = append(pending, pendingArtifact{path: name, kind: KindPage, doc: page})
	}
	return pending, nil
}

func (s *Service) write(ctx context.Context, writer artifactWriter, pending []pendingArtifact) ([]Artifact, error) {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu        sync.Mutex
		artifacts = make([]Artifact, 0, len(pending))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, item := range pending {
		group.Go(func() error {
			artifact, err := s.writeOne(groupCtx, writer, item.path, item.kind, item.doc.ContentType, []byte(item.doc.Body))
			if err != nil {
				return err
			}
			artifact.Entries = item.doc.Entries
			mu.Lock()
			artifacts = append(artifacts, artifact)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Path < artifacts[j].Path
	})
	return artifacts, nil
}

func (s *Service) writeManifest(ctx context.Context, writer artifactWriter, artifacts []Artifact) (Artifact, error) {
	data, err := encodeManifest(s.now(), artifacts)
	if err != nil {
		return Artifact{}, err
	}
	return s.writeOne(ctx, writer, manifestFileName, KindManifest, "application/json", data)
}

func (s *Service) writeOne(ctx context.Context, writer artifactWriter, name string, kind ArtifactKind, contentType string, data []byte) (Artifact, error) {
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        name,
		Content:     data,
		Kind:        kind,
		ContentType: contentType,
		Checksum:    checksum,
	}); err != nil {
		return Artifact{}, err
	}

	logging.FromContext(ctx, s.logger).Debug("generator.artifact.written", "path", name, "kind", string(kind), "bytes", len(data))
	return Artifact{
		ID:          identity.ArtifactUUID(name),
		Path:        name,
		Kind:        kind,
		ContentType: contentType,
		Size:        int64(len(data)),
		Checksum:    checksum,
	}, nil
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
