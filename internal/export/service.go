package export

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

const (
	// IndexName is the conventional file name of the page index.
	IndexName = "llms.txt"
	// FullName is the conventional file name of the full dump.
	FullName = "llms-full.txt"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNormalizer replaces Normalize for full exports and page mirrors.
func WithNormalizer(fn NormalizeFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.normalize = fn
		}
	}
}

// WithClock overrides time.Now for duration logging.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service renders exports from a content store. Each call reads one snapshot
// and shares no mutable state with concurrent calls.
type Service struct {
	store     interfaces.ContentStore
	logger    interfaces.Logger
	normalize NormalizeFunc
	now       func() time.Time
}

var _ interfaces.Exporter = (*Service)(nil)

// NewService builds an export service over store.
func NewService(store interfaces.ContentStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		logger:    logging.NoOp(),
		normalize: Normalize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index renders the llms.txt page index.
func (s *Service) Index(ctx context.Context, req interfaces.IndexRequest) (*interfaces.ExportDocument, error) {
	started := s.now()
	logger := logging.WithExportContext(logging.FromContext(ctx, s.logger), "index", req.Origin)

	corpus, err := s.snapshot(ctx)
	if err != nil {
		logger.Error("export.index.failed", "error", err)
		return nil, err
	}

	ordered := ResolveOrder(req.Canonical, corpus)
	doc := &interfaces.ExportDocument{
		Name:        IndexName,
		Body:        RenderIndex(ordered, req.Header, req.Origin),
		ContentType: interfaces.ContentTypePlainText,
		Entries:     len(ordered),
	}
	logger.Info("export.index.completed",
		"entries", doc.Entries,
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	return doc, nil
}

// Full renders the llms-full.txt dump with normalised bodies.
func (s *Service) Full(ctx context.Context, req interfaces.FullRequest) (*interfaces.ExportDocument, error) {
	started := s.now()
	logger := logging.WithExportContext(logging.FromContext(ctx, s.logger), "full", "")

	corpus, err := s.snapshot(ctx)
	if err != nil {
		logger.Error("export.full.failed", "error", err)
		return nil, err
	}

	ordered := ResolveOrder(req.Canonical, corpus)
	doc := &interfaces.ExportDocument{
		Name:        FullName,
		Body:        RenderFull(ordered, req.Header, s.normalize),
		ContentType: interfaces.ContentTypePlainText,
		Entries:     len(ordered),
	}
	logger.Info("export.full.completed",
		"entries", doc.Entries,
		"bytes", len(doc.Body),
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	return doc, nil
}

// Page renders the markdown mirror for one id.
func (s *Service) Page(ctx context.Context, req interfaces.PageRequest) (*interfaces.ExportDocument, error) {
	id := strings.Trim(strings.TrimSpace(req.ID), "/")
	if id == "" {
		return nil, ErrPageIDRequired
	}

	corpus, err := s.snapshot(ctx)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("export.page.failed", "id", id, "error", err)
		return nil, err
	}

	for _, entry := range corpus {
		if entry.ID != id {
			continue
		}
		return &interfaces.ExportDocument{
			Name:        id + ".md",
			Body:        RenderPage(entry, s.normalize),
			ContentType: interfaces.ContentTypeMarkdown,
			Entries:     1,
		}, nil
	}
	return nil, ErrPageNotFound
}

// Pages renders the markdown mirror of every entry, in corpus order.
func (s *Service) Pages(ctx context.Context) ([]*interfaces.ExportDocument, error) {
	corpus, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.ExportDocument, 0, len(corpus))
	for _, entry := range corpus {
		docs = append(docs, &interfaces.ExportDocument{
			Name:        entry.ID + ".md",
			Body:        RenderPage(entry, s.normalize),
			ContentType: interfaces.ContentTypeMarkdown,
			Entries:     1,
		})
	}
	return docs, nil
}

func (s *Service) snapshot(ctx context.Context) ([]interfaces.DocumentEntry, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	corpus, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return corpus, nil
}
