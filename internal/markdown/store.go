package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

const indexSegment = "index"

// StoreConfig configures the filesystem content store.
type StoreConfig struct {
	Root          string
	Patterns      []string
	IncludeDrafts bool
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used while loading snapshots.
func WithLogger(logger interfaces.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGoldmark overrides the goldmark engine used for heading lookup.
func WithGoldmark(engine goldmark.Markdown) StoreOption {
	return func(s *Store) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// Store serves a documentation tree as interfaces.ContentStore. Every GetAll
// re-reads the filesystem, so edits show up on the next export.
type Store struct {
	loader        *Loader
	includeDrafts bool
	engine        goldmark.Markdown
	logger        interfaces.Logger
}

var _ interfaces.ContentStore = (*Store)(nil)

// NewStore builds a store reading fsys.
func NewStore(fsys fs.FS, cfg StoreConfig, opts ...StoreOption) *Store {
	s := &Store{
		loader:        NewLoader(fsys, LoaderConfig{Root: cfg.Root, Patterns: cfg.Patterns}),
		includeDrafts: cfg.IncludeDrafts,
		engine:        goldmark.New(),
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll loads the tree and converts it to corpus entries in path order.
func (s *Store) GetAll(ctx context.Context) ([]interfaces.DocumentEntry, error) {
	docs, err := s.loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx, s.logger)
	entries := make([]interfaces.DocumentEntry, 0, len(docs))
	seen := make(map[string]string, len(docs))
	skipped := 0

	for _, doc := range docs {
		rel := s.loader.Relative(doc.FilePath)
		if doc.FrontMatter.Draft && !s.includeDrafts {
			logging.WithDocumentPath(logger, rel).Debug("markdown.document.draft_skipped")
			skipped++
			continue
		}

		entry := s.entry(rel, doc)
		if previous, ok := seen[entry.ID]; ok {
			return nil, fmt.Errorf("%w: %q from %s and %s", ErrDuplicateID, entry.ID, previous, rel)
		}
		seen[entry.ID] = rel
		entries = append(entries, entry)
	}

	logger.Debug("markdown.snapshot.loaded", "entries", len(entries), "drafts_skipped", skipped)
	return entries, nil
}

func (s *Store) entry(rel string, doc *interfaces.Document) interfaces.DocumentEntry {
	body := strings.TrimSpace(string(doc.Body))

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		title = FirstHeading(s.engine, doc.Body)
	}

	id := SlugID(doc.FrontMatter.Slug)
	if id == "" {
		id = PathID(rel)
	}

	return interfaces.DocumentEntry{
		ID:      id,
		Title:   title,
		Body:    body,
		HasBody: body != "",
	}
}

// PathID derives a document id from a slash-separated path relative to the
// store root. The extension is dropped, as is a trailing index segment
// unless it is the only one.
func PathID(rel string) string {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := strings.Split(rel, "/")
	if len(segments) > 1 && segments[len(segments)-1] == indexSegment {
		segments = segments[:len(segments)-1]
	}
	return joinSegments(segments)
}

// SlugID normalises an explicit slug, keeping its hierarchy.
func SlugID(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	return joinSegments(strings.Split(raw, "/"))
}

func joinSegments(segments []string) string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if normalized := normalizeSegment(segment); normalized != "" {
			out = append(out, normalized)
		}
	}
	return strings.Join(out, "/")
}

func normalizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}
	if normalized, err := slug.Normalize(segment); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(segment)
}
