package content

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-llms/internal/identity"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

// BunStoreOption customises a BunStore.
type BunStoreOption func(*BunStore)

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) BunStoreOption {
	return func(s *BunStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for updated_at.
func WithClock(now func() time.Time) BunStoreOption {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}

// BunStore persists the corpus in llms_documents.
type BunStore struct {
	db     *bun.DB
	repo   repository.Repository[*Document]
	logger interfaces.Logger
	now    func() time.Time
}

var _ interfaces.WritableContentStore = (*BunStore)(nil)

// NewBunStore builds a store over db. The table must exist; see Migrate.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	s := &BunStore{
		db:     db,
		logger: logging.NoOp(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	if db != nil {
		s.repo = NewDocumentRepository(db)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll lists every stored entry ordered by position, then slug.
func (s *BunStore) GetAll(ctx context.Context) ([]interfaces.DocumentEntry, error) {
	if s == nil || s.repo == nil {
		return nil, ErrDatabaseRequired
	}

	records, _, err := s.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.position ASC, ?TableAlias.slug ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "list", "")
	}

	entries := make([]interfaces.DocumentEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.Entry())
	}
	return entries, nil
}

// Save makes the table mirror entries. Rows are upserted by slug with
// positions taken from slice order; rows whose slug is absent are removed.
func (s *BunStore) Save(ctx context.Context, entries []interfaces.DocumentEntry) error {
	if s == nil || s.repo == nil {
		return ErrDatabaseRequired
	}

	slugs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.ID]; ok {
			return mapRepositoryError(ErrDuplicateSlug, "save", entry.ID)
		}
		seen[entry.ID] = struct{}{}
		slugs = append(slugs, entry.ID)
	}

	logger := logging.FromContext(ctx, s.logger)
	now := s.now()
	created, updated := 0, 0

	for position, entry := range entries {
		record := &Document{
			ID:        identity.DocumentUUID(entry.ID),
			Slug:      entry.ID,
			Title:     entry.Title,
			Body:      entry.Body,
			HasBody:   entry.HasBody,
			Position:  position,
			UpdatedAt: now,
		}

		existing, err := s.repo.GetByIdentifier(ctx, entry.ID)
		switch {
		case err == nil:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if _, err := s.repo.Update(ctx, record); err != nil {
				return mapRepositoryError(err, "update", entry.ID)
			}
			updated++
		case isNotFound(err):
			record.CreatedAt = now
			if _, err := s.repo.Create(ctx, record); err != nil {
				return mapRepositoryError(err, "create", entry.ID)
			}
			created++
		default:
			return mapRepositoryError(err, "lookup", entry.ID)
		}
	}

	query := s.db.NewDelete().Model((*Document)(nil))
	if len(slugs) > 0 {
		query = query.Where("?TableAlias.slug NOT IN (?)", bun.In(slugs))
	} else {
		query = query.Where("1 = 1")
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return mapRepositoryError(err, "prune", "")
	}
	removed, _ := res.RowsAffected()

	logger.Info("content.snapshot.saved",
		"entries", len(entries),
		"created", created,
		"updated", updated,
		"removed", removed,
	)
	return nil
}
