package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-llms/internal/content"
	"github.com/goliatone/go-llms/internal/identity"
	"github.com/goliatone/go-llms/pkg/interfaces"
	"github.com/goliatone/go-llms/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.NewDropTable().Model((*content.Document)(nil)).IfExists().Exec(ctx); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if err := content.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBunStoreSaveAndGetAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := content.NewBunStore(db)

	entries := []interfaces.DocumentEntry{
		{ID: "welcome", Title: "Welcome", Body: "Hello", HasBody: true},
		{ID: "guides/intro", Title: "Intro", Body: "Start here", HasBody: true},
		{ID: "empty", Title: "Empty"},
	}
	if err := store.Save(ctx, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, entries[i], got[i])
		}
	}

	var record content.Document
	if err := db.NewSelect().Model(&record).Where("?TableAlias.slug = ?", "guides/intro").Scan(ctx); err != nil {
		t.Fatalf("select record: %v", err)
	}
	if record.ID != identity.DocumentUUID("guides/intro") {
		t.Fatalf("expected deterministic id, got %s", record.ID)
	}
	if record.Position != 1 {
		t.Fatalf("expected position 1, got %d", record.Position)
	}
}

func TestBunStoreSaveReordersAndPrunes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := content.NewBunStore(db, content.WithClock(func() time.Time { return clock }))

	if err := store.Save(ctx, []interfaces.DocumentEntry{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C"},
	}); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	clock = clock.Add(time.Hour)
	if err := store.Save(ctx, []interfaces.DocumentEntry{
		{ID: "c", Title: "C2", Body: "new", HasBody: true},
		{ID: "a", Title: "A"},
	}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("unexpected entries after resave: %+v", got)
	}
	if got[0].Title != "C2" || got[0].Body != "new" || !got[0].HasBody {
		t.Fatalf("expected updated fields, got %+v", got[0])
	}
}

func TestBunStoreSaveEmptyClearsTable(t *testing.T) {
	ctx := context.Background()
	store := content.NewBunStore(newTestDB(t))

	if err := store.Save(ctx, []interfaces.DocumentEntry{{ID: "a"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
}

func TestBunStoreRejectsDuplicateIDs(t *testing.T) {
	store := content.NewBunStore(newTestDB(t))
	err := store.Save(context.Background(), []interfaces.DocumentEntry{{ID: "a"}, {ID: "a"}})
	if !errors.Is(err, content.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestBunStoreRequiresDatabase(t *testing.T) {
	store := content.NewBunStore(nil)
	if _, err := store.GetAll(context.Background()); !errors.Is(err, content.ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
	if err := content.Migrate(context.Background(), nil); !errors.Is(err, content.ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired from Migrate, got %v", err)
	}
}
