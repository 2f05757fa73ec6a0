package content

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Migrate creates the llms_documents table and its ordering index when they
// do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return ErrDatabaseRequired
	}
	if _, err := db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create table llms_documents: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*Document)(nil)).
		Index("idx_llms_documents_position").
		Column("position", "slug").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create index idx_llms_documents_position: %w", err)
	}
	return nil
}
