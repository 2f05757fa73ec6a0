package content

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewDocumentRepository returns the generic repository over llms_documents.
// Slug is the natural identifier.
func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.Slug
		},
	})
}
