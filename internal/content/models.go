package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

// Document is the persisted form of a corpus entry.
type Document struct {
	bun.BaseModel `bun:"table:llms_documents,alias:d"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	Title     string    `bun:"title,notnull,default:''" json:"title"`
	Body      string    `bun:"body,notnull,default:''" json:"body"`
	HasBody   bool      `bun:"has_body,notnull,default:false" json:"has_body"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Entry converts the record into a corpus entry.
func (d *Document) Entry() interfaces.DocumentEntry {
	return interfaces.DocumentEntry{
		ID:      d.Slug,
		Title:   d.Title,
		Body:    d.Body,
		HasBody: d.HasBody,
	}
}
