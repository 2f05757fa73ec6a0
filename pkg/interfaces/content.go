package interfaces

import (
	"context"
	"strings"
)

// DocumentEntry is one page of the documentation corpus as handed over by a
// ContentStore. ID is a hierarchical slug (e.g. "guides/local-testing") and is
// unique within a single snapshot.
type DocumentEntry struct {
	ID    string
	Title string
	// Body holds the raw markup. HasBody distinguishes an absent body from an
	// empty one; renderers treat both as the empty string.
	Body    string
	HasBody bool
}

// Label returns the title, or the id when the title is blank.
func (e DocumentEntry) Label() string {
	if title := strings.TrimSpace(e.Title); title != "" {
		return title
	}
	return e.ID
}

// ContentStore supplies the corpus. GetAll is the only blocking call of an
// export; implementations must return entries in a stable order for the
// duration of the call and callers treat the slice as an immutable snapshot.
type ContentStore interface {
	GetAll(ctx context.Context) ([]DocumentEntry, error)
}

// WritableContentStore is implemented by stores that can persist a snapshot,
// such as the SQL store used as a sync target.
type WritableContentStore interface {
	ContentStore
	Save(ctx context.Context, entries []DocumentEntry) error
}
