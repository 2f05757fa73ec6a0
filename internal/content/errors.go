package content

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// ErrDatabaseRequired is returned when the SQL store has no database handle.
var ErrDatabaseRequired = errors.New("content: database required")

// ErrDuplicateSlug is returned by Save when two entries share an id.
var ErrDuplicateSlug = errors.New("content: duplicate entry id")

func isNotFound(err error) bool {
	return err != nil && goerrors.IsCategory(err, repository.CategoryDatabaseNotFound)
}

func mapRepositoryError(err error, op, slug string) error {
	if err == nil {
		return nil
	}
	if slug == "" {
		return fmt.Errorf("llms_documents %s: %w", op, err)
	}
	return fmt.Errorf("llms_documents %s %q: %w", op, slug, err)
}
