package markdown

import "errors"

var (
	// ErrFilesystemRequired is returned when the store has no filesystem.
	ErrFilesystemRequired = errors.New("markdown: filesystem required")
	// ErrDuplicateID is returned when two files resolve to the same id.
	ErrDuplicateID = errors.New("markdown: duplicate document id")
)
