package interfaces

import "context"

const (
	// ContentTypePlainText is served for the index and full exports.
	ContentTypePlainText = "text/plain; charset=utf-8"
	// ContentTypeMarkdown is served for per-page markdown mirrors.
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
)

// Header carries the title and one-line summary every export starts with.
type Header struct {
	Title   string `yaml:"title" json:"title"`
	Summary string `yaml:"summary" json:"summary"`
}

// ExportDocument is the rendered output of one export. It has no identity
// beyond the request or build that produced it.
type ExportDocument struct {
	Name        string
	Body        string
	ContentType string
	// Entries counts the corpus entries that went into Body.
	Entries int
}

// IndexRequest configures one index export.
type IndexRequest struct {
	Header    Header
	Origin    string
	Canonical []string
}

// FullRequest configures one full export.
type FullRequest struct {
	Header    Header
	Canonical []string
}

// PageRequest selects a single page mirror by id.
type PageRequest struct {
	ID string
}

// Exporter is the contract consumed by the HTTP surface and the static
// generator.
type Exporter interface {
	Index(ctx context.Context, req IndexRequest) (*ExportDocument, error)
	Full(ctx context.Context, req FullRequest) (*ExportDocument, error)
	Page(ctx context.Context, req PageRequest) (*ExportDocument, error)
}
