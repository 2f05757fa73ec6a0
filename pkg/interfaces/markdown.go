package interfaces

import "time"

// Document represents a Markdown (or MDX) file with its parsed front matter.
// Body is the markup following the front matter block, untouched.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models the metadata documentation pages carry. Keys outside the
// known set are preserved in Custom.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Slug        string         `yaml:"slug" json:"slug"`
	Draft       bool           `yaml:"draft" json:"draft"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
}
