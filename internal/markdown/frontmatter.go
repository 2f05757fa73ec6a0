package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and the Markdown body from source. The
// body is returned without delimiters. Sources without front matter yield an
// empty FrontMatter and the full source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content and modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Slug        string         `yaml:"slug"`
	Draft       bool           `yaml:"draft"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	return interfaces.FrontMatter{
		Title:       env.Title,
		Description: env.Description,
		Slug:        env.Slug,
		Draft:       env.Draft,
		Custom:      cloneMap(env.Custom),
	}
}

func cloneMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
