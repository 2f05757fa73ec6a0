package export

import (
	"strings"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

const (
	pagesHeading = "## Pages"
	separator    = "---"
)

// NormalizeFunc rewrites a raw page body before it is inlined.
type NormalizeFunc func(raw string) string

func headerLines(header interfaces.Header) []string {
	return []string{
		"# " + header.Title,
		"",
		"> " + header.Summary,
		"",
	}
}

// RenderIndex renders the page index. Each entry becomes one link pair
// pointing at {origin}/{id}/ and the markdown mirror at {origin}/{id}.md.
// Bodies are never read.
func RenderIndex(ordered []interfaces.DocumentEntry, header interfaces.Header, siteOrigin string) string {
	origin := trimOrigin(siteOrigin)

	lines := headerLines(header)
	lines = append(lines, pagesHeading, "")
	for _, entry := range ordered {
		lines = append(lines, indexLine(entry, origin))
	}
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func indexLine(entry interfaces.DocumentEntry, origin string) string {
	var b strings.Builder
	b.WriteString("- [")
	b.WriteString(entry.Label())
	b.WriteString("](")
	b.WriteString(origin)
	b.WriteString("/")
	b.WriteString(entry.ID)
	b.WriteString("/): [markdown](")
	b.WriteString(origin)
	b.WriteString("/")
	b.WriteString(entry.ID)
	b.WriteString(".md)")
	return b.String()
}

// RenderFull renders every entry under a separator and heading, followed by
// its normalised body. A nil normalize inlines bodies verbatim; entries
// without a body contribute an empty segment.
func RenderFull(ordered []interfaces.DocumentEntry, header interfaces.Header, normalize NormalizeFunc) string {
	lines := headerLines(header)
	for _, entry := range ordered {
		lines = append(lines,
			separator,
			"",
			"# "+entry.Label(),
			"",
			renderBody(entry, normalize),
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// RenderPage renders the markdown mirror of a single entry.
func RenderPage(entry interfaces.DocumentEntry, normalize NormalizeFunc) string {
	return "# " + entry.Label() + "\n\n" + renderBody(entry, normalize) + "\n"
}

func renderBody(entry interfaces.DocumentEntry, normalize NormalizeFunc) string {
	if entry.Body == "" {
		return ""
	}
	if normalize == nil {
		return entry.Body
	}
	return normalize(entry.Body)
}

func trimOrigin(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}
