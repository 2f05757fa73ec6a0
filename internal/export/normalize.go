package export

import (
	"regexp"
	"strings"
)

// Tags are matched lexically: a tag ends at the next '>', so an attribute
// value containing '>' is cut short. Bodies are trusted, hand-written docs.
// An import line match takes a trailing '\r' with it on CRLF input.
var (
	importLinePattern  = regexp.MustCompile(`(?m)^import\s.+$`)
	selfClosingPattern = regexp.MustCompile(`<\w[\w.-]*\b[^>]*/>`)
	openingTagPattern  = regexp.MustCompile(`<\w[\w.-]*\b[^>]*>`)
	closingTagPattern  = regexp.MustCompile(`</\w[\w.-]*>`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips MDX/JSX structure from a page body and keeps the prose:
// import lines, self-closing tags, opening tags and closing tags are removed
// in that order, runs of three or more newlines collapse to one blank line
// and the result is trimmed.
func Normalize(raw string) string {
	out := importLinePattern.ReplaceAllString(raw, "")
	out = selfClosingPattern.ReplaceAllString(out, "")
	out = openingTagPattern.ReplaceAllString(out, "")
	out = closingTagPattern.ReplaceAllString(out, "")
	out = blankRunPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
