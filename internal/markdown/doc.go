// Package markdown reads a documentation tree of Markdown and MDX files from
// an fs.FS and serves it as a content store. Front matter supplies titles,
// slugs and draft flags; ids are derived from file paths otherwise.
package markdown
