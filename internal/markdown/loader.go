package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

// DefaultPatterns lists the file name globs discovered when none are set.
var DefaultPatterns = []string{"*.md", "*.mdx"}

// LoaderConfig configures how documents are discovered within a filesystem.
type LoaderConfig struct {
	// Root is the slash-separated directory walked for documents. Defaults to ".".
	Root string
	// Patterns limits discovered files to base names matching any glob.
	Patterns []string
}

// Loader turns filesystem paths into parsed documents.
type Loader struct {
	fs       fs.FS
	root     string
	patterns []string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	root := path.Clean(strings.Trim(strings.TrimSpace(cfg.Root), "/"))
	if root == "" {
		root = "."
	}

	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	if len(patterns) == 0 {
		patterns = append(patterns, DefaultPatterns...)
	}

	return &Loader{
		fs:       filesystem,
		root:     root,
		patterns: patterns,
	}
}

// LoadFile reads and parses a single document. name is relative to the
// filesystem, not to Root.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}

	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", name, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return doc, nil
}

// LoadAll walks Root recursively and returns every matching document sorted
// by path. The first read or parse failure aborts the walk.
func (l *Loader) LoadAll(ctx context.Context) ([]*interfaces.Document, error) {
	if l == nil || l.fs == nil {
		return nil, ErrFilesystemRequired
	}

	var docs []*interfaces.Document
	walkErr := fs.WalkDir(l.fs, l.root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !l.matches(name) {
			return nil
		}

		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// Relative returns name relative to Root.
func (l *Loader) Relative(name string) string {
	if l.root == "." {
		return name
	}
	return strings.TrimPrefix(strings.TrimPrefix(name, l.root), "/")
}

func (l *Loader) matches(name string) bool {
	base := path.Base(name)
	for _, pattern := range l.patterns {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
