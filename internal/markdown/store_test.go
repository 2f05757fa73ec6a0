package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func docsFS() fstest.MapFS {
	return fstest.MapFS{
		"docs/index.md": &fstest.MapFile{Data: []byte("---\ntitle: Welcome\n---\nHello there.\n")},
		"docs/guides/local-testing.mdx": &fstest.MapFile{Data: []byte(
			"---\ntitle: Local testing\ndescription: Run it locally\nsidebar: 2\n---\n\nimport X from 'x'\n\n<Steps>run</Steps>\n",
		)},
		"docs/deploy/index.mdx":   &fstest.MapFile{Data: []byte("# Deploying\n\nShip it.\n")},
		"docs/reference/empty.md": &fstest.MapFile{Data: []byte("---\ntitle: Empty\n---\n")},
		"docs/wip.md":             &fstest.MapFile{Data: []byte("---\ntitle: WIP\ndraft: true\n---\nsoon\n")},
		"docs/custom.md":          &fstest.MapFile{Data: []byte("---\nslug: /Reference/Custom-Page/\n---\nbody\n")},
		"docs/notes.txt":          &fstest.MapFile{Data: []byte("ignored")},
		"README.md":               &fstest.MapFile{Data: []byte("outside root")},
	}
}

func TestStoreGetAll(t *testing.T) {
	store := NewStore(docsFS(), StoreConfig{Root: "docs"})

	entries, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}

	wantIDs := []string{"reference/custom-page", "deploy", "guides/local-testing", "index", "reference/empty"}
	if len(entries) != len(wantIDs) {
		t.Fatalf("expected %d entries, got %d: %+v", len(wantIDs), len(entries), entries)
	}
	for i, id := range wantIDs {
		if entries[i].ID != id {
			t.Fatalf("entry %d: expected id %q, got %q", i, id, entries[i].ID)
		}
	}

	deploy := entries[1]
	if deploy.Title != "Deploying" {
		t.Fatalf("expected heading title fallback, got %q", deploy.Title)
	}
	if !deploy.HasBody || deploy.Body != "# Deploying\n\nShip it." {
		t.Fatalf("unexpected deploy body %q", deploy.Body)
	}

	guide := entries[2]
	if guide.Title != "Local testing" {
		t.Fatalf("unexpected guide title %q", guide.Title)
	}
	if guide.Body != "import X from 'x'\n\n<Steps>run</Steps>" {
		t.Fatalf("expected raw markup to be kept, got %q", guide.Body)
	}

	empty := entries[4]
	if empty.HasBody || empty.Body != "" {
		t.Fatalf("expected entry without body, got %+v", empty)
	}

	if entries[0].Title != "" || entries[0].Label() != "reference/custom-page" {
		t.Fatalf("expected untitled entry to label with id, got %+v", entries[0])
	}
}

func TestStoreIncludeDrafts(t *testing.T) {
	entries, err := NewStore(docsFS(), StoreConfig{Root: "docs", IncludeDrafts: true}).GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	found := false
	for _, entry := range entries {
		if entry.ID == "wip" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected draft entry to be included: %+v", entries)
	}
}

func TestStorePatterns(t *testing.T) {
	entries, err := NewStore(docsFS(), StoreConfig{Root: "docs", Patterns: []string{"*.mdx"}}).GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "deploy" || entries[1].ID != "guides/local-testing" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStoreRootIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md":  &fstest.MapFile{Data: []byte("# Home\n")},
		"README.md": &fstest.MapFile{Data: []byte("# Readme\n")},
	}
	entries, err := NewStore(fsys, StoreConfig{}).GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 2 || entries[1].ID != "index" || entries[1].Title != "Home" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStoreDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"deploy.md":       &fstest.MapFile{Data: []byte("a")},
		"deploy/index.md": &fstest.MapFile{Data: []byte("b")},
	}
	_, err := NewStore(fsys, StoreConfig{}).GetAll(context.Background())
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestStoreParseFailureNamesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.md": &fstest.MapFile{Data: []byte("---\ntitle: [unclosed\n---\nbody\n")},
	}
	_, err := NewStore(fsys, StoreConfig{}).GetAll(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.md") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}

func TestStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore(docsFS(), StoreConfig{Root: "docs"}).GetAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStoreRequiresFilesystem(t *testing.T) {
	if _, err := NewStore(nil, StoreConfig{}).GetAll(context.Background()); !errors.Is(err, ErrFilesystemRequired) {
		t.Fatalf("expected ErrFilesystemRequired, got %v", err)
	}
}

func TestPathID(t *testing.T) {
	cases := map[string]string{
		"index.md":                "index",
		"deploy/index.mdx":        "deploy",
		"guides/local-testing.md": "guides/local-testing",
		"/nested/a/b.md":          "nested/a/b",
		"Guides/Intro.md":         "guides/intro",
	}
	for input, want := range cases {
		if got := PathID(input); got != want {
			t.Fatalf("PathID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFirstHeading(t *testing.T) {
	body := []byte("intro\n\n## Sub\n\n# Main *title*\n\n# Second\n")
	if got := FirstHeading(nil, body); got != "Main title" {
		t.Fatalf("unexpected heading %q", got)
	}
	if got := FirstHeading(nil, []byte("no headings")); got != "" {
		t.Fatalf("expected empty heading, got %q", got)
	}
}
