package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-llms/internal/content"
	"github.com/goliatone/go-llms/internal/export"
	"github.com/goliatone/go-llms/internal/identity"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

type recordingWriter struct {
	mu     sync.Mutex
	writes []writeFileRequest
	failOn string
}

func (w *recordingWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	if w.failOn != "" && req.Path == w.failOn {
		return errors.New("disk full")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, req)
	return nil
}

func (w *recordingWriter) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.writes))
	for _, req := range w.writes {
		out = append(out, req.Path)
	}
	return out
}

func testSource() *export.Service {
	return export.NewService(content.NewMemoryStore(
		interfaces.DocumentEntry{ID: "welcome", Title: "Welcome", Body: "Hello", HasBody: true},
		interfaces.DocumentEntry{ID: "guides/intro", Title: "Intro", Body: "Start", HasBody: true},
	))
}

func testConfig(outputDir string) Config {
	header := interfaces.Header{Title: "tollbooth docs", Summary: "Documentation for tollbooth."}
	return Config{
		OutputDir:     outputDir,
		IndexFileName: "llms.txt",
		FullFileName:  "llms-full.txt",
		Index:         interfaces.IndexRequest{Header: header, Origin: "https://docs.test"},
		Full:          interfaces.FullRequest{Header: header},
		Pages:         true,
		Manifest:      true,
		Workers:       2,
	}
}

func TestBuildWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(testSource(), testConfig(dir),
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.DryRun || result.OutputDir != dir {
		t.Fatalf("unexpected result metadata: %+v", result)
	}

	wantPaths := []string{"guides/intro.md", "llms-full.txt", "llms.txt", "welcome.md", "manifest.json"}
	if len(result.Artifacts) != len(wantPaths) {
		t.Fatalf("expected %d artifacts, got %+v", len(wantPaths), result.Artifacts)
	}
	for i, want := range wantPaths {
		if result.Artifacts[i].Path != want {
			t.Fatalf("artifact %d: expected %s, got %s", i, want, result.Artifacts[i].Path)
		}
	}

	index, err := os.ReadFile(filepath.Join(dir, "llms.txt"))
	if err != nil {
		t.Fatalf("read llms.txt: %v", err)
	}
	sum := sha256.Sum256(index)
	indexArtifact := result.Artifacts[2]
	if indexArtifact.Checksum != hex.EncodeToString(sum[:]) || indexArtifact.Size != int64(len(index)) {
		t.Fatalf("artifact metadata does not match file: %+v", indexArtifact)
	}
	if indexArtifact.ID != identity.ArtifactUUID("llms.txt") || indexArtifact.Kind != KindIndex || indexArtifact.Entries != 2 {
		t.Fatalf("unexpected index artifact: %+v", indexArtifact)
	}

	page, err := os.ReadFile(filepath.Join(dir, "guides", "intro.md"))
	if err != nil {
		t.Fatalf("read page mirror: %v", err)
	}
	if string(page) != "# Intro\n\nStart\n" {
		t.Fatalf("unexpected page mirror %q", page)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if manifest.Version != manifestFileVersion || len(manifest.Artifacts) != 4 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
	if !manifest.GeneratedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected manifest timestamp %s", manifest.GeneratedAt)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := NewService(testSource(), testConfig(t.TempDir())).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := NewService(testSource(), testConfig(t.TempDir())).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	for i := range first.Artifacts {
		if first.Artifacts[i].Kind == KindManifest {
			continue
		}
		if first.Artifacts[i] != second.Artifacts[i] {
			t.Fatalf("artifact %d differs between builds: %+v vs %+v", i, first.Artifacts[i], second.Artifacts[i])
		}
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	result, err := NewService(testSource(), testConfig(dir)).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !result.DryRun || len(result.Artifacts) != 5 {
		t.Fatalf("unexpected dry-run result: %+v", result)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output directory, got %v", err)
	}
}

func TestBuildWithoutPagesOrManifest(t *testing.T) {
	cfg := testConfig("out")
	cfg.Pages = false
	cfg.Manifest = false
	writer := &recordingWriter{}
	svc := NewService(testSource(), cfg)
	svc.newWriter = func(string, bool) artifactWriter { return writer }

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(result.Artifacts) != 2 || len(writer.paths()) != 2 {
		t.Fatalf("expected index and full only, got %+v", result.Artifacts)
	}
}

func TestBuildWriteFailureSkipsManifest(t *testing.T) {
	writer := &recordingWriter{failOn: "welcome.md"}
	svc := NewService(testSource(), testConfig("out"))
	svc.newWriter = func(string, bool) artifactWriter { return writer }

	if _, err := svc.Build(context.Background(), BuildOptions{}); err == nil {
		t.Fatal("expected write failure")
	}
	for _, path := range writer.paths() {
		if path == manifestFileName {
			t.Fatal("manifest must not be written after a failed write")
		}
	}
}

func TestBuildPropagatesStoreFailure(t *testing.T) {
	source := export.NewService(failingStore{})
	_, err := NewService(source, testConfig(t.TempDir())).Build(context.Background(), BuildOptions{})
	if !export.IsStoreFailure(err) {
		t.Fatalf("expected store failure, got %v", err)
	}
}

func TestBuildRequiresOutputDir(t *testing.T) {
	_, err := NewService(testSource(), testConfig("")).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}
	if _, err := NewService(nil, testConfig("out")).Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrSourceRequired) {
		t.Fatalf("expected ErrSourceRequired, got %v", err)
	}
}

func TestBuildRejectsEscapingFileNames(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.FullFileName = "../outside.txt"
	if _, err := NewService(testSource(), cfg).Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"llms.txt":         "llms.txt",
		"/guides/intro.md": "guides/intro.md",
		"a//b.md":          "a/b.md",
	}
	for input, want := range cases {
		got, err := outputPath(input)
		if err != nil {
			t.Fatalf("outputPath(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("outputPath(%q) = %q, want %q", input, got, want)
		}
	}
	for _, input := range []string{"", "  ", "../x", "a/../../b", "/"} {
		if _, err := outputPath(input); !errors.Is(err, ErrUnsafePath) {
			t.Fatalf("outputPath(%q): expected ErrUnsafePath, got %v", input, err)
		}
	}
}

type failingStore struct{}

func (failingStore) GetAll(context.Context) ([]interfaces.DocumentEntry, error) {
	return nil, errors.New("collection unavailable")
}
