package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-llms"
	"github.com/goliatone/go-llms/internal/logging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "llms.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "site:\n  title: File title\ncontent:\n  dir: from-file\ngenerator:\n  output_dir: out-file\n")

	cfg, err := LoadConfig(Options{
		ConfigPath: path,
		ContentDir: "from-flag",
		Addr:       "127.0.0.1:9000",
	})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Site.Title != "File title" {
		t.Fatalf("expected title from file, got %q", cfg.Site.Title)
	}
	if cfg.Content.Dir != "from-flag" {
		t.Fatalf("expected content dir override, got %q", cfg.Content.Dir)
	}
	if cfg.Generator.OutputDir != "out-file" {
		t.Fatalf("expected output dir from file, got %q", cfg.Generator.OutputDir)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected addr override, got %q", cfg.HTTP.Addr)
	}
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(Options{Title: "Flag title"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Site.Title != "Flag title" || cfg.Content.Dir != "content" {
		t.Fatalf("unexpected config %#v", cfg.Site)
	}
}

func TestBuildModuleRequiresTitle(t *testing.T) {
	_, err := BuildModule(Options{LoggerProvider: logging.NoOpProvider()})
	if !errors.Is(err, llms.ErrSiteTitleRequired) {
		t.Fatalf("expected ErrSiteTitleRequired, got %v", err)
	}
}

func TestBuildModuleWiresGenerator(t *testing.T) {
	resources, err := BuildModule(Options{
		Title:          "Docs",
		ContentDir:     t.TempDir(),
		LoggerProvider: logging.NoOpProvider(),
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if resources.Module == nil || resources.Logger == nil {
		t.Fatal("expected module and logger to be initialised")
	}
	gen, err := resources.Module.Generator(context.Background())
	if err != nil || gen == nil {
		t.Fatalf("expected generator, got %v (err %v)", gen, err)
	}
}

func TestBuildModuleFromExampleConfig(t *testing.T) {
	resources, err := BuildModule(Options{
		ConfigPath:     "../../../../examples/llms.yaml",
		ContentDir:     "../../../../examples/content",
		LoggerProvider: logging.NoOpProvider(),
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	ctx := context.Background()
	svc, err := resources.Module.Export(ctx)
	if err != nil {
		t.Fatalf("export service: %v", err)
	}
	doc, err := svc.Index(ctx, resources.Config.IndexRequest())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	want := "# tollbooth\n\n> Rate limiting proxy for internal APIs.\n\n## Pages\n\n" +
		"- [Overview](https://docs.tollbooth.test/index/): [markdown](https://docs.tollbooth.test/index.md)\n" +
		"- [Quickstart](https://docs.tollbooth.test/guides/quickstart/): [markdown](https://docs.tollbooth.test/guides/quickstart.md)\n" +
		"- [Configuring limits](https://docs.tollbooth.test/guides/limits/): [markdown](https://docs.tollbooth.test/guides/limits.md)\n"
	if doc.Body != want {
		t.Fatalf("unexpected index:\n%q\nwant:\n%q", doc.Body, want)
	}
}
