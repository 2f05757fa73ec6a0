package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactKind classifies generated files.
type ArtifactKind string

const (
	KindIndex    ArtifactKind = "index"
	KindFull     ArtifactKind = "full"
	KindPage     ArtifactKind = "page"
	KindManifest ArtifactKind = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
// Path is slash-separated and relative to the output directory.
type writeFileRequest struct {
	Path        string
	Content     []byte
	Kind        ArtifactKind
	ContentType string
	Checksum    string
}

// artifactWriter abstracts where generator outputs land.
type artifactWriter interface {
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(outputDir string, dryRun bool) artifactWriter {
	if dryRun {
		return noopWriter{}
	}
	return &fsWriter{root: outputDir}
}

// fsWriter writes under root, replacing files atomically through a rename.
type fsWriter struct {
	root string
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}

	target := filepath.Join(w.root, filepath.FromSlash(req.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir for %s: %w", req.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".llms-*")
	if err != nil {
		return fmt.Errorf("generator: create temp for %s: %w", req.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(req.Content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: write %s: %w", req.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: close %s: %w", req.Path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: chmod %s: %w", req.Path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("generator: rename %s: %w", req.Path, err)
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
