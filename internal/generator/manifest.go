package generator

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	manifestFileName    = "manifest.json"
	manifestFileVersion = 1
)

// buildManifest lists the artifacts of one build.
type buildManifest struct {
	Version     int        `json:"version"`
	GeneratedAt time.Time  `json:"generated_at"`
	Artifacts   []Artifact `json:"artifacts"`
}

func encodeManifest(generatedAt time.Time, artifacts []Artifact) ([]byte, error) {
	manifest := buildManifest{
		Version:     manifestFileVersion,
		GeneratedAt: generatedAt.UTC(),
		Artifacts:   artifacts,
	}
	if manifest.Artifacts == nil {
		manifest.Artifacts = []Artifact{}
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}
