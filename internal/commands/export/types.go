package exportcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-llms/internal/generator"
)

const (
	buildExportMessageType = "llms.export.build"
	syncCorpusMessageType  = "llms.export.sync"
)

// ResultCallback receives the outcome of an export command. It is optional and
// runs synchronously inside the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures what a command produced. Result is only set by
// build commands.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildExportCommand writes the static llms.txt artifacts.
type BuildExportCommand struct {
	OutputDir      string         `json:"output_dir,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildExportCommand) Type() string { return buildExportMessageType }

// Validate rejects output directories that are set but blank or point above
// the working directory.
func (m BuildExportCommand) Validate() error {
	errs := validation.Errors{}
	if m.OutputDir != "" {
		trimmed := strings.TrimSpace(m.OutputDir)
		switch {
		case trimmed == "":
			errs["output_dir"] = validation.NewError("llms.export.build.output_dir_blank", "output_dir must not be blank")
		case trimmed == ".." || strings.HasPrefix(trimmed, "../"):
			errs["output_dir"] = validation.NewError("llms.export.build.output_dir_parent", "output_dir must not reference a parent directory")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SyncCorpusCommand copies the configured source corpus into a writable store.
type SyncCorpusCommand struct {
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SyncCorpusCommand) Type() string { return syncCorpusMessageType }

// Validate implements command.Message validation. Every field combination is valid.
func (SyncCorpusCommand) Validate() error { return nil }
