package exportcmd

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-llms/internal/commands"
	"github.com/goliatone/go-llms/internal/generator"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

var (
	// ErrGeneratorRequired is returned when a build handler has no generator.
	ErrGeneratorRequired = errors.New("exportcmd: generator is required")
	// ErrSyncSourceRequired is returned when a sync handler has no source store.
	ErrSyncSourceRequired = errors.New("exportcmd: sync source is required")
	// ErrSyncTargetRequired is returned when a sync handler has no target store.
	ErrSyncTargetRequired = errors.New("exportcmd: sync target is required")
)

// Builder is the generator surface the build handler needs.
type Builder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// BuildExportHandler runs generator builds through the shared command handler.
type BuildExportHandler struct {
	inner *commands.Handler[BuildExportCommand]
}

// NewBuildExportHandler constructs a handler wired to the provided generator.
func NewBuildExportHandler(builder Builder, logger interfaces.Logger, opts ...commands.HandlerOption[BuildExportCommand]) *BuildExportHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildExportCommand) error {
		if builder == nil {
			return ErrGeneratorRequired
		}
		result, err := builder.Build(ctx, generator.BuildOptions{
			OutputDir: strings.TrimSpace(msg.OutputDir),
			DryRun:    msg.DryRun,
		})
		if err != nil {
			return err
		}
		metadata := map[string]any{
			"operation": "build",
			"dry_run":   msg.DryRun,
		}
		if result != nil {
			metadata["artifacts"] = len(result.Artifacts)
			metadata["output_dir"] = result.OutputDir
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{Result: result, Metadata: metadata})
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildExportCommand]{
		commands.WithLogger[BuildExportCommand](baseLogger),
		commands.WithOperation[BuildExportCommand]("export.build"),
		commands.WithMessageFields(func(msg BuildExportCommand) map[string]any {
			fields := map[string]any{}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildExportCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildExportHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildExportCommand].
func (h *BuildExportHandler) Execute(ctx context.Context, msg BuildExportCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncCorpusHandler copies a corpus snapshot from one store into another.
type SyncCorpusHandler struct {
	inner *commands.Handler[SyncCorpusCommand]
}

// NewSyncCorpusHandler constructs a handler that reads source and saves into target.
func NewSyncCorpusHandler(source interfaces.ContentStore, target interfaces.WritableContentStore, logger interfaces.Logger, opts ...commands.HandlerOption[SyncCorpusCommand]) *SyncCorpusHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncCorpusCommand) error {
		if source == nil {
			return ErrSyncSourceRequired
		}
		if target == nil {
			return ErrSyncTargetRequired
		}
		entries, err := source.GetAll(ctx)
		if err != nil {
			return err
		}
		if !msg.DryRun {
			if err := target.Save(ctx, entries); err != nil {
				return err
			}
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Metadata: map[string]any{
				"operation": "sync",
				"dry_run":   msg.DryRun,
				"entries":   len(entries),
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncCorpusCommand]{
		commands.WithLogger[SyncCorpusCommand](baseLogger),
		commands.WithOperation[SyncCorpusCommand]("export.sync"),
		commands.WithMessageFields(func(msg SyncCorpusCommand) map[string]any {
			if msg.DryRun {
				return map[string]any{"dry_run": true}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncCorpusCommand].
func (h *SyncCorpusHandler) Execute(ctx context.Context, msg SyncCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
