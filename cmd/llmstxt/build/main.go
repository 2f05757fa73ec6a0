package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-llms"
	"github.com/goliatone/go-llms/cmd/llmstxt/internal/bootstrap"
)

type buildHandler interface {
	Execute(ctx context.Context, msg llms.BuildExportCommand) error
}

type moduleResources struct {
	build buildHandler
	close func() error
}

var moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	handler, err := module.Module.BuildCommand(ctx)
	if err != nil {
		_ = module.Module.Close()
		return nil, err
	}
	return &moduleResources{build: handler, close: module.Module.Close}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("llmstxt build: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("llmstxt-build", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Markdown content root (overrides content.dir)")
	outputDir := fs.String("out", "", "Output directory (overrides generator.output_dir)")
	title := fs.String("title", "", "Site title (overrides site.title)")
	origin := fs.String("origin", "", "Site origin used for index links (overrides site.origin)")
	dryRun := fs.Bool("dry-run", false, "Render artifacts without writing them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		OutputDir:  *outputDir,
		Title:      *title,
		Origin:     *origin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources.close != nil {
		defer resources.close()
	}

	cmd := llms.BuildExportCommand{
		OutputDir: *outputDir,
		DryRun:    *dryRun,
		ResultCallback: func(env llms.CommandResult) {
			logSummary(env)
		},
	}
	if err := resources.build.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	return nil
}

func logSummary(env llms.CommandResult) {
	result := env.Result
	if result == nil {
		log.Printf("module=llmstxt operation=%v summary artifacts=0", env.Metadata["operation"])
		return
	}
	log.Printf("module=llmstxt operation=%v summary artifacts=%d output_dir=%s dry_run=%t duration=%s",
		env.Metadata["operation"], len(result.Artifacts), result.OutputDir, result.DryRun, result.Duration)
	for _, artifact := range result.Artifacts {
		log.Printf("module=llmstxt artifact path=%s kind=%s size=%d checksum=%s",
			artifact.Path, artifact.Kind, artifact.Size, artifact.Checksum)
	}
}
