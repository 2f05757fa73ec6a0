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

type syncHandler interface {
	Execute(ctx context.Context, msg llms.SyncCorpusCommand) error
}

type moduleResources struct {
	sync  syncHandler
	close func() error
}

var moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	handler, err := module.Module.SyncCommand(ctx)
	if err != nil {
		_ = module.Module.Close()
		return nil, err
	}
	return &moduleResources{sync: handler, close: module.Module.Close}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("llmstxt sync: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("llmstxt-sync", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Markdown content root (overrides content.dir)")
	title := fs.String("title", "", "Site title (overrides site.title)")
	dryRun := fs.Bool("dry-run", false, "Read the corpus without writing the sql store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Title:      *title,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources.close != nil {
		defer resources.close()
	}

	cmd := llms.SyncCorpusCommand{
		DryRun: *dryRun,
		ResultCallback: func(env llms.CommandResult) {
			log.Printf("module=llmstxt operation=%v summary entries=%v dry_run=%v",
				env.Metadata["operation"], env.Metadata["entries"], env.Metadata["dry_run"])
		},
	}
	if err := resources.sync.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	return nil
}
