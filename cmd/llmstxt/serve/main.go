package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-llms"
	"github.com/goliatone/go-llms/cmd/llmstxt/internal/bootstrap"
)

type moduleResources struct {
	handler http.Handler
	http    llms.HTTPConfig
	close   func() error
}

var moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	handler, err := module.Module.HTTPHandler(ctx)
	if err != nil {
		_ = module.Module.Close()
		return nil, err
	}
	return &moduleResources{handler: handler, http: module.Config.HTTP, close: module.Module.Close}, nil
}

// onListen is called once the listener is bound.
var onListen = func(addr net.Addr) {
	log.Printf("module=llmstxt operation=serve listening addr=%s", addr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("llmstxt serve: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("llmstxt-serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Markdown content root (overrides content.dir)")
	addr := fs.String("addr", "", "Listen address (overrides http.addr)")
	title := fs.String("title", "", "Site title (overrides site.title)")
	origin := fs.String("origin", "", "Site origin used for index links (overrides site.origin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Addr:       *addr,
		Title:      *title,
		Origin:     *origin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources.close != nil {
		defer resources.close()
	}

	listener, err := net.Listen("tcp", resources.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", resources.http.Addr, err)
	}
	server := &http.Server{
		Handler:      resources.handler,
		ReadTimeout:  resources.http.ReadTimeout,
		WriteTimeout: resources.http.WriteTimeout,
	}
	onListen(listener.Addr())

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx := context.Background()
		if timeout := resources.http.ShutdownTimeout; timeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, timeout)
			defer cancel()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Printf("module=llmstxt operation=serve stopped")
		return nil
	})
	return group.Wait()
}
