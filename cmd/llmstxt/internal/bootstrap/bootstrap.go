package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-llms"
	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/internal/runtimeconfig"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

// Options captures the CLI flags shared by the llmstxt commands. Non-empty
// values override the config file.
type Options struct {
	ConfigPath     string
	ContentDir     string
	OutputDir      string
	Addr           string
	Title          string
	Origin         string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the llms module with the resolved config and a CLI logger.
type Module struct {
	Module *llms.Module
	Config llms.Config
	Logger interfaces.Logger
}

// LoadConfig reads the config file (or the defaults) and applies the flag
// overrides. The result is not validated.
func LoadConfig(opts Options) (llms.Config, error) {
	cfg := llms.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		decoded, err := runtimeconfig.DecodeFile(path)
		if err != nil {
			return llms.Config{}, err
		}
		cfg = decoded
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	if addr := strings.TrimSpace(opts.Addr); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if title := strings.TrimSpace(opts.Title); title != "" {
		cfg.Site.Title = title
	}
	if origin := strings.TrimSpace(opts.Origin); origin != "" {
		cfg.Site.Origin = origin
	}
	return cfg, nil
}

// BuildModule constructs an llms module from the CLI options.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	var moduleOpts []llms.Option
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, llms.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := llms.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise llms module: %w", err)
	}

	return &Module{
		Module: module,
		Config: cfg,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "llms.cli"),
	}, nil
}
