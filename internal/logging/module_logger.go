package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-llms/pkg/interfaces"
)

const (
	rootModule      = "llms"
	exportModule    = "llms.export"
	markdownModule  = "llms.markdown"
	contentModule   = "llms.content"
	httpModule      = "llms.http"
	generatorModule = "llms.generator"
	commandsModule  = "llms.commands"
)

const (
	fieldExportKind   = "export"
	fieldExportOrigin = "origin"
	fieldDocumentPath = "document_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ExportLogger returns the logger namespace reserved for the export pipeline.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// MarkdownLogger returns the logger namespace reserved for the markdown store.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// ContentLogger returns the logger namespace reserved for the SQL and memory stores.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// GeneratorLogger returns the logger namespace reserved for static builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithExportContext enriches the logger with the export kind and link origin.
// Empty values are ignored.
func WithExportContext(logger interfaces.Logger, kind, origin string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldExportKind] = trimmed
	}
	if trimmed := strings.TrimSpace(origin); trimmed != "" {
		fields[fieldExportOrigin] = trimmed
	}
	return WithFields(logger, fields)
}

// WithDocumentPath attaches the source path of a document being loaded.
func WithDocumentPath(logger interfaces.Logger, path string) interfaces.Logger {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return WithFields(logger, map[string]any{fieldDocumentPath: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider hands out no-op loggers for every name.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return noopLogger{} }
