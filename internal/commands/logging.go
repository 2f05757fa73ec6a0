package commands

import (
	"strings"

	"github.com/goliatone/go-llms/internal/logging"
	"github.com/goliatone/go-llms/pkg/interfaces"
)

// CommandLogger returns a module-scoped logger for command handlers, enriched with
// the fields every command entry carries.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.CommandsLogger(provider)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
