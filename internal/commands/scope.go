package commands

import (
	"strings"

	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// CommandLogger names a logger "pacer.commands.<module>" and tags it with
// component=command. A blank module becomes "core".
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = "core"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "pacer.commands."+module),
		map[string]any{"component": "command", "command_module": module},
	)
}
