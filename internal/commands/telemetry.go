package commands

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-codeimport/internal/logging"
	"github.com/goliatone/go-codeimport/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus captures the result category for command execution.
type TelemetryStatus string

const (
	// TelemetryStatusSuccess indicates the command completed without errors.
	TelemetryStatusSuccess TelemetryStatus = "success"
	// TelemetryStatusFailed indicates the command execution returned an error.
	TelemetryStatusFailed TelemetryStatus = "failed"
	// TelemetryStatusContextError indicates execution failed due to context cancellation or deadline.
	TelemetryStatusContextError TelemetryStatus = "context_error"
	// TelemetryStatusNotFound indicates the document or an import target was missing.
	TelemetryStatusNotFound TelemetryStatus = "not_found"
)

// TelemetryInfo describes a command execution outcome provided to telemetry callbacks.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry represents an optional callback invoked after command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry returns a telemetry callback that logs command outcomes, with
// their duration, on the supplied logger.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info, "duration_ms", info.Duration.Milliseconds())
	}
}

func logOutcome(logger interfaces.Logger, info TelemetryInfo, args ...any) {
	logger = logging.Ensure(logger)
	switch info.Status {
	case TelemetryStatusSuccess:
		logger.Info("codeimport.command.success", args...)
	case TelemetryStatusNotFound:
		logger.Warn("codeimport.command.not_found", append(args, "error", info.Error)...)
	case TelemetryStatusContextError:
		logger.Error("codeimport.command.context_error", append(args, "error", info.Error)...)
	default:
		logger.Error("codeimport.command.failed", append(args, "error", info.Error)...)
	}
}

// CommandLogger returns the logger for a family of command handlers, named
// codeimport.commands.<module>.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "codeimport.commands."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
