package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Status classifies how a command run ended.
type Status string

const (
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusInterrupted Status = "interrupted"
)

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSucceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusInterrupted
	default:
		return StatusFailed
	}
}

func (s Status) event() string {
	switch s {
	case StatusSucceeded:
		return "command.execute.success"
	case StatusInterrupted:
		return "command.execute.context_error"
	default:
		return "command.execute.failed"
	}
}

// Report is handed to an Observer once a command returns.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Status    Status
	Err       error
	// Logger already carries Fields.
	Logger interfaces.Logger
}

// Observer receives the Report of every run. Installing one replaces the
// handler's own outcome log line.
type Observer[T command.Message] func(ctx context.Context, msg T, report Report)

// LogObserver writes one line per run. A nil logger means the report's own
// scoped logger.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	return func(_ context.Context, _ T, report Report) {
		logReport(logger, report)
	}
}

func logReport(logger interfaces.Logger, report Report) {
	if logger == nil {
		logger = logging.Ensure(report.Logger)
	} else if len(report.Fields) > 0 {
		logger = logging.WithFields(logger, report.Fields)
	}
	args := []any{"duration_ms", report.Duration.Milliseconds()}
	if report.Status == StatusSucceeded {
		logger.Info(report.Status.event(), args...)
		return
	}
	logger.Error(report.Status.event(), append(args, "error", report.Err)...)
}
