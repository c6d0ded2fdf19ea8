package commands

import (
	"context"
	"maps"
	"time"

	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// DefaultCommandTimeout bounds a single run unless WithTimeout says otherwise.
const DefaultCommandTimeout = 30 * time.Second

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a command function with validation, timeouts, structured
// logging and error categorisation.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	observer  Observer[T]
	now       func() time.Time
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	report := h.begin(msg)
	report.Logger.Debug("command.execute.start")

	started := h.now()
	err := h.exec(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}
	report.Duration = h.now().Sub(started)
	report.Err = err
	report.Status = statusOf(err)

	if h.observer != nil {
		h.observer(ctx, msg, report)
	} else {
		logReport(nil, report)
	}

	switch report.Status {
	case StatusSucceeded:
		return nil
	case StatusInterrupted:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wrapContextError(ctxErr)
		}
	}
	return wrapExecuteError(err)
}

func (h *Handler[T]) begin(msg T) Report {
	report := Report{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    map[string]any{},
	}
	report.Fields["command"] = report.Command
	if h.operation != "" {
		report.Fields["operation"] = h.operation
	}
	if h.fields != nil {
		maps.Copy(report.Fields, h.fields(msg))
	}
	report.Logger = logging.WithFields(h.logger, report.Fields)
	return report
}

// WithTimeout overrides the default execution timeout. Zero disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from each message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithObserver hands each run's Report to observer.
func WithObserver[T command.Message](observer Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = observer
	}
}

// WithHandlerClock overrides the clock used to measure execution time.
func WithHandlerClock[T command.Message](now func() time.Time) HandlerOption[T] {
	return func(h *Handler[T]) {
		if now != nil {
			h.now = now
		}
	}
}
