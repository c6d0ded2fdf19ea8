package audiencecmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/commands"
	"github.com/goliatone/go-pacer/pkg/interfaces"
	"github.com/natefinch/atomic"
)

const (
	exportWaitlistMessageType = "pacer.audience.waitlist.export"
	exportBatchSize           = 200
)

// ErrServiceRequired is returned when a handler is built without an audience service.
var ErrServiceRequired = errors.New("audiencecmd: audience service is required")

var exportHeader = []string{"id", "email", "name", "goal", "source", "method", "created_at"}

// ExportWaitlistCommand writes waitlist entries to a CSV file, newest first.
type ExportWaitlistCommand struct {
	Path string `json:"path"`
	// Limit caps the number of exported rows; zero exports everything.
	Limit int `json:"limit,omitempty"`
	// ResultCallback receives the number of rows written.
	ResultCallback func(rows int) `json:"-"`
}

// Type implements command.Message.
func (ExportWaitlistCommand) Type() string { return exportWaitlistMessageType }

// Validate ensures a destination is present.
func (cmd ExportWaitlistCommand) Validate() error {
	return ozzo.ValidateStruct(&cmd,
		ozzo.Field(&cmd.Path, ozzo.Required, ozzo.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return ozzo.NewError("pacer.audience.export.path_required", "path is required")
			}
			return nil
		})),
		ozzo.Field(&cmd.Limit, ozzo.Min(0)),
	)
}

// ExportWaitlistHandler exports the waitlist through the shared command handler.
type ExportWaitlistHandler struct {
	inner *commands.Handler[ExportWaitlistCommand]
}

// NewExportWaitlistHandler constructs a handler bound to service.
func NewExportWaitlistHandler(service audience.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ExportWaitlistCommand]) *ExportWaitlistHandler {
	exec := func(ctx context.Context, msg ExportWaitlistCommand) error {
		if service == nil {
			return ErrServiceRequired
		}
		entries, err := collectEntries(ctx, service, msg.Limit)
		if err != nil {
			return err
		}
		data, err := encodeEntries(entries)
		if err != nil {
			return err
		}
		if err := atomic.WriteFile(strings.TrimSpace(msg.Path), bytes.NewReader(data)); err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(len(entries))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportWaitlistCommand]{
		commands.WithLogger[ExportWaitlistCommand](logger),
		commands.WithOperation[ExportWaitlistCommand]("waitlist.export"),
		commands.WithMessageFields(func(msg ExportWaitlistCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if msg.Limit > 0 {
				fields["limit"] = msg.Limit
			}
			return fields
		}),
		commands.WithObserver(commands.LogObserver[ExportWaitlistCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportWaitlistHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportWaitlistCommand].
func (h *ExportWaitlistHandler) Execute(ctx context.Context, msg ExportWaitlistCommand) error {
	return h.inner.Execute(ctx, msg)
}

func collectEntries(ctx context.Context, service audience.Service, limit int) ([]*audience.WaitlistEntry, error) {
	var out []*audience.WaitlistEntry
	offset := 0
	for {
		batch := exportBatchSize
		if limit > 0 && limit-len(out) < batch {
			batch = limit - len(out)
		}
		if batch <= 0 {
			return out, nil
		}
		entries, total, err := service.ListWaitlistEntries(ctx, audience.ListOptions{Limit: batch, Offset: offset})
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
		offset += len(entries)
		if len(entries) == 0 || offset >= total {
			return out, nil
		}
	}
}

func encodeEntries(entries []*audience.WaitlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		row := []string{
			entry.ID.String(),
			entry.Email,
			entry.Name,
			entry.Goal,
			entry.Source,
			entry.Method,
			entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
