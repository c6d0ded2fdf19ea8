package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Notifier delivers a signup to an external system.
type Notifier interface {
	Notify(ctx context.Context, payload Payload) error
}

// HTTPWebhook POSTs payloads as JSON to a fixed URL.
type HTTPWebhook struct {
	url    string
	client *http.Client
	tracer trace.Tracer
}

// NewHTTPWebhook creates a webhook notifier. A nil client uses
// http.DefaultClient; timeouts come from the caller's context.
func NewHTTPWebhook(url string, client *http.Client) *HTTPWebhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPWebhook{
		url:    url,
		client: client,
		tracer: otel.Tracer("github.com/goliatone/go-pacer/internal/waitlist"),
	}
}

// Notify sends one request. Any 2xx status is success; there is no retry.
func (h *HTTPWebhook) Notify(ctx context.Context, payload Payload) (err error) {
	ctx, span := h.tracer.Start(ctx, "waitlist.webhook", trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &WebhookStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
