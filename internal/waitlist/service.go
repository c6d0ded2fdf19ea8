package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/logging"
	"github.com/goliatone/go-pacer/internal/validation"
	"github.com/goliatone/go-pacer/pkg/interfaces"
)

// Service accepts waitlist submissions.
type Service interface {
	Submit(ctx context.Context, sub Submission) (Outcome, error)
}

// Recorder persists accepted submissions. audience.Service satisfies it.
type Recorder interface {
	RecordWaitlistEntry(ctx context.Context, input audience.WaitlistInput) (*audience.WaitlistEntry, bool, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithRecorder stores every delivered submission along with its method.
func WithRecorder(recorder Recorder) ServiceOption {
	return func(s *service) {
		s.recorder = recorder
	}
}

// WithNotifier overrides the webhook notifier built from Config.WebhookURL.
func WithNotifier(notifier Notifier) ServiceOption {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the submitted_at timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type service struct {
	cfg      Config
	notifier Notifier
	recorder Recorder
	logger   interfaces.Logger
	now      func() time.Time
}

var _ Service = (*service)(nil)

// NewService builds a waitlist service. A webhook notifier is created when
// cfg.WebhookURL is set and no notifier option is given.
func NewService(cfg Config, opts ...ServiceOption) Service {
	s := &service{
		cfg:    cfg.withDefaults(),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil && strings.TrimSpace(s.cfg.WebhookURL) != "" {
		s.notifier = NewHTTPWebhook(strings.TrimSpace(s.cfg.WebhookURL), nil)
	}
	return s
}

func (s *service) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	logger := logging.FromContext(ctx, s.logger).WithContext(ctx)

	if strings.TrimSpace(sub.Honeypot) != "" {
		logger.Warn("waitlist.submission.honeypot", "ip_address", sub.IPAddress, "user_agent", sub.UserAgent)
		return Outcome{Accepted: true, Method: MethodDiscarded}, nil
	}

	sub = normalize(sub)
	if err := sub.Validate(); err != nil {
		return Outcome{}, err
	}

	outcome, err := s.deliver(ctx, sub, logger)
	if err != nil {
		return Outcome{}, err
	}

	if s.recorder != nil {
		entry, duplicate, err := s.recorder.RecordWaitlistEntry(ctx, audience.WaitlistInput{
			Email:     sub.Email,
			Name:      sub.Name,
			Goal:      sub.Goal,
			Source:    sub.Source,
			Method:    string(outcome.Method),
			IPAddress: sub.IPAddress,
			UserAgent: sub.UserAgent,
		})
		if err != nil {
			logger.Error("waitlist.record.failed", "error", err)
			return Outcome{}, fmt.Errorf("record waitlist entry: %w", err)
		}
		outcome.Duplicate = duplicate
		if entry != nil {
			outcome.EntryID = entry.ID
		}
	}

	logger.Info("waitlist.submission.accepted", "method", outcome.Method, "duplicate", outcome.Duplicate)
	return outcome, nil
}

// deliver tries the webhook, then the mailto fallback, then plain storage.
// The returned method is the one that actually carried the submission.
func (s *service) deliver(ctx context.Context, sub Submission, logger interfaces.Logger) (Outcome, error) {
	outcome := Outcome{Accepted: true}
	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, s.cfg.WebhookTimeout)
		err := s.notifier.Notify(notifyCtx, Payload{
			Email:       sub.Email,
			Name:        sub.Name,
			Goal:        sub.Goal,
			Source:      sub.Source,
			SubmittedAt: s.now().UTC(),
		})
		cancel()
		if err == nil {
			outcome.Method = MethodWebhook
			return outcome, nil
		}
		outcome.WebhookError = err
		logger.Error("waitlist.webhook.failed", "error", err)
	}

	switch {
	case strings.TrimSpace(s.cfg.MailtoAddress) != "":
		outcome.Method = MethodMailto
		outcome.MailtoURL = BuildMailto(s.cfg.MailtoAddress, s.cfg.MailtoSubject, mailtoBody(sub))
	case s.recorder != nil:
		outcome.Method = MethodStored
	case outcome.WebhookError != nil:
		return Outcome{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, outcome.WebhookError)
	default:
		return Outcome{}, ErrNoDelivery
	}
	return outcome, nil
}

func normalize(sub Submission) Submission {
	sub.Email = validation.NormalizeEmail(sub.Email)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Goal = strings.TrimSpace(sub.Goal)
	sub.Source = strings.TrimSpace(sub.Source)
	return sub
}

// Validate checks a normalised submission. Email failures are reported as
// ErrEmailRequired or ErrEmailInvalid; other field failures wrap
// ErrInvalidSubmission together with the ozzo field errors.
func (sub Submission) Validate() error {
	if sub.Email == "" {
		return ErrEmailRequired
	}
	if !validation.ValidEmail(sub.Email) {
		return ErrEmailInvalid
	}
	err := ozzo.ValidateStruct(&sub,
		ozzo.Field(&sub.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&sub.Goal, ozzo.RuneLength(0, maxGoalLength)),
		ozzo.Field(&sub.Source, ozzo.RuneLength(0, maxSourceLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}
	return nil
}

// FieldErrors extracts per-field messages from a validation error, for
// rendering next to form inputs.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	switch {
	case errors.Is(err, ErrEmailRequired):
		out["email"] = "Email is required."
	case errors.Is(err, ErrEmailInvalid):
		out["email"] = "Enter a valid email address."
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		for field, fieldErr := range fieldErrs {
			out[field] = fieldErr.Error()
		}
	}
	return out
}
