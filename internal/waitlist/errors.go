package waitlist

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSubmission = errors.New("waitlist: invalid submission")
	ErrEmailRequired     = fmt.Errorf("%w: email is required", ErrInvalidSubmission)
	ErrEmailInvalid      = fmt.Errorf("%w: email is not valid", ErrInvalidSubmission)
	ErrNoDelivery        = errors.New("waitlist: no delivery channel configured")
	ErrDeliveryFailed    = errors.New("waitlist: delivery failed")
)

// WebhookStatusError is returned when the webhook answers with a non-2xx status.
type WebhookStatusError struct {
	StatusCode int
	Status     string
}

func (e *WebhookStatusError) Error() string {
	return fmt.Sprintf("waitlist: webhook returned %s", e.Status)
}
