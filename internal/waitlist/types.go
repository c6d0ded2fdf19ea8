package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Method names the channel a submission was delivered through.
type Method string

const (
	MethodWebhook   Method = "webhook"
	MethodMailto    Method = "mailto"
	MethodStored    Method = "stored"
	MethodDiscarded Method = "discarded"
)

const (
	DefaultWebhookTimeout = 5 * time.Second
	DefaultMailtoSubject  = "Join the Pacer waitlist"

	maxNameLength   = 120
	maxGoalLength   = 280
	maxSourceLength = 64
)

// Submission is a signup as received from the form or the JSON API.
type Submission struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	Source    string `json:"source"`
	Honeypot  string `json:"website,omitempty"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// Outcome reports what happened to a submission. Honeypot hits are reported
// as accepted so bots get no signal.
type Outcome struct {
	Accepted  bool      `json:"accepted"`
	Method    Method    `json:"method"`
	MailtoURL string    `json:"mailto_url,omitempty"`
	Duplicate bool      `json:"duplicate,omitempty"`
	EntryID   uuid.UUID `json:"entry_id,omitzero"`
	// WebhookError holds the webhook failure that caused a fallback.
	WebhookError error `json:"-"`
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Goal        string    `json:"goal,omitempty"`
	Source      string    `json:"source,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Config controls delivery. At least one of WebhookURL, MailtoAddress or a
// recorder must be available for submissions to be accepted.
type Config struct {
	WebhookURL     string
	WebhookTimeout time.Duration
	MailtoAddress  string
	MailtoSubject  string
}

func (c Config) withDefaults() Config {
	if c.WebhookTimeout <= 0 {
		c.WebhookTimeout = DefaultWebhookTimeout
	}
	if c.MailtoSubject == "" {
		c.MailtoSubject = DefaultMailtoSubject
	}
	return c
}
