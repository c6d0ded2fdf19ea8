package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

type subscribePayload struct {
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
}

type unsubscribePayload struct {
	Email string `json:"email"`
}

func (s *Server) registerAudienceRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("POST "+joinPath(base, "waitlist"), s.handleWaitlistSubmit)
	mux.HandleFunc("POST "+joinPath(base, "subscribe"), s.handleSubscribe)
	mux.HandleFunc("POST "+joinPath(base, "unsubscribe"), s.handleUnsubscribe)
}

// handleWaitlistSubmit accepts JSON from scripts and form posts from the
// landing page.
func (s *Server) handleWaitlistSubmit(w http.ResponseWriter, r *http.Request) {
	if s.waitlist == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if isFormRequest(r) && s.views != nil {
		s.handleWaitlistForm(w, r)
		return
	}

	sub, err := s.submissionFromJSON(r)
	if err != nil {
		writeBadRequest(w, "invalid JSON payload")
		return
	}
	sub.IPAddress = clientIP(r)
	sub.UserAgent = r.UserAgent()

	outcome, err := s.waitlist.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if outcome.Method == waitlist.MethodDiscarded || outcome.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, outcome)
}

// submissionFromJSON reads the waitlist fields by key so the honeypot can
// follow the configured field name. Unknown keys are rejected.
func (s *Server) submissionFromJSON(r *http.Request) (waitlist.Submission, error) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return waitlist.Submission{}, err
	}
	var sub waitlist.Submission
	targets := map[string]*string{
		"email":  &sub.Email,
		"name":   &sub.Name,
		"goal":   &sub.Goal,
		"source": &sub.Source,
	}
	targets[s.honeypotField] = &sub.Honeypot
	for key, value := range raw {
		target, ok := targets[key]
		if !ok {
			return waitlist.Submission{}, fmt.Errorf("http: unknown field %q", key)
		}
		if err := json.Unmarshal(value, target); err != nil {
			return waitlist.Submission{}, fmt.Errorf("http: field %q: %w", key, err)
		}
	}
	return sub, nil
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if s.audience == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload subscribePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid JSON payload")
		return
	}
	subscriber, err := s.audience.Subscribe(r.Context(), audience.SubscriberInput{
		Email:  payload.Email,
		Name:   payload.Name,
		Source: payload.Source,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subscriber)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if s.audience == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload unsubscribePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(payload.Email) == "" {
		writeBadRequest(w, "email required")
		return
	}
	subscriber, err := s.audience.Unsubscribe(r.Context(), payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subscriber)
}
