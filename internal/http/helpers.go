package http

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pacer/internal/audience"
	"github.com/goliatone/go-pacer/internal/auth"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/validation"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

const maxBodyBytes = 64 << 10

var errIDInvalid = errors.New("http: id must be a uuid")

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var postNotFound *blog.NotFoundError
	if errors.As(err, &postNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: postNotFound.Error()}
	}

	var recordNotFound *audience.NotFoundError
	if errors.As(err, &recordNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: recordNotFound.Error()}
	}

	if errors.Is(err, site.ErrLegalNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, audience.ErrEmailExists) {
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	}

	if errors.Is(err, waitlist.ErrInvalidSubmission) || errors.Is(err, audience.ErrInvalidInput) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  fieldIssues(err),
		}
	}

	if errors.Is(err, errIDInvalid) || errors.Is(err, audience.ErrIDRequired) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	if errors.Is(err, auth.ErrForbidden) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}
	if errors.Is(err, auth.ErrTokenMissing) || errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenExpired) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()}
	}

	if errors.Is(err, waitlist.ErrDeliveryFailed) {
		return http.StatusBadGateway, errorResponse{Error: "delivery_failed", Message: err.Error()}
	}
	if errors.Is(err, waitlist.ErrNoDelivery) {
		return http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "internal error",
	}
}

// fieldIssues flattens email sentinels and ozzo field errors into issues.
func fieldIssues(err error) []validation.ValidationIssue {
	issues := []validation.ValidationIssue{}
	switch {
	case errors.Is(err, waitlist.ErrEmailRequired):
		issues = append(issues, validation.ValidationIssue{Location: "/email", Message: "email is required"})
	case errors.Is(err, waitlist.ErrEmailInvalid):
		issues = append(issues, validation.ValidationIssue{Location: "/email", Message: "email is invalid"})
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		for _, key := range slices.Sorted(maps.Keys(fieldErrs)) {
			issues = append(issues, validation.ValidationIssue{
				Location: "/" + key,
				Message:  fieldErrs[key].Error(),
			})
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errIDInvalid
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, errIDInvalid
	}
	return parsed, nil
}

func parseIntQuery(value string, defaultValue int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func listOptions(r *http.Request) audience.ListOptions {
	query := r.URL.Query()
	limit := parseIntQuery(query.Get("limit"), 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := parseIntQuery(query.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return audience.ListOptions{Limit: limit, Offset: offset}
}

// clientIP prefers RemoteAddr, which chi's RealIP middleware has already
// rewritten from forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/x-www-form-urlencoded") ||
		isMultipartRequest(r)
}

func isMultipartRequest(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// parseForm fills r.PostForm for both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	if isMultipartRequest(r) {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}
