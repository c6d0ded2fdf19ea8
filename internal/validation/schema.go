package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with their JSON pointer.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// PostFrontMatterSchema describes the frontmatter accepted for blog posts.
// Unknown keys are allowed and end up in the post's custom metadata.
var PostFrontMatterSchema = map[string]any{
	"$schema":  "https://json-schema.org/draft/2020-12/schema",
	"type":     "object",
	"required": []any{"title", "date"},
	"properties": map[string]any{
		"title":        map[string]any{"type": "string", "minLength": 1},
		"slug":         map[string]any{"type": "string"},
		"excerpt":      map[string]any{"type": "string"},
		"author":       map[string]any{"type": "string"},
		"author_role":  map[string]any{"type": "string"},
		"date":         map[string]any{"type": "string", "minLength": 1},
		"updated":      map[string]any{"type": "string"},
		"tags":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"category":     map[string]any{"type": "string"},
		"cover_image":  map[string]any{"type": "string"},
		"featured":     map[string]any{"type": "boolean"},
		"draft":        map[string]any{"type": "boolean"},
		"reading_time": map[string]any{"type": "integer"},
	},
}

var (
	postSchemaOnce sync.Once
	postSchema     *jsonschema.Schema
	postSchemaErr  error
)

// ValidatePostFrontMatter checks raw frontmatter against PostFrontMatterSchema.
func ValidatePostFrontMatter(raw map[string]any) error {
	postSchemaOnce.Do(func() {
		postSchema, postSchemaErr = compileSchema(PostFrontMatterSchema)
	})
	if postSchemaErr != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, postSchemaErr)
	}
	return validateWithSchema(postSchema, raw)
}

// ValidatePayload validates payload against an arbitrary JSON schema.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return validateWithSchema(compiled, payload)
}

func validateWithSchema(compiled *jsonschema.Schema, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	if err := compiled.Validate(toJSONValue(payload)); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// toJSONValue converts decoded YAML into the value shapes the validator
// understands: string keyed maps, []any, float64 numbers and RFC 3339 dates.
func toJSONValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = toJSONValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = toJSONValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = toJSONValue(item)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	case time.Time:
		return typed.Format(time.RFC3339)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		return float64(typed)
	default:
		return value
	}
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
