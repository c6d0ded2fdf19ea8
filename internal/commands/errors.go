package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors.
const (
	CodeInvalidMessage = "PACER_COMMAND_INVALID"
	CodeCanceled       = "PACER_COMMAND_CANCELED"
	CodeTimedOut       = "PACER_COMMAND_TIMEOUT"
	CodeContext        = "PACER_COMMAND_CONTEXT"
	CodeFailed         = "PACER_COMMAND_FAILED"
)

// wrap categorises err once; errors already carrying a category pass through.
func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "invalid command message", CodeInvalidMessage)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "command canceled", CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "command timed out", CodeTimedOut)
	default:
		return wrap(err, goerrors.CategoryCommand, "command context error", CodeContext)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "command failed", CodeFailed)
}
