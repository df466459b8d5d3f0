package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidationFailed = "CODEIMPORT_COMMAND_INVALID"
	codeCanceled         = "CODEIMPORT_COMMAND_CANCELED"
	codeDeadline         = "CODEIMPORT_COMMAND_TIMEOUT"
	codeContextError     = "CODEIMPORT_COMMAND_CONTEXT"
	codeNotFound         = "CODEIMPORT_COMMAND_NOT_FOUND"
	codeRenderFailed     = "CODEIMPORT_COMMAND_FAILED"
)

// classify maps the result of a handler run onto a telemetry status. A missing
// document or import target is reported apart from other failures so callers
// can treat it as a user error.
func classify(ctx context.Context, err error) (TelemetryStatus, error) {
	switch {
	case err == nil && ctx.Err() == nil:
		return TelemetryStatusSuccess, nil
	case err == nil:
		return TelemetryStatusContextError, ctx.Err()
	case ctx.Err() != nil, isContextError(err):
		return TelemetryStatusContextError, err
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return TelemetryStatusNotFound, err
	default:
		return TelemetryStatusFailed, err
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// outcomeError tags err with the text code matching status. Errors that already
// carry a category keep it.
func outcomeError(status TelemetryStatus, err error) error {
	if err == nil || status == TelemetryStatusSuccess {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch status {
	case TelemetryStatusContextError:
		switch {
		case errors.Is(err, context.Canceled):
			return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").WithTextCode(codeCanceled)
		case errors.Is(err, context.DeadlineExceeded):
			return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").WithTextCode(codeDeadline)
		}
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").WithTextCode(codeContextError)
	case TelemetryStatusNotFound:
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "command target not found").WithTextCode(codeNotFound)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").WithTextCode(codeRenderFailed)
}

func invalidMessageError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message is invalid").
		WithTextCode(codeValidationFailed)
}
