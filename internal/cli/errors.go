package cli

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/quickaction"
)

// CommandError carries an explicit exit code and error code out of a command
type CommandError struct {
	Code       string
	Exit       int
	Err        error
	Suggestion string

	// Reported means the command already printed the outcome
	Reported bool
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// usageError marks err as a usage mistake
func usageError(err error) error {
	return &CommandError{Code: "USAGE_ERROR", Exit: ExitUsage, Err: err}
}

// notFound marks err as a missing resource, with a hint of what exists
func notFound(err error, suggestion string) error {
	return &CommandError{Code: "NOT_FOUND", Exit: ExitNotFound, Err: err, Suggestion: suggestion}
}

// Classify maps an error to its error code and exit code
func Classify(err error) (string, int) {
	var (
		exitErr   *CommandError
		auditErr  *quickaction.AuditError
		validErr  *quickaction.ValidationError
		transport *gateway.TransportError
		rejection *gateway.ServerRejection
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case err == nil:
		return "", ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code, exitErr.Exit
	case errors.As(err, &auditErr):
		return "AUDIT_FAILED", ExitPartial
	case errors.As(err, &validErr):
		return "VALIDATION_ERROR", ExitValidation
	case errors.As(err, &transport):
		return "TRANSPORT_ERROR", ExitTransport
	case errors.As(err, &rejection):
		if rejection.Status == http.StatusNotFound {
			return "NOT_FOUND", ExitNotFound
		}
		return "REJECTED", ExitRejected
	case errors.Is(err, pipeline.ErrUnknownCard), errors.Is(err, pipeline.ErrUnknownStage):
		return "NOT_FOUND", ExitNotFound
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, models.ErrMalformedSnapshot), errors.Is(err, models.ErrDuplicateCard),
		errors.Is(err, models.ErrDuplicateStage), errors.Is(err, models.ErrUnknownEnum):
		return "DATA_ERROR", ExitDataErr
	case pipeline.IsInvariantViolation(err):
		return "INVARIANT_VIOLATION", ExitError
	}
	return "ERROR", ExitError
}
