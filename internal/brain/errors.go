package brain

import (
	"errors"
	"fmt"
	"strings"

	"supporttriage.app/backend/internal/model"
)

var (
	// ErrInvalidTone is returned when a reply is requested with a tone outside the enumeration.
	ErrInvalidTone = errors.New("invalid reply tone")

	errEmptyResponse = errors.New("model returned empty response text")
)

// InvocationError is returned for any failure after a run was constructed:
// transport errors, unusable model output, and failed validation of that output.
type InvocationError struct {
	Task    model.TaskType
	Message string
	// RunID is set when the failed run reached the ledger.
	RunID *int64
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("AI %s failed: %s", taskLabel(e.Task), e.Message)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// OutputError reports model output that parsed as JSON but is unusable.
type OutputError struct {
	Field  string
	Reason string
}

func (e *OutputError) Error() string {
	return e.Reason + ": " + e.Field
}

func missingField(field string) error {
	return &OutputError{Field: field, Reason: "missing required field"}
}

func taskLabel(t model.TaskType) string {
	switch t {
	case model.TaskTypeTriage:
		return "triage"
	case model.TaskTypeSummary:
		return "summary"
	case model.TaskTypeReplyDraft:
		return "reply draft"
	default:
		return strings.ToLower(string(t))
	}
}

// describeError picks the text stored on a failed run: the error text, else
// the wrapped cause with its type, else the error's type name.
func describeError(err error) string {
	if err == nil {
		return "unknown error"
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	if cause := errors.Unwrap(err); cause != nil {
		if msg := cause.Error(); strings.TrimSpace(msg) != "" {
			return fmt.Sprintf("%T: %s", cause, msg)
		}
	}
	return fmt.Sprintf("%T", err)
}
