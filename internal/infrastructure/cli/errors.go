package cli

import (
	"errors"
	"fmt"

	"github.com/crisislab/revq/internal/domain/review"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var transErr *review.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("Record '%s' is '%s'. Run 'revq results' to inspect it", transErr.RecordID, transErr.State),
			err,
		)
	}

	var unknownErr *review.UnknownRecordError
	if errors.As(err, &unknownErr) {
		return NewCLIError(
			unknownErr.Error(),
			"Check the id with 'revq status' or 'revq results'",
			err,
		)
	}

	var conflictErr *review.RevisionConflictError
	if errors.As(err, &conflictErr) {
		return NewCLIError(
			conflictErr.Error(),
			"Another session may have changed the workspace. Rerun 'revq status' and retry",
			err,
		)
	}

	var corruptErr *review.CorruptDataError
	if errors.As(err, &corruptErr) {
		return NewCLIError(
			corruptErr.Error(),
			fmt.Sprintf("Inspect %s by hand or restore it from a backup; revq refuses partial loads", corruptErr.Path),
			err,
		)
	}

	switch {
	case errors.Is(err, review.ErrNoQueue):
		return NewCLIError("no review queue found", "Run 'revq ingest <annotated.json>' to build one", err)
	case errors.Is(err, review.ErrQueueEmpty):
		return NewCLIError("review queue is empty", "All records are handled. Run 'revq freeze' to finalize the dataset", err)
	case errors.Is(err, review.ErrInvalidField):
		return NewCLIError("field is not editable", "Editable fields: human_label, notes, reason (confidence needs allow_confidence_edit in config.yaml)", err)
	case errors.Is(err, review.ErrInvalidValue):
		return NewCLIError("invalid value", "Run 'revq status' to see the configured label set", err)
	}

	return err
}
