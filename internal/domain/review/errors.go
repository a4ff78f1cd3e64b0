package review

import (
	"errors"
	"fmt"
)

// Domain errors for the review workflow.
var (
	// ErrCorruptData indicates a stored file failed structural validation.
	ErrCorruptData = errors.New("corrupt data file")

	// ErrUnknownRecord indicates the record does not exist in the collection.
	ErrUnknownRecord = errors.New("unknown record")

	// ErrInvalidField indicates the field is not editable or does not exist.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidValue indicates the value fails record validation rules.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidTransition indicates the review action is not allowed in the
	// record's current state.
	ErrInvalidTransition = errors.New("invalid review transition")

	// ErrRevisionConflict indicates the file changed on disk since it was loaded.
	ErrRevisionConflict = errors.New("revision conflict")

	// ErrQueueEmpty indicates there are no pending records left to review.
	ErrQueueEmpty = errors.New("review queue is empty")

	// ErrNoQueue indicates no queue file exists yet.
	ErrNoQueue = errors.New("no review queue found")
)

// CorruptDataError describes why a stored file could not be trusted.
// Loading stops at the first violation; nothing is partially loaded.
type CorruptDataError struct {
	Path   string
	Reason string
}

func (e *CorruptDataError) Error() string {
	return "corrupt data in " + e.Path + ": " + e.Reason
}

// Is allows errors.Is to work with CorruptDataError.
func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptData
}

// UnknownRecordError identifies which record was missing and where it was
// looked for.
type UnknownRecordError struct {
	ID         string
	Collection string
}

func (e *UnknownRecordError) Error() string {
	return "record " + e.ID + " not found in " + e.Collection
}

// Is allows errors.Is to work with UnknownRecordError.
func (e *UnknownRecordError) Is(target error) bool {
	return target == ErrUnknownRecord
}

// InvalidFieldError identifies a field that cannot be edited.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return "field " + e.Field + " is not editable"
}

// Is allows errors.Is to work with InvalidFieldError.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// InvalidValueError carries the rejected value and the rule it broke.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s: %s", e.Value, e.Field, e.Reason)
}

// Is allows errors.Is to work with InvalidValueError.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// TransitionError describes a review action rejected by the state machine.
type TransitionError struct {
	RecordID string
	State    string
	Event    string
}

func (e *TransitionError) Error() string {
	return "cannot apply " + e.Event + " to record " + e.RecordID + " in state " + e.State
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// RevisionConflictError reports a concurrent modification of a stored file.
type RevisionConflictError struct {
	Path   string
	Loaded int
	Found  int
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("%s changed on disk (loaded revision %d, found %d)", e.Path, e.Loaded, e.Found)
}

// Is allows errors.Is to work with RevisionConflictError.
func (e *RevisionConflictError) Is(target error) bool {
	return target == ErrRevisionConflict
}
