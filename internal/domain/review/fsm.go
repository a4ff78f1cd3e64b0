package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Review states. A record is pending while queued, reviewed once a human
// verdict lands, and skipped when the reviewer passed on it.
const (
	StatePending  = "pending"
	StateReviewed = "reviewed"
	StateSkipped  = "skipped"
)

// Review events.
const (
	EventSubmit  = "submit"
	EventSkip    = "skip"
	EventRequeue = "requeue"
)

// MachineContext carries the record under review and the verdict guard.
type MachineContext struct {
	RecordID string
	Guard    func(recordID string, event string) bool
}

// StateMachine enforces the legal review transitions for one record.
// Label corrections go through the results editor, not the queue; the
// only way out of reviewed is an explicit requeue.
type StateMachine struct {
	recordID    string
	interpreter *statekit.Interpreter[MachineContext]
}

// NewStateMachine builds the machine for a record in initialState. The
// guard vets submit events, typically checking the proposed label against
// the configured set.
func NewStateMachine(initialState, recordID string, guard func(string, string) bool) (*StateMachine, error) {
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[MachineContext]("review-machine").
		WithInitial(statekit.StateID(initialState)).
		WithContext(MachineContext{
			RecordID: recordID,
			Guard:    guard,
		}).
		WithGuard("verdictGuard", func(ctx MachineContext, e statekit.Event) bool {
			return ctx.Guard(ctx.RecordID, string(e.Type))
		})

	builder.State(StatePending).
		On(EventSubmit).Target(StateReviewed).Guard("verdictGuard").
		On(EventSkip).Target(StateSkipped).
		Done()

	builder.State(StateSkipped).
		On(EventSubmit).Target(StateReviewed).Guard("verdictGuard").
		On(EventRequeue).Target(StatePending).
		Done()

	builder.State(StateReviewed).
		On(EventRequeue).Target(StatePending).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build review machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &StateMachine{recordID: recordID, interpreter: interpreter}, nil
}

// Apply attempts the event. If no transition fires, either the event is
// illegal for the current state or the guard rejected it; both surface
// as a TransitionError.
func (sm *StateMachine) Apply(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before != after {
		return nil
	}

	return &TransitionError{
		RecordID: sm.recordID,
		State:    before,
		Event:    event,
	}
}

// Current returns the machine's current state.
func (sm *StateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}
