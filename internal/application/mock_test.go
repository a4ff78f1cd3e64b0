package application_test

import (
	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
)

type MockRepo struct {
	Queue       *review.Queue
	Results     *review.Results
	Config      *domain.Config
	Events      []domain.Event
	Initialized bool
	SaveError   error
	LoadError   error
}

func (m *MockRepo) Initialize() error   { m.Initialized = true; return nil }
func (m *MockRepo) IsInitialized() bool { return m.Initialized }

func (m *MockRepo) LoadQueue() (*review.Queue, error) { return m.Queue, m.LoadError }
func (m *MockRepo) SaveQueue(q *review.Queue) error   { m.Queue = q; return m.SaveError }

func (m *MockRepo) LoadResults() (*review.Results, error) {
	if m.Results == nil {
		return review.EmptyResults(), m.LoadError
	}
	return m.Results, m.LoadError
}
func (m *MockRepo) SaveResults(r *review.Results) error { m.Results = r; return m.SaveError }

func (m *MockRepo) SaveConfig(cfg *domain.Config) error { m.Config = cfg; return m.SaveError }
func (m *MockRepo) LoadConfig() (*domain.Config, error) {
	if m.Config == nil {
		return domain.DefaultConfig(), m.LoadError
	}
	return m.Config, m.LoadError
}

func (m *MockRepo) RecordEvent(e domain.Event) error {
	m.Events = append(m.Events, e)
	return m.SaveError
}
func (m *MockRepo) LoadEvents() ([]domain.Event, error) { return m.Events, m.LoadError }

// pending builds a queueable record. The defaults land under the default
// confidence threshold so selection-related tests flag it.
func pending(id string) review.PendingRecord {
	return review.PendingRecord{
		ID:         id,
		Text:       "message text for " + id,
		ModelLabel: "A2",
		Confidence: 0.55,
		Reason:     review.ReasonLowConfidence,
	}
}

func queueOf(ids ...string) *review.Queue {
	q := review.EmptyQueue()
	for _, id := range ids {
		if err := q.Push(pending(id)); err != nil {
			panic(err)
		}
	}
	return q
}

func queueIDs(q *review.Queue) []string {
	ids := make([]string, 0, q.Len())
	for _, rec := range q.Records() {
		ids = append(ids, rec.ID)
	}
	return ids
}

func lastAction(m *MockRepo) string {
	if len(m.Events) == 0 {
		return ""
	}
	return m.Events[len(m.Events)-1].Action
}
