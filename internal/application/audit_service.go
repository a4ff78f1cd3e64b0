package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crisislab/revq/internal/domain"
)

// AuditService appends to the hash-chained event log. Every operation
// that changes the workspace logs through it, so a session's history can
// be verified end to end.
type AuditService struct {
	repo  domain.WorkspaceRepository
	actor string
}

func NewAuditService(repo domain.WorkspaceRepository, actor string) *AuditService {
	return &AuditService{repo: repo, actor: actor}
}

// Log appends an event continuing the hash chain.
func (s *AuditService) Log(action string, metadata map[string]interface{}) error {
	events, _ := s.repo.LoadEvents()
	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Seq:       len(events) + 1,
		Timestamp: time.Now(),
		Action:    action,
		Actor:     s.actor,
		Metadata:  metadata,
		PrevHash:  prevHash,
	}
	event.Hash = event.CalculateHash()

	return s.repo.RecordEvent(event)
}

// Timeline returns the recorded events in append order.
func (s *AuditService) Timeline() ([]domain.Event, error) {
	return s.repo.LoadEvents()
}

// VerifyIntegrity walks the chain and collects every violation it finds:
// broken links, rewritten content, renumbered sequences. An empty slice
// means the trail is intact.
func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return nil, err
	}

	var violations []string
	lastHash := ""

	for i, e := range events {
		if e.Seq != i+1 {
			violations = append(violations, fmt.Sprintf("event %d (%s): sequence %d out of order", i, e.ID, e.Seq))
		}
		if e.PrevHash != lastHash {
			violations = append(violations, fmt.Sprintf("event %d (%s): previous hash mismatch, chain broken", i, e.ID))
		}
		if expected := e.CalculateHash(); e.Hash != expected {
			violations = append(violations, fmt.Sprintf("event %d (%s): content hash mismatch, possible tampering", i, e.ID))
		}
		lastHash = e.Hash
	}

	return violations, nil
}
