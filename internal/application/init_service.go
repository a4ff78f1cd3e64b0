package application

import (
	"fmt"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
)

// InitService creates the workspace.
type InitService struct {
	repo  domain.WorkspaceRepository
	audit *AuditService
}

func NewInitService(repo domain.WorkspaceRepository, audit *AuditService) *InitService {
	return &InitService{repo: repo, audit: audit}
}

// Initialize creates the workspace directory with the default config and
// empty queue and results files. An existing workspace is left alone.
func (s *InitService) Initialize() error {
	if s.repo.IsInitialized() {
		return fmt.Errorf("workspace already initialized")
	}
	if err := s.repo.Initialize(); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	if err := s.repo.SaveConfig(domain.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := s.repo.SaveQueue(review.EmptyQueue()); err != nil {
		return fmt.Errorf("failed to write queue: %w", err)
	}
	if err := s.repo.SaveResults(review.EmptyResults()); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := s.audit.Log("workspace.init", nil); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
