package application

import (
	"fmt"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/analytics"
	"github.com/crisislab/revq/internal/domain/review"
)

// AnalyticsService computes review statistics over the results file.
type AnalyticsService struct {
	repo domain.WorkspaceRepository
}

func NewAnalyticsService(repo domain.WorkspaceRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Report builds the full statistics report. The crisis label doubles as
// the focus label, so its agreement figure is always on the stats screen.
func (s *AnalyticsService) Report() (analytics.Report, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return analytics.Report{}, fmt.Errorf("failed to load config: %w", err)
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return analytics.Report{}, fmt.Errorf("invalid label config: %w", err)
	}
	results, err := s.repo.LoadResults()
	if err != nil {
		return analytics.Report{}, fmt.Errorf("failed to load results: %w", err)
	}
	if err := results.Validate(labels); err != nil {
		return analytics.Report{}, &review.CorruptDataError{Path: "results.json", Reason: err.Error()}
	}
	return analytics.BuildReport(results.Records(), labels, cfg.CrisisLabel), nil
}
