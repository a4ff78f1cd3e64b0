package application_test

import (
	"testing"
	"time"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/review"
)

func TestAnalyticsService_Report(t *testing.T) {
	agree := reviewedRec("r1", "A2")  // model A2, human A2
	differ := reviewedRec("r2", "A3") // model A2, human A3
	skip := review.NewSkip(pending("s1"), time.Now())

	repo := &MockRepo{Results: resultsOf(agree, differ, skip)}
	service := application.NewAnalyticsService(repo)

	report, err := service.Report()
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if report.Distribution.Total != 2 || report.Distribution.Skipped != 1 {
		t.Errorf("distribution = %+v", report.Distribution)
	}
	if report.Agreement.Comparable != 2 || report.Agreement.Agreements != 1 {
		t.Errorf("agreement = %+v", report.Agreement)
	}
	if report.FocusLabel != "A3" {
		t.Errorf("focus label = %q, want the crisis label", report.FocusLabel)
	}
	if len(report.Labels) != 4 {
		t.Errorf("labels = %v", report.Labels)
	}
	if len(report.ConfusionCells) != 4 {
		t.Errorf("confusion cells = %v", report.ConfusionCells)
	}
}

func TestAnalyticsService_ReportEmptyResults(t *testing.T) {
	service := application.NewAnalyticsService(&MockRepo{})

	report, err := service.Report()
	if err != nil {
		t.Fatal(err)
	}
	if report.Distribution.Total != 0 {
		t.Errorf("empty results should report zero totals, got %+v", report.Distribution)
	}
	if _, ok := report.Agreement.Rate(); ok {
		t.Error("agreement rate should be undefined with no comparable records")
	}
}
