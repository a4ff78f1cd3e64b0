package e2e

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/dataset"
	"github.com/crisislab/revq/internal/domain/review"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

// TestServicesHappyPath drives the whole review workflow through direct
// service calls, the same wiring the CLI commands run on.
func TestServicesHappyPath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "revq-services-e2e-*")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	// Test 1: Initialize workspace
	t.Log("Testing initialization...")
	services, err := wiring.BuildAppServices(tempDir)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	if err := services.Init.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Reopen so the session log attaches to the fresh workspace
	services, err = wiring.BuildAppServices(tempDir)
	if err != nil {
		t.Fatalf("BuildAppServices after init failed: %v", err)
	}
	defer func() { _ = services.Close() }()

	// Test 2: Ingest. e1 is below the confidence threshold and e2 is a
	// failed prediction; e3 is confident and e4 is a lone crisis record,
	// too few for the sample rate to pick up.
	t.Log("Testing ingest...")
	annotatedPath := filepath.Join(tempDir, "annotated.json")
	annotated := `[
  {"id": "e1", "text": "nothing feels worth it anymore", "model_label": "A1", "confidence": 0.45, "rationale": "hopeless tone, no plan stated"},
  {"id": "e2", "text": "asdfgh ??", "model_label": "ERROR", "confidence": 0.0},
  {"id": "e3", "text": "thanks, the exercises helped", "model_label": "A0", "confidence": 0.92},
  {"id": "e4", "text": "I bought what I need to end it", "model_label": "A3", "confidence": 0.88}
]`
	if err := os.WriteFile(annotatedPath, []byte(annotated), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := services.Ingest.Ingest(annotatedPath)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if report.Queued != 2 {
		t.Errorf("Queued = %d, want 2", report.Queued)
	}
	if report.IDsAssigned != 0 {
		t.Errorf("IDsAssigned = %d, want 0", report.IDsAssigned)
	}

	// Test 3: Review both pending records
	t.Log("Testing review...")
	next, err := services.Review.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if next.ID != "e1" {
		t.Errorf("Next = %s, want e1", next.ID)
	}

	verdict, err := services.Review.Submit("e1", "A2", "support-seeking, no plan")
	if err != nil {
		t.Fatalf("Submit e1 failed: %v", err)
	}
	if verdict.HumanLabel != "A2" || verdict.ReviewedAt.IsZero() {
		t.Errorf("unexpected verdict: %+v", verdict)
	}
	if _, err := services.Review.Submit("e2", "A0", ""); err != nil {
		t.Fatalf("Submit e2 failed: %v", err)
	}

	progress, err := services.Review.Progress()
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress.Pending != 0 || progress.Reviewed != 2 {
		t.Errorf("progress = %+v, want 0 pending and 2 reviewed", progress)
	}

	// Test 4: Edit the recorded verdict
	t.Log("Testing edit...")
	edited, err := services.Results.Edit("e1", "notes", "agreed after second read")
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Notes != "agreed after second read" {
		t.Errorf("Notes = %q", edited.Notes)
	}

	// Test 5: Analytics. Only e1 is comparable, e2's ERROR prediction
	// stays out of agreement math.
	t.Log("Testing analytics...")
	stats, err := services.Analytics.Report()
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if stats.Distribution.Total != 2 || stats.Distribution.Skipped != 0 {
		t.Errorf("distribution = %+v, want 2 verdicts and no skips", stats.Distribution)
	}
	rate, ok := stats.Agreement.Rate()
	if !ok || rate != 0 {
		t.Errorf("agreement rate = %v ok=%v, want 0.0 over one comparable record", rate, ok)
	}
	if len(stats.Disagreements) != 1 || stats.Disagreements[0].ModelLabel != "A1" || stats.Disagreements[0].HumanLabel != "A2" {
		t.Errorf("disagreements = %+v", stats.Disagreements)
	}

	// Test 6: Freeze and split
	t.Log("Testing freeze and split...")
	frozenPath := filepath.Join(tempDir, "frozen.json")
	freezeReport, err := services.Dataset.Freeze(annotatedPath, frozenPath)
	if err != nil {
		t.Fatalf("Freeze failed: %v", err)
	}
	if freezeReport.Records != 4 || freezeReport.Corrections != 2 {
		t.Errorf("freeze report = %+v, want 4 records with 2 corrections", freezeReport)
	}

	split, err := services.Dataset.Split(frozenPath, dataset.DefaultFractions(), application.SplitFiles{
		Train: filepath.Join(tempDir, "train.json"),
		Dev:   filepath.Join(tempDir, "dev.json"),
		Test:  filepath.Join(tempDir, "test.json"),
	})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if split.Len() != 4 {
		t.Errorf("split covers %d records, want 4", split.Len())
	}
	if _, err := os.Stat(filepath.Join(tempDir, "train.json")); err != nil {
		t.Error("train.json missing after split")
	}

	// Test 7: Audit chain stayed intact across all mutations
	t.Log("Testing audit trail...")
	problems, err := services.Audit.VerifyIntegrity()
	if err != nil {
		t.Fatalf("VerifyIntegrity failed: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("audit chain problems: %v", problems)
	}

	events, err := services.Audit.Timeline()
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(events) != 7 {
		t.Errorf("timeline has %d events, want 7", len(events))
	}
	if len(events) > 0 && events[len(events)-1].Action != "dataset.split" {
		t.Errorf("last action = %s, want dataset.split", events[len(events)-1].Action)
	}

	// Queue is drained
	if _, err := services.Review.Next(); !errors.Is(err, review.ErrQueueEmpty) {
		t.Errorf("Next on drained queue = %v, want ErrQueueEmpty", err)
	}
}
