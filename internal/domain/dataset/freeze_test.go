package dataset_test

import (
	"strings"
	"testing"
	"time"

	"github.com/crisislab/revq/internal/domain/dataset"
	"github.com/crisislab/revq/internal/domain/review"
)

var testLabels = review.MustLabelSet("A0", "A1", "A2", "A3")

func annotated(id, label string) review.PendingRecord {
	return review.PendingRecord{
		ID:         id,
		Text:       "message " + id,
		ModelLabel: label,
		Confidence: 0.8,
	}
}

func TestFreeze_HumanOverridesModel(t *testing.T) {
	base := []review.PendingRecord{
		annotated("r1", "A0"),
		annotated("r2", "A1"),
		annotated("r3", "A2"),
	}

	results := review.EmptyResults()
	results.Upsert(review.NewReview(annotated("r2", "A1"), "A3", "escalated", time.Now()))

	frozen, report, err := dataset.Freeze(base, results, testLabels)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if len(frozen) != 3 {
		t.Fatalf("frozen %d records, want all 3", len(frozen))
	}

	byID := make(map[string]dataset.FrozenRecord)
	for _, fr := range frozen {
		byID[fr.ID] = fr
	}
	if byID["r2"].FinalLabel != "A3" || byID["r2"].HumanLabel != "A3" {
		t.Errorf("r2 final = %s, want the human verdict A3", byID["r2"].FinalLabel)
	}
	if byID["r1"].FinalLabel != "A0" || byID["r1"].HumanLabel != "" {
		t.Errorf("r1 final = %s/%s, want the model label, no human one", byID["r1"].FinalLabel, byID["r1"].HumanLabel)
	}

	if report.Corrections != 1 {
		t.Errorf("Corrections = %d, want 1", report.Corrections)
	}
	if report.Coverage < 0.33 || report.Coverage > 0.34 {
		t.Errorf("Coverage = %f, want 1/3", report.Coverage)
	}
	if report.Distribution.Count("A3") != 1 || report.Distribution.Count("A1") != 0 {
		t.Error("final distribution should count post-merge labels")
	}
}

func TestFreeze_SkipsDoNotOverride(t *testing.T) {
	base := []review.PendingRecord{annotated("r1", "A1")}
	results := review.EmptyResults()
	results.Upsert(review.NewSkip(annotated("r1", "A1"), time.Now()))

	frozen, report, err := dataset.Freeze(base, results, testLabels)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if frozen[0].FinalLabel != "A1" {
		t.Errorf("skipped review changed the final label to %s", frozen[0].FinalLabel)
	}
	if report.Corrections != 0 {
		t.Errorf("Corrections = %d, want 0", report.Corrections)
	}
}

func TestFreeze_RejectsUnreviewedErrors(t *testing.T) {
	base := []review.PendingRecord{
		annotated("r1", "A0"),
		annotated("r2", review.ErrorLabel),
	}

	_, _, err := dataset.Freeze(base, review.EmptyResults(), testLabels)
	if err == nil {
		t.Fatal("unreviewed ERROR prediction must fail the freeze")
	}
	if !strings.Contains(err.Error(), review.ErrorLabel) {
		t.Errorf("error should name the offending label: %v", err)
	}

	// Reviewing the failed prediction fixes the run.
	results := review.EmptyResults()
	results.Upsert(review.NewReview(annotated("r2", review.ErrorLabel), "A2", "", time.Now()))
	frozen, _, err := dataset.Freeze(base, results, testLabels)
	if err != nil {
		t.Fatalf("Freeze after review: %v", err)
	}
	if frozen[1].FinalLabel != "A2" {
		t.Errorf("r2 final = %s, want A2", frozen[1].FinalLabel)
	}
}
