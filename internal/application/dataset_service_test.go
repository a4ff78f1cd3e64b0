package application_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/dataset"
	"github.com/crisislab/revq/internal/domain/review"
	"github.com/crisislab/revq/internal/infrastructure/logging"
)

func newDatasetService(fs afero.Fs, repo *MockRepo) *application.DatasetService {
	audit := application.NewAuditService(repo, "dana")
	return application.NewDatasetService(fs, repo, audit, logging.Nop())
}

func TestDatasetService_Freeze(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAnnotated(t, fs, "/data/annotated.json", []review.PendingRecord{
		{ID: "m1", Text: "calm", ModelLabel: "A0", Confidence: 0.98},
		{ID: "m2", Text: "worse than it looked", ModelLabel: "A1", Confidence: 0.40},
	})
	corrected := reviewedRec("m2", "A2")
	repo := &MockRepo{Results: resultsOf(corrected), Initialized: true}
	service := newDatasetService(fs, repo)

	report, err := service.Freeze("/data/annotated.json", "/data/frozen.json")
	if err != nil {
		t.Fatalf("Freeze failed: %v", err)
	}

	// 1. Report
	if report.Records != 2 || report.Corrections != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.Coverage != 0.5 {
		t.Errorf("coverage = %g", report.Coverage)
	}

	// 2. Output file
	data, err := afero.ReadFile(fs, "/data/frozen.json")
	if err != nil {
		t.Fatal(err)
	}
	var frozen []dataset.FrozenRecord
	if err := json.Unmarshal(data, &frozen); err != nil {
		t.Fatal(err)
	}
	if len(frozen) != 2 {
		t.Fatalf("frozen records = %d", len(frozen))
	}
	if frozen[0].FinalLabel != "A0" || frozen[0].HumanLabel != "" {
		t.Errorf("untouched record = %+v", frozen[0])
	}
	if frozen[1].FinalLabel != "A2" || frozen[1].HumanLabel != "A2" {
		t.Errorf("corrected record = %+v", frozen[1])
	}

	// 3. Audited
	if lastAction(repo) != "dataset.freeze" {
		t.Errorf("last audit action = %q", lastAction(repo))
	}
}

func TestDatasetService_FreezeRejectsUnreviewedError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAnnotated(t, fs, "/data/annotated.json", []review.PendingRecord{
		{ID: "m1", Text: "model gave up", ModelLabel: "ERROR", Confidence: 0.0},
	})
	repo := &MockRepo{Initialized: true}
	service := newDatasetService(fs, repo)

	_, err := service.Freeze("/data/annotated.json", "/data/frozen.json")
	if err == nil {
		t.Fatal("expected error for an unreviewed ERROR prediction")
	}
	if !strings.Contains(err.Error(), "ERROR") {
		t.Errorf("error should name the offending label: %v", err)
	}
	if exists, _ := afero.Exists(fs, "/data/frozen.json"); exists {
		t.Error("failed freeze must not write an output file")
	}
}

func TestDatasetService_Split(t *testing.T) {
	var frozen []dataset.FrozenRecord
	for i := 0; i < 20; i++ {
		label := "A0"
		if i%2 == 1 {
			label = "A1"
		}
		frozen = append(frozen, dataset.FrozenRecord{
			ID:         fmt.Sprintf("m%d", i),
			Text:       "text",
			ModelLabel: label,
			Confidence: 0.9,
			FinalLabel: label,
		})
	}
	fs := afero.NewMemMapFs()
	data, err := json.Marshal(frozen)
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/data/frozen.json", data, 0644); err != nil {
		t.Fatal(err)
	}
	repo := &MockRepo{Initialized: true}
	service := newDatasetService(fs, repo)

	files := application.SplitFiles{
		Train: "/data/train.json",
		Dev:   "/data/dev.json",
		Test:  "/data/test.json",
	}
	sp, err := service.Split("/data/frozen.json", dataset.DefaultFractions(), files)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	// 1. Everything lands somewhere, nothing twice. Each stratum of 10
	// truncates to one dev and one test record, train takes the rest.
	if sp.Len() != 20 {
		t.Errorf("split total = %d", sp.Len())
	}
	if len(sp.Train) != 16 || len(sp.Dev) != 2 || len(sp.Test) != 2 {
		t.Errorf("portions = %d/%d/%d", len(sp.Train), len(sp.Dev), len(sp.Test))
	}

	// 2. Each portion written to its file
	for _, path := range []string{files.Train, files.Dev, files.Test} {
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
		var portion []dataset.FrozenRecord
		if err := json.Unmarshal(content, &portion); err != nil {
			t.Fatalf("bad JSON in %s: %v", path, err)
		}
	}

	// 3. Audited
	if lastAction(repo) != "dataset.split" {
		t.Errorf("last audit action = %q", lastAction(repo))
	}
}

func TestDatasetService_SplitBadFractions(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/frozen.json", []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	service := newDatasetService(fs, &MockRepo{Initialized: true})

	_, err := service.Split("/data/frozen.json", dataset.Fractions{Train: 0.9, Dev: 0.3, Test: 0.3}, application.SplitFiles{
		Train: "/data/train.json", Dev: "/data/dev.json", Test: "/data/test.json",
	})
	if err == nil {
		t.Error("expected error for fractions not summing to one")
	}
}
