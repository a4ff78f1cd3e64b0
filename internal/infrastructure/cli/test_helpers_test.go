package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

// resetCLIFlags restores the package-level flag variables to their
// defaults. Flag values stick between Execute calls in one process, so
// every test that drives RootCmd starts from a clean slate.
func resetCLIFlags() {
	workspacePath = ""
	ingestJSON = false
	submitNotes = ""
	resultsJSON = false
	resultsPlain = false
	resultsFilters = filterFlags{}
	exportFilters = filterFlags{}
	exportFormat = application.FormatCSV
	exportOutput = ""
	statsJSON = false
	statsWatch = false
	statusJSON = false
	freezeOutput = "frozen.json"
	splitTrain = "train.json"
	splitDev = "dev.json"
	splitTest = "test.json"
	splitFractions = ""
	auditVerify = false
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return buf.String()
}

func withTempDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "revq-cli-test-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	return dir, func() {
		_ = os.Chdir(old)
		_ = os.RemoveAll(dir)
	}
}

// newTestServices builds a reviewable workspace on an in-memory
// filesystem: two low-confidence records sit in the queue, in input
// order.
func newTestServices(t *testing.T) *wiring.AppServices {
	t.Helper()

	fs := afero.NewMemMapFs()
	services, err := wiring.BuildAppServicesWithFs(fs, "/work")
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	if err := services.Init.Initialize(); err != nil {
		t.Fatalf("init: %v", err)
	}

	records := `[
  {"id": "r1", "text": "everything feels pointless lately", "model_label": "A2", "confidence": 0.41, "rationale": "hopelessness, no plan"},
  {"id": "r2", "text": "cannot sleep before exams", "model_label": "A1", "confidence": 0.38}
]`
	if err := afero.WriteFile(fs, "/work/annotated.json", []byte(records), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if _, err := services.Ingest.Ingest("/work/annotated.json"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return services
}

// writeAnnotated drops a model-annotated input file into dir. With the
// default config only m3 lands in the queue: m1 is a lone crisis
// prediction (sample size truncates to zero) and m2 is confident.
func writeAnnotated(t *testing.T, dir string) string {
	t.Helper()

	records := `[
  {"id": "m1", "text": "I do not want to wake up tomorrow", "model_label": "A3", "confidence": 0.95},
  {"id": "m2", "text": "thanks, talking helped a lot", "model_label": "A0", "confidence": 0.99},
  {"id": "m3", "text": "school has been rough lately", "model_label": "A1", "confidence": 0.42, "rationale": "mild distress, no plan"}
]`
	path := filepath.Join(dir, "annotated.json")
	if err := os.WriteFile(path, []byte(records), 0o600); err != nil {
		t.Fatalf("write annotated input: %v", err)
	}
	return path
}
