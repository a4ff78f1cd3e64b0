package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCmd_Internal(t *testing.T) {
	tempDir, cleanup := withTempDir(t)
	defer cleanup()
	resetCLIFlags()

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)

	RootCmd.SetArgs([]string{"init"})
	if err := RootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.yaml", "queue.json", "results.json", "events.jsonl"} {
		if _, err := os.Stat(filepath.Join(tempDir, ".revq", name)); err != nil {
			t.Errorf("expected %s after init: %v", name, err)
		}
	}

	// Double init should fail
	if err := RootCmd.Execute(); err == nil {
		t.Error("expected error on re-init")
	}
}

func TestInitCmd_Output(t *testing.T) {
	_, cleanup := withTempDir(t)
	defer cleanup()
	resetCLIFlags()

	out := captureStdout(t, func() {
		RootCmd.SetArgs([]string{"init"})
		if err := RootCmd.Execute(); err != nil {
			t.Errorf("init: %v", err)
		}
	})

	if !bytes.Contains([]byte(out), []byte("Initialized empty revq workspace")) {
		t.Errorf("unexpected init output: %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("revq ingest")) {
		t.Errorf("expected next-step hint, got: %q", out)
	}
}
