package config

import (
	"testing"

	"github.com/spf13/afero"
)

func workspaceFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/work/.revq", 0700); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestLoadAnnotatorConfigMissing(t *testing.T) {
	fs := workspaceFs(t)

	cfg, err := LoadAnnotatorConfig(fs, "/work")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for missing file")
	}
}

func TestSaveAndLoadAnnotatorConfig(t *testing.T) {
	fs := workspaceFs(t)

	input := &AnnotatorConfig{Name: "dana"}
	if err := SaveAnnotatorConfig(fs, "/work", input); err != nil {
		t.Fatalf("save config: %v", err)
	}

	cfg, err := LoadAnnotatorConfig(fs, "/work")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg == nil || cfg.Name != "dana" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadAnnotatorConfigInvalid(t *testing.T) {
	fs := workspaceFs(t)
	if err := afero.WriteFile(fs, "/work/.revq/annotator.yaml", []byte("::bad"), 0600); err != nil {
		t.Fatalf("write bad config: %v", err)
	}

	if _, err := LoadAnnotatorConfig(fs, "/work"); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

func TestResolveAnnotator(t *testing.T) {
	fs := workspaceFs(t)

	// 1. Environment wins over everything
	t.Setenv(EnvAnnotator, "env-name")
	if err := SaveAnnotatorConfig(fs, "/work", &AnnotatorConfig{Name: "file-name"}); err != nil {
		t.Fatal(err)
	}
	if got := ResolveAnnotator(fs, "/work"); got != "env-name" {
		t.Errorf("resolved %q, want env-name", got)
	}

	// 2. File when the environment is silent
	t.Setenv(EnvAnnotator, "")
	if got := ResolveAnnotator(fs, "/work"); got != "file-name" {
		t.Errorf("resolved %q, want file-name", got)
	}

	// 3. Fallback chain ends in a usable name
	if err := fs.Remove("/work/.revq/annotator.yaml"); err != nil {
		t.Fatal(err)
	}
	t.Setenv("USER", "")
	if got := ResolveAnnotator(fs, "/work"); got != "annotator" {
		t.Errorf("resolved %q, want the fallback", got)
	}
}
