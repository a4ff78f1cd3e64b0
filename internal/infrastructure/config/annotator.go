package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/crisislab/revq/internal/infrastructure/storage"
)

const annotatorFile = "annotator.yaml"

// EnvAnnotator overrides the configured annotator name for one session.
const EnvAnnotator = "REVQ_ANNOTATOR"

// AnnotatorConfig names the person behind the keyboard. The name lands
// in every audit event, so verdicts from a shared workspace stay
// attributable.
type AnnotatorConfig struct {
	Name string `yaml:"name"`
}

// LoadAnnotatorConfig reads .revq/annotator.yaml. A missing file is not
// an error, it just means nobody configured a name yet.
func LoadAnnotatorConfig(fs afero.Fs, root string) (*AnnotatorConfig, error) {
	repo := storage.NewFilesystemRepositoryWithFs(fs, root)
	path, err := repo.ResolvePath(annotatorFile)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read annotator config: %w", err)
	}

	var cfg AnnotatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal annotator config: %w", err)
	}

	return &cfg, nil
}

// SaveAnnotatorConfig writes .revq/annotator.yaml.
func SaveAnnotatorConfig(fs afero.Fs, root string, cfg *AnnotatorConfig) error {
	if cfg == nil {
		return fmt.Errorf("annotator config is nil")
	}

	repo := storage.NewFilesystemRepositoryWithFs(fs, root)
	path, err := repo.ResolvePath(annotatorFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal annotator config: %w", err)
	}

	return afero.WriteFile(fs, path, data, 0600)
}

// ResolveAnnotator picks the annotator name for this session. Precedence:
// the REVQ_ANNOTATOR environment variable, then annotator.yaml, then the
// login name, then a plain fallback.
func ResolveAnnotator(fs afero.Fs, root string) string {
	if name := strings.TrimSpace(os.Getenv(EnvAnnotator)); name != "" {
		return name
	}

	if cfg, err := LoadAnnotatorConfig(fs, root); err == nil && cfg != nil {
		if name := strings.TrimSpace(cfg.Name); name != "" {
			return name
		}
	}

	if name := strings.TrimSpace(os.Getenv("USER")); name != "" {
		return name
	}
	return "annotator"
}
