package application

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/dataset"
	"github.com/crisislab/revq/internal/domain/review"
)

// DatasetService freezes reviewed labels into a final dataset and cuts
// stratified splits. Inputs and outputs live outside the workspace
// directory, wherever the caller points them.
type DatasetService struct {
	fs     afero.Fs
	repo   domain.WorkspaceRepository
	audit  *AuditService
	logger zerolog.Logger
}

func NewDatasetService(fs afero.Fs, repo domain.WorkspaceRepository, audit *AuditService, logger zerolog.Logger) *DatasetService {
	return &DatasetService{fs: fs, repo: repo, audit: audit, logger: logger}
}

// Freeze merges human verdicts over the annotated records in inputPath
// and writes the final dataset to outputPath. The input must carry the
// same record ids the queue was ingested from, otherwise verdicts cannot
// be matched back.
func (s *DatasetService) Freeze(inputPath, outputPath string) (dataset.FreezeReport, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("failed to load config: %w", err)
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("invalid label config: %w", err)
	}

	data, err := afero.ReadFile(s.fs, inputPath)
	if err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	var base []review.PendingRecord
	if err := json.Unmarshal(data, &base); err != nil {
		return dataset.FreezeReport{}, &review.CorruptDataError{Path: inputPath, Reason: "not a JSON array of records: " + err.Error()}
	}
	for i, rec := range base {
		if err := rec.Validate(labels); err != nil {
			return dataset.FreezeReport{}, fmt.Errorf("input record %d: %w", i, err)
		}
	}

	results, err := s.repo.LoadResults()
	if err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("failed to load results: %w", err)
	}
	if err := results.Validate(labels); err != nil {
		return dataset.FreezeReport{}, &review.CorruptDataError{Path: "results.json", Reason: err.Error()}
	}

	frozen, report, err := dataset.Freeze(base, results, labels)
	if err != nil {
		return dataset.FreezeReport{}, err
	}
	if err := s.writeJSON(outputPath, frozen); err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	s.logger.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("records", report.Records).
		Int("corrections", report.Corrections).
		Msg("dataset frozen")

	if err := s.audit.Log("dataset.freeze", map[string]interface{}{
		"input":       inputPath,
		"output":      outputPath,
		"records":     report.Records,
		"corrections": report.Corrections,
	}); err != nil {
		return dataset.FreezeReport{}, fmt.Errorf("failed to write audit log: %w", err)
	}
	return report, nil
}

// SplitFiles names the three output files of a split run.
type SplitFiles struct {
	Train string
	Dev   string
	Test  string
}

// Split cuts the frozen dataset at inputPath into stratified portions
// and writes each to its file. The sample seed from the config keeps the
// cut reproducible.
func (s *DatasetService) Split(inputPath string, fractions dataset.Fractions, files SplitFiles) (dataset.Split, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return dataset.Split{}, fmt.Errorf("failed to load config: %w", err)
	}

	data, err := afero.ReadFile(s.fs, inputPath)
	if err != nil {
		return dataset.Split{}, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	var frozen []dataset.FrozenRecord
	if err := json.Unmarshal(data, &frozen); err != nil {
		return dataset.Split{}, &review.CorruptDataError{Path: inputPath, Reason: "not a JSON array of frozen records: " + err.Error()}
	}

	sp, err := dataset.StratifiedSplit(frozen, fractions, cfg.SampleSeed)
	if err != nil {
		return dataset.Split{}, err
	}
	if sp.Train == nil {
		sp.Train = []dataset.FrozenRecord{}
	}
	if sp.Dev == nil {
		sp.Dev = []dataset.FrozenRecord{}
	}
	if sp.Test == nil {
		sp.Test = []dataset.FrozenRecord{}
	}

	for path, portion := range map[string][]dataset.FrozenRecord{
		files.Train: sp.Train,
		files.Dev:   sp.Dev,
		files.Test:  sp.Test,
	} {
		if err := s.writeJSON(path, portion); err != nil {
			return dataset.Split{}, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	s.logger.Info().
		Str("input", inputPath).
		Int("train", len(sp.Train)).
		Int("dev", len(sp.Dev)).
		Int("test", len(sp.Test)).
		Msg("dataset split")

	if err := s.audit.Log("dataset.split", map[string]interface{}{
		"input": inputPath,
		"train": len(sp.Train),
		"dev":   len(sp.Dev),
		"test":  len(sp.Test),
		"seed":  cfg.SampleSeed,
	}); err != nil {
		return dataset.Split{}, fmt.Errorf("failed to write audit log: %w", err)
	}
	return sp, nil
}

func (s *DatasetService) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return afero.WriteFile(s.fs, path, data, 0644)
}
