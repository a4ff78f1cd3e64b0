package application

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
	"github.com/crisislab/revq/internal/domain/selection"
)

// IngestService loads a file of model-annotated records and builds the
// review queue from the ones the selection rules flag.
type IngestService struct {
	fs     afero.Fs
	repo   domain.WorkspaceRepository
	audit  *AuditService
	logger zerolog.Logger
}

func NewIngestService(fs afero.Fs, repo domain.WorkspaceRepository, audit *AuditService, logger zerolog.Logger) *IngestService {
	return &IngestService{fs: fs, repo: repo, audit: audit, logger: logger}
}

// IngestReport tells what an ingest run did with the input file.
type IngestReport struct {
	selection.Summary

	IDsAssigned int `json:"ids_assigned"` // input records that arrived without an id
	Excluded    int `json:"excluded"`     // flagged but already reviewed
	Queued      int `json:"queued"`
}

// Ingest reads the annotated records at path, runs the selection rules
// from the config and replaces the queue with the flagged records.
// Records already present in the results are left out, so re-running
// ingest after new annotations never undoes finished work. Records
// without an id get a fresh ULID; keep the ids in the source file if the
// dataset is meant to be frozen later.
func (s *IngestService) Ingest(path string) (IngestReport, error) {
	if !s.repo.IsInitialized() {
		return IngestReport{}, fmt.Errorf("workspace not initialized, run revq init first")
	}

	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return IngestReport{}, fmt.Errorf("failed to load config: %w", err)
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return IngestReport{}, fmt.Errorf("invalid label config: %w", err)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return IngestReport{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []review.PendingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return IngestReport{}, &review.CorruptDataError{Path: path, Reason: "not a JSON array of records: " + err.Error()}
	}

	report := IngestReport{}
	entropy := ulid.Monotonic(rand.Reader, 0)
	for i := range records {
		if strings.TrimSpace(records[i].ID) == "" {
			records[i].ID = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
			report.IDsAssigned++
		}
		// Selection decides the reason, whatever the input carried.
		records[i].Reason = ""
		if err := records[i].Validate(labels); err != nil {
			return IngestReport{}, fmt.Errorf("input record %d: %w", i, err)
		}
	}

	rules := selection.Rules{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		CrisisLabel:         cfg.CrisisLabel,
		CrisisSampleRate:    cfg.CrisisSampleRate,
		Seed:                cfg.SampleSeed,
	}
	if err := rules.Validate(); err != nil {
		return IngestReport{}, fmt.Errorf("invalid selection config: %w", err)
	}

	selected, summary := rules.Select(records)
	report.Summary = summary

	results, err := s.repo.LoadResults()
	if err != nil {
		return IngestReport{}, fmt.Errorf("failed to load results: %w", err)
	}

	fresh := make([]review.PendingRecord, 0, len(selected))
	for _, rec := range selected {
		if results.Contains(rec.ID) {
			report.Excluded++
			continue
		}
		fresh = append(fresh, rec)
	}

	queue, err := s.repo.LoadQueue()
	if err != nil {
		return IngestReport{}, fmt.Errorf("failed to load queue: %w", err)
	}
	revision := 0
	if queue != nil {
		revision = queue.Revision
	}
	next, err := review.NewQueue(revision, fresh)
	if err != nil {
		return IngestReport{}, err
	}
	if err := s.repo.SaveQueue(next); err != nil {
		return IngestReport{}, fmt.Errorf("failed to save queue: %w", err)
	}
	report.Queued = next.Len()

	s.logger.Info().
		Str("source", path).
		Int("input", summary.Input).
		Int("selected", summary.Selected).
		Int("queued", report.Queued).
		Msg("queue ingested")

	if err := s.audit.Log("queue.ingest", map[string]interface{}{
		"source":   path,
		"input":    summary.Input,
		"selected": summary.Selected,
		"excluded": report.Excluded,
		"queued":   report.Queued,
	}); err != nil {
		return IngestReport{}, fmt.Errorf("failed to write audit log: %w", err)
	}
	return report, nil
}
