package application

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
)

// Editable result fields.
const (
	FieldHumanLabel = "human_label"
	FieldNotes      = "notes"
	FieldReason     = "reason"
	FieldConfidence = "confidence"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// exportColumns is the fixed CSV column order. Stable so downstream
// spreadsheets survive tool upgrades.
var exportColumns = []string{
	"id", "title", "text", "model_label", "confidence", "rationale",
	"reason", "human_label", "notes", "reviewed_at", "skipped",
}

// ResultsService reads, corrects and exports the reviewed records.
type ResultsService struct {
	repo   domain.WorkspaceRepository
	audit  *AuditService
	logger zerolog.Logger
}

func NewResultsService(repo domain.WorkspaceRepository, audit *AuditService, logger zerolog.Logger) *ResultsService {
	return &ResultsService{repo: repo, audit: audit, logger: logger}
}

// resultsView is the loaded state a results operation works on. Unlike a
// review session it does not need the queue, so browsing and edits keep
// working even when no queue file exists.
type resultsView struct {
	cfg     *domain.Config
	labels  review.LabelSet
	results *review.Results
}

func (s *ResultsService) load() (*resultsView, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return nil, fmt.Errorf("invalid label config: %w", err)
	}
	results, err := s.repo.LoadResults()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if err := results.Validate(labels); err != nil {
		return nil, &review.CorruptDataError{Path: "results.json", Reason: err.Error()}
	}
	return &resultsView{cfg: cfg, labels: labels, results: results}, nil
}

// List returns the reviewed records matching the filter, in completion
// order.
func (s *ResultsService) List(filter review.FilterSet) ([]review.ReviewedRecord, error) {
	view, err := s.load()
	if err != nil {
		return nil, err
	}
	return filter.Apply(view.results), nil
}

// Get looks up one reviewed record.
func (s *ResultsService) Get(id string) (review.ReviewedRecord, error) {
	view, err := s.load()
	if err != nil {
		return review.ReviewedRecord{}, err
	}
	rec, ok := view.results.Get(id)
	if !ok {
		return review.ReviewedRecord{}, &review.UnknownRecordError{ID: id, Collection: "results"}
	}
	return rec, nil
}

// Labels returns the configured label set, for pickers on the results
// screens.
func (s *ResultsService) Labels() ([]string, error) {
	view, err := s.load()
	if err != nil {
		return nil, err
	}
	return view.labels.Labels(), nil
}

// Edit corrects one field of a reviewed record and saves the results.
// human_label, notes and reason are always editable; confidence only
// when the config opens it. Giving a skipped record a human label turns
// it into a regular verdict.
func (s *ResultsService) Edit(id, field, value string) (review.ReviewedRecord, error) {
	view, err := s.load()
	if err != nil {
		return review.ReviewedRecord{}, err
	}
	rec, ok := view.results.Get(id)
	if !ok {
		return review.ReviewedRecord{}, &review.UnknownRecordError{ID: id, Collection: "results"}
	}
	before := fieldValue(rec, field)

	switch field {
	case FieldHumanLabel:
		if err := view.labels.Validate(field, value); err != nil {
			return review.ReviewedRecord{}, err
		}
		rec.HumanLabel = value
		if rec.Skipped {
			rec.Skipped = false
			rec.ReviewedAt = time.Now()
		}
	case FieldNotes:
		rec.Notes = value
	case FieldReason:
		rec.Reason = value
	case FieldConfidence:
		if !view.cfg.AllowConfidenceEdit {
			return review.ReviewedRecord{}, &review.InvalidFieldError{Field: field}
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return review.ReviewedRecord{}, &review.InvalidValueError{Field: field, Value: value, Reason: "must be a number"}
		}
		rec.Confidence = f
	default:
		return review.ReviewedRecord{}, &review.InvalidFieldError{Field: field}
	}

	if err := rec.Validate(view.labels); err != nil {
		return review.ReviewedRecord{}, err
	}

	view.results.Upsert(rec)
	if err := s.repo.SaveResults(view.results); err != nil {
		return review.ReviewedRecord{}, fmt.Errorf("failed to save results: %w", err)
	}

	s.logger.Info().Str("record", id).Str("field", field).Msg("result edited")

	if err := s.audit.Log("results.edit", map[string]interface{}{
		"record_id": id,
		"field":     field,
		"from":      before,
		"to":        fieldValue(rec, field),
	}); err != nil {
		return review.ReviewedRecord{}, fmt.Errorf("failed to write audit log: %w", err)
	}
	return rec, nil
}

// Export writes records to w in the named format.
func (s *ResultsService) Export(w io.Writer, records []review.ReviewedRecord, format string) error {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []review.ReviewedRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(exportColumns); err != nil {
			return err
		}
		for _, rec := range records {
			row := []string{
				rec.ID,
				rec.Title,
				rec.Text,
				rec.ModelLabel,
				strconv.FormatFloat(rec.Confidence, 'g', -1, 64),
				rec.Rationale,
				rec.Reason,
				rec.HumanLabel,
				rec.Notes,
				rec.ReviewedAt.Format(time.RFC3339),
				strconv.FormatBool(rec.Skipped),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return &review.InvalidValueError{Field: "format", Value: format, Reason: "must be csv or json"}
}

func fieldValue(rec review.ReviewedRecord, field string) string {
	switch field {
	case FieldHumanLabel:
		return rec.HumanLabel
	case FieldNotes:
		return rec.Notes
	case FieldReason:
		return rec.Reason
	case FieldConfidence:
		return strconv.FormatFloat(rec.Confidence, 'g', -1, 64)
	}
	return ""
}
