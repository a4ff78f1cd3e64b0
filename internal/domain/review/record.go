package review

import (
	"fmt"
	"strings"
	"time"
)

// Reasons a record can be selected for human review. A record flagged by
// several rules carries all of them joined with "|".
const (
	ReasonLowConfidence = "low_confidence"
	ReasonModelError    = "model_error"
	ReasonCrisisSample  = "crisis_sample"

	ReasonSeparator = "|"
)

// PendingRecord is a model-annotated message waiting for human review.
type PendingRecord struct {
	ID         string  `json:"id"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	ModelLabel string  `json:"model_label,omitempty"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
	Reason     string  `json:"reason"`
}

// Validate checks the structural rules every pending record must satisfy.
// labels is the configured set; the model label may additionally be the
// ERROR marker, which flags records the model could not classify.
func (r PendingRecord) Validate(labels LabelSet) error {
	if strings.TrimSpace(r.ID) == "" {
		return &InvalidValueError{Field: "id", Value: r.ID, Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.Text) == "" {
		return &InvalidValueError{Field: "text", Value: r.Text, Reason: "must not be empty"}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return &InvalidValueError{
			Field:  "confidence",
			Value:  fmt.Sprintf("%g", r.Confidence),
			Reason: "must be between 0 and 1",
		}
	}
	if r.ModelLabel != "" && r.ModelLabel != ErrorLabel && !labels.Contains(r.ModelLabel) {
		return &InvalidValueError{
			Field:  "model_label",
			Value:  r.ModelLabel,
			Reason: "must be one of " + labels.String() + " or " + ErrorLabel,
		}
	}
	return nil
}

// Reasons splits the selection reason into its parts.
func (r PendingRecord) Reasons() []string {
	if r.Reason == "" {
		return nil
	}
	return strings.Split(r.Reason, ReasonSeparator)
}

// HasReason reports whether reason is one of the selection reasons.
func (r PendingRecord) HasReason(reason string) bool {
	for _, part := range r.Reasons() {
		if part == reason {
			return true
		}
	}
	return false
}

// ReviewedRecord is a pending record after a human verdict. All model
// fields are carried over unchanged; only the human fields are added.
type ReviewedRecord struct {
	PendingRecord

	HumanLabel string    `json:"human_label"`
	Notes      string    `json:"notes,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
	Skipped    bool      `json:"skipped,omitempty"`
}

// Validate checks a reviewed record. A skipped record carries no human
// label; any other record must carry one from the configured set.
func (r ReviewedRecord) Validate(labels LabelSet) error {
	if err := r.PendingRecord.Validate(labels); err != nil {
		return err
	}
	if r.Skipped {
		if r.HumanLabel != "" {
			return &InvalidValueError{
				Field:  "human_label",
				Value:  r.HumanLabel,
				Reason: "skipped records must not carry a human label",
			}
		}
		return nil
	}
	return labels.Validate("human_label", r.HumanLabel)
}

// Agrees reports whether the human and model labels match. It is false
// when either side is missing.
func (r ReviewedRecord) Agrees() bool {
	return r.HumanLabel != "" && r.ModelLabel != "" && r.HumanLabel == r.ModelLabel
}

// NewReview creates the reviewed form of a pending record.
func NewReview(rec PendingRecord, humanLabel, notes string, at time.Time) ReviewedRecord {
	return ReviewedRecord{
		PendingRecord: rec,
		HumanLabel:    humanLabel,
		Notes:         notes,
		ReviewedAt:    at,
	}
}

// NewSkip creates the skipped form of a pending record, used when the
// skip policy records skips instead of discarding them.
func NewSkip(rec PendingRecord, at time.Time) ReviewedRecord {
	return ReviewedRecord{
		PendingRecord: rec,
		ReviewedAt:    at,
		Skipped:       true,
	}
}
