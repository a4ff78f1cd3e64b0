package analytics

import (
	"time"

	"github.com/crisislab/revq/internal/domain/review"
)

// Report bundles every statistic the stats screens render. FocusLabel is
// the label singled out for its own agreement figure, typically the
// highest-urgency one.
type Report struct {
	Distribution   Distribution       `json:"distribution"`
	Agreement      AgreementStats     `json:"agreement"`
	Confusion      ConfusionMatrix    `json:"-"`
	ConfusionCells [][]int            `json:"confusion"`
	Disagreements  []DisagreementPair `json:"disagreements"`
	FocusLabel     string             `json:"focus_label,omitempty"`
	FocusAgreement AgreementStats     `json:"focus_agreement"`
	Text           TextStats          `json:"text"`
	Labels         []string           `json:"labels"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// BuildReport computes the full report over records. focusLabel may be
// empty, disabling the focused agreement figure.
func BuildReport(records []review.ReviewedRecord, labels review.LabelSet, focusLabel string) Report {
	confusion := ComputeConfusion(records, labels)

	cells := make([][]int, labels.Len())
	for i, l := range labels.Labels() {
		row := confusion.Row(l)
		cells[i] = make([]int, len(row))
		copy(cells[i], row)
	}

	r := Report{
		Distribution:   ComputeDistribution(records, labels),
		Agreement:      ComputeAgreement(records, labels),
		Confusion:      confusion,
		ConfusionCells: cells,
		Disagreements:  ComputeDisagreements(records, labels),
		Text:           ComputeTextStats(records),
		Labels:         labels.Labels(),
		GeneratedAt:    time.Now(),
	}
	if focusLabel != "" && labels.Contains(focusLabel) {
		r.FocusLabel = focusLabel
		r.FocusAgreement = ComputeLabelAgreement(records, labels, focusLabel)
	}
	return r
}
