// Package analytics computes summary statistics over completed reviews.
// Everything here is pure: functions read record slices and return
// values, never touching storage.
package analytics

import (
	"github.com/crisislab/revq/internal/domain/review"
)

// LabelCount pairs a label with its tally.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution tallies human verdicts per label. Counts covers every
// configured label in canonical order, zero-filled, so a label nobody
// picked still shows up.
type Distribution struct {
	Counts  []LabelCount `json:"counts"`
	Total   int          `json:"total"`   // records carrying a verdict
	Skipped int          `json:"skipped"` // records excluded as skips
}

// ComputeDistribution tallies the human labels over records. Skipped
// records are counted separately and never contribute to a label.
func ComputeDistribution(records []review.ReviewedRecord, labels review.LabelSet) Distribution {
	counts := make([]LabelCount, labels.Len())
	for i, l := range labels.Labels() {
		counts[i] = LabelCount{Label: l}
	}

	d := Distribution{Counts: counts}
	for _, rec := range records {
		if rec.Skipped {
			d.Skipped++
			continue
		}
		if i := labels.Index(rec.HumanLabel); i >= 0 {
			d.Counts[i].Count++
			d.Total++
		}
	}
	return d
}

// Count returns the tally for label, 0 when the label is not tracked.
func (d Distribution) Count(label string) int {
	for _, c := range d.Counts {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

// Share returns label's fraction of all verdicts, 0 when there are none.
func (d Distribution) Share(label string) float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Count(label)) / float64(d.Total)
}

// Max returns the largest single-label tally, used to scale bar charts.
func (d Distribution) Max() int {
	max := 0
	for _, c := range d.Counts {
		if c.Count > max {
			max = c.Count
		}
	}
	return max
}
