// Package dataset finalizes reviewed data into training material:
// freezing merges human verdicts over model predictions, splitting cuts
// a frozen dataset into stratified train/dev/test portions.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crisislab/revq/internal/domain/analytics"
	"github.com/crisislab/revq/internal/domain/review"
)

// FrozenRecord is one record of the final dataset. FinalLabel is the
// human verdict when one exists, the model prediction otherwise.
type FrozenRecord struct {
	ID         string  `json:"id"`
	Title      string  `json:"title,omitempty"`
	Text       string  `json:"text"`
	ModelLabel string  `json:"model_label,omitempty"`
	Confidence float64 `json:"confidence"`
	HumanLabel string  `json:"human_label,omitempty"`
	FinalLabel string  `json:"final_label"`
}

// FreezeReport summarizes a freeze run.
type FreezeReport struct {
	Records      int                    `json:"records"`
	Corrections  int                    `json:"corrections"` // human verdicts applied
	Coverage     float64                `json:"coverage"`    // corrections / records
	Distribution analytics.Distribution `json:"distribution"`
}

// Freeze merges the human verdicts in results over the annotated base
// records. Every final label must come from the configured set; a base
// record left with an out-of-set label (an unreviewed ERROR prediction,
// say) fails the whole run, nothing partial.
func Freeze(base []review.PendingRecord, results *review.Results, labels review.LabelSet) ([]FrozenRecord, FreezeReport, error) {
	frozen := make([]FrozenRecord, 0, len(base))
	report := FreezeReport{Records: len(base)}

	invalid := make(map[string]bool)
	for _, rec := range base {
		fr := FrozenRecord{
			ID:         rec.ID,
			Title:      rec.Title,
			Text:       rec.Text,
			ModelLabel: rec.ModelLabel,
			Confidence: rec.Confidence,
			FinalLabel: rec.ModelLabel,
		}
		if rev, ok := results.Get(rec.ID); ok && !rev.Skipped && rev.HumanLabel != "" {
			fr.HumanLabel = rev.HumanLabel
			fr.FinalLabel = rev.HumanLabel
			report.Corrections++
		}
		if !labels.Contains(fr.FinalLabel) {
			invalid[fr.FinalLabel] = true
		}
		frozen = append(frozen, fr)
	}

	if len(invalid) > 0 {
		names := make([]string, 0, len(invalid))
		for l := range invalid {
			names = append(names, fmt.Sprintf("%q", l))
		}
		sort.Strings(names)
		return nil, FreezeReport{}, fmt.Errorf(
			"final labels outside the configured set: %s (review those records first)",
			strings.Join(names, ", "))
	}

	if report.Records > 0 {
		report.Coverage = float64(report.Corrections) / float64(report.Records)
	}
	report.Distribution = finalDistribution(frozen, labels)
	return frozen, report, nil
}

// finalDistribution tallies final labels in canonical order.
func finalDistribution(records []FrozenRecord, labels review.LabelSet) analytics.Distribution {
	counts := make([]analytics.LabelCount, labels.Len())
	for i, l := range labels.Labels() {
		counts[i] = analytics.LabelCount{Label: l}
	}
	d := analytics.Distribution{Counts: counts}
	for _, rec := range records {
		if i := labels.Index(rec.FinalLabel); i >= 0 {
			d.Counts[i].Count++
			d.Total++
		}
	}
	return d
}
