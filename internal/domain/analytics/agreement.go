package analytics

import (
	"sort"
	"strings"

	"github.com/crisislab/revq/internal/domain/review"
)

// AgreementStats summarizes how often the human verdict matched the
// model's prediction. Only records carrying both labels are comparable;
// skips and ERROR predictions stay out.
type AgreementStats struct {
	Agreements int `json:"agreements"`
	Comparable int `json:"comparable"`
}

// Rate returns the agreement fraction. ok is false when no record was
// comparable, which callers must render as "no data" rather than zero.
func (a AgreementStats) Rate() (float64, bool) {
	if a.Comparable == 0 {
		return 0, false
	}
	return float64(a.Agreements) / float64(a.Comparable), true
}

// ComputeAgreement measures label agreement over records.
func ComputeAgreement(records []review.ReviewedRecord, labels review.LabelSet) AgreementStats {
	var stats AgreementStats
	for _, rec := range records {
		if !comparable(rec, labels) {
			continue
		}
		stats.Comparable++
		if rec.HumanLabel == rec.ModelLabel {
			stats.Agreements++
		}
	}
	return stats
}

// ComputeLabelAgreement measures agreement restricted to records where
// either side assigned the given label. Used to watch the labels where
// mistakes are costly.
func ComputeLabelAgreement(records []review.ReviewedRecord, labels review.LabelSet, label string) AgreementStats {
	var stats AgreementStats
	for _, rec := range records {
		if !comparable(rec, labels) {
			continue
		}
		if rec.HumanLabel != label && rec.ModelLabel != label {
			continue
		}
		stats.Comparable++
		if rec.HumanLabel == rec.ModelLabel {
			stats.Agreements++
		}
	}
	return stats
}

// DisagreementPair is one (model, human) label combination the reviewer
// corrected, with how often it happened.
type DisagreementPair struct {
	ModelLabel string `json:"model_label"`
	HumanLabel string `json:"human_label"`
	Count      int    `json:"count"`
}

// ComputeDisagreements lists the correction patterns, most frequent
// first. Ties break on canonical label order so output is stable.
func ComputeDisagreements(records []review.ReviewedRecord, labels review.LabelSet) []DisagreementPair {
	counts := make(map[[2]string]int)
	for _, rec := range records {
		if !comparable(rec, labels) || rec.HumanLabel == rec.ModelLabel {
			continue
		}
		counts[[2]string{rec.ModelLabel, rec.HumanLabel}]++
	}

	pairs := make([]DisagreementPair, 0, len(counts))
	for key, n := range counts {
		pairs = append(pairs, DisagreementPair{ModelLabel: key[0], HumanLabel: key[1], Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].ModelLabel != pairs[j].ModelLabel {
			return labels.Index(pairs[i].ModelLabel) < labels.Index(pairs[j].ModelLabel)
		}
		return labels.Index(pairs[i].HumanLabel) < labels.Index(pairs[j].HumanLabel)
	})
	return pairs
}

// TextStats summarizes the length of the reviewed messages.
type TextStats struct {
	Records      int     `json:"records"`
	MeanTokens   float64 `json:"mean_tokens"`
	MedianTokens float64 `json:"median_tokens"`
}

// ComputeTextStats measures whitespace-delimited token counts.
func ComputeTextStats(records []review.ReviewedRecord) TextStats {
	if len(records) == 0 {
		return TextStats{}
	}

	counts := make([]int, 0, len(records))
	sum := 0
	for _, rec := range records {
		n := len(strings.Fields(rec.Text))
		counts = append(counts, n)
		sum += n
	}
	sort.Ints(counts)

	stats := TextStats{
		Records:    len(counts),
		MeanTokens: float64(sum) / float64(len(counts)),
	}
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		stats.MedianTokens = float64(counts[mid])
	} else {
		stats.MedianTokens = float64(counts[mid-1]+counts[mid]) / 2
	}
	return stats
}

// comparable reports whether a record can enter agreement math: it must
// carry a verdict and a model label from the configured set.
func comparable(rec review.ReviewedRecord, labels review.LabelSet) bool {
	if rec.Skipped || rec.HumanLabel == "" {
		return false
	}
	return labels.Contains(rec.ModelLabel)
}
