// Package selection decides which annotated records need a human pass.
// Three rules feed the queue: predictions the model itself marked as
// failed, low-confidence predictions, and a seeded spot-check sample of
// the crisis label. A record can match several rules at once.
package selection

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/crisislab/revq/internal/domain/review"
)

// Rules configures queue selection. The zero value selects nothing.
type Rules struct {
	ConfidenceThreshold float64 // flag predictions below this
	CrisisLabel         string  // label sampled for routine spot checks
	CrisisSampleRate    float64 // fraction of crisis predictions to sample
	Seed                int64   // drives the spot-check sample
}

// Validate checks the rule parameters.
func (r Rules) Validate() error {
	if r.ConfidenceThreshold < 0 || r.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %g out of range [0,1]", r.ConfidenceThreshold)
	}
	if r.CrisisSampleRate < 0 || r.CrisisSampleRate > 1 {
		return fmt.Errorf("crisis sample rate %g out of range [0,1]", r.CrisisSampleRate)
	}
	return nil
}

// Summary reports what a selection run flagged.
type Summary struct {
	Input    int            `json:"input"`
	Selected int            `json:"selected"`
	ByReason map[string]int `json:"by_reason"`
}

// Select returns the records needing review, in input order, with their
// Reason fields set. The sample is deterministic for a given seed and
// input order; the reason parts always read model_error, low_confidence,
// crisis_sample.
func (r Rules) Select(records []review.PendingRecord) ([]review.PendingRecord, Summary) {
	reasons := make([][]string, len(records))

	for i, rec := range records {
		if rec.ModelLabel == review.ErrorLabel {
			reasons[i] = append(reasons[i], review.ReasonModelError)
		}
		if rec.Confidence < r.ConfidenceThreshold {
			reasons[i] = append(reasons[i], review.ReasonLowConfidence)
		}
	}

	for _, i := range r.sampleCrisis(records) {
		reasons[i] = append(reasons[i], review.ReasonCrisisSample)
	}

	summary := Summary{Input: len(records), ByReason: make(map[string]int)}
	var selected []review.PendingRecord
	for i, rec := range records {
		if len(reasons[i]) == 0 {
			continue
		}
		rec.Reason = strings.Join(reasons[i], review.ReasonSeparator)
		selected = append(selected, rec)
		for _, reason := range reasons[i] {
			summary.ByReason[reason]++
		}
	}
	summary.Selected = len(selected)
	return selected, summary
}

// sampleCrisis picks the spot-check indices. The sample size truncates,
// so fewer than 1/rate crisis predictions yields no sample.
func (r Rules) sampleCrisis(records []review.PendingRecord) []int {
	if r.CrisisLabel == "" || r.CrisisSampleRate <= 0 {
		return nil
	}

	var crisis []int
	for i, rec := range records {
		if rec.ModelLabel == r.CrisisLabel {
			crisis = append(crisis, i)
		}
	}

	k := int(float64(len(crisis)) * r.CrisisSampleRate)
	if k == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(r.Seed))
	perm := rng.Perm(len(crisis))

	picked := make([]int, 0, k)
	for _, p := range perm[:k] {
		picked = append(picked, crisis[p])
	}
	return picked
}
