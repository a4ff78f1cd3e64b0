package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Fractions sets the split proportions. They must cover the whole
// dataset; train absorbs the rounding remainder of each stratum.
type Fractions struct {
	Train float64 `json:"train"`
	Dev   float64 `json:"dev"`
	Test  float64 `json:"test"`
}

// DefaultFractions is the usual 70/15/15 cut.
func DefaultFractions() Fractions {
	return Fractions{Train: 0.70, Dev: 0.15, Test: 0.15}
}

// Validate checks the fractions are non-negative and sum to one.
func (f Fractions) Validate() error {
	for name, v := range map[string]float64{"train": f.Train, "dev": f.Dev, "test": f.Test} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s fraction %g out of range [0,1]", name, v)
		}
	}
	if sum := f.Train + f.Dev + f.Test; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("fractions sum to %g, want 1", sum)
	}
	return nil
}

// Split is a partition of a frozen dataset.
type Split struct {
	Train []FrozenRecord `json:"train"`
	Dev   []FrozenRecord `json:"dev"`
	Test  []FrozenRecord `json:"test"`
}

// Len returns the total record count across the three portions.
func (s Split) Len() int {
	return len(s.Train) + len(s.Dev) + len(s.Test)
}

// StratifiedSplit partitions records by final label so each portion
// mirrors the overall distribution. The cut is deterministic for a given
// seed and input order; within each portion the input order survives.
func StratifiedSplit(records []FrozenRecord, f Fractions, seed int64) (Split, error) {
	if err := f.Validate(); err != nil {
		return Split{}, err
	}

	strata := make(map[string][]int)
	for i, rec := range records {
		strata[rec.FinalLabel] = append(strata[rec.FinalLabel], i)
	}
	// Map order is random; the rng must consume strata deterministically.
	stratumLabels := make([]string, 0, len(strata))
	for label := range strata {
		stratumLabels = append(stratumLabels, label)
	}
	sort.Strings(stratumLabels)

	const (
		portionTrain = iota
		portionDev
		portionTest
	)
	assign := make([]int, len(records))
	rng := rand.New(rand.NewSource(seed))

	for _, label := range stratumLabels {
		idxs := strata[label]
		rng.Shuffle(len(idxs), func(i, j int) {
			idxs[i], idxs[j] = idxs[j], idxs[i]
		})

		nTest := int(float64(len(idxs)) * f.Test)
		nDev := int(float64(len(idxs)) * f.Dev)
		for i, idx := range idxs {
			switch {
			case i < nTest:
				assign[idx] = portionTest
			case i < nTest+nDev:
				assign[idx] = portionDev
			default:
				assign[idx] = portionTrain
			}
		}
	}

	var out Split
	for i, rec := range records {
		switch assign[i] {
		case portionTest:
			out.Test = append(out.Test, rec)
		case portionDev:
			out.Dev = append(out.Dev, rec)
		default:
			out.Train = append(out.Train, rec)
		}
	}
	return out, nil
}
