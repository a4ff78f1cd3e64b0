package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/domain/review"
)

// filterFlags collects the record filter options shared by the results
// and export commands.
type filterFlags struct {
	status        string
	reason        string
	contains      string
	minConfidence float64
	maxConfidence float64
	humanLabels   string
	modelLabels   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.status, "status", "s", "",
		"Filter by outcome (all, reviewed, skipped)")
	cmd.Flags().StringVar(&f.reason, "reason", "",
		"Filter by selection reason (model_error, low_confidence, crisis_sample)")
	cmd.Flags().StringVar(&f.contains, "contains", "",
		"Filter by substring of text or title")
	cmd.Flags().Float64Var(&f.minConfidence, "min-confidence", 0,
		"Keep records with confidence at or above this value")
	cmd.Flags().Float64Var(&f.maxConfidence, "max-confidence", 0,
		"Keep records with confidence at or below this value (0 = unbounded)")
	cmd.Flags().StringVar(&f.humanLabels, "human-label", "",
		"Keep records with these human labels (comma-separated)")
	cmd.Flags().StringVar(&f.modelLabels, "model-label", "",
		"Keep records with these model labels (comma-separated)")
}

func (f *filterFlags) build() (review.FilterSet, error) {
	status, err := review.ParseStatusFilter(f.status)
	if err != nil {
		return review.FilterSet{}, err
	}
	return review.FilterSet{
		Status:        status,
		Reason:        f.reason,
		TextContains:  f.contains,
		MinConfidence: f.minConfidence,
		MaxConfidence: f.maxConfidence,
		HumanLabels:   splitList(f.humanLabels),
		ModelLabels:   splitList(f.modelLabels),
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
