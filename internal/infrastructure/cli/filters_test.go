package cli

import (
	"reflect"
	"testing"

	"github.com/crisislab/revq/internal/domain/review"
)

func TestFilterFlagsBuild(t *testing.T) {
	f := filterFlags{
		status:        "reviewed",
		reason:        "low_confidence",
		contains:      "school",
		minConfidence: 0.2,
		maxConfidence: 0.8,
		humanLabels:   "A2, A3",
		modelLabels:   "A1",
	}

	got, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := review.FilterSet{
		Status:        review.StatusReviewed,
		Reason:        "low_confidence",
		TextContains:  "school",
		MinConfidence: 0.2,
		MaxConfidence: 0.8,
		HumanLabels:   []string{"A2", "A3"},
		ModelLabels:   []string{"A1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("build() = %+v, want %+v", got, want)
	}
}

func TestFilterFlagsBuildEmpty(t *testing.T) {
	var f filterFlags

	got, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got.Status != review.StatusAll {
		t.Errorf("empty status should parse as all, got %q", got.Status)
	}
	if !got.IsZero() {
		t.Errorf("expected zero filter, got %+v", got)
	}
}

func TestFilterFlagsBuildBadStatus(t *testing.T) {
	f := filterFlags{status: "pending"}

	if _, err := f.build(); err == nil {
		t.Error("expected error for unknown status filter")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"A1", []string{"A1"}},
		{"A1,A2", []string{"A1", "A2"}},
		{" A1 , A2 ,", []string{"A1", "A2"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := splitList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
