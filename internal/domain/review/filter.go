package review

import "strings"

// StatusFilter narrows results by review outcome.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusReviewed StatusFilter = "reviewed"
	StatusSkipped  StatusFilter = "skipped"
)

// ParseStatusFilter validates a status filter value from user input.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case StatusAll, StatusReviewed, StatusSkipped:
		return StatusFilter(s), nil
	case "":
		return StatusAll, nil
	}
	return "", &InvalidValueError{Field: "status", Value: s, Reason: "must be all, reviewed or skipped"}
}

// FilterSet is a conjunction of predicates over reviewed records. The
// zero value matches everything. Filters hold no cursor state; Apply
// re-evaluates the full collection every call, so a set can be reused
// after edits without invalidation.
type FilterSet struct {
	Status        StatusFilter
	Reason        string   // exact match against one selection reason
	TextContains  string   // case-insensitive substring of text or title
	MinConfidence float64
	MaxConfidence float64 // 0 means unbounded
	HumanLabels   []string
	ModelLabels   []string
}

// Match reports whether rec satisfies every predicate in the set.
func (f FilterSet) Match(rec ReviewedRecord) bool {
	switch f.Status {
	case StatusReviewed:
		if rec.Skipped {
			return false
		}
	case StatusSkipped:
		if !rec.Skipped {
			return false
		}
	}
	if f.Reason != "" && !rec.HasReason(f.Reason) {
		return false
	}
	if f.TextContains != "" {
		needle := strings.ToLower(f.TextContains)
		if !strings.Contains(strings.ToLower(rec.Text), needle) &&
			!strings.Contains(strings.ToLower(rec.Title), needle) {
			return false
		}
	}
	if rec.Confidence < f.MinConfidence {
		return false
	}
	if f.MaxConfidence > 0 && rec.Confidence > f.MaxConfidence {
		return false
	}
	if len(f.HumanLabels) > 0 && !containsString(f.HumanLabels, rec.HumanLabel) {
		return false
	}
	if len(f.ModelLabels) > 0 && !containsString(f.ModelLabels, rec.ModelLabel) {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f FilterSet) Apply(results *Results) []ReviewedRecord {
	var out []ReviewedRecord
	for _, rec := range results.Records() {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// IsZero reports whether the set filters nothing.
func (f FilterSet) IsZero() bool {
	return (f.Status == "" || f.Status == StatusAll) &&
		f.Reason == "" &&
		f.TextContains == "" &&
		f.MinConfidence == 0 &&
		f.MaxConfidence == 0 &&
		len(f.HumanLabels) == 0 &&
		len(f.ModelLabels) == 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
