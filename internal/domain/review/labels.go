package review

import (
	"fmt"
	"strings"
)

// DefaultLabels is the actionability scale used when no configuration
// overrides it. A0 is not actionable, A3 is immediately actionable.
var DefaultLabels = []string{"A0", "A1", "A2", "A3"}

// ErrorLabel marks records the model failed to classify. It is never a
// valid human label.
const ErrorLabel = "ERROR"

// LabelSet is the ordered set of valid annotation labels. Order is
// canonical: reports and matrices list labels in this order.
type LabelSet struct {
	labels []string
	index  map[string]int
}

// NewLabelSet builds a label set from an ordered list. Labels must be
// non-empty and unique.
func NewLabelSet(labels []string) (LabelSet, error) {
	if len(labels) == 0 {
		return LabelSet{}, fmt.Errorf("label set must not be empty")
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return LabelSet{}, fmt.Errorf("label at position %d is empty", i)
		}
		if _, dup := index[l]; dup {
			return LabelSet{}, fmt.Errorf("duplicate label %q", l)
		}
		index[l] = i
	}
	return LabelSet{labels: labels, index: index}, nil
}

// MustLabelSet is NewLabelSet for known-good literals.
func MustLabelSet(labels ...string) LabelSet {
	ls, err := NewLabelSet(labels)
	if err != nil {
		panic(err)
	}
	return ls
}

// Labels returns the labels in canonical order. The caller must not
// mutate the returned slice.
func (ls LabelSet) Labels() []string {
	return ls.labels
}

// Len returns the number of labels.
func (ls LabelSet) Len() int {
	return len(ls.labels)
}

// Contains reports whether label is a member of the set.
func (ls LabelSet) Contains(label string) bool {
	_, ok := ls.index[label]
	return ok
}

// Index returns the canonical position of label, or -1 if absent.
func (ls LabelSet) Index(label string) int {
	if i, ok := ls.index[label]; ok {
		return i
	}
	return -1
}

// Validate returns an InvalidValueError when label is not in the set.
func (ls LabelSet) Validate(field, label string) error {
	if !ls.Contains(label) {
		return &InvalidValueError{
			Field:  field,
			Value:  label,
			Reason: "must be one of " + strings.Join(ls.labels, ", "),
		}
	}
	return nil
}

// String renders the set as a comma separated list.
func (ls LabelSet) String() string {
	return strings.Join(ls.labels, ", ")
}
