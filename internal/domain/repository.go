package domain

import (
	"github.com/crisislab/revq/internal/domain/review"
)

// WorkspaceRepository handles the persistence of revq artifacts in the .revq/ directory.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool
	LoadQueue() (*review.Queue, error)
	SaveQueue(q *review.Queue) error
	LoadResults() (*review.Results, error)
	SaveResults(r *review.Results) error
	SaveConfig(cfg *Config) error
	LoadConfig() (*Config, error)
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
}

// Config is the serialized representation of config.yaml.
type Config struct {
	Labels              []string `yaml:"labels"`
	CrisisLabel         string   `yaml:"crisis_label"`          // label spot-checked during ingest
	SkipPolicy          string   `yaml:"skip_policy"`           // discard, record or requeue
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`  // ingest flags predictions below this
	CrisisSampleRate    float64  `yaml:"crisis_sample_rate"`    // ingest samples this fraction of crisis predictions
	SampleSeed          int64    `yaml:"sample_seed"`           // drives ingest sampling and splits
	AllowConfidenceEdit bool     `yaml:"allow_confidence_edit"` // open the confidence field to edits
	LogLevel            string   `yaml:"log_level"`
}

// Skip policies. Discard drops the record from the queue, record keeps a
// skipped entry in the results, requeue sends the record to the back of
// the queue.
const (
	SkipDiscard = "discard"
	SkipRecord  = "record"
	SkipRequeue = "requeue"
)

// DefaultConfig returns the configuration written by init.
func DefaultConfig() *Config {
	return &Config{
		Labels:              append([]string(nil), review.DefaultLabels...),
		CrisisLabel:         "A3",
		SkipPolicy:          SkipDiscard,
		ConfidenceThreshold: 0.70,
		CrisisSampleRate:    0.15,
		SampleSeed:          42,
		AllowConfidenceEdit: false,
		LogLevel:            "info",
	}
}

// LabelSet builds the typed label set from the configured labels.
func (c *Config) LabelSet() (review.LabelSet, error) {
	return review.NewLabelSet(c.Labels)
}

// ValidSkipPolicy reports whether the configured skip policy is known.
func (c *Config) ValidSkipPolicy() bool {
	switch c.SkipPolicy {
	case SkipDiscard, SkipRecord, SkipRequeue:
		return true
	}
	return false
}
