package application

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/crisislab/revq/internal/domain"
	"github.com/crisislab/revq/internal/domain/review"
)

// ReviewService drives the review workflow: handing out the next record,
// recording verdicts and skips, reopening finished records. Every
// operation loads the workspace fresh and saves through the revision
// check, so two sessions on the same directory cannot silently overwrite
// each other.
type ReviewService struct {
	repo   domain.WorkspaceRepository
	audit  *AuditService
	logger zerolog.Logger
}

func NewReviewService(repo domain.WorkspaceRepository, audit *AuditService, logger zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, audit: audit, logger: logger}
}

// session is the loaded workspace state one review operation works on.
type session struct {
	cfg     *domain.Config
	labels  review.LabelSet
	queue   *review.Queue
	results *review.Results
}

func (s *ReviewService) loadSession() (*session, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	labels, err := cfg.LabelSet()
	if err != nil {
		return nil, fmt.Errorf("invalid label config: %w", err)
	}
	if !cfg.ValidSkipPolicy() {
		return nil, &review.InvalidValueError{
			Field:  "skip_policy",
			Value:  cfg.SkipPolicy,
			Reason: "must be discard, record or requeue",
		}
	}

	queue, err := s.repo.LoadQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	if queue == nil {
		return nil, review.ErrNoQueue
	}
	if err := queue.Validate(labels); err != nil {
		return nil, &review.CorruptDataError{Path: "queue.json", Reason: err.Error()}
	}

	results, err := s.repo.LoadResults()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if err := results.Validate(labels); err != nil {
		return nil, &review.CorruptDataError{Path: "results.json", Reason: err.Error()}
	}

	return &session{cfg: cfg, labels: labels, queue: queue, results: results}, nil
}

// stateOf determines the review state of a record across both files.
// The queue wins when a crash left a record in both, so the verdict can
// be resubmitted.
func (sess *session) stateOf(id string) (string, error) {
	if sess.queue.Contains(id) {
		return review.StatePending, nil
	}
	if rec, ok := sess.results.Get(id); ok {
		if rec.Skipped {
			return review.StateSkipped, nil
		}
		return review.StateReviewed, nil
	}
	return "", &review.UnknownRecordError{ID: id, Collection: "workspace"}
}

// Next returns the record up for review.
func (s *ReviewService) Next() (review.PendingRecord, error) {
	sess, err := s.loadSession()
	if err != nil {
		return review.PendingRecord{}, err
	}
	head, ok := sess.queue.Head()
	if !ok {
		return review.PendingRecord{}, review.ErrQueueEmpty
	}
	return head, nil
}

// Submit records a human verdict for the record. The record moves from
// the queue into the results; a recorded skip can also be resolved this
// way. Results are saved before the queue, so a crash in between leaves
// the record in both files and the verdict is simply resubmitted.
func (s *ReviewService) Submit(id, label, notes string) (review.ReviewedRecord, error) {
	sess, err := s.loadSession()
	if err != nil {
		return review.ReviewedRecord{}, err
	}
	if err := sess.labels.Validate("human_label", label); err != nil {
		return review.ReviewedRecord{}, err
	}

	state, err := sess.stateOf(id)
	if err != nil {
		return review.ReviewedRecord{}, err
	}

	guard := func(string, string) bool { return sess.labels.Contains(label) }
	machine, err := review.NewStateMachine(state, id, guard)
	if err != nil {
		return review.ReviewedRecord{}, err
	}
	if err := machine.Apply(review.EventSubmit); err != nil {
		return review.ReviewedRecord{}, err
	}

	var pending review.PendingRecord
	switch state {
	case review.StatePending:
		pending, _ = sess.queue.Get(id)
	case review.StateSkipped:
		rec, _ := sess.results.Get(id)
		pending = rec.PendingRecord
	}

	reviewed := review.NewReview(pending, label, notes, time.Now())
	sess.results.Upsert(reviewed)

	if err := s.repo.SaveResults(sess.results); err != nil {
		return review.ReviewedRecord{}, fmt.Errorf("failed to save results: %w", err)
	}
	if state == review.StatePending {
		if _, err := sess.queue.Remove(id); err != nil {
			return review.ReviewedRecord{}, err
		}
		if err := s.repo.SaveQueue(sess.queue); err != nil {
			return review.ReviewedRecord{}, fmt.Errorf("failed to save queue: %w", err)
		}
	}

	s.logger.Info().Str("record", id).Str("label", label).Msg("verdict recorded")

	if err := s.audit.Log("review.submit", map[string]interface{}{
		"record_id":   id,
		"human_label": label,
		"agrees":      reviewed.Agrees(),
	}); err != nil {
		return review.ReviewedRecord{}, fmt.Errorf("failed to write audit log: %w", err)
	}
	return reviewed, nil
}

// Skip passes on a pending record according to the configured skip
// policy. It returns the policy applied so the caller can phrase the
// outcome.
func (s *ReviewService) Skip(id string) (string, error) {
	sess, err := s.loadSession()
	if err != nil {
		return "", err
	}

	state, err := sess.stateOf(id)
	if err != nil {
		return "", err
	}

	machine, err := review.NewStateMachine(state, id, nil)
	if err != nil {
		return "", err
	}
	if err := machine.Apply(review.EventSkip); err != nil {
		return "", err
	}

	policy := sess.cfg.SkipPolicy
	switch policy {
	case domain.SkipRecord:
		rec, err := sess.queue.Remove(id)
		if err != nil {
			return "", err
		}
		sess.results.Upsert(review.NewSkip(rec, time.Now()))
		if err := s.repo.SaveResults(sess.results); err != nil {
			return "", fmt.Errorf("failed to save results: %w", err)
		}
		if err := s.repo.SaveQueue(sess.queue); err != nil {
			return "", fmt.Errorf("failed to save queue: %w", err)
		}
	case domain.SkipRequeue:
		if err := sess.queue.Requeue(id); err != nil {
			return "", err
		}
		if err := s.repo.SaveQueue(sess.queue); err != nil {
			return "", fmt.Errorf("failed to save queue: %w", err)
		}
	default:
		if _, err := sess.queue.Remove(id); err != nil {
			return "", err
		}
		if err := s.repo.SaveQueue(sess.queue); err != nil {
			return "", fmt.Errorf("failed to save queue: %w", err)
		}
	}

	s.logger.Info().Str("record", id).Str("policy", policy).Msg("record skipped")

	if err := s.audit.Log("review.skip", map[string]interface{}{
		"record_id": id,
		"policy":    policy,
	}); err != nil {
		return "", fmt.Errorf("failed to write audit log: %w", err)
	}
	return policy, nil
}

// Requeue reopens a finished record. Its verdict or recorded skip is
// removed from the results and the record rejoins the back of the queue.
// The queue is saved first so a crash in between never loses the record.
func (s *ReviewService) Requeue(id string) error {
	sess, err := s.loadSession()
	if err != nil {
		return err
	}

	state, err := sess.stateOf(id)
	if err != nil {
		return err
	}

	machine, err := review.NewStateMachine(state, id, nil)
	if err != nil {
		return err
	}
	if err := machine.Apply(review.EventRequeue); err != nil {
		return err
	}

	rec, err := sess.results.Remove(id)
	if err != nil {
		return err
	}
	if err := sess.queue.Push(rec.PendingRecord); err != nil {
		return err
	}

	if err := s.repo.SaveQueue(sess.queue); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}
	if err := s.repo.SaveResults(sess.results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	s.logger.Info().Str("record", id).Msg("record requeued")

	if err := s.audit.Log("review.requeue", map[string]interface{}{
		"record_id": id,
	}); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// Progress summarizes how far the session has come. Fraction counts
// recorded skips as handled work.
type Progress struct {
	Pending  int     `json:"pending"`
	Reviewed int     `json:"reviewed"`
	Skipped  int     `json:"skipped"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

func computeProgress(pending, reviewed, skipped int) Progress {
	p := Progress{
		Pending:  pending,
		Reviewed: reviewed,
		Skipped:  skipped,
		Total:    pending + reviewed + skipped,
	}
	if p.Total > 0 {
		p.Fraction = float64(p.Reviewed+p.Skipped) / float64(p.Total)
	}
	return p
}

func (s *ReviewService) Progress() (Progress, error) {
	sess, err := s.loadSession()
	if err != nil {
		return Progress{}, err
	}
	return sess.progress(), nil
}

func (sess *session) progress() Progress {
	reviewed := sess.results.Reviewed()
	return computeProgress(sess.queue.Len(), reviewed, sess.results.Len()-reviewed)
}

// SessionView is everything the interactive review screen needs.
type SessionView struct {
	Pending  []review.PendingRecord
	Labels   []string
	Progress Progress
}

// Session loads the state for the interactive review screen.
func (s *ReviewService) Session() (SessionView, error) {
	sess, err := s.loadSession()
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		Pending:  sess.queue.Records(),
		Labels:   sess.labels.Labels(),
		Progress: sess.progress(),
	}, nil
}

// Status reports the workspace state for the status screen. It degrades
// gracefully: an uninitialized directory or a missing queue is a state
// to report, not an error.
type Status struct {
	Initialized     bool      `json:"initialized"`
	HasQueue        bool      `json:"has_queue"`
	QueueRevision   int       `json:"queue_revision"`
	ResultsRevision int       `json:"results_revision"`
	Labels          []string  `json:"labels,omitempty"`
	SkipPolicy      string    `json:"skip_policy,omitempty"`
	Progress        Progress  `json:"progress"`
	LastAction      string    `json:"last_action,omitempty"`
	LastActionAt    time.Time `json:"last_action_at"`
}

func (s *ReviewService) Status() (Status, error) {
	st := Status{Initialized: s.repo.IsInitialized()}
	if !st.Initialized {
		return st, nil
	}

	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return st, fmt.Errorf("failed to load config: %w", err)
	}
	st.Labels = cfg.Labels
	st.SkipPolicy = cfg.SkipPolicy

	queue, err := s.repo.LoadQueue()
	if err != nil {
		return st, fmt.Errorf("failed to load queue: %w", err)
	}
	results, err := s.repo.LoadResults()
	if err != nil {
		return st, fmt.Errorf("failed to load results: %w", err)
	}

	pending := 0
	if queue != nil {
		st.HasQueue = true
		st.QueueRevision = queue.Revision
		pending = queue.Len()
	}
	st.ResultsRevision = results.Revision
	reviewed := results.Reviewed()
	st.Progress = computeProgress(pending, reviewed, results.Len()-reviewed)

	if events, err := s.audit.Timeline(); err == nil && len(events) > 0 {
		last := events[len(events)-1]
		st.LastAction = last.Action
		st.LastActionAt = last.Timestamp
	}
	return st, nil
}
