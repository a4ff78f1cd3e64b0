package review_test

import (
	"errors"
	"testing"
	"time"

	"github.com/crisislab/revq/internal/domain/review"
)

func pendingWithID(id string) review.PendingRecord {
	rec := validPending()
	rec.ID = id
	return rec
}

func TestQueue_OrderAndLookup(t *testing.T) {
	q, err := review.NewQueue(3, []review.PendingRecord{
		pendingWithID("a"), pendingWithID("b"), pendingWithID("c"),
	})
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	if q.Revision != 3 {
		t.Errorf("Revision = %d, want 3", q.Revision)
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}

	head, ok := q.Head()
	if !ok || head.ID != "a" {
		t.Errorf("Head() = %v/%v, want record a", head.ID, ok)
	}

	if _, ok := q.Get("b"); !ok {
		t.Error("Get(b) should find the record")
	}
	if q.Contains("z") {
		t.Error("Contains(z) = true, want false")
	}
}

func TestQueue_DuplicateID(t *testing.T) {
	_, err := review.NewQueue(0, []review.PendingRecord{
		pendingWithID("a"), pendingWithID("a"),
	})
	if !errors.Is(err, review.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for duplicate id, got %v", err)
	}
}

func TestQueue_Remove(t *testing.T) {
	q, _ := review.NewQueue(0, []review.PendingRecord{
		pendingWithID("a"), pendingWithID("b"), pendingWithID("c"),
	})

	rec, err := q.Remove("b")
	if err != nil {
		t.Fatalf("Remove(b): %v", err)
	}
	if rec.ID != "b" {
		t.Errorf("removed record = %s, want b", rec.ID)
	}

	// Order of the remaining records is preserved and lookups still work.
	ids := queueIDs(q)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Errorf("remaining ids = %v, want [a c]", ids)
	}
	if got, ok := q.Get("c"); !ok || got.ID != "c" {
		t.Error("index broken after Remove")
	}

	_, err = q.Remove("b")
	if !errors.Is(err, review.ErrUnknownRecord) {
		t.Errorf("second Remove(b) = %v, want ErrUnknownRecord", err)
	}
}

func TestQueue_Requeue(t *testing.T) {
	q, _ := review.NewQueue(0, []review.PendingRecord{
		pendingWithID("a"), pendingWithID("b"), pendingWithID("c"),
	})

	if err := q.Requeue("a"); err != nil {
		t.Fatalf("Requeue(a): %v", err)
	}

	ids := queueIDs(q)
	if ids[0] != "b" || ids[2] != "a" {
		t.Errorf("after requeue ids = %v, want a at the back", ids)
	}
	if err := q.Requeue("missing"); !errors.Is(err, review.ErrUnknownRecord) {
		t.Errorf("Requeue(missing) = %v, want ErrUnknownRecord", err)
	}
}

func queueIDs(q *review.Queue) []string {
	var ids []string
	for _, rec := range q.Records() {
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestResults_UpsertKeepsPosition(t *testing.T) {
	now := time.Now()
	r := review.EmptyResults()
	r.Upsert(review.NewReview(pendingWithID("a"), "A1", "", now))
	r.Upsert(review.NewReview(pendingWithID("b"), "A2", "", now))
	r.Upsert(review.NewReview(pendingWithID("c"), "A3", "", now))

	// Re-reviewing b must overwrite in place, not append.
	r.Upsert(review.NewReview(pendingWithID("b"), "A0", "changed my mind", now))

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	recs := r.Records()
	if recs[1].ID != "b" || recs[1].HumanLabel != "A0" {
		t.Errorf("record b = %s/%s, want b/A0 at position 1", recs[1].ID, recs[1].HumanLabel)
	}
}

func TestResults_ReviewedExcludesSkips(t *testing.T) {
	now := time.Now()
	r := review.EmptyResults()
	r.Upsert(review.NewReview(pendingWithID("a"), "A1", "", now))
	r.Upsert(review.NewSkip(pendingWithID("b"), now))

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if r.Reviewed() != 1 {
		t.Errorf("Reviewed() = %d, want 1", r.Reviewed())
	}
}

func TestResults_Validate(t *testing.T) {
	labels := review.MustLabelSet("A0", "A1", "A2", "A3")
	now := time.Now()

	r := review.EmptyResults()
	r.Upsert(review.NewReview(pendingWithID("a"), "A1", "", now))
	if err := r.Validate(labels); err != nil {
		t.Errorf("valid results rejected: %v", err)
	}

	r.Upsert(review.NewReview(pendingWithID("b"), "bogus", "", now))
	if err := r.Validate(labels); !errors.Is(err, review.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestResults_Remove(t *testing.T) {
	now := time.Now()
	r := review.EmptyResults()
	r.Upsert(review.NewReview(pendingWithID("a"), "A1", "", now))

	if _, err := r.Remove("a"); err != nil {
		t.Fatalf("Remove(a): %v", err)
	}
	if r.Contains("a") {
		t.Error("record still present after Remove")
	}
	if _, err := r.Remove("a"); !errors.Is(err, review.ErrUnknownRecord) {
		t.Errorf("Remove of absent id = %v, want ErrUnknownRecord", err)
	}
}
