package review

// Queue holds the pending records in review order. Revision tracks the
// stored file generation the queue was loaded from; saving verifies it
// before writing revision+1.
type Queue struct {
	Revision int
	records  []PendingRecord
	index    map[string]int
}

// NewQueue builds a queue from records, preserving order. Duplicate ids
// are rejected.
func NewQueue(revision int, records []PendingRecord) (*Queue, error) {
	q := &Queue{
		Revision: revision,
		records:  make([]PendingRecord, 0, len(records)),
		index:    make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if err := q.Push(rec); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// EmptyQueue returns a queue with no records at revision 0.
func EmptyQueue() *Queue {
	q, _ := NewQueue(0, nil)
	return q
}

// Len returns the number of pending records.
func (q *Queue) Len() int {
	return len(q.records)
}

// Records returns the pending records in review order. The caller must
// not mutate the returned slice.
func (q *Queue) Records() []PendingRecord {
	return q.records
}

// Get looks up a record by id.
func (q *Queue) Get(id string) (PendingRecord, bool) {
	i, ok := q.index[id]
	if !ok {
		return PendingRecord{}, false
	}
	return q.records[i], true
}

// Contains reports whether id is queued.
func (q *Queue) Contains(id string) bool {
	_, ok := q.index[id]
	return ok
}

// Head returns the next record up for review.
func (q *Queue) Head() (PendingRecord, bool) {
	if len(q.records) == 0 {
		return PendingRecord{}, false
	}
	return q.records[0], true
}

// Push appends a record to the back of the queue.
func (q *Queue) Push(rec PendingRecord) error {
	if _, dup := q.index[rec.ID]; dup {
		return &InvalidValueError{Field: "id", Value: rec.ID, Reason: "duplicate record id"}
	}
	q.index[rec.ID] = len(q.records)
	q.records = append(q.records, rec)
	return nil
}

// Remove deletes a record by id, preserving the order of the rest.
func (q *Queue) Remove(id string) (PendingRecord, error) {
	i, ok := q.index[id]
	if !ok {
		return PendingRecord{}, &UnknownRecordError{ID: id, Collection: "queue"}
	}
	rec := q.records[i]
	q.records = append(q.records[:i], q.records[i+1:]...)
	delete(q.index, id)
	for j := i; j < len(q.records); j++ {
		q.index[q.records[j].ID] = j
	}
	return rec, nil
}

// Requeue moves a record to the back of the queue.
func (q *Queue) Requeue(id string) error {
	rec, err := q.Remove(id)
	if err != nil {
		return err
	}
	return q.Push(rec)
}

// Validate checks every pending record against the label set.
func (q *Queue) Validate(labels LabelSet) error {
	for _, rec := range q.records {
		if err := rec.Validate(labels); err != nil {
			return err
		}
	}
	return nil
}
