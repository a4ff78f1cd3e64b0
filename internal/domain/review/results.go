package review

// Results holds the reviewed records in completion order. Like Queue it
// carries the stored file revision for the concurrent-write check.
type Results struct {
	Revision int
	records  []ReviewedRecord
	index    map[string]int
}

// NewResults builds a results collection, preserving order and rejecting
// duplicate ids.
func NewResults(revision int, records []ReviewedRecord) (*Results, error) {
	r := &Results{
		Revision: revision,
		records:  make([]ReviewedRecord, 0, len(records)),
		index:    make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if _, dup := r.index[rec.ID]; dup {
			return nil, &InvalidValueError{Field: "id", Value: rec.ID, Reason: "duplicate record id"}
		}
		r.index[rec.ID] = len(r.records)
		r.records = append(r.records, rec)
	}
	return r, nil
}

// EmptyResults returns a results collection with no records at revision 0.
func EmptyResults() *Results {
	r, _ := NewResults(0, nil)
	return r
}

// Len returns the number of reviewed records, skipped ones included.
func (r *Results) Len() int {
	return len(r.records)
}

// Reviewed returns the number of records with a human verdict, excluding
// recorded skips.
func (r *Results) Reviewed() int {
	n := 0
	for _, rec := range r.records {
		if !rec.Skipped {
			n++
		}
	}
	return n
}

// Records returns the reviewed records in completion order. The caller
// must not mutate the returned slice.
func (r *Results) Records() []ReviewedRecord {
	return r.records
}

// Get looks up a reviewed record by id.
func (r *Results) Get(id string) (ReviewedRecord, bool) {
	i, ok := r.index[id]
	if !ok {
		return ReviewedRecord{}, false
	}
	return r.records[i], true
}

// Contains reports whether id has been reviewed.
func (r *Results) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Upsert inserts a record or replaces the existing one with the same id.
// Replacement keeps the original position so re-reviews do not reshuffle
// the file.
func (r *Results) Upsert(rec ReviewedRecord) {
	if i, ok := r.index[rec.ID]; ok {
		r.records[i] = rec
		return
	}
	r.index[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
}

// Remove deletes a reviewed record by id.
func (r *Results) Remove(id string) (ReviewedRecord, error) {
	i, ok := r.index[id]
	if !ok {
		return ReviewedRecord{}, &UnknownRecordError{ID: id, Collection: "results"}
	}
	rec := r.records[i]
	r.records = append(r.records[:i], r.records[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.records); j++ {
		r.index[r.records[j].ID] = j
	}
	return rec, nil
}

// Validate checks every record against the label set. Used before any
// save so a bad edit can never reach disk.
func (r *Results) Validate(labels LabelSet) error {
	for _, rec := range r.records {
		if err := rec.Validate(labels); err != nil {
			return err
		}
	}
	return nil
}
