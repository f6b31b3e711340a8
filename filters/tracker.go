package filters

import "sync"

// Tracker caches the isFiltering signal derived from the latest record.
// It is safe for concurrent use.
type Tracker struct {
	schema Schema

	mu          sync.Mutex
	last        FilterRecord
	observed    bool
	filtering   bool
	recomputes  int
	nextSubID   int
	subscribers map[int]func(bool)
}

// NewTracker returns a tracker with no observed record. IsFiltering reports
// false until the first Observe.
func NewTracker(schema Schema) *Tracker {
	return &Tracker{
		schema:      schema,
		subscribers: make(map[int]func(bool)),
	}
}

// Observe feeds the current record and returns isFiltering. The count is
// re-derived only when record differs by value from the last one seen.
// Subscribers run after the lock is released, and only when the boolean
// changes.
func (t *Tracker) Observe(record FilterRecord) bool {
	t.mu.Lock()
	if t.observed && t.last.Equal(record, t.schema) {
		filtering := t.filtering
		t.mu.Unlock()
		return filtering
	}

	first := !t.observed
	previous := t.filtering
	t.last = record.Clone()
	t.observed = true
	t.filtering = CountActive(t.schema, record) > 0
	t.recomputes++
	filtering := t.filtering

	var notify []func(bool)
	if first || previous != filtering {
		notify = make([]func(bool), 0, len(t.subscribers))
		for _, fn := range t.subscribers {
			notify = append(notify, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range notify {
		fn(filtering)
	}
	return filtering
}

// IsFiltering returns the cached signal.
func (t *Tracker) IsFiltering() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filtering
}

// Recomputations counts how many times Observe actually re-derived the
// signal.
func (t *Tracker) Recomputations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recomputes
}

// Subscribe registers fn for isFiltering transitions.
func (t *Tracker) Subscribe(fn func(bool)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subscribers, id)
		t.mu.Unlock()
	}
}
