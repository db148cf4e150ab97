// Package discover — ordered entry queue with deduplication.
// Keeps a seen set so the same conversation is processed once even
// when the sidebar lists it twice.
package discover

// Queue collects entries in discovery order, dropping repeats by ID.
type Queue struct {
	items []Entry
	seen  map[string]bool
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add appends an entry if its ID has not been seen before.
func (q *Queue) Add(e Entry) {
	if q.seen[e.ID] {
		return
	}
	q.seen[e.ID] = true
	q.items = append(q.items, e)
}

// Len returns the number of unique entries collected.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns the collected entries in discovery order.
func (q *Queue) All() []Entry {
	return q.items
}
