package audit

import "sync"

// pendingQueue holds events the publisher has not yet handed to the store.
// Past its limit the oldest pending event is evicted.
type pendingQueue struct {
	mu      sync.Mutex
	events  []Event
	limit   int
	evicted int64
}

func newPendingQueue(limit int) *pendingQueue {
	if limit <= 0 {
		limit = 1000
	}
	return &pendingQueue{limit: limit}
}

// push appends event and reports the event evicted to make room, if any.
func (q *pendingQueue) push(event Event) (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, event)
	if len(q.events) <= q.limit {
		return Event{}, false
	}
	oldest := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	q.evicted++
	return oldest, true
}

// take removes and returns up to n of the oldest pending events.
func (q *pendingQueue) take(n int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	n = min(n, len(q.events))
	if n == 0 {
		return nil
	}
	batch := make([]Event, n)
	copy(batch, q.events)
	clear(q.events[:n])
	q.events = q.events[n:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return batch
}

func (q *pendingQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *pendingQueue) evictedTotal() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.evicted
}
