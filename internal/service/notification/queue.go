package notification

import (
	"sync"

	"github.com/jwalitptl/hms-notify/internal/model"
)

// Queue is an in-process FIFO buffer for deferred sends. Entries are lost
// on restart; the queue exists to absorb bursts, not to guarantee delivery.
// Appends may race with the drain's pops, so both go through one mutex.
type Queue struct {
	mu       sync.Mutex
	entries  []*model.NotificationPayload
	draining bool
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a payload. O(1), never blocks on the drain.
func (q *Queue) Enqueue(p *model.NotificationPayload) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, p)
}

// Len reports the number of waiting entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// pop removes and returns the head entry.
func (q *Queue) pop() (*model.NotificationPayload, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return nil, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head, true
}

// beginDrain claims the single drain slot. It returns false when another
// drain is already active; the caller must then back off entirely.
func (q *Queue) beginDrain() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.draining {
		return false
	}
	q.draining = true
	return true
}

func (q *Queue) endDrain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.draining = false
}
