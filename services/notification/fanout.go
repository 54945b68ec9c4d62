// Package notification implements the polling fan-out: a process-wide,
// per-recipient bounded event buffer. Events are best-effort ephemeral
// signals; clients re-fetch authoritative state when one arrives, so
// losing the buffer on restart is acceptable. For multi-instance
// deployments the Publish/Poll/Clear contract stays the same with an
// external pub/sub backing.
package notification

import (
	"sync"
	"time"

	"guidely/models"
)

// QueueCapacity bounds each recipient's buffer. Oldest events are evicted
// first when the buffer is full.
const QueueCapacity = 50

// Publisher is the side consumed by the booking engine, messaging and
// location tracking.
type Publisher interface {
	Publish(recipientID string, eventType models.EventType, payload map[string]any)
}

// Fanout is the in-memory implementation of the polling contract.
type Fanout struct {
	mu     sync.Mutex
	queues map[string][]models.Event
	nowFn  func() time.Time
}

// NewFanout returns an empty fan-out.
func NewFanout() *Fanout {
	return &Fanout{
		queues: make(map[string][]models.Event),
		nowFn:  time.Now,
	}
}

// Publish appends an event to the recipient's queue, evicting the oldest
// entries if the queue would exceed capacity. Delivery is at-least-once
// across overlapping polls and not transactional with the triggering
// state change.
func (f *Fanout) Publish(recipientID string, eventType models.EventType, payload map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := append(f.queues[recipientID], models.Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: f.nowFn(),
	})
	if len(q) > QueueCapacity {
		q = q[len(q)-QueueCapacity:]
	}
	f.queues[recipientID] = q
}

// Poll returns the recipient's buffered events strictly after `since`, in
// order. A nil `since` returns the full buffer. Timestamps are the cursor;
// clients tolerate duplicates across overlapping polls.
func (f *Fanout) Poll(recipientID string, since *time.Time) []models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.queues[recipientID]
	var out []models.Event
	for _, ev := range q {
		if since != nil && !ev.Timestamp.After(*since) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Clear drops the recipient's queue entirely.
func (f *Fanout) Clear(recipientID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.queues, recipientID)
}
