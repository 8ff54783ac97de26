// Package bridge is the UI Event Bridge (spec.md §4.7): a simple fan-out
// of status snapshots to whatever front-end subscribes. Grounded on
// internal/relay/workers.go's WingRegistry.Subscribe/notify — a
// subscriber list guarded by its own mutex, non-blocking sends so one slow
// subscriber never stalls a publisher — narrowed here from per-user
// routing to a flat subscriber list, since the agent has exactly one UI.
package bridge

import (
	"sync"

	"github.com/vibecode/agent/internal/state"
)

// StatusUpdate is the event spec.md §4.7 calls status-update: whatever
// changed materially, not necessarily a full snapshot.
type StatusUpdate struct {
	Status  state.Status
	Metrics state.SystemMetrics
	AgentID string
}

// Bridge fans a stream of StatusUpdate events out to subscribers.
type Bridge struct {
	mu   sync.RWMutex
	subs []chan StatusUpdate
}

// New constructs an empty Bridge.
func New() *Bridge {
	return &Bridge{}
}

// Subscribe registers ch to receive future events. The caller owns ch and
// should Unsubscribe when done; ch should be buffered by at least 1 to
// avoid dropped events under bursty publishing.
func (b *Bridge) Subscribe(ch chan StatusUpdate) {
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
}

// Unsubscribe removes ch from the subscriber list.
func (b *Bridge) Unsubscribe(ch chan StatusUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish fans ev out to every subscriber, never blocking on a slow one.
func (b *Bridge) Publish(ev StatusUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
