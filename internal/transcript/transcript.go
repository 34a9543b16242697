// Package transcript implements the append-only chat log. Turns are never
// edited, reordered, or removed once appended.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"property-concierge/internal/common/metrics"
)

// Subscriber is notified after each append, in append order.
type Subscriber func(Turn)

// Transcript serializes all appends through one mutex so the append-order
// guarantee holds on a multi-threaded runtime.
type Transcript struct {
	mu          sync.Mutex
	turns       []Turn
	subscribers []Subscriber
}

func New() *Transcript {
	return &Transcript{}
}

// Subscribe registers a callback invoked synchronously on every append.
// Subscribers must not call back into the transcript.
func (t *Transcript) Subscribe(s Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, s)
}

// Append adds a turn at the end and returns it with its assigned id and
// timestamp. Append cannot fail.
func (t *Transcript) Append(turn Turn) Turn {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.At.IsZero() {
		turn.At = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turn)
	metrics.TurnsAppended.WithLabelValues(string(turn.Kind)).Inc()
	for _, s := range t.subscribers {
		s(turn)
	}
	return turn
}

// All returns the turns in insertion order. The returned slice is a copy;
// the transcript retains sole ownership of its entries.
func (t *Transcript) All() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}
