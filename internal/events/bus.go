// Package events carries "submission mutated" notifications between the
// parts of the system that change submissions and those that mirror them.
package events

import (
	"sort"
	"sync"

	"github.com/wtusfo/song-and-singer/internal/models"
)

type Kind string

const (
	Created     Kind = "created"
	Decided     Kind = "decided"
	Unpublished Kind = "unpublished"
	Deleted     Kind = "deleted"
)

// Event describes one mutation. Submission is nil for Deleted.
type Event struct {
	Kind         Kind
	SubmissionID int64
	Submission   *models.Submission
}

// Handler receives events in publish order.
type Handler func(Event)

// Bus delivers events synchronously to every subscriber.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every subscriber in subscription order before returning.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
