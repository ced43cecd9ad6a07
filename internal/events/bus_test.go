package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Kind)) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Kind)) })

	bus.Publish(Event{Kind: Decided, SubmissionID: 1})
	bus.Publish(Event{Kind: Deleted, SubmissionID: 1})

	assert.Equal(t, []string{"first:decided", "second:decided", "first:deleted", "second:deleted"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0

	unsubscribe := bus.Subscribe(func(Event) { calls++ })
	bus.Publish(Event{Kind: Created})
	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Kind: Created})

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	calls := 0

	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})

	bus.Publish(Event{Kind: Unpublished})
	bus.Publish(Event{Kind: Unpublished})

	assert.Equal(t, 1, calls)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(Event{Kind: Created}) })
}
