package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesProjectSubscribers(t *testing.T) {
	hub := NewHub()

	a, cancelA := hub.Subscribe(1)
	defer cancelA()
	other, cancelOther := hub.Subscribe(2)
	defer cancelOther()

	hub.Publish(1, EventFileUploaded, "kick.wav")

	select {
	case ev := <-a:
		assert.Equal(t, EventFileUploaded, ev.Type)
		assert.Equal(t, uint(1), ev.ProjectID)
		assert.Equal(t, "kick.wav", ev.Message)
		assert.False(t, ev.Timestamp.IsZero())
	default:
		t.Fatal("expected an event for project 1")
	}

	select {
	case ev := <-other:
		t.Fatalf("project 2 subscriber got %+v", ev)
	default:
	}
}

func TestHub_CancelUnsubscribesAndCloses(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(5)
	require.Equal(t, 1, hub.Subscribers(5))

	cancel()
	cancel()

	assert.Equal(t, 0, hub.Subscribers(5))
	_, open := <-ch
	assert.False(t, open)

	hub.Publish(5, EventFileUploaded, "after cancel")
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(3)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(3, EventCollaboratorInvited, "bob")
	}

	assert.Len(t, ch, subscriberBuffer)
}
