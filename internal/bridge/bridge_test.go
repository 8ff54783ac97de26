package bridge

import (
	"testing"
	"time"

	"github.com/vibecode/agent/internal/state"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New()
	ch := make(chan StatusUpdate, 1)
	b.Subscribe(ch)

	b.Publish(StatusUpdate{Status: state.StatusConnected, AgentID: "a1"})

	select {
	case ev := <-ch:
		if ev.AgentID != "a1" {
			t.Fatalf("expected a1, got %q", ev.AgentID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected event delivery")
	}
}

func TestPublishNeverBlocksOnFullSubscriber(t *testing.T) {
	b := New()
	ch := make(chan StatusUpdate) // unbuffered, nobody reading
	b.Subscribe(ch)

	done := make(chan struct{})
	go func() {
		b.Publish(StatusUpdate{Status: state.StatusWorking})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked on a full subscriber channel")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch := make(chan StatusUpdate, 1)
	b.Subscribe(ch)
	b.Unsubscribe(ch)

	b.Publish(StatusUpdate{Status: state.StatusDisconnected})

	select {
	case <-ch:
		t.Fatalf("expected no event after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}
