package hub

import (
	"encoding/json"
	"testing"
)

func TestNewHub(t *testing.T) {
	h := NewHub()
	if h == nil {
		t.Fatal("NewHub() returned nil")
	}
	if h.users == nil {
		t.Error("NewHub() users map is nil")
	}
}

func TestHub_SubscribeBroadcast(t *testing.T) {
	h := NewHub()
	client := h.Subscribe("user-a")

	if got := h.Listeners("user-a"); got != 1 {
		t.Fatalf("Listeners() = %d, want 1", got)
	}

	h.Broadcast("user-a", Event{Type: "message", Payload: map[string]string{"message": "hello"}})

	select {
	case raw := <-client:
		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if evt.Type != "message" {
			t.Errorf("event type = %q, want %q", evt.Type, "message")
		}
	default:
		t.Fatal("no event delivered to subscriber")
	}
}

func TestHub_BroadcastScopedToUser(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("user-a")
	b := h.Subscribe("user-b")

	h.Broadcast("user-a", Event{Type: "message"})

	select {
	case <-a:
	default:
		t.Error("user-a subscriber missed its event")
	}

	select {
	case <-b:
		t.Error("user-b subscriber received user-a's event")
	default:
	}
}

func TestHub_BroadcastNoSubscribers(t *testing.T) {
	h := NewHub()
	// Must not panic or block.
	h.Broadcast("nobody", Event{Type: "message"})
}

func TestHub_UnsubscribeClosesOnce(t *testing.T) {
	h := NewHub()
	client := h.Subscribe("user-a")

	h.Unsubscribe("user-a", client)
	if got := h.Listeners("user-a"); got != 0 {
		t.Errorf("Listeners() after unsubscribe = %d, want 0", got)
	}

	if _, open := <-client; open {
		t.Error("client channel still open after unsubscribe")
	}

	// Second release of the same handle is a no-op, not a double close.
	h.Unsubscribe("user-a", client)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	h.Subscribe("user-a")

	// Overflow the client buffer; Broadcast must drop, not block.
	for i := 0; i < 20; i++ {
		h.Broadcast("user-a", Event{Type: "message"})
	}
}
