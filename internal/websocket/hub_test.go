package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/event-registry/internal/models"
)

func TestHubBroadcastsListing(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil)
	hub.Register <- client

	hub.NotifyListing(models.EventList{Events: []models.Event{{ID: "a", Title: "Meetup", Likes: 2}}})

	select {
	case raw := <-client.Send:
		var msg struct {
			Action  string           `json:"action"`
			Payload models.EventList `json:"payload"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Action != ActionEventsUpdated {
			t.Errorf("expected action %q, got %q", ActionEventsUpdated, msg.Action)
		}
		if len(msg.Payload.Events) != 1 || msg.Payload.Events[0].Likes != 2 {
			t.Errorf("unexpected payload: %+v", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected closed channel, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestNotifyAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			hub.NotifyListing(models.EventList{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyListing blocked after Stop")
	}
}
