package records

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSubscribe_DeliversEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gym/records/events" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		_ = conn.WriteJSON(Event{Type: EventCreated, ID: 7, Record: &Record{ID: 7, Exercise: "Squat", Weight: 90}})
		_ = conn.WriteJSON(Event{Type: EventDeleted, ID: 3})

		// Hold the connection until the client goes away
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := NewClient(server.URL).Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	want := []Event{{Type: EventCreated, ID: 7}, {Type: EventDeleted, ID: 3}}
	for i, w := range want {
		select {
		case ev := <-sub.Events:
			if ev.Type != w.Type || ev.ID != w.ID {
				t.Errorf("event %d = %+v, want %+v", i, ev, w)
			}
			if i == 0 && (ev.Record == nil || ev.Record.Exercise != "Squat") {
				t.Errorf("created event record = %+v", ev.Record)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop after cancel")
	}
	if err := sub.Err(); err != nil {
		t.Errorf("Err() after cancel = %v, want nil", err)
	}
}

func TestSubscribe_NoFeedStops(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	sub, err := NewClient(server.URL).Subscribe(context.Background())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription should stop when the server has no feed")
	}
	if !errors.Is(sub.Err(), ErrFeedUnsupported) {
		t.Errorf("Err() = %v, want ErrFeedUnsupported", sub.Err())
	}
	if _, open := <-sub.Events; open {
		t.Error("Events should be closed")
	}
}

func TestSubscribe_Reconnects(t *testing.T) {
	var connects int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := atomic.AddInt32(&connects, 1)
		_ = conn.WriteJSON(Event{Type: EventUpdated, ID: int64(n)})
		if n == 1 {
			// Drop the first connection straight away
			_ = conn.Close()
			return
		}
		_, _, _ = conn.ReadMessage()
		_ = conn.Close()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := NewClient(server.URL).Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	for want := int64(1); want <= 2; want++ {
		select {
		case ev := <-sub.Events:
			if ev.ID != want {
				t.Errorf("event ID = %d, want %d", ev.ID, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event from connection %d", want)
		}
	}
}

func TestSubscribe_InvalidURL(t *testing.T) {
	_, err := NewClient("ftp://example.com").Subscribe(context.Background())
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
