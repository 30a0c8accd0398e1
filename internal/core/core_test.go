package core

import (
	"context"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]any{"number": 3}
	ev := NewEvent(payload)
	if ev.ID == "" {
		t.Fatal("event should get an id")
	}
	if time.Since(ev.CreatedAt) > time.Second {
		t.Fatalf("created_at not stamped at construction: %v", ev.CreatedAt)
	}
	if ev.Payload["number"] != 3 {
		t.Fatalf("payload not preserved: %v", ev.Payload)
	}
}

func TestDefaultBuses(t *testing.T) {
	buses := DefaultBuses()
	if len(buses) != 6 {
		t.Fatalf("expected 6 default buses, got %d", len(buses))
	}
	seen := make(map[Bus]struct{}, len(buses))
	for _, b := range buses {
		if _, dup := seen[b]; dup {
			t.Fatalf("duplicate bus %s", b)
		}
		seen[b] = struct{}{}
	}
}

func TestActorFunc(t *testing.T) {
	called := false
	a := ActorFunc(func(context.Context, Event, Emitter) error {
		called = true
		return nil
	})
	if err := a.Act(context.Background(), NewEvent(nil), nil); err != nil {
		t.Fatalf("act: %v", err)
	}
	if !called {
		t.Fatal("wrapped function was not invoked")
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("close should be a no-op: %v", err)
	}
}
