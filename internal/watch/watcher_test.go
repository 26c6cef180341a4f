package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsChangedForKnownModify(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.lua")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := New(dir, []string{target})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	w.Start()

	sub := w.Bus().Subscribe()
	defer w.Bus().Unsubscribe(sub)

	if err := os.WriteFile(target, []byte("y"), 0o644); err != nil {
		t.Fatalf("modify file: %v", err)
	}

	select {
	case ev := <-sub.Events():
		if ev.Kind != Changed || ev.Path != target {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for Changed event")
	}
}

func TestBusDisconnectsLaggedSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()

	for i := 0; i < busCapacity+1; i++ {
		bus.Publish(Event{Kind: Changed, Path: "x"})
	}

	select {
	case <-sub.Lagged():
	default:
		t.Fatalf("expected lag signal after exceeding capacity")
	}

	if _, ok := <-sub.events; ok {
		for range sub.events {
		}
	}
}

func TestBusUnsubscribeClosesEventsWithoutLag(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatalf("expected closed channel")
		}
	default:
		t.Fatalf("expected channel to already report closed")
	}

	select {
	case <-sub.Lagged():
		t.Fatalf("did not expect lag signal on clean unsubscribe")
	default:
	}
}
