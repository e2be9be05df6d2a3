package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/record"
)

func TestDiskvWatchEmitsKindChanges(t *testing.T) {
	base := t.TempDir()
	b, err := NewDiskv(base, logging.Discard())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	s := New(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if _, err := s.Retains.Create(ctx, record.Retain{Batch: "NA100", Code: 507450, Box: 1}); err != nil {
		t.Fatalf("store retain: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventKindChanged {
				if evt.Kind != record.KindRetain {
					t.Fatalf("expected kind %q, got %q", record.KindRetain, evt.Kind)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	b, err := NewDiskv(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := New(b).Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventKindChanged, Kind: record.KindQcLog}, send)
	}

	select {
	case ev := <-got:
		if ev.Kind != record.KindQcLog {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected one coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestKeyTransformRoundTrip(t *testing.T) {
	key := toKey("qc", "NA-100/7")
	pk := keyToPathTransform(key)
	if len(pk.Path) != 1 || pathToKeyTransform(pk) != key {
		t.Fatalf("transform did not round trip: %+v", pk)
	}
	bucket, k, ok := fromKey(key)
	if !ok || bucket != "qc" || k != "NA-100/7" {
		t.Fatalf("fromKey(%q) = %q %q %v", key, bucket, k, ok)
	}
	if _, _, ok := fromKey("nothex-zz"); ok {
		t.Fatalf("expected invalid key to be rejected")
	}
}
