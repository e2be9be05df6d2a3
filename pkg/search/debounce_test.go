package search

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorder) search(_ context.Context, q string) (Result, error) {
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
	return Result{Query: q}, nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func waitDelivery(t *testing.T, ch <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
	return Delivery{}
}

func expectQuiet(t *testing.T, ch <-chan Delivery, wait time.Duration) {
	t.Helper()
	select {
	case d := <-ch:
		t.Fatalf("unexpected delivery %+v", d)
	case <-time.After(wait):
	}
}

func TestDebouncerDispatchesLastOfBurst(t *testing.T) {
	rec := &recorder{}
	out := make(chan Delivery, 4)
	d := NewDebouncer(rec.search, 20*time.Millisecond, func(del Delivery) { out <- del }, nil, nil)
	defer d.Close()

	d.Input("n")
	d.Input("na")
	d.Input("na1")

	got := waitDelivery(t, out)
	if got.Result.Query != "na1" || got.Generation != 1 {
		t.Fatalf("unexpected delivery %+v", got)
	}
	expectQuiet(t, out, 60*time.Millisecond)
	if q := rec.seen(); len(q) != 1 {
		t.Fatalf("expected one dispatch, got %v", q)
	}
}

func TestDebouncerSuppressesDuplicateQuery(t *testing.T) {
	rec := &recorder{}
	out := make(chan Delivery, 4)
	d := NewDebouncer(rec.search, 10*time.Millisecond, func(del Delivery) { out <- del }, nil, nil)
	defer d.Close()

	d.Input("na1")
	waitDelivery(t, out)

	d.Input("na12")
	d.Input(" na1 ")
	expectQuiet(t, out, 60*time.Millisecond)

	d.Input("na2")
	if got := waitDelivery(t, out); got.Result.Query != "na2" || got.Generation != 2 {
		t.Fatalf("unexpected delivery %+v", got)
	}
}

func TestDebouncerDiscardsSupersededGeneration(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cancelled := make(chan struct{})

	search := func(ctx context.Context, q string) (Result, error) {
		if q == "slow" {
			close(started)
			<-ctx.Done()
			close(cancelled)
			// Answer anyway, as a source that ignores cancellation would.
			<-release
			return Result{Query: q}, nil
		}
		return Result{Query: q}, nil
	}

	out := make(chan Delivery, 4)
	d := NewDebouncer(search, 10*time.Millisecond, func(del Delivery) { out <- del }, nil, nil)

	d.Input("slow")
	<-started
	d.Input("fast")

	got := waitDelivery(t, out)
	if got.Result.Query != "fast" || got.Generation != 2 {
		t.Fatalf("unexpected delivery %+v", got)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatalf("superseded search was not cancelled")
	}

	close(release)
	expectQuiet(t, out, 50*time.Millisecond)
	d.Close()

	if d.Generation() != 2 {
		t.Fatalf("expected generation 2, got %d", d.Generation())
	}
}

func TestDebouncerClose(t *testing.T) {
	rec := &recorder{}
	out := make(chan Delivery, 1)
	d := NewDebouncer(rec.search, 20*time.Millisecond, func(del Delivery) { out <- del }, nil, nil)
	d.Input("na1")
	d.Close()
	d.Input("na2")
	expectQuiet(t, out, 60*time.Millisecond)
	if q := rec.seen(); len(q) != 0 {
		t.Fatalf("expected no dispatch after close, got %v", q)
	}
}
