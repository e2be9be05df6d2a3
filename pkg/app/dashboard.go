package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/store"
	"tableflip.dev/labdash/pkg/view"
)

// Snapshot is one consistent picture of every screen. Snapshots are never
// mutated after they are published.
type Snapshot struct {
	QC        view.QcState
	Retains   view.RetainState
	Results   view.ResultState
	Batches   view.BatchState
	Reminders view.ReminderState
	Catalog   view.Catalog
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		QC:        view.NewQcState(),
		Retains:   view.NewRetainState(),
		Results:   view.NewResultState(),
		Batches:   view.NewBatchState(),
		Reminders: view.NewReminderState(),
		Catalog:   view.Catalog{},
	}
}

// Dashboard holds the current snapshot. Readers call Snapshot without
// locking; writers serialize on mu and publish a modified copy.
type Dashboard struct {
	svc  *Service
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]

	// Reloads are numbered as they start. applied is the newest reload
	// published per kind, guarded by mu.
	seq     atomic.Uint64
	applied map[record.Kind]uint64
}

func NewDashboard(svc *Service) *Dashboard {
	d := &Dashboard{svc: svc, applied: map[record.Kind]uint64{}}
	d.snap.Store(emptySnapshot())
	return d
}

// Snapshot returns the latest published snapshot.
func (d *Dashboard) Snapshot() *Snapshot {
	return d.snap.Load()
}

func (d *Dashboard) update(fn func(next *Snapshot)) *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := *d.snap.Load()
	fn(&next)
	d.snap.Store(&next)
	return &next
}

type loaded struct {
	qc        []record.QcLog
	retains   []record.Retain
	results   []record.TestingData
	batches   []record.MonthlyBatch
	reminders []record.Reminder
	products  []record.Product
	errs      map[record.Kind]error
}

// Reload fetches the given kinds, or every kind when none are given, and
// publishes the result. A kind that fails to load keeps its last good records
// and carries the error until its next successful load. A kind already
// published by a reload that started later is left alone. The returned error
// joins every per-kind FetchError.
func (d *Dashboard) Reload(ctx context.Context, kinds ...record.Kind) error {
	ticket := d.seq.Add(1)
	if len(kinds) == 0 {
		kinds = record.Kinds()
	}
	want := make(map[record.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var (
		got loaded
		mu  sync.Mutex
		g   errgroup.Group
	)
	got.errs = map[record.Kind]error{}
	load := func(kind record.Kind, fn func() error) {
		if !want[kind] {
			return
		}
		g.Go(func() error {
			if err := fn(); err != nil {
				mu.Lock()
				got.errs[kind] = err
				mu.Unlock()
			}
			return nil
		})
	}
	svc := d.svc
	load(record.KindQcLog, func() (err error) { got.qc, err = svc.QcLogs(ctx); return })
	load(record.KindRetain, func() (err error) { got.retains, err = svc.Retains(ctx); return })
	load(record.KindTesting, func() (err error) { got.results, err = svc.Results(ctx); return })
	load(record.KindBatch, func() (err error) { got.batches, err = svc.Batches(ctx); return })
	load(record.KindReminder, func() (err error) { got.reminders, err = svc.Reminders(ctx); return })
	load(record.KindProduct, func() (err error) { got.products, err = svc.Products(ctx); return })
	_ = g.Wait()

	at := svc.now()
	snap := d.update(func(next *Snapshot) {
		apply := func(kind record.Kind, ok func(), fail func(error)) {
			if !want[kind] || d.applied[kind] > ticket {
				return
			}
			d.applied[kind] = ticket
			if err, failed := got.errs[kind]; failed {
				fail(err)
				return
			}
			ok()
		}
		apply(record.KindQcLog,
			func() { next.QC = next.QC.WithRaw(got.qc, at) },
			func(err error) { next.QC = next.QC.WithError(err) })
		apply(record.KindRetain,
			func() { next.Retains = next.Retains.WithRaw(got.retains, at) },
			func(err error) { next.Retains = next.Retains.WithError(err) })
		apply(record.KindTesting,
			func() { next.Results = next.Results.WithRaw(got.results, at) },
			func(err error) { next.Results = next.Results.WithError(err) })
		apply(record.KindBatch,
			func() { next.Batches = next.Batches.WithRaw(got.batches, at) },
			func(err error) { next.Batches = next.Batches.WithError(err) })
		apply(record.KindReminder,
			func() { next.Reminders = next.Reminders.WithRaw(got.reminders, at) },
			func(err error) { next.Reminders = next.Reminders.WithError(err) })
		apply(record.KindProduct,
			func() { next.Catalog = view.NewCatalog(got.products) },
			func(error) {})
	})
	if want[record.KindReminder] {
		d.recordReminders(snap, at)
	}

	var errs []error
	for _, k := range kinds {
		if err, ok := got.errs[k]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dashboard) recordReminders(snap *Snapshot, now time.Time) {
	if d.svc.Metrics == nil {
		return
	}
	counts := map[status.Status]int{}
	for _, c := range view.Classify(snap.Reminders.Raw(), now) {
		if c.Scheduled {
			counts[c.Status]++
		}
	}
	for _, st := range status.All() {
		d.svc.Metrics.Reminders(st.String(), counts[st])
	}
}

// SetSearch sets the search term of one screen.
func (d *Dashboard) SetSearch(kind record.Kind, term string) error {
	var err error
	d.update(func(next *Snapshot) {
		switch kind {
		case record.KindQcLog:
			next.QC = next.QC.WithSearch(term)
		case record.KindRetain:
			next.Retains = next.Retains.WithSearch(term)
		case record.KindTesting:
			next.Results = next.Results.WithSearch(term)
		case record.KindBatch:
			next.Batches = next.Batches.WithSearch(term)
		case record.KindReminder:
			next.Reminders = next.Reminders.WithSearch(term)
		default:
			err = fmt.Errorf("no %s screen to search", kind)
		}
	})
	return err
}

func (d *Dashboard) SetQcFilter(f view.QcFilter) {
	d.update(func(next *Snapshot) { next.QC = next.QC.WithFilters(f) })
}

func (d *Dashboard) SetRetainFilter(f view.RetainFilter) {
	d.update(func(next *Snapshot) { next.Retains = next.Retains.WithFilters(f) })
}

func (d *Dashboard) SetBatchFilter(f view.BatchFilter) {
	d.update(func(next *Snapshot) { next.Batches = next.Batches.WithFilters(f) })
}

func (d *Dashboard) SetReminderFilter(f view.ReminderFilter) {
	d.update(func(next *Snapshot) { next.Reminders = next.Reminders.WithFilters(f) })
}

// Run loads everything, then keeps the snapshot fresh until ctx is done.
// Reminders are polled every interval; storage change events reload the kind
// that changed. Backends that cannot watch fall back to polling alone.
// changed is called after every reload.
func (d *Dashboard) Run(ctx context.Context, interval time.Duration, changed func(*Snapshot)) error {
	if interval <= 0 {
		interval = store.DefaultRefreshInterval
	}
	notify := func(err error) {
		if err != nil {
			d.svc.log().WithError(err).Warn("refresh incomplete")
		}
		if changed != nil {
			changed(d.Snapshot())
		}
	}
	notify(d.Reload(ctx))

	events, err := d.svc.Watch(ctx)
	switch {
	case errors.Is(err, store.ErrWatchUnsupported):
		d.svc.log().Debug("storage cannot be watched, polling only")
		events = nil
	case err != nil:
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			notify(d.Reload(ctx, record.KindReminder))
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			d.svc.log().WithFields(ev.Fields()).Debug("storage changed")
			if ev.Type == store.EventInvalidated || ev.Kind == "" {
				notify(d.Reload(ctx))
				continue
			}
			notify(d.Reload(ctx, ev.Kind))
		}
	}
}
