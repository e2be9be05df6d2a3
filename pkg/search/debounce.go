package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/metrics"
)

// DefaultWindow is the idle time after the last keystroke before a search fires.
const DefaultWindow = 300 * time.Millisecond

// SearchFunc runs one search. *Aggregator.Search satisfies it.
type SearchFunc func(ctx context.Context, query string) (Result, error)

// Delivery is the answer for one dispatched query.
type Delivery struct {
	Generation uint64
	Result     Result
	Err        error
}

// Debouncer turns a stream of keystroke queries into searches. Only the last
// query of a burst is dispatched, a query equal to the previous dispatch is
// dropped, and answers for superseded generations are discarded.
type Debouncer struct {
	search  SearchFunc
	window  time.Duration
	deliver func(Delivery)
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu         sync.Mutex
	timer      *time.Timer
	inputs     uint64
	generation uint64
	dispatched string
	hasSent    bool
	cancel     context.CancelFunc
	closed     bool

	// serializes deliver calls
	deliverMu sync.Mutex
	running   sync.WaitGroup
}

// NewDebouncer calls deliver with the result of each surviving search.
// deliver is never called concurrently with itself.
func NewDebouncer(search SearchFunc, window time.Duration, deliver func(Delivery), log logrus.FieldLogger, m *metrics.Metrics) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Debouncer{search: search, window: window, deliver: deliver, log: log, metrics: m}
}

// Input records a new query and restarts the debounce window.
func (d *Debouncer) Input(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.inputs++
	seq := d.inputs
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq, query) })
}

func (d *Debouncer) fire(seq uint64, query string) {
	d.mu.Lock()
	// A newer Input raced with this timer.
	if d.closed || seq != d.inputs {
		d.mu.Unlock()
		return
	}
	if d.hasSent && query == d.dispatched {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.metrics.Superseded()
	}
	d.generation++
	gen := d.generation
	d.dispatched = query
	d.hasSent = true
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.running.Add(1)
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{"query": query, "generation": gen}).Debug("dispatching search")
	go d.run(ctx, cancel, gen, query)
}

func (d *Debouncer) run(ctx context.Context, cancel context.CancelFunc, gen uint64, query string) {
	defer d.running.Done()
	defer cancel()
	res, err := d.search(ctx, query)

	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	if !d.settle(gen) {
		d.log.WithFields(logrus.Fields{"query": query, "generation": gen}).Debug("discarding superseded search")
		return
	}
	d.deliver(Delivery{Generation: gen, Result: res, Err: err})
}

// settle reports whether gen is still the latest generation and, if so,
// marks it as no longer in flight.
func (d *Debouncer) settle(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.generation {
		return false
	}
	d.cancel = nil
	return true
}

// Generation returns the generation of the latest dispatched query.
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Close stops pending timers, cancels the in-flight search and waits for it
// to return. No delivery happens after Close returns. It must not be called
// from the deliver callback.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}
