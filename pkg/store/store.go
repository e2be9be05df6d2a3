// Package store persists lab records. Records of each kind live in their own
// bucket of a Backend; Collection gives typed access to one bucket.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/record"
)

var (
	// ErrNotFound is returned when a key has no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrExists is returned when creating a record whose key is taken.
	ErrExists = errors.New("store: record already exists")
	// ErrWatchUnsupported is returned by Watch for backends that cannot
	// report changes.
	ErrWatchUnsupported = errors.New("store: backend does not support watching")
)

// Backend stores opaque payloads by bucket and key.
type Backend interface {
	// All returns every payload in bucket keyed by record key.
	All(ctx context.Context, bucket string) (map[string][]byte, error)
	Read(ctx context.Context, bucket, key string) ([]byte, error)
	Write(ctx context.Context, bucket, key string, data []byte) error
	Erase(ctx context.Context, bucket, key string) error
	Close() error
}

// Watcher is implemented by backends that can stream change events.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Driver names a Backend implementation.
type Driver string

const (
	DriverDiskv    Driver = "diskv"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// Store is the set of record collections sharing one backend.
type Store struct {
	backend Backend

	Products  *Collection[record.Product]
	Batches   *Collection[record.MonthlyBatch]
	Results   *Collection[record.TestingData]
	QcLogs    *Collection[record.QcLog]
	Retains   *Collection[record.Retain]
	Reminders *Collection[record.Reminder]
	Activity  *Collection[record.Activity]
}

// New wires the record collections onto b.
func New(b Backend) *Store {
	s := &Store{backend: b}
	s.Products = newCollection(record.KindProduct, b, record.Product.Key,
		func(p record.Product) []string { return []string{strconv.Itoa(p.Code), p.Name} }, nil)
	s.Batches = newCollection(record.KindBatch, b, record.MonthlyBatch.Key,
		func(m record.MonthlyBatch) []string { return []string{m.Batch, strconv.Itoa(m.Code), m.Type} }, nil)
	s.Results = newCollection(record.KindTesting, b, record.TestingData.Key,
		func(t record.TestingData) []string { return []string{t.Batch, t.Code} }, nil)
	s.QcLogs = newCollection(record.KindQcLog, b, record.QcLog.Key,
		func(q record.QcLog) []string { return []string{q.Batch, q.Code} }, nil)
	s.Retains = newCollection(record.KindRetain, b, record.Retain.Key,
		func(r record.Retain) []string { return []string{r.Batch, strconv.Itoa(r.Code)} }, assignRetainID)
	s.Reminders = newCollection(record.KindReminder, b, record.Reminder.Key,
		func(r record.Reminder) []string { return []string{r.Batch, r.IntervalType, r.ReminderID} }, assignReminderID)
	s.Activity = newCollection(record.KindActivity, b, record.Activity.Key,
		func(a record.Activity) []string { return []string{a.Batch, strconv.Itoa(a.Code)} }, assignActivityID)
	return s
}

func assignRetainID(existing []record.Retain, r *record.Retain) {
	if r.ID != 0 {
		return
	}
	highest := 0
	for _, e := range existing {
		if e.ID > highest {
			highest = e.ID
		}
	}
	r.ID = highest + 1
}

func assignActivityID(existing []record.Activity, a *record.Activity) {
	if a.ID != 0 {
		return
	}
	for _, e := range existing {
		if e.ID > a.ID {
			a.ID = e.ID
		}
	}
	a.ID++
}

func assignReminderID(existing []record.Reminder, r *record.Reminder) {
	if r.ID == 0 {
		highest := 0
		for _, e := range existing {
			if e.ID > highest {
				highest = e.ID
			}
		}
		r.ID = highest + 1
	}
	if r.ReminderID == "" {
		r.ReminderID = record.ReminderIDFor(r.ID)
	}
}

// Open selects and opens a backend from cfg. A nil cfg loads the config from
// the environment. log may be nil.
func Open(cfg Config, log logrus.FieldLogger) (*Store, error) {
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logging.Discard()
	}
	var (
		b   Backend
		err error
	)
	switch Driver(cfg.Driver()) {
	case DriverDiskv, "":
		b, err = NewDiskv(cfg.BasePath(), log)
	case DriverSQLite:
		b, err = NewSQLite(cfg.SQLitePath())
	case DriverPostgres:
		b, err = NewPostgres(cfg.PostgresDSN())
	case DriverMemory:
		b = NewMemory()
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver())
	}
	if err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.Driver()).Debug("store opened")
	return New(b), nil
}

// Watch streams change events when the backend supports it.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}
