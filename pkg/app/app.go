package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/metrics"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/search"
	"tableflip.dev/labdash/pkg/store"
	"tableflip.dev/labdash/pkg/view"
)

// Service provides high-level operations over lab records.
// It wraps persistence and record validation so the CLI and the MCP server
// share logic.
type Service struct {
	Store   *store.Store
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
	// Clock overrides time.Now, for tests.
	Clock func() time.Time

	Activity *ActivityLog
}

var (
	ErrNoStore = errors.New("app: no persistence configured")
	// ErrFetch is matched by every FetchError.
	ErrFetch = errors.New("app: fetch failed")
)

// FetchError reports a failed list fetch for one record kind.
type FetchError struct {
	Kind record.Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("app: load %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Now is the service clock.
func (s *Service) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) now() time.Time { return s.Now() }

func (s *Service) log() logrus.FieldLogger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}

func (s *Service) ready() error {
	if s == nil || s.Store == nil {
		return ErrNoStore
	}
	return nil
}

func fetch[R any](ctx context.Context, s *Service, c *store.Collection[R]) ([]R, error) {
	out, err := c.List(ctx)
	s.Metrics.Fetch(c.Kind().String(), err)
	if err != nil {
		s.log().WithField("entity", c.Kind()).WithError(err).Warn("fetch failed")
		return nil, &FetchError{Kind: c.Kind(), Err: err}
	}
	return out, nil
}

func (s *Service) Products(ctx context.Context) ([]record.Product, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.Products)
}

func (s *Service) Batches(ctx context.Context) ([]record.MonthlyBatch, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.Batches)
}

func (s *Service) Results(ctx context.Context) ([]record.TestingData, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.Results)
}

func (s *Service) QcLogs(ctx context.Context) ([]record.QcLog, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.QcLogs)
}

func (s *Service) Retains(ctx context.Context) ([]record.Retain, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.Retains)
}

func (s *Service) Reminders(ctx context.Context) ([]record.Reminder, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return fetch(ctx, s, s.Store.Reminders)
}

// Catalog loads the product catalog. A failed load yields an empty catalog,
// so every code renders as unknown rather than failing the caller.
func (s *Service) Catalog(ctx context.Context) view.Catalog {
	products, err := s.Products(ctx)
	if err != nil {
		return view.Catalog{}
	}
	return view.NewCatalog(products)
}

// BatchCodes maps batch numbers to product codes.
func (s *Service) BatchCodes(ctx context.Context) (map[string]int, error) {
	batches, err := s.Batches(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]int, len(batches))
	for _, b := range batches {
		codes[b.Batch] = b.Code
	}
	return codes, nil
}

// Searcher returns an aggregator over QC logs, retains and results, merged in
// that order.
func (s *Service) Searcher() (*search.Aggregator, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return search.NewAggregator(s.log(), s.Metrics,
		search.QcLogs(s.Store.QcLogs.Search),
		search.Retains(s.Store.Retains.Search),
		search.Results(s.Store.Results.Search),
	), nil
}

// Search is a one-shot cross-kind search.
func (s *Service) Search(ctx context.Context, query string) (search.Result, error) {
	agg, err := s.Searcher()
	if err != nil {
		return search.Result{}, err
	}
	return agg.Search(ctx, query)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Store.Watch(ctx)
}
