// Package search looks a query up across several record kinds at once and
// merges the hits into a short suggestion list.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/metrics"
	"tableflip.dev/labdash/pkg/record"
)

const (
	// MinQueryLength is the shortest trimmed query that triggers a fetch.
	MinQueryLength = 2
	// PerSourceLimit bounds how many hits each source contributes.
	PerSourceLimit = 5
	// MaxResults caps the merged list.
	MaxResults = 10
)

// ErrAllSourcesFailed is returned when no source produced an answer.
var ErrAllSourcesFailed = errors.New("every search source failed")

// Suggestion is one navigable search hit.
type Suggestion struct {
	Key    string      `json:"key"`
	Kind   record.Kind `json:"kind"`
	Label  string      `json:"label"`
	Target string      `json:"target"`
}

// Result is a merged search answer. Failed lists the kinds whose sub-search
// errored; their hits are missing from Suggestions.
type Result struct {
	Query       string        `json:"query"`
	Suggestions []Suggestion  `json:"suggestions"`
	Failed      []record.Kind `json:"failed,omitempty"`
}

// Partial reports whether some sources failed.
func (r Result) Partial() bool { return len(r.Failed) > 0 }

// Source answers a search for one record kind.
type Source interface {
	Kind() record.Kind
	Search(ctx context.Context, term string) ([]Suggestion, error)
}

// Aggregator fans a query out to its sources and merges the answers in
// source order.
type Aggregator struct {
	sources []Source
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewAggregator returns an aggregator over sources, merged in the given order.
// log and m may be nil.
func NewAggregator(log logrus.FieldLogger, m *metrics.Metrics, sources ...Source) *Aggregator {
	if log == nil {
		log = logging.Discard()
	}
	return &Aggregator{sources: sources, log: log, metrics: m}
}

// Search runs every source concurrently and waits for all of them. A failed
// source does not stop the others; an error is returned only when all fail or
// ctx is cancelled.
func (a *Aggregator) Search(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	res := Result{Query: q}
	if len([]rune(q)) < MinQueryLength || len(a.sources) == 0 {
		return res, nil
	}

	groups := make([][]Suggestion, len(a.sources))
	errs := make([]error, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			hits, err := src.Search(ctx, q)
			if err != nil {
				errs[i] = fmt.Errorf("search %s: %w", src.Kind(), err)
				return nil
			}
			if len(hits) > PerSourceLimit {
				hits = hits[:PerSourceLimit]
			}
			groups[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	var failures []error
	for i, err := range errs {
		if err == nil {
			continue
		}
		kind := a.sources[i].Kind()
		res.Failed = append(res.Failed, kind)
		failures = append(failures, err)
		a.metrics.SourceFailure(kind.String())
		a.log.WithFields(logrus.Fields{"kind": kind, "query": q}).WithError(err).Warn("search source failed")
	}
	res.Suggestions = Merge(groups...)

	if len(failures) == len(a.sources) {
		err := fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
		a.metrics.Search(err)
		return Result{Query: q, Failed: res.Failed}, err
	}
	a.metrics.Search(nil)
	return res, nil
}

// Merge concatenates groups in order, drops repeated (key, kind) pairs keeping
// the first, and caps the result at MaxResults.
func Merge(groups ...[]Suggestion) []Suggestion {
	type dedupKey struct {
		key  string
		kind record.Kind
	}
	seen := make(map[dedupKey]bool)
	out := make([]Suggestion, 0, MaxResults)
	for _, group := range groups {
		for _, s := range group {
			k := dedupKey{s.Key, s.Kind}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, s)
			if len(out) == MaxResults {
				return out
			}
		}
	}
	return out
}

// FindFunc fetches records matching term.
type FindFunc[R any] func(ctx context.Context, term string) ([]R, error)

// Searcher adapts a record finder to a Source.
type Searcher[R any] struct {
	kind  record.Kind
	find  FindFunc[R]
	key   func(R) string
	label func(R) string
}

// NewSearcher builds a Source for kind. key gives the value used for dedup
// and the navigation target; label renders the suggestion text.
func NewSearcher[R any](kind record.Kind, find FindFunc[R], key, label func(R) string) *Searcher[R] {
	return &Searcher[R]{kind: kind, find: find, key: key, label: label}
}

func (s *Searcher[R]) Kind() record.Kind { return s.kind }

func (s *Searcher[R]) Search(ctx context.Context, term string) ([]Suggestion, error) {
	recs, err := s.find(ctx, term)
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, len(recs))
	for _, r := range recs {
		key := s.key(r)
		out = append(out, Suggestion{
			Key:    key,
			Kind:   s.kind,
			Label:  s.label(r),
			Target: Target(s.kind, key),
		})
	}
	return out, nil
}

// Target is the dashboard route that opens kind filtered to key.
func Target(kind record.Kind, key string) string {
	return "/" + kind.String() + "?search=" + url.QueryEscape(key)
}

// QcLogs searches QC releases by batch.
func QcLogs(find FindFunc[record.QcLog]) *Searcher[record.QcLog] {
	return NewSearcher(record.KindQcLog, find,
		func(l record.QcLog) string { return l.Batch },
		func(l record.QcLog) string { return fmt.Sprintf("%s · %s (QC)", l.Batch, l.Code) })
}

// Retains searches the retain shelf by batch.
func Retains(find FindFunc[record.Retain]) *Searcher[record.Retain] {
	return NewSearcher(record.KindRetain, find,
		func(r record.Retain) string { return r.Batch },
		func(r record.Retain) string { return fmt.Sprintf("%s · box %d (Retain)", r.Batch, r.Box) })
}

// Results searches lab result sheets by batch.
func Results(find FindFunc[record.TestingData]) *Searcher[record.TestingData] {
	return NewSearcher(record.KindTesting, find,
		func(t record.TestingData) string { return t.Batch },
		func(t record.TestingData) string { return fmt.Sprintf("%s · %s (Results)", t.Batch, t.Code) })
}
