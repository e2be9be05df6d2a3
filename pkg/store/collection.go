package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tableflip.dev/labdash/pkg/record"
)

// envelope wraps a stored record with its insertion sequence so List can
// return records in the order they were first written.
type envelope struct {
	Seq    int64           `json:"seq"`
	Record json.RawMessage `json:"record"`
}

type stored[R any] struct {
	seq int64
	rec R
}

// Collection is typed access to the records of one kind.
type Collection[R any] struct {
	kind    record.Kind
	backend Backend
	key     func(R) string
	fields  func(R) []string
	assign  func(existing []R, r *R)

	// serializes read-modify-write sequences in this process
	mu sync.Mutex
}

func newCollection[R any](kind record.Kind, b Backend, key func(R) string, fields func(R) []string, assign func([]R, *R)) *Collection[R] {
	return &Collection[R]{kind: kind, backend: b, key: key, fields: fields, assign: assign}
}

func (c *Collection[R]) Kind() record.Kind { return c.kind }

func (c *Collection[R]) bucket() string { return c.kind.String() }

func (c *Collection[R]) load(ctx context.Context) ([]stored[R], error) {
	payloads, err := c.backend.All(ctx, c.bucket())
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", c.kind, err)
	}
	out := make([]stored[R], 0, len(payloads))
	for key, data := range payloads {
		s, err := decode[R](data)
		if err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", c.kind, key, err)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].seq == out[j].seq {
			return c.key(out[i].rec) < c.key(out[j].rec)
		}
		return out[i].seq < out[j].seq
	})
	return out, nil
}

// List returns every record in insertion order.
func (c *Collection[R]) List(ctx context.Context) ([]R, error) {
	all, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return records(all), nil
}

// Get returns the record stored under key.
func (c *Collection[R]) Get(ctx context.Context, key string) (R, error) {
	var zero R
	data, err := c.backend.Read(ctx, c.bucket(), key)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", c.kind, key, err)
	}
	s, err := decode[R](data)
	if err != nil {
		return zero, fmt.Errorf("%s: decode %s: %w", c.kind, key, err)
	}
	return s.rec, nil
}

// Search returns records with a searchable field containing term, ignoring
// case, in insertion order. An empty term returns everything.
func (c *Collection[R]) Search(ctx context.Context, term string) ([]R, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all, nil
	}
	out := make([]R, 0)
	for _, r := range all {
		for _, f := range c.fields(r) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

// Create stores a new record, assigning an id first for kinds that use
// numeric ids. It returns the record as stored.
func (c *Collection[R]) Create(ctx context.Context, r R) (R, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return r, err
	}
	if c.assign != nil {
		c.assign(records(all), &r)
	}
	key := c.key(r)
	if key == "" {
		return r, fmt.Errorf("%s: create: empty key", c.kind)
	}
	var next int64
	for _, s := range all {
		if c.key(s.rec) == key {
			return r, fmt.Errorf("%s %s: %w", c.kind, key, ErrExists)
		}
		if s.seq >= next {
			next = s.seq + 1
		}
	}
	return r, c.write(ctx, key, next, r)
}

// Update replaces an existing record, keeping its position.
func (c *Collection[R]) Update(ctx context.Context, r R) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(r)
	data, err := c.backend.Read(ctx, c.bucket(), key)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.kind, key, err)
	}
	prev, err := decode[R](data)
	if err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.kind, key, err)
	}
	return c.write(ctx, key, prev.seq, r)
}

// Put creates or replaces a record. Ids are assigned as in Create.
func (c *Collection[R]) Put(ctx context.Context, r R) (R, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return r, err
	}
	if c.assign != nil {
		c.assign(records(all), &r)
	}
	key := c.key(r)
	var next int64
	for _, s := range all {
		if c.key(s.rec) == key {
			return r, c.write(ctx, key, s.seq, r)
		}
		if s.seq >= next {
			next = s.seq + 1
		}
	}
	return r, c.write(ctx, key, next, r)
}

// Delete removes the record stored under key.
func (c *Collection[R]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backend.Erase(ctx, c.bucket(), key); err != nil {
		return fmt.Errorf("%s %s: %w", c.kind, key, err)
	}
	return nil
}

func (c *Collection[R]) write(ctx context.Context, key string, seq int64, r R) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", c.kind, key, err)
	}
	data, err := json.Marshal(envelope{Seq: seq, Record: body})
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", c.kind, key, err)
	}
	if err := c.backend.Write(ctx, c.bucket(), key, data); err != nil {
		return fmt.Errorf("%s: write %s: %w", c.kind, key, err)
	}
	return nil
}

// decode accepts both enveloped payloads and bare records written by hand.
func decode[R any](data []byte) (stored[R], error) {
	var s stored[R]
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Record) > 0 {
		if err := json.Unmarshal(env.Record, &s.rec); err != nil {
			return s, err
		}
		s.seq = env.Seq
		return s, nil
	}
	if err := json.Unmarshal(data, &s.rec); err != nil {
		return s, err
	}
	return s, nil
}

func records[R any](all []stored[R]) []R {
	out := make([]R, len(all))
	for i, s := range all {
		out[i] = s.rec
	}
	return out
}

// IsNotFound reports whether err means a record is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
