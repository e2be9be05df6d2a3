package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"tableflip.dev/labdash/pkg/record"
)

// Bundle is a portable dump of every record kind, used to seed or back up a
// store.
type Bundle struct {
	Products  []record.Product      `json:"products,omitempty"`
	Batches   []record.MonthlyBatch `json:"batches,omitempty"`
	Results   []record.TestingData  `json:"results,omitempty"`
	QcLogs    []record.QcLog        `json:"qc,omitempty"`
	Retains   []record.Retain       `json:"retains,omitempty"`
	Reminders []record.Reminder     `json:"reminders,omitempty"`
}

// ReadBundle decodes a JSON bundle.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return b, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}

// Counts reports how many records of each kind the bundle holds.
func (b Bundle) Counts() map[record.Kind]int {
	return map[record.Kind]int{
		record.KindProduct:  len(b.Products),
		record.KindBatch:    len(b.Batches),
		record.KindTesting:  len(b.Results),
		record.KindQcLog:    len(b.QcLogs),
		record.KindRetain:   len(b.Retains),
		record.KindReminder: len(b.Reminders),
	}
}

// Import upserts every record in b. Records keep their keys; retains and
// reminders without an id get the next free one.
func (s *Store) Import(ctx context.Context, b Bundle) error {
	if err := putAll(ctx, s.Products, b.Products); err != nil {
		return err
	}
	if err := putAll(ctx, s.Batches, b.Batches); err != nil {
		return err
	}
	if err := putAll(ctx, s.Results, b.Results); err != nil {
		return err
	}
	if err := putAll(ctx, s.QcLogs, b.QcLogs); err != nil {
		return err
	}
	if err := putAll(ctx, s.Retains, b.Retains); err != nil {
		return err
	}
	return putAll(ctx, s.Reminders, b.Reminders)
}

func putAll[R any](ctx context.Context, c *Collection[R], recs []R) error {
	for _, r := range recs {
		if _, err := c.Put(ctx, r); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return nil
}

// Export reads every record into a bundle.
func (s *Store) Export(ctx context.Context) (Bundle, error) {
	var (
		b   Bundle
		err error
	)
	if b.Products, err = s.Products.List(ctx); err != nil {
		return b, err
	}
	if b.Batches, err = s.Batches.List(ctx); err != nil {
		return b, err
	}
	if b.Results, err = s.Results.List(ctx); err != nil {
		return b, err
	}
	if b.QcLogs, err = s.QcLogs.List(ctx); err != nil {
		return b, err
	}
	if b.Retains, err = s.Retains.List(ctx); err != nil {
		return b, err
	}
	b.Reminders, err = s.Reminders.List(ctx)
	return b, err
}
