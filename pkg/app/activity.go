package app

import (
	"context"
	"sync"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

// ActivityLimit is how many recent retain actions are remembered.
const ActivityLimit = 10

type (
	Action   = record.Action
	Activity = record.Activity
)

const (
	ActionAdded   = record.ActionAdded
	ActionRemoved = record.ActionRemoved
)

// ActivityLog keeps the most recent actions, newest first. A log opened on a
// collection stores them there, so every process sharing the store sees the
// same history. A nil log drops everything.
type ActivityLog struct {
	mu    sync.Mutex
	items []Activity
	col   *store.Collection[record.Activity]
}

// NewActivityLog returns a log that lives only in this process.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// OpenActivityLog returns a log persisted in col.
func OpenActivityLog(col *store.Collection[record.Activity]) *ActivityLog {
	return &ActivityLog{col: col}
}

// Add records a, dropping the oldest entries past ActivityLimit.
func (l *ActivityLog) Add(ctx context.Context, a Activity) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.col == nil {
		l.items = append([]Activity{a}, l.items...)
		if len(l.items) > ActivityLimit {
			l.items = l.items[:ActivityLimit]
		}
		return nil
	}

	a.ID = 0
	if _, err := l.col.Create(ctx, a); err != nil {
		return err
	}
	all, err := l.col.List(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < len(all)-ActivityLimit; i++ {
		// Another process may have trimmed it already.
		if err := l.col.Delete(ctx, all[i].Key()); err != nil && !store.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// Recent returns a copy of the remembered actions, newest first. When the
// store cannot be read it returns the last list it did read, with the error.
func (l *ActivityLog) Recent(ctx context.Context) ([]Activity, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.col != nil {
		all, err := l.col.List(ctx)
		if err != nil {
			return append([]Activity(nil), l.items...), err
		}
		n := min(len(all), ActivityLimit)
		items := make([]Activity, 0, n)
		for i := len(all) - 1; i >= len(all)-n; i-- {
			items = append(items, all[i])
		}
		l.items = items
	}
	return append([]Activity(nil), l.items...), nil
}
