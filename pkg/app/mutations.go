package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/offset"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

// DefaultReminderDays schedules a reminder created without a date or offset.
const DefaultReminderDays = 7

// RetainInput is the quick-entry form for shelving a retain.
type RetainInput struct {
	// CodeBatch is "<product code> <batch>", as a barcode scanner types it.
	CodeBatch string
	Box       string
	// Date is the release date; today when empty.
	Date string
}

// AddRetain validates input and stores a new retain.
func (s *Service) AddRetain(ctx context.Context, in RetainInput) (record.Retain, error) {
	if err := s.ready(); err != nil {
		return record.Retain{}, err
	}
	code, batch, err := record.ParseCodeBatch(in.CodeBatch)
	if err != nil {
		return record.Retain{}, err
	}
	box, err := record.ParseBox(in.Box)
	if err != nil {
		return record.Retain{}, err
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = datelike.ISO(s.now())
	} else if _, ok := datelike.NormalizeIn(date, s.now().Location()); !ok {
		return record.Retain{}, &record.InvalidError{Field: "date", Reason: fmt.Sprintf("cannot parse %q", date)}
	}

	created, err := s.Store.Retains.Create(ctx, record.Retain{Batch: batch, Code: code, Box: box, Date: date})
	if err != nil {
		return record.Retain{}, err
	}
	s.Metrics.Mutation(record.KindRetain.String(), "create")
	s.remember(ctx, Activity{Action: ActionAdded, Code: code, Batch: batch, Box: box, At: s.now()})
	s.log().WithFields(map[string]interface{}{"batch": batch, "box": box}).Info("retain added")
	return created, nil
}

// remember logs a shelf action. The retain change itself already succeeded,
// so a failure here is only logged.
func (s *Service) remember(ctx context.Context, a Activity) {
	if err := s.Activity.Add(ctx, a); err != nil {
		s.log().WithError(err).Warn("activity not recorded")
	}
}

// RemoveRetain deletes the first retain shelved for the scanned batch.
func (s *Service) RemoveRetain(ctx context.Context, codeBatch string) (record.Retain, error) {
	if err := s.ready(); err != nil {
		return record.Retain{}, err
	}
	code, batch, err := record.ParseCodeBatch(codeBatch)
	if err != nil {
		return record.Retain{}, err
	}
	retains, err := fetch(ctx, s, s.Store.Retains)
	if err != nil {
		return record.Retain{}, err
	}
	for _, r := range retains {
		if r.Batch != batch {
			continue
		}
		if err := s.Store.Retains.Delete(ctx, r.Key()); err != nil {
			return record.Retain{}, err
		}
		s.Metrics.Mutation(record.KindRetain.String(), "delete")
		s.remember(ctx, Activity{Action: ActionRemoved, Code: code, Batch: batch, Box: r.Box, At: s.now()})
		return r, nil
	}
	return record.Retain{}, fmt.Errorf("no retain found with batch %s: %w", batch, store.ErrNotFound)
}

// DeleteRetain deletes a retain by id.
func (s *Service) DeleteRetain(ctx context.Context, id int) error {
	if err := s.ready(); err != nil {
		return err
	}
	r, err := s.Store.Retains.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return err
	}
	if err := s.Store.Retains.Delete(ctx, r.Key()); err != nil {
		return err
	}
	s.Metrics.Mutation(record.KindRetain.String(), "delete")
	s.remember(ctx, Activity{Action: ActionRemoved, Code: r.Code, Batch: r.Batch, Box: r.Box, At: s.now()})
	return nil
}

// ReminderInput describes a new reminder. A zero Schedule means
// DefaultReminderDays from today.
type ReminderInput struct {
	Batch        string
	IntervalType string
	Schedule     offset.Request
}

// AddReminder resolves the schedule and stores the reminder with its due day
// as YYYY-MM-DD. The product code comes from the batch record.
func (s *Service) AddReminder(ctx context.Context, in ReminderInput) (record.Reminder, error) {
	if err := s.ready(); err != nil {
		return record.Reminder{}, err
	}
	batch := strings.TrimSpace(in.Batch)
	if batch == "" {
		return record.Reminder{}, &record.InvalidError{Field: "batch", Reason: "batch is required"}
	}
	interval := strings.TrimSpace(in.IntervalType)
	if interval == "" {
		return record.Reminder{}, &record.InvalidError{Field: "type", Reason: "interval type is required"}
	}

	today := s.now()
	req := in.Schedule
	if req == (offset.Request{}) {
		days := DefaultReminderDays
		req.DayOffset = &days
	}
	days, err := offset.Resolve(req, today)
	if err != nil {
		return record.Reminder{}, err
	}

	codes, err := s.BatchCodes(ctx)
	if err != nil {
		return record.Reminder{}, err
	}

	created, err := s.Store.Reminders.Create(ctx, record.Reminder{
		Batch:        batch,
		Code:         codes[batch],
		IntervalType: interval,
		Due:          datelike.ISO(offset.DueDate(today, days)),
		CreatedAt:    record.FormatTime(today),
	})
	if err != nil {
		return record.Reminder{}, err
	}
	s.Metrics.Mutation(record.KindReminder.String(), "create")
	s.log().WithFields(map[string]interface{}{"reminder": created.ReminderID, "due": created.Due}).Info("reminder added")
	return created, nil
}

// CompleteReminder marks a reminder done. Completed reminders are not kept.
func (s *Service) CompleteReminder(ctx context.Context, id int) (record.Reminder, error) {
	return s.removeReminder(ctx, id, "complete")
}

// DeleteReminder discards a reminder.
func (s *Service) DeleteReminder(ctx context.Context, id int) (record.Reminder, error) {
	return s.removeReminder(ctx, id, "delete")
}

func (s *Service) removeReminder(ctx context.Context, id int, op string) (record.Reminder, error) {
	if err := s.ready(); err != nil {
		return record.Reminder{}, err
	}
	r, err := s.Store.Reminders.Get(ctx, strconv.Itoa(id))
	if err != nil {
		return record.Reminder{}, err
	}
	if err := s.Store.Reminders.Delete(ctx, r.Key()); err != nil {
		return record.Reminder{}, err
	}
	s.Metrics.Mutation(record.KindReminder.String(), op)
	s.log().WithFields(map[string]interface{}{"reminder": r.ReminderID, "op": op}).Info("reminder removed")
	return r, nil
}

// Import loads a record bundle into the store.
func (s *Service) Import(ctx context.Context, b store.Bundle) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.Store.Import(ctx, b); err != nil {
		return err
	}
	for kind, n := range b.Counts() {
		if n > 0 {
			s.Metrics.Mutation(kind.String(), "import")
		}
	}
	return nil
}
