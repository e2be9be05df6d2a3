// Package record holds the lab record shapes returned by the data-access layer.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind names an entity collection. The value doubles as the storage bucket and
// the dashboard route.
type Kind string

const (
	KindProduct  Kind = "products"
	KindBatch    Kind = "batches"
	KindTesting  Kind = "results"
	KindQcLog    Kind = "qc"
	KindRetain   Kind = "retains"
	KindReminder Kind = "reminders"
	// KindActivity holds recent retain shelf actions. It is not a screen and
	// is left out of Kinds.
	KindActivity Kind = "activity"
)

// Kinds lists every entity kind.
func Kinds() []Kind {
	return []Kind{KindProduct, KindBatch, KindTesting, KindQcLog, KindRetain, KindReminder}
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a kind from its name or a common alias.
func ParseKind(v string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "products", "product":
		return KindProduct, nil
	case "batches", "batch":
		return KindBatch, nil
	case "results", "result", "testing":
		return KindTesting, nil
	case "qc", "qclogs", "qc-logs":
		return KindQcLog, nil
	case "retains", "retain":
		return KindRetain, nil
	case "reminders", "reminder":
		return KindReminder, nil
	case "activity":
		return KindActivity, nil
	}
	return "", fmt.Errorf("unknown record kind %q", v)
}

type Product struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Key returns the product code.
func (p Product) Key() string { return strconv.Itoa(p.Code) }

type MonthlyBatch struct {
	Batch     string  `json:"batch"`
	Code      int     `json:"code"`
	DateStart string  `json:"dateStart"`
	DateEnd   string  `json:"dateEnd"`
	Lbs       float64 `json:"lbs"`
	Released  string  `json:"released"`
	Type      string  `json:"type"`
}

func (b MonthlyBatch) Key() string { return b.Batch }

type QcLog struct {
	Batch      string `json:"batch"`
	Code       string `json:"code"`
	Suffix     string `json:"suffix"`
	Pen60x     string `json:"pen60x"`
	DropPoint  string `json:"dropPoint"`
	Date       string `json:"date"`
	ReleasedBy string `json:"releasedBy"`
}

func (q QcLog) Key() string { return q.Batch }

type Retain struct {
	ID    int    `json:"id"`
	Batch string `json:"batch"`
	Code  int    `json:"code"`
	Date  string `json:"date"`
	Box   int    `json:"box"`
}

func (r Retain) Key() string { return strconv.Itoa(r.ID) }

// Reminder is a scheduled inspection. Due is a date-like string. Code is the
// batch's product code, 0 when the batch was not on record.
type Reminder struct {
	ID           int    `json:"id"`
	ReminderID   string `json:"reminderId"`
	Batch        string `json:"batch"`
	Code         int    `json:"code"`
	IntervalType string `json:"intervalType"`
	Due          string `json:"due"`
	Notified     bool   `json:"notified"`
	CreatedAt    string `json:"createdAt"`
}

func (r Reminder) Key() string { return strconv.Itoa(r.ID) }

type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Activity is one retain shelf action.
type Activity struct {
	ID     int       `json:"id"`
	Action Action    `json:"action"`
	Code   int       `json:"code"`
	Batch  string    `json:"batch"`
	Box    int       `json:"box"`
	At     time.Time `json:"time"`
}

func (a Activity) Key() string { return strconv.Itoa(a.ID) }

// ReminderIDFor derives the display identifier for a numeric reminder id.
func ReminderIDFor(id int) string {
	return fmt.Sprintf("RM-%04d", id)
}

// FormatTime renders t the way createdAt stamps are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
