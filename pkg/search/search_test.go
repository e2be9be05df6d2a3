package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"

	"tableflip.dev/labdash/pkg/record"
)

type fakeSource struct {
	kind  record.Kind
	keys  []string
	err   error
	calls int32
}

func (f *fakeSource) Kind() record.Kind { return f.kind }

func (f *fakeSource) Search(_ context.Context, _ string) ([]Suggestion, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Suggestion, len(f.keys))
	for i, k := range f.keys {
		out[i] = Suggestion{Key: k, Kind: f.kind, Label: k, Target: Target(f.kind, k)}
	}
	return out, nil
}

func tags(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = fmt.Sprintf("%s(%s)", v.Key, v.Kind)
	}
	return out
}

func TestSearchMergesInSourceOrder(t *testing.T) {
	qc := &fakeSource{kind: record.KindQcLog, keys: []string{"A", "B"}}
	retains := &fakeSource{kind: record.KindRetain, keys: []string{"B", "C"}}
	results := &fakeSource{kind: record.KindTesting}

	a := NewAggregator(nil, nil, qc, retains, results)
	res, err := a.Search(context.Background(), "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Suggestions) != 0 {
		t.Fatalf("single character query should not search, got %v", tags(res.Suggestions))
	}
	if qc.calls != 0 {
		t.Fatalf("expected no fetch for short query")
	}

	res, err = a.Search(context.Background(), "  bb ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A(qc)", "B(qc)", "B(retains)", "C(retains)"}
	if got := tags(res.Suggestions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if res.Query != "bb" || res.Partial() {
		t.Fatalf("unexpected result metadata %+v", res)
	}
}

func TestSearchTruncatesDedupsAndCaps(t *testing.T) {
	qc := &fakeSource{kind: record.KindQcLog, keys: []string{"A", "A", "B", "C", "D", "E", "F"}}
	retains := &fakeSource{kind: record.KindRetain, keys: []string{"R1", "R2", "R3", "R4", "R5", "R6"}}
	results := &fakeSource{kind: record.KindTesting, keys: []string{"T1", "T2", "T3"}}

	res, err := NewAggregator(nil, nil, qc, retains, results).Search(context.Background(), "ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"A(qc)", "B(qc)", "C(qc)", "D(qc)",
		"R1(retains)", "R2(retains)", "R3(retains)", "R4(retains)", "R5(retains)",
		"T1(results)",
	}
	if got := tags(res.Suggestions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSearchPartialFailure(t *testing.T) {
	boom := errors.New("connection refused")
	qc := &fakeSource{kind: record.KindQcLog, keys: []string{"A"}}
	retains := &fakeSource{kind: record.KindRetain, err: boom}
	results := &fakeSource{kind: record.KindTesting, keys: []string{"A"}}

	res, err := NewAggregator(nil, nil, qc, retains, results).Search(context.Background(), "na")
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if got := tags(res.Suggestions); !reflect.DeepEqual(got, []string{"A(qc)", "A(results)"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	if !reflect.DeepEqual(res.Failed, []record.Kind{record.KindRetain}) {
		t.Fatalf("expected retains to be reported failed, got %v", res.Failed)
	}
}

func TestSearchAllSourcesFail(t *testing.T) {
	boom := errors.New("offline")
	a := NewAggregator(nil, nil,
		&fakeSource{kind: record.KindQcLog, err: boom},
		&fakeSource{kind: record.KindRetain, err: boom},
	)
	res, err := a.Search(context.Background(), "na")
	if !errors.Is(err, ErrAllSourcesFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrAllSourcesFailed wrapping cause, got %v", err)
	}
	if len(res.Suggestions) != 0 || len(res.Failed) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAggregator(nil, nil, &fakeSource{kind: record.KindQcLog}).Search(ctx, "na")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMergeNeverExceedsCap(t *testing.T) {
	var groups [][]Suggestion
	for g := 0; g < 4; g++ {
		var group []Suggestion
		for i := 0; i < 8; i++ {
			group = append(group, Suggestion{Key: fmt.Sprint(i), Kind: record.Kind(fmt.Sprint(g))})
		}
		groups = append(groups, group)
	}
	if got := len(Merge(groups...)); got != MaxResults {
		t.Fatalf("expected %d, got %d", MaxResults, got)
	}
}

func TestTypedSearchers(t *testing.T) {
	qc := QcLogs(func(_ context.Context, term string) ([]record.QcLog, error) {
		return []record.QcLog{{Batch: "NA 1/2", Code: "5074"}}, nil
	})
	got, err := qc.Search(context.Background(), "na")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Suggestion{Key: "NA 1/2", Kind: record.KindQcLog, Label: "NA 1/2 · 5074 (QC)", Target: "/qc?search=NA+1%2F2"}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	retains := Retains(func(context.Context, string) ([]record.Retain, error) {
		return []record.Retain{{ID: 7, Batch: "NA9", Box: 3}}, nil
	})
	if got, _ := retains.Search(context.Background(), "na"); got[0].Label != "NA9 · box 3 (Retain)" || got[0].Target != "/retains?search=NA9" {
		t.Fatalf("unexpected retain suggestion %+v", got[0])
	}

	results := Results(func(context.Context, string) ([]record.TestingData, error) {
		return nil, errors.New("nope")
	})
	if _, err := results.Search(context.Background(), "na"); err == nil {
		t.Fatalf("expected error from failing finder")
	}
}
