package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/bilingual/internal/doctree"
)

func echo(_ context.Context, u doctree.Unit) (string, error) {
	return u.Text, nil
}

func staleUnits(texts ...string) []doctree.Unit {
	prev := make([]doctree.Unit, len(texts))
	return Reconcile(prev, texts)
}

type recorder struct {
	mu       sync.Mutex
	started  int
	progress []float64
	finished int
}

func (r *recorder) BatchStarted(indices []int, units []doctree.Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	for _, i := range indices {
		if units[i].Status != doctree.StatusTranslating {
			panic(fmt.Sprintf("unit %d not marked translating at start", i))
		}
	}
}

func (r *recorder) UnitDone(index int, before, after doctree.Unit, p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p.Fraction())
}

func (r *recorder) BatchFinished(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
}

func TestSynchronize_EchoMarksFresh(t *testing.T) {
	units := staleUnits("Hello world.", "Nice day!")
	res := Synchronize(context.Background(), units, echo, SyncOptions{})
	if res.Total != 2 || res.Succeeded != 2 || res.Failed != 0 {
		t.Fatalf("expected 2/2 succeeded, got %+v", res)
	}
	for i, u := range res.Units {
		if u.Status != doctree.StatusFresh {
			t.Errorf("unit %d: expected fresh, got %q", i, u.Status)
		}
		if u.Translation != u.Text {
			t.Errorf("unit %d: expected translation %q, got %q", i, u.Text, u.Translation)
		}
	}
	if units[0].Status != doctree.StatusStale {
		t.Error("expected input slice to be left untouched")
	}
}

func TestSynchronize_FailureIsolation(t *testing.T) {
	units := staleUnits("a", "b", "c", "d")
	fail := func(_ context.Context, u doctree.Unit) (string, error) {
		if u.Text == "c" {
			return "", errors.New("upstream 502")
		}
		return "T:" + u.Text, nil
	}
	res := Synchronize(context.Background(), units, fail, SyncOptions{})
	if res.Failed != 1 || res.Succeeded != 3 {
		t.Fatalf("expected 3 succeeded and 1 failed, got %+v", res)
	}
	for i, u := range res.Units {
		if i == 2 {
			if u.Status != doctree.StatusError || u.ErrorMsg == "" {
				t.Errorf("expected failed unit in error with message, got %+v", u)
			}
			continue
		}
		if u.Status != doctree.StatusFresh || u.Translation != "T:"+u.Text {
			t.Errorf("unit %d: expected fresh translation, got %+v", i, u)
		}
	}
}

func TestSynchronize_FailureKeepsPriorTranslation(t *testing.T) {
	units := []doctree.Unit{{ID: "1", Text: "x", Translation: "old", Status: doctree.StatusStale}}
	res := Synchronize(context.Background(), units, func(context.Context, doctree.Unit) (string, error) {
		return "", errors.New("down")
	}, SyncOptions{})
	if res.Units[0].Translation != "old" {
		t.Errorf("expected prior translation kept, got %q", res.Units[0].Translation)
	}
	if res.Units[0].ErrorMsg != "down" {
		t.Errorf("expected error message %q, got %q", "down", res.Units[0].ErrorMsg)
	}
}

func TestSynchronize_ProgressMonotonic(t *testing.T) {
	units := staleUnits("1", "2", "3", "4", "5", "6", "7")
	rec := &recorder{}
	jitter := func(_ context.Context, u doctree.Unit) (string, error) {
		time.Sleep(time.Duration(len(u.ID)%3) * time.Millisecond)
		return u.Text, nil
	}
	Synchronize(context.Background(), units, jitter, SyncOptions{Observer: rec})

	if rec.started != 1 || rec.finished != 1 {
		t.Fatalf("expected one start and one finish, got %d and %d", rec.started, rec.finished)
	}
	if len(rec.progress) != len(units) {
		t.Fatalf("expected %d progress events, got %d", len(units), len(rec.progress))
	}
	for i := 1; i < len(rec.progress); i++ {
		if rec.progress[i] < rec.progress[i-1] {
			t.Errorf("progress decreased at %d: %v", i, rec.progress)
		}
	}
	if last := rec.progress[len(rec.progress)-1]; last != 1 {
		t.Errorf("expected final progress 1, got %v", last)
	}
}

func TestSynchronize_ConcurrencyBound(t *testing.T) {
	units := staleUnits("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	var inFlight, peak atomic.Int32
	slow := func(_ context.Context, u doctree.Unit) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return u.Text, nil
	}
	res := Synchronize(context.Background(), units, slow, SyncOptions{})
	if res.Succeeded != len(units) {
		t.Fatalf("expected all units translated, got %d", res.Succeeded)
	}
	if p := peak.Load(); p > DefaultConcurrency {
		t.Errorf("expected at most %d concurrent calls, got %d", DefaultConcurrency, p)
	}

	var calls atomic.Int32
	Synchronize(context.Background(), staleUnits("only"), func(_ context.Context, u doctree.Unit) (string, error) {
		calls.Add(1)
		return u.Text, nil
	}, SyncOptions{Concurrency: 8})
	if calls.Load() != 1 {
		t.Errorf("expected exactly one call, got %d", calls.Load())
	}
}

func TestSynchronize_NoCandidatesIsNoop(t *testing.T) {
	units := []doctree.Unit{
		{ID: "1", Text: "done", Translation: "fait", Status: doctree.StatusFresh},
		{ID: "2", Text: "locked", Status: doctree.StatusStale, Locked: true},
	}
	rec := &recorder{}
	res := Synchronize(context.Background(), units, func(context.Context, doctree.Unit) (string, error) {
		t.Error("translate should not be called")
		return "", nil
	}, SyncOptions{Observer: rec})
	if res.Total != 0 {
		t.Errorf("expected empty batch, got total %d", res.Total)
	}
	if rec.started != 0 || rec.finished != 0 || len(rec.progress) != 0 {
		t.Error("expected no observer events for an empty batch")
	}
}

func TestSynchronize_PanicBecomesUnitError(t *testing.T) {
	units := staleUnits("ok", "bad")
	res := Synchronize(context.Background(), units, func(_ context.Context, u doctree.Unit) (string, error) {
		if u.Text == "bad" {
			panic("nil map")
		}
		return u.Text, nil
	}, SyncOptions{})
	if res.Units[0].Status != doctree.StatusFresh {
		t.Errorf("expected sibling unit fresh, got %q", res.Units[0].Status)
	}
	if res.Units[1].Status != doctree.StatusError {
		t.Errorf("expected panicking unit in error, got %q", res.Units[1].Status)
	}
}

func TestSynchronize_FailedUnitEligibleAgain(t *testing.T) {
	units := staleUnits("flaky")
	first := Synchronize(context.Background(), units, func(context.Context, doctree.Unit) (string, error) {
		return "", errors.New("timeout")
	}, SyncOptions{})
	if got := Candidates(first.Units); len(got) != 1 {
		t.Fatalf("expected failed unit to be a candidate, got %v", got)
	}
	second := Synchronize(context.Background(), first.Units, echo, SyncOptions{})
	if second.Units[0].Status != doctree.StatusFresh || second.Units[0].ErrorMsg != "" {
		t.Errorf("expected recovered unit fresh without error, got %+v", second.Units[0])
	}
}

func TestCandidates(t *testing.T) {
	units := []doctree.Unit{
		{Status: doctree.StatusIdle},
		{Status: doctree.StatusStale},
		{Status: doctree.StatusError},
		{Status: doctree.StatusFresh, Translation: "x"},
		{Status: doctree.StatusTranslating},
		{Status: doctree.StatusStale, Locked: true},
		{Status: doctree.StatusFresh},
	}
	got := Candidates(units)
	want := []int{0, 1, 2, 6}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestProgressFraction(t *testing.T) {
	if f := (Progress{Completed: 1, Total: 4}).Fraction(); f != 0.25 {
		t.Errorf("expected 0.25, got %v", f)
	}
	if f := (Progress{}).Fraction(); f != 1 {
		t.Errorf("expected empty batch to count as done, got %v", f)
	}
}
