package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/bilingual/internal/doctree"
)

// DefaultConcurrency caps the number of translateOne calls in flight.
const DefaultConcurrency = 3

// TranslateFunc produces the translation of one unit.
type TranslateFunc func(ctx context.Context, u doctree.Unit) (string, error)

// Progress is the aggregate completion of a batch.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Fraction returns completed/total in [0,1]; an empty batch counts as done.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	f := float64(p.Completed) / float64(p.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Observer receives batch events. All calls come from the single goroutine
// that owns the unit list, in completion order.
type Observer interface {
	BatchStarted(indices []int, units []doctree.Unit)
	UnitDone(index int, before, after doctree.Unit, p Progress)
	BatchFinished(res Result)
}

// SyncOptions configures Synchronize.
type SyncOptions struct {
	Concurrency int
	Observer    Observer
	Log         *slog.Logger
}

// Result is the outcome of one batch.
type Result struct {
	Units     []doctree.Unit
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Candidates returns the indices eligible for translation: unlocked units that
// are idle, stale or failed, or that have no translation yet. Units that are
// fresh-with-translation or already translating are skipped.
func Candidates(units []doctree.Unit) []int {
	var idx []int
	for i, u := range units {
		if u.Locked || u.Status == doctree.StatusTranslating {
			continue
		}
		switch u.Status {
		case doctree.StatusIdle, doctree.StatusStale, doctree.StatusError:
			idx = append(idx, i)
		default:
			if !u.HasTranslation() {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

type completion struct {
	index int
	text  string
	err   error
}

// Synchronize translates every candidate unit with at most
// min(Concurrency, candidates) concurrent calls. Workers pull the next
// candidate from a shared cursor and send completions to this goroutine,
// which alone updates the unit list. A failure only affects its own unit.
func Synchronize(ctx context.Context, units []doctree.Unit, translate TranslateFunc, opts SyncOptions) Result {
	start := time.Now()
	out := make([]doctree.Unit, len(units))
	copy(out, units)

	idxs := Candidates(out)
	total := len(idxs)
	if total == 0 {
		return Result{Units: out}
	}

	for _, i := range idxs {
		out[i].Status = doctree.StatusTranslating
	}
	if opts.Observer != nil {
		opts.Observer.BatchStarted(idxs, cloneUnits(out))
	}

	snapshot := cloneUnits(out)
	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}
	workers = min(workers, total)

	var (
		cursor  atomic.Int64
		wg      sync.WaitGroup
		results = make(chan completion, workers)
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := int(cursor.Add(1)) - 1
				if n >= total {
					return
				}
				i := idxs[n]
				text, err := callTranslate(ctx, translate, snapshot[i])
				results <- completion{index: i, text: text, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	res := Result{Total: total}
	done := 0
	for c := range results {
		before := out[c.index]
		after := before
		if c.err != nil {
			after.Status = doctree.StatusError
			after.ErrorMsg = c.err.Error()
			res.Failed++
			if opts.Log != nil {
				opts.Log.Warn("unit translation failed", "index", c.index, "unit_id", before.ID, "error", c.err)
			}
		} else {
			after.Translation = c.text
			after.Status = doctree.StatusFresh
			after.ErrorMsg = ""
			res.Succeeded++
		}
		out[c.index] = after
		done++
		if opts.Observer != nil {
			opts.Observer.UnitDone(c.index, units[c.index], after, Progress{Completed: done, Total: total})
		}
	}

	res.Units = out
	res.Duration = time.Since(start)
	if opts.Observer != nil {
		opts.Observer.BatchFinished(res)
	}
	return res
}

// callTranslate converts a panic in the translator into a unit error.
func callTranslate(ctx context.Context, translate TranslateFunc, u doctree.Unit) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translator panic: %v", r)
		}
	}()
	text, err = translate(ctx, u)
	if err == nil && text == "" {
		err = fmt.Errorf("empty translation")
	}
	return text, err
}

func cloneUnits(units []doctree.Unit) []doctree.Unit {
	out := make([]doctree.Unit, len(units))
	copy(out, units)
	return out
}
