package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/bilingual/internal/doctree"
	"github.com/dgallion1/bilingual/internal/segment"
)

// ErrBatchActive is returned when a sync is requested while a batch is running.
var ErrBatchActive = errors.New("synchronization batch already running")

// Translator translates one unit text between language hints.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Options configures a Session.
type Options struct {
	Mode           segment.Mode
	SourceLang     string
	TargetLang     string
	AutoSync       bool
	Debounce       time.Duration // delay between the last edit and an automatic sync
	Concurrency    int
	ProgressLinger time.Duration // how long progress stays visible at 1 after a batch
	BatchTTL       time.Duration
}

// State is the observable summary of a session.
type State struct {
	Mode           segment.Mode   `json:"mode"`
	AutoSync       bool           `json:"auto_sync"`
	Busy           bool           `json:"busy"`
	Progress       float64        `json:"progress"`
	ProgressActive bool           `json:"progress_active"`
	BatchID        string         `json:"batch_id,omitempty"`
	Counts         doctree.Counts `json:"counts"`
}

// Session owns the live document and its unit list. It starts with an empty
// document in sentence mode.
type Session struct {
	mu sync.Mutex

	doc            *doctree.Document
	mode           segment.Mode
	units          []doctree.Unit
	autoSync       bool
	busy           bool
	pending        bool // auto-sync fired while busy
	queued         bool // explicit sync requested while busy
	stopped        bool
	progress       float64
	progressActive bool
	current        *Batch
	done           chan struct{}

	translator Translator
	opts       Options
	batches    *BatchStore
	log        *slog.Logger

	debounce *time.Timer
	linger   *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession creates a session that translates through translator.
func NewSession(translator Translator, log *slog.Logger, opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = segment.ModeSentence
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.BatchTTL <= 0 {
		opts.BatchTTL = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		doc:        doctree.New(""),
		mode:       opts.Mode,
		units:      []doctree.Unit{},
		autoSync:   opts.AutoSync,
		translator: translator,
		opts:       opts,
		batches:    NewBatchStore(opts.BatchTTL),
		log:        log,
		ctx:        context.Background(),
		cancel:     func() {},
	}
}

// Start binds background batches to ctx and launches batch record cleanup.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	ctx = s.ctx
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.batches.Cleanup()
			}
		}
	}()
}

// Stop cancels pending timers and in-flight translations and waits for them.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
	if s.linger != nil {
		s.linger.Stop()
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

// OnDocumentChanged replaces the live document and re-segments it.
func (s *Session) OnDocumentChanged(doc *doctree.Document) {
	if doc == nil {
		doc = doctree.New("")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.resegmentLocked()
	s.scheduleAutoSyncLocked()
}

// OnModeChanged switches the unit granularity and re-segments.
func (s *Session) OnModeChanged(mode segment.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.resegmentLocked()
	s.scheduleAutoSyncLocked()
}

// Reset starts a new empty document. Lock state is not carried over.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doctree.New("")
	s.units = []doctree.Unit{}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.pending = false
	s.queued = false
}

// SetAutoSync toggles automatic synchronization after edits.
func (s *Session) SetAutoSync(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSync = enabled
	if !enabled {
		s.pending = false
		if s.debounce != nil {
			s.debounce.Stop()
		}
	}
}

// SetLock sets the lock flag of unit i. It reports false for an unknown index.
func (s *Session) SetLock(i int, locked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.units) {
		return false
	}
	s.units[i].Locked = locked
	return true
}

// MarkStale forces unit i back to stale. Locked and in-flight units are left alone.
func (s *Session) MarkStale(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.units) {
		return false
	}
	return markStale(&s.units[i])
}

// MarkAllStale marks every eligible unit stale and returns how many changed.
func (s *Session) MarkAllStale() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.units {
		if markStale(&s.units[i]) {
			n++
		}
	}
	return n
}

func markStale(u *doctree.Unit) bool {
	if u.Locked || u.Status == doctree.StatusTranslating {
		return false
	}
	u.Status = doctree.StatusStale
	return true
}

// RequestSync starts a batch over the current candidates in the background.
// It returns nil without error when nothing needs translating.
func (s *Session) RequestSync() (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, ErrBatchActive
	}
	return s.startBatchLocked(), nil
}

// QueueSync is RequestSync that, when a batch is running, schedules another
// batch to start once it finishes. queued reports that case.
func (s *Session) QueueSync() (b *Batch, queued bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		s.queued = true
		return nil, true
	}
	return s.startBatchLocked(), false
}

// Wait blocks until no batch is running or queued.
func (s *Session) Wait() {
	for {
		s.mu.Lock()
		done := s.done
		s.mu.Unlock()
		if done == nil {
			return
		}
		<-done
	}
}

// Units returns a copy of the live unit list.
func (s *Session) Units() []doctree.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUnits(s.units)
}

// Document returns the live document.
func (s *Session) Document() *doctree.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// State returns the observable session summary.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Mode:           s.mode,
		AutoSync:       s.autoSync,
		Busy:           s.busy,
		Progress:       s.progress,
		ProgressActive: s.progressActive,
		Counts:         doctree.CountUnits(s.units),
	}
	if s.current != nil {
		st.BatchID = s.current.ID
	}
	return st
}

// Batch returns a batch record by ID.
func (s *Session) Batch(id string) *Batch {
	return s.batches.Get(id)
}

func (s *Session) resegmentLocked() {
	texts := segment.Segment(s.doc, s.mode)
	s.units = Reconcile(s.units, texts)
}

func (s *Session) scheduleAutoSyncLocked() {
	if !s.autoSync || s.stopped {
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.opts.Debounce, s.autoSyncFired)
}

func (s *Session) autoSyncFired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.autoSync || s.stopped {
		return
	}
	if s.busy {
		s.pending = true
		return
	}
	s.startBatchLocked()
}

// startBatchLocked marks candidates translating and launches the batch.
func (s *Session) startBatchLocked() *Batch {
	if s.stopped {
		return nil
	}
	idxs := Candidates(s.units)
	if len(idxs) == 0 {
		return nil
	}
	snapshot := cloneUnits(s.units)
	for _, i := range idxs {
		s.units[i].Status = doctree.StatusTranslating
	}

	b := newBatch(len(idxs))
	s.batches.Put(b)
	s.current = b
	s.busy = true
	s.progress = 0
	s.progressActive = true
	if s.linger != nil {
		s.linger.Stop()
	}
	done := make(chan struct{})
	s.done = done

	s.wg.Add(1)
	go s.runBatch(s.ctx, b, snapshot, done)
	return b
}

func (s *Session) runBatch(ctx context.Context, b *Batch, snapshot []doctree.Unit, done chan struct{}) {
	defer s.wg.Done()
	log := s.log.With("batch_id", b.ID)
	log.Info("batch started", "candidates", b.Progress.Total)

	res := Synchronize(ctx, snapshot, s.translateUnit, SyncOptions{
		Concurrency: s.opts.Concurrency,
		Observer:    &batchObserver{s: s, b: b},
		Log:         log,
	})
	log.Info("batch finished",
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration_ms", res.Duration.Milliseconds(),
	)

	s.mu.Lock()
	s.busy = false
	s.progress = 1
	s.current = nil
	if s.opts.ProgressLinger > 0 {
		s.linger = time.AfterFunc(s.opts.ProgressLinger, s.progressDone)
	} else {
		s.progressActive = false
	}
	s.done = nil
	if (s.pending && s.autoSync) || s.queued {
		s.pending = false
		s.queued = false
		s.startBatchLocked()
	}
	s.mu.Unlock()
	close(done)
}

func (s *Session) progressDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy {
		s.progressActive = false
	}
}

func (s *Session) translateUnit(ctx context.Context, u doctree.Unit) (string, error) {
	return s.translator.Translate(ctx, u.Text, s.opts.SourceLang, s.opts.TargetLang)
}

// batchObserver applies batch completions to the live unit list.
type batchObserver struct {
	s *Session
	b *Batch
}

func (o *batchObserver) BatchStarted(indices []int, units []doctree.Unit) {}

func (o *batchObserver) UnitDone(index int, before, after doctree.Unit, p Progress) {
	o.b.RecordResult(after.ErrorMsg)

	s := o.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := p.Fraction(); f > s.progress {
		s.progress = f
	}
	if index >= len(s.units) || s.units[index].ID != after.ID {
		// re-segmented while in flight
		return
	}
	if s.units[index].Locked {
		before.Locked = true
		s.units[index] = before
		return
	}
	s.units[index] = after
}

func (o *batchObserver) BatchFinished(res Result) {
	o.b.Finish()
}
