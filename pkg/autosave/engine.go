// Package autosave coalesces a stream of snapshots into debounced writes.
//
// Every Update re-arms a timer; when the timer fires uninterrupted the latest
// snapshot is hashed and persisted only if its content differs from the last
// snapshot that was saved successfully. Saves are serialised: at most one is
// in flight at any time.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// State is the status projection exposed to callers
type State string

const (
	StateIdle   State = "idle"
	StateSaving State = "saving"
	StateSaved  State = "saved"
	StateError  State = "error"
)

const (
	DefaultDelay       = 2 * time.Second
	DefaultRevertAfter = 2 * time.Second
	DefaultSaveTimeout = 10 * time.Second
)

// ErrClosed is returned by Flush/Discard once the engine is closed
var ErrClosed = errors.New("autosave: engine closed")

// Status is a point-in-time view of the engine
type Status struct {
	State       State      `json:"state"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// SaveFunc persists one snapshot
type SaveFunc[T any] func(ctx context.Context, snapshot T) error

// DeleteFunc removes whatever SaveFunc persisted
type DeleteFunc func(ctx context.Context) error

type options struct {
	delay       time.Duration
	revertAfter time.Duration
	saveTimeout time.Duration
	onStatus    func(Status)
	deleteFn    DeleteFunc
}

// Option configures an Engine
type Option func(*options)

// WithDelay sets the debounce window
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithRevertAfter sets how long "saved" is shown before going back to "idle"
func WithRevertAfter(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.revertAfter = d
		}
	}
}

// WithSaveTimeout bounds a single SaveFunc call
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.saveTimeout = d
		}
	}
}

// WithDelete registers the function used by Discard
func WithDelete(fn DeleteFunc) Option {
	return func(o *options) { o.deleteFn = fn }
}

// OnStatus registers a callback invoked after every status transition.
// It runs outside the engine lock and may call back into the engine.
func OnStatus(fn func(Status)) Option {
	return func(o *options) { o.onStatus = fn }
}

// Engine is a debounced, content-deduplicating writer for snapshots of type T.
// T must be JSON encodable; the encoding is what gets hashed.
type Engine[T any] struct {
	save SaveFunc[T]
	opts options

	ctx    context.Context
	cancel context.CancelFunc

	// saveMu serialises persistence (timer fire, Flush, Discard, Close)
	saveMu sync.Mutex

	mu         sync.Mutex
	gen        uint64
	timer      *time.Timer
	revertGen  uint64
	revert     *time.Timer
	pending    T
	hasPending bool
	latest     T
	hasLatest  bool
	lastHash   uint64
	hasHash    bool
	status     Status
	closed     bool
}

// New creates an engine. ctx bounds every save; Close cancels it.
func New[T any](ctx context.Context, save SaveFunc[T], opts ...Option) *Engine[T] {
	o := options{
		delay:       DefaultDelay,
		revertAfter: DefaultRevertAfter,
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	engineCtx, cancel := context.WithCancel(ctx)
	return &Engine[T]{
		save:   save,
		opts:   o,
		ctx:    engineCtx,
		cancel: cancel,
		status: Status{State: StateIdle},
	}
}

// Update records the latest snapshot and restarts the debounce timer
func (e *Engine[T]) Update(snapshot T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.pending = snapshot
	e.hasPending = true
	e.latest = snapshot
	e.hasLatest = true

	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(e.opts.delay, func() { e.fire(gen) })
}

// Status returns the current status projection
func (e *Engine[T]) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Latest returns the most recent snapshot passed to Update, saved or not
func (e *Engine[T]) Latest() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.hasLatest
}

// Flush persists the pending snapshot immediately, skipping the timer.
// Nothing pending is not an error.
func (e *Engine[T]) Flush(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.stopTimerLocked()
	if !e.hasPending {
		e.mu.Unlock()
		return nil
	}
	snapshot := e.pending
	e.hasPending = false
	e.mu.Unlock()

	return e.persist(ctx, snapshot)
}

// Discard drops pending work, deletes the persisted snapshot through the
// registered DeleteFunc and forgets the last hash, so the next Update is
// treated as a first save.
func (e *Engine[T]) Discard(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.stopTimerLocked()
	e.stopRevertLocked()
	var zero T
	e.pending, e.hasPending = zero, false
	e.latest, e.hasLatest = zero, false
	e.lastHash, e.hasHash = 0, false
	st := e.setStatusLocked(Status{State: StateIdle})
	e.mu.Unlock()
	e.notify(st)

	if e.opts.deleteFn == nil {
		return nil
	}
	return e.opts.deleteFn(ctx)
}

// Close stops the timers, waits for an in-flight save and releases the engine.
// Pending snapshots are dropped; call Flush first to keep them.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stopTimerLocked()
	e.stopRevertLocked()
	e.mu.Unlock()

	// wait for in-flight persistence before cancelling its context
	e.saveMu.Lock()
	e.saveMu.Unlock()
	e.cancel()
}

func (e *Engine[T]) fire(gen uint64) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if e.closed || gen != e.gen || !e.hasPending {
		e.mu.Unlock()
		return
	}
	snapshot := e.pending
	e.hasPending = false
	e.mu.Unlock()

	_ = e.persist(e.ctx, snapshot)
}

// persist must be called with saveMu held
func (e *Engine[T]) persist(ctx context.Context, snapshot T) error {
	hash, err := contentHash(snapshot)
	if err != nil {
		e.fail(err)
		return err
	}

	e.mu.Lock()
	if e.hasHash && e.lastHash == hash {
		e.mu.Unlock()
		return nil
	}
	e.stopRevertLocked()
	st := e.setStatusLocked(Status{State: StateSaving, LastSavedAt: e.status.LastSavedAt})
	e.mu.Unlock()
	e.notify(st)

	saveCtx, cancel := context.WithTimeout(ctx, e.opts.saveTimeout)
	err = e.save(saveCtx, snapshot)
	cancel()
	if err != nil {
		e.fail(err)
		return err
	}

	now := time.Now()
	e.mu.Lock()
	e.lastHash, e.hasHash = hash, true
	st = e.setStatusLocked(Status{State: StateSaved, LastSavedAt: &now})
	if !e.closed {
		e.revertGen++
		revertGen := e.revertGen
		e.revert = time.AfterFunc(e.opts.revertAfter, func() { e.revertToIdle(revertGen) })
	}
	e.mu.Unlock()
	e.notify(st)

	return nil
}

func (e *Engine[T]) fail(err error) {
	e.mu.Lock()
	st := e.setStatusLocked(Status{
		State:       StateError,
		LastSavedAt: e.status.LastSavedAt,
		LastError:   err.Error(),
	})
	e.mu.Unlock()
	e.notify(st)
}

func (e *Engine[T]) revertToIdle(revertGen uint64) {
	e.mu.Lock()
	if revertGen != e.revertGen || e.status.State != StateSaved {
		e.mu.Unlock()
		return
	}
	st := e.setStatusLocked(Status{State: StateIdle, LastSavedAt: e.status.LastSavedAt})
	e.mu.Unlock()
	e.notify(st)
}

func (e *Engine[T]) setStatusLocked(st Status) Status {
	e.status = st
	return st
}

func (e *Engine[T]) notify(st Status) {
	if e.opts.onStatus != nil {
		e.opts.onStatus(st)
	}
}

func (e *Engine[T]) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	// invalidates a timer callback that already started
	e.gen++
}

func (e *Engine[T]) stopRevertLocked() {
	if e.revert != nil {
		e.revert.Stop()
		e.revert = nil
	}
	e.revertGen++
}

func contentHash(v any) (uint64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("autosave: encode snapshot: %w", err)
	}
	return xxhash.Sum64(b), nil
}
