package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type recorder struct {
	mu    sync.Mutex
	saved []snapshot
	fail  int // number of upcoming calls that fail
}

func (r *recorder) save(_ context.Context, s snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail > 0 {
		r.fail--
		return errors.New("connection reset")
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func (r *recorder) last() snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[len(r.saved)-1]
}

const (
	testDelay  = 30 * time.Millisecond
	testWait   = time.Second
	testPoll   = 5 * time.Millisecond
	quietAfter = 4 * testDelay
)

func newTestEngine(t *testing.T, rec *recorder, opts ...Option) *Engine[snapshot] {
	t.Helper()
	opts = append([]Option{WithDelay(testDelay), WithRevertAfter(50 * time.Millisecond)}, opts...)
	e := New[snapshot](context.Background(), rec.save, opts...)
	t.Cleanup(e.Close)
	return e
}

func TestEngine_CoalescesRapidUpdates(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, rec)

	for _, name := range []string{"B", "Bl", "Blu", "Blue", "Blue Dream"} {
		e.Update(snapshot{Name: name})
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, testWait, testPoll)
	time.Sleep(quietAfter)

	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "Blue Dream", rec.last().Name)
}

func TestEngine_IdenticalContentWrittenOnce(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, rec)

	s := snapshot{Name: "Blue Dream", Tags: []string{"calm"}}
	e.Update(s)
	require.Eventually(t, func() bool { return rec.count() == 1 }, testWait, testPoll)

	// same content after the first save landed
	e.Update(snapshot{Name: "Blue Dream", Tags: []string{"calm"}})
	time.Sleep(quietAfter)

	assert.Equal(t, 1, rec.count())
}

func TestEngine_StatusTransitions(t *testing.T) {
	rec := &recorder{}
	var mu sync.Mutex
	var seen []State
	e := newTestEngine(t, rec, OnStatus(func(s Status) {
		mu.Lock()
		seen = append(seen, s.State)
		mu.Unlock()
	}))

	assert.Equal(t, StateIdle, e.Status().State)

	e.Update(snapshot{Name: "Gelato"})
	require.Eventually(t, func() bool { return e.Status().State == StateSaved }, testWait, testPoll)
	require.Eventually(t, func() bool { return e.Status().State == StateIdle }, testWait, testPoll)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateSaving, StateSaved, StateIdle}, seen)
	assert.NotNil(t, e.Status().LastSavedAt)
}

func TestEngine_FailureKeepsHashAndRetriesOnNextUpdate(t *testing.T) {
	rec := &recorder{fail: 1}
	e := newTestEngine(t, rec)

	e.Update(snapshot{Name: "Runtz"})
	require.Eventually(t, func() bool { return e.Status().State == StateError }, testWait, testPoll)
	assert.Equal(t, "connection reset", e.Status().LastError)
	assert.Equal(t, 0, rec.count())

	// no automatic retry
	time.Sleep(quietAfter)
	assert.Equal(t, 0, rec.count())

	// the same content is retried because the failed save never recorded its hash
	e.Update(snapshot{Name: "Runtz"})
	require.Eventually(t, func() bool { return rec.count() == 1 }, testWait, testPoll)
	assert.Equal(t, "Runtz", rec.last().Name)
}

func TestEngine_DiscardDeletesAndResetsHash(t *testing.T) {
	rec := &recorder{}
	deleted := 0
	e := newTestEngine(t, rec, WithDelete(func(context.Context) error {
		deleted++
		return nil
	}))

	e.Update(snapshot{Name: "Zkittlez"})
	require.Eventually(t, func() bool { return rec.count() == 1 }, testWait, testPoll)

	require.NoError(t, e.Discard(context.Background()))
	assert.Equal(t, 1, deleted)
	assert.Equal(t, StateIdle, e.Status().State)
	_, ok := e.Latest()
	assert.False(t, ok)

	// same content again is a first save
	e.Update(snapshot{Name: "Zkittlez"})
	require.Eventually(t, func() bool { return rec.count() == 2 }, testWait, testPoll)
}

func TestEngine_DiscardDropsPending(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, rec)

	e.Update(snapshot{Name: "never saved"})
	require.NoError(t, e.Discard(context.Background()))
	time.Sleep(quietAfter)

	assert.Equal(t, 0, rec.count())
}

func TestEngine_FlushSavesImmediately(t *testing.T) {
	rec := &recorder{}
	e := New[snapshot](context.Background(), rec.save, WithDelay(time.Hour))
	defer e.Close()

	e.Update(snapshot{Name: "Wedding Cake"})
	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())

	// nothing pending
	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())
}

func TestEngine_FlushReturnsSaveError(t *testing.T) {
	rec := &recorder{fail: 1}
	e := New[snapshot](context.Background(), rec.save, WithDelay(time.Hour))
	defer e.Close()

	e.Update(snapshot{Name: "Sour Diesel"})
	err := e.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, e.Status().State)
}

func TestEngine_CloseDropsPendingAndIgnoresUpdates(t *testing.T) {
	rec := &recorder{}
	e := New[snapshot](context.Background(), rec.save, WithDelay(testDelay))

	e.Update(snapshot{Name: "pending"})
	e.Close()
	e.Update(snapshot{Name: "after close"})
	time.Sleep(quietAfter)

	assert.Equal(t, 0, rec.count())
	assert.ErrorIs(t, e.Flush(context.Background()), ErrClosed)
	assert.ErrorIs(t, e.Discard(context.Background()), ErrClosed)
}

func TestEngine_LatestTracksUnsavedSnapshot(t *testing.T) {
	rec := &recorder{}
	e := New[snapshot](context.Background(), rec.save, WithDelay(time.Hour))
	defer e.Close()

	_, ok := e.Latest()
	assert.False(t, ok)

	e.Update(snapshot{Name: "draft"})
	latest, ok := e.Latest()
	require.True(t, ok)
	assert.Equal(t, "draft", latest.Name)
}
