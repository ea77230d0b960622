package session

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedTimeout(d time.Duration) TimeoutFunc {
	return func() (time.Duration, error) { return d, nil }
}

func TestSweeper_SweepRemovesOnlyExpired(t *testing.T) {
	base := time.Now()

	store := NewStore()
	store.now = func() time.Time { return base.Add(-90 * time.Second) }
	aged := store.Create("alice", "Alice Example")

	store.now = func() time.Time { return base }
	fresh := store.Create("bob", "Bob Example")

	sweeper := NewSweeper(store, fixedTimeout(time.Minute), time.Minute, newTestLogger())

	assert.Equal(t, 1, sweeper.Sweep())

	_, ok := store.Get(aged)
	assert.False(t, ok)
	_, ok = store.Get(fresh)
	assert.True(t, ok)
}

func TestSweeper_SweepSkipsWhenTimeoutUnavailable(t *testing.T) {
	base := time.Now()

	store := NewStore()
	store.now = func() time.Time { return base.Add(-time.Hour) }
	id := store.Create("alice", "Alice Example")
	store.now = func() time.Time { return base }

	broken := func() (time.Duration, error) { return 0, errors.New("options unavailable") }
	sweeper := NewSweeper(store, broken, time.Minute, newTestLogger())

	assert.Equal(t, 0, sweeper.Sweep())

	_, ok := store.Get(id)
	assert.True(t, ok, "a skipped sweep must not delete anything")
}

func TestSweeper_StartIsIdempotent(t *testing.T) {
	store := NewStore()

	var calls atomic.Int32
	timeout := func() (time.Duration, error) {
		calls.Add(1)
		return time.Minute, nil
	}

	sweeper := NewSweeper(store, timeout, 50*time.Millisecond, newTestLogger())
	sweeper.Start()
	sweeper.Start() // must not create a second timer
	defer sweeper.Stop()

	// One interval elapses; a duplicated timer would sweep twice.
	time.Sleep(75 * time.Millisecond)
	sweeper.Stop()

	require.EqualValues(t, 1, calls.Load(), "exactly one sweep per interval")
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	store := NewStore()
	sweeper := NewSweeper(store, fixedTimeout(time.Minute), time.Minute, newTestLogger())

	// Stop before Start is a no-op.
	sweeper.Stop()

	sweeper.Start()
	sweeper.Stop()
	sweeper.Stop()
}

func TestSweeper_RestartAfterStop(t *testing.T) {
	base := time.Now()

	store := NewStore()
	sweeper := NewSweeper(store, fixedTimeout(time.Minute), 20*time.Millisecond, newTestLogger())

	sweeper.Start()
	sweeper.Stop()

	store.now = func() time.Time { return base.Add(-time.Hour) }
	store.Create("alice", "Alice Example")
	store.now = func() time.Time { return base }

	sweeper.Start()
	defer sweeper.Stop()

	deadline := time.After(500 * time.Millisecond)
	for store.Count() != 0 {
		select {
		case <-deadline:
			t.Fatal("restarted sweeper never swept the expired session")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
