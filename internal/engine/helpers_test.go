package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/keyfall/internal/score"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Duration(ms * float64(time.Millisecond)))
}

// recorder collects everything the engine reports through its callbacks.
type recorder struct {
	updates  []UpdateState
	hits     []Hit
	misses   []Miss
	finished []score.Summary
}

func (r *recorder) config(c *fakeClock) Config {
	return Config{
		Clock:      c.Now,
		OnUpdate:   func(s UpdateState) { r.updates = append(r.updates, s) },
		OnNoteHit:  func(h Hit) { r.hits = append(r.hits, h) },
		OnNoteMiss: func(m Miss) { r.misses = append(r.misses, m) },
		OnFinish:   func(s score.Summary) { r.finished = append(r.finished, s) },
	}
}

func newTestEngine(t *testing.T, raw []byte) (*Engine, *fakeClock, *recorder) {
	t.Helper()
	c := newFakeClock()
	r := &recorder{}
	e, err := New(r.config(c))
	require.NoError(t, err)
	if raw != nil {
		require.NoError(t, e.LoadChart(raw))
	}
	return e, c, r
}
