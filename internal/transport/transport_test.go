package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(ms float64) {
	c.t = c.t.Add(time.Duration(ms * float64(time.Millisecond)))
}

func TestIdleTransportReportsZero(t *testing.T) {
	c := newFakeClock()
	tr := NewWithClock(c.Now)
	c.Advance(5000)
	assert.Equal(t, 0.0, tr.CurrentTimeMs())
	assert.False(t, tr.IsActive())
	assert.False(t, tr.IsPlaying())
}

func TestStartAdvances(t *testing.T) {
	c := newFakeClock()
	tr := NewWithClock(c.Now)
	tr.Start()
	c.Advance(250)
	assert.Equal(t, 250.0, tr.CurrentTimeMs())
	assert.True(t, tr.IsActive())

	// A second start while running keeps the origin
	tr.Start()
	c.Advance(50)
	assert.Equal(t, 300.0, tr.CurrentTimeMs())
}

func TestPauseFreezesAndResumeFoldsPause(t *testing.T) {
	c := newFakeClock()
	tr := NewWithClock(c.Now)
	tr.Start()
	c.Advance(1000)
	tr.Pause()
	assert.True(t, tr.IsPaused())
	assert.False(t, tr.IsActive())

	c.Advance(5000)
	assert.Equal(t, 1000.0, tr.CurrentTimeMs())

	// Pausing twice must not move the freeze point
	tr.Pause()
	c.Advance(100)
	assert.Equal(t, 1000.0, tr.CurrentTimeMs())

	tr.Start()
	assert.Equal(t, 1000.0, tr.CurrentTimeMs())
	c.Advance(20)
	assert.Equal(t, 1020.0, tr.CurrentTimeMs())

	tr.Pause()
	c.Advance(300)
	tr.Start()
	c.Advance(10)
	assert.Equal(t, 1030.0, tr.CurrentTimeMs())
}

func TestStopResets(t *testing.T) {
	c := newFakeClock()
	tr := NewWithClock(c.Now)
	tr.Start()
	c.Advance(700)
	tr.Pause()
	tr.Stop()
	assert.Equal(t, 0.0, tr.CurrentTimeMs())
	assert.False(t, tr.IsPlaying())

	tr.Start()
	c.Advance(40)
	assert.Equal(t, 40.0, tr.CurrentTimeMs())
}

func TestSeekTo(t *testing.T) {
	c := newFakeClock()
	tr := NewWithClock(c.Now)

	tr.SeekTo(1500)
	assert.True(t, tr.IsActive())
	assert.Equal(t, 1500.0, tr.CurrentTimeMs())
	c.Advance(10)
	assert.Equal(t, 1510.0, tr.CurrentTimeMs())

	tr.Pause()
	c.Advance(900)
	tr.SeekTo(200)
	assert.True(t, tr.IsPaused())
	assert.Equal(t, 200.0, tr.CurrentTimeMs())
	c.Advance(900)
	assert.Equal(t, 200.0, tr.CurrentTimeMs())

	tr.Start()
	c.Advance(5)
	assert.Equal(t, 205.0, tr.CurrentTimeMs())
}

func TestRealClockIsMonotonic(t *testing.T) {
	tr := New()
	tr.Start()
	prev := tr.CurrentTimeMs()
	for i := 0; i < 1000; i++ {
		now := tr.CurrentTimeMs()
		if now < prev {
			t.Fatalf("time went backwards: %v after %v", now, prev)
		}
		prev = now
	}
}
