// Package transport is the single elapsed time source for a play session.
//
// Time is measured from the monotonic reading carried by time.Time, so
// wall clock adjustments never move the playhead. All arithmetic is done
// on time.Duration and only converted to float milliseconds on the way
// out, which keeps long sessions free of accumulated rounding.
package transport

import "time"

type Transport struct {
	now func() time.Time

	playing     bool
	paused      bool
	origin      time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
}

func New() *Transport {
	return NewWithClock(time.Now)
}

// NewWithClock uses now as the clock. It must return readings carrying a
// monotonic component, as time.Now does.
func NewWithClock(now func() time.Time) *Transport {
	return &Transport{now: now}
}

// Start begins playback, or resumes it when paused. It does nothing while
// already running.
func (t *Transport) Start() {
	if t.playing && !t.paused {
		return
	}
	now := t.now()
	if t.playing && t.paused {
		t.pausedTotal += now.Sub(t.pausedAt)
		t.paused = false
		t.pausedAt = time.Time{}
		return
	}
	t.playing = true
	t.paused = false
	t.origin = now
	t.pausedTotal = 0
}

func (t *Transport) Pause() {
	if !t.IsActive() {
		return
	}
	t.paused = true
	t.pausedAt = t.now()
}

func (t *Transport) Stop() {
	t.playing = false
	t.paused = false
	t.origin = time.Time{}
	t.pausedAt = time.Time{}
	t.pausedTotal = 0
}

// Elapsed is the play time, frozen while paused and zero while stopped.
func (t *Transport) Elapsed() time.Duration {
	if !t.playing {
		return 0
	}
	at := t.pausedAt
	if !t.paused {
		at = t.now()
	}
	return at.Sub(t.origin) - t.pausedTotal
}

func (t *Transport) CurrentTimeMs() float64 {
	return float64(t.Elapsed()) / float64(time.Millisecond)
}

// IsActive is true while playing and not paused.
func (t *Transport) IsActive() bool {
	return t.playing && !t.paused
}

func (t *Transport) IsPlaying() bool {
	return t.playing
}

func (t *Transport) IsPaused() bool {
	return t.playing && t.paused
}

// SeekTo moves the playhead so CurrentTimeMs immediately reports ms,
// starting the transport if needed. A paused transport stays paused at the
// new position. For debugging and tests, not gameplay.
func (t *Transport) SeekTo(ms float64) {
	if !t.playing {
		t.Start()
	}
	now := t.now()
	t.origin = now.Add(-time.Duration(ms * float64(time.Millisecond)))
	t.pausedTotal = 0
	if t.paused {
		t.pausedAt = now
	}
}
