// Package engine ties the transport, judge and scorer together into a
// playable session.
//
// An Engine is not safe for concurrent use. Every call, including the
// periodic Update, must come from one goroutine; Loop provides that
// goroutine when ticks and key presses arrive from independent sources.
// Setting a note's Hit flag is the only arbitration between a key press
// and the miss sweep: whichever runs first resolves the note.
package engine

import (
	"math"

	"github.com/rs/zerolog"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/judge"
	"git.lost.host/meutraa/keyfall/internal/score"
	"git.lost.host/meutraa/keyfall/internal/transport"
)

// Ticker schedules calls to Update. The engine starts it when play starts
// or resumes and stops it on pause, stop and finish. After StopTicks
// returns no further tick may reach Update.
type Ticker interface {
	StartTicks()
	StopTicks()
}

type nopTicker struct{}

func (nopTicker) StartTicks() {}
func (nopTicker) StopTicks()  {}

type Engine struct {
	cfg     Config
	log     zerolog.Logger
	windows game.HitWindows

	transport *transport.Transport
	scorer    *score.DefaultScorer
	ticker    Ticker

	state game.EngineState
	chart *game.Chart
	notes []game.Note
	// Bumped on every reset, so a sweep can tell that a callback started
	// over underneath it
	session uint64
}

func New(cfg Config) (*Engine, error) {
	cfg.setDefaults()
	if err := cfg.HitWindows.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "engine").Logger(),
		windows:   *cfg.HitWindows,
		transport: transport.NewWithClock(cfg.Clock),
		scorer:    score.New(),
		ticker:    nopTicker{},
		state:     game.Idle,
	}, nil
}

// LoadChart parses raw and makes it the current chart. A payload that
// fails validation leaves the engine untouched.
func (e *Engine) LoadChart(raw []byte) error {
	chart, err := e.cfg.Parser.Parse(raw)
	if err != nil {
		return err
	}
	e.Load(chart)
	return nil
}

// Load makes an already parsed chart current, halting any play.
func (e *Engine) Load(chart *game.Chart) {
	e.ticker.StopTicks()
	e.transport.Stop()
	e.chart = chart
	e.reset()
	e.setState(game.Idle)
	e.log.Info().Int("notes", chart.NoteCount).Float64("duration_ms", chart.DurationMs).Msg("chart loaded")
}

// reset restores the working notes from the chart and zeroes the score.
func (e *Engine) reset() {
	e.session++
	e.notes = nil
	if e.chart != nil {
		e.notes = e.chart.Notes()
	}
	e.scorer.Reset()
}

func (e *Engine) setState(s game.EngineState) {
	if s != e.state {
		e.log.Debug().Stringer("from", e.state).Stringer("to", s).Msg("state")
	}
	e.state = s
}

// Start begins play. It resumes a paused session and starts over a
// finished one.
func (e *Engine) Start() error {
	if e.chart == nil {
		return &game.PreconditionError{Op: "start", Err: game.ErrNoChart}
	}
	switch e.state {
	case game.Playing:
		return nil
	case game.Paused:
		e.Resume()
		return nil
	case game.Finished:
		e.reset()
	}
	e.setState(game.Playing)
	e.transport.Start()
	e.ticker.StartTicks()
	return nil
}

func (e *Engine) Pause() {
	if e.state != game.Playing {
		return
	}
	e.ticker.StopTicks()
	e.transport.Pause()
	e.setState(game.Paused)
}

func (e *Engine) Resume() {
	if e.state != game.Paused {
		return
	}
	e.setState(game.Playing)
	e.transport.Start()
	e.ticker.StartTicks()
}

// Stop halts play and rewinds: the notes are restored to the chart and
// the score is cleared.
func (e *Engine) Stop() {
	e.ticker.StopTicks()
	e.transport.Stop()
	e.reset()
	e.setState(game.Idle)
}

func (e *Engine) Restart() error {
	e.Stop()
	return e.Start()
}

// Seek moves the playhead of a running or paused session. Notes that are
// jumped over are missed on the next Update. Meant for debugging.
func (e *Engine) Seek(ms float64) {
	if e.state != game.Playing && e.state != game.Paused {
		return
	}
	e.transport.SeekTo(ms)
}

// HandleKeyPress judges a key press of pitch against the unresolved notes.
//
// A press close enough to a note of the same pitch resolves that note and
// is returned. A press that matches no note of its pitch while some other
// note is within reach is scored as a wrong note against that note, which
// breaks the streak, but the note stays playable and nothing is returned.
func (e *Engine) HandleKeyPress(pitch int) (Hit, bool) {
	if e.state != game.Playing {
		return Hit{}, false
	}
	now := e.transport.CurrentTimeMs()

	if m, ok := judge.FindBestMatch(pitch, now, e.notes, e.windows); ok {
		m.Note.Resolve(m.HitResult)
		res := e.scorer.RecordHit(m.HitResult, &score.NoteContext{
			NoteID:       m.Note.ID,
			ExpectedMidi: m.Note.Midi,
			ActualMidi:   pitch,
			DeltaMs:      m.DeltaMs,
		})
		hit := Hit{
			HitResult: m.HitResult,
			Note:      *m.Note,
			DeltaMs:   m.DeltaMs,
			Score:     res,
		}
		e.log.Debug().Str("note", m.Note.ID).Stringer("result", m.HitResult).Float64("delta_ms", m.DeltaMs).Msg("hit")
		e.cfg.OnNoteHit(hit)
		return hit, true
	}

	if m, ok := judge.FindAnyHittable(now, e.notes, e.windows); ok {
		e.scorer.RecordHit(game.WrongNote, &score.NoteContext{
			NoteID:       m.Note.ID,
			ExpectedMidi: m.Note.Midi,
			ActualMidi:   pitch,
			DeltaMs:      m.DeltaMs,
		})
		e.log.Debug().Str("note", m.Note.ID).Int("expected", m.Note.Midi).Int("actual", pitch).Msg("wrong note")
	}
	return Hit{}, false
}

// Update is the per tick sweep: it misses every note whose window has
// passed, then either finishes play or emits the current state.
func (e *Engine) Update() {
	if e.state != game.Playing {
		return
	}
	now := e.transport.CurrentTimeMs()
	session := e.session

	for i := range e.notes {
		note := &e.notes[i]
		if note.Hit || !judge.IsMissed(note.TimeMs, now, e.windows) {
			continue
		}
		note.Resolve(game.Miss)
		delta := now - note.TimeMs
		res := e.scorer.RecordHit(game.Miss, &score.NoteContext{
			NoteID:       note.ID,
			ExpectedMidi: note.Midi,
			ActualMidi:   score.NoPitch,
			DeltaMs:      delta,
		})
		e.log.Debug().Str("note", note.ID).Float64("delta_ms", delta).Msg("miss")
		e.cfg.OnNoteMiss(Miss{Note: *note, DeltaMs: delta, Score: res})
		if e.state != game.Playing || e.session != session {
			// The callback stopped, paused or restarted play
			return
		}
	}

	if e.allResolved() && now > e.chart.DurationMs+finishGraceMs {
		e.finish()
		return
	}
	e.cfg.OnUpdate(e.updateState(now))
}

func (e *Engine) allResolved() bool {
	for i := range e.notes {
		if !e.notes[i].Hit {
			return false
		}
	}
	return true
}

func (e *Engine) finish() {
	e.ticker.StopTicks()
	e.transport.Stop()
	e.setState(game.Finished)
	summary := e.scorer.Summary()
	e.log.Info().Int("score", summary.Score).Int("accuracy", summary.Accuracy).Int("stars", summary.Stars).Msg("finished")
	e.cfg.OnFinish(summary)
}

func (e *Engine) progress(now float64) float64 {
	if e.chart == nil {
		return 0
	}
	if e.chart.DurationMs <= 0 {
		return 1
	}
	return math.Max(0, math.Min(now/e.chart.DurationMs, 1))
}

func (e *Engine) updateState(now float64) UpdateState {
	notes := make([]game.Note, len(e.notes))
	copy(notes, e.notes)
	return UpdateState{
		CurrentTimeMs: now,
		Notes:         notes,
		Score:         e.scorer.Score(),
		Streak:        e.scorer.Streak(),
		Multiplier:    e.scorer.Multiplier(),
		Progress:      e.progress(now),
	}
}

// RenderState projects every note onto a vertical axis whose hit line is
// at hitLineY. It changes nothing.
func (e *Engine) RenderState(hitLineY float64) RenderState {
	now := e.transport.CurrentTimeMs()
	projections := make([]NoteProjection, len(e.notes))
	for i, n := range e.notes {
		timeToHit := n.TimeMs - now
		offset := timeToHit * e.cfg.NoteSpeedPxPerMs
		projections[i] = NoteProjection{
			Note:        n,
			TimeToHitMs: timeToHit,
			YOffset:     offset,
			Y:           hitLineY - offset,
			IsVisible:   timeToHit > -lookBehindMs && timeToHit < e.cfg.LookAheadMs,
		}
	}
	return RenderState{
		State:         e.state,
		CurrentTimeMs: now,
		Notes:         projections,
		Score:         e.scorer.Score(),
		Streak:        e.scorer.Streak(),
		Multiplier:    e.scorer.Multiplier(),
		Progress:      e.progress(now),
	}
}

func (e *Engine) State() game.EngineState {
	return e.state
}

// Chart is the loaded chart, nil before the first load.
func (e *Engine) Chart() *game.Chart {
	return e.chart
}

func (e *Engine) CurrentTimeMs() float64 {
	return e.transport.CurrentTimeMs()
}

func (e *Engine) Summary() score.Summary {
	return e.scorer.Summary()
}

func (e *Engine) HitWindows() game.HitWindows {
	return e.windows
}
