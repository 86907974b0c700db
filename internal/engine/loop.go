package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const queueSize = 64

type messageKind uint8

const (
	tickMessage messageKind = iota
	pressMessage
	callMessage
)

type message struct {
	kind       messageKind
	generation uint64
	pitch      int
	fn         func(*Engine)
	reply      chan struct{}
}

// Loop serialises everything that reaches an Engine. Frame ticks and key
// presses are produced independently and queued, and Run applies them one
// at a time in the order they arrived. Once a Loop is attached, the engine
// must only be used through Call, Press and Run.
type Loop struct {
	engine *Engine
	period time.Duration
	log    zerolog.Logger
	queue  chan message

	// Owned by the goroutine running Run
	generation uint64
	done       chan struct{}
}

// NewLoop attaches a loop to e that ticks every period while playing.
func NewLoop(e *Engine, period time.Duration) *Loop {
	l := &Loop{
		engine: e,
		period: period,
		log:    e.cfg.Logger.With().Str("component", "loop").Logger(),
		queue:  make(chan message, queueSize),
	}
	e.ticker = l
	return l
}

// StartTicks begins a new tick generation. Ticks from earlier generations
// still in the queue are discarded when they come up.
func (l *Loop) StartTicks() {
	if l.done != nil {
		return
	}
	l.generation++
	l.done = make(chan struct{})
	go l.tick(l.generation, l.done)
}

func (l *Loop) StopTicks() {
	if l.done == nil {
		return
	}
	close(l.done)
	l.done = nil
	l.generation++
}

func (l *Loop) tick(generation uint64, done <-chan struct{}) {
	t := time.NewTicker(l.period)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
		}
		select {
		case <-done:
			return
		case l.queue <- message{kind: tickMessage, generation: generation}:
		default:
			// The consumer is behind, the next tick will catch up
		}
	}
}

// Run consumes the queue until ctx is done. Only one Run may be active.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Debug().Dur("period", l.period).Msg("loop running")
	defer l.StopTicks()
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Err(ctx.Err()).Msg("loop stopped")
			return ctx.Err()
		case m := <-l.queue:
			l.handle(m)
		}
	}
}

func (l *Loop) handle(m message) {
	switch m.kind {
	case tickMessage:
		if m.generation != l.generation {
			return
		}
		l.engine.Update()
	case pressMessage:
		l.engine.HandleKeyPress(m.pitch)
	case callMessage:
		m.fn(l.engine)
		close(m.reply)
	}
}

// Press queues a key press. The outcome is reported through the engine's
// callbacks.
func (l *Loop) Press(ctx context.Context, pitch int) error {
	select {
	case l.queue <- message{kind: pressMessage, pitch: pitch}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on the loop's goroutine and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func(*Engine)) error {
	reply := make(chan struct{})
	select {
	case l.queue <- message{kind: callMessage, fn: fn, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
