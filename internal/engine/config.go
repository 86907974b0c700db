package engine

import (
	"time"

	"github.com/rs/zerolog"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/parser"
	"git.lost.host/meutraa/keyfall/internal/score"
)

const (
	DefaultLookAheadMs      = parser.DefaultLookAheadMs
	DefaultNoteSpeedPxPerMs = 0.3

	// How long after the chart's end, with every note resolved, play
	// finishes.
	finishGraceMs = 500.0
	// Notes further than this past the hit line are no longer drawn.
	lookBehindMs = 500.0
)

// Config is the engine's construction time configuration. Zero values
// select the defaults, nil callbacks are skipped.
type Config struct {
	HitWindows       *game.HitWindows
	LookAheadMs      float64
	NoteSpeedPxPerMs float64

	OnUpdate   func(UpdateState)
	OnNoteHit  func(Hit)
	OnNoteMiss func(Miss)
	OnFinish   func(score.Summary)

	Logger *zerolog.Logger
	Parser parser.Parser
	// Clock replaces time.Now for the transport
	Clock func() time.Time
}

func (c *Config) setDefaults() {
	if c.HitWindows == nil {
		w := game.DefaultHitWindows
		c.HitWindows = &w
	}
	if c.LookAheadMs <= 0 {
		c.LookAheadMs = DefaultLookAheadMs
	}
	if c.NoteSpeedPxPerMs <= 0 {
		c.NoteSpeedPxPerMs = DefaultNoteSpeedPxPerMs
	}
	if c.OnUpdate == nil {
		c.OnUpdate = func(UpdateState) {}
	}
	if c.OnNoteHit == nil {
		c.OnNoteHit = func(Hit) {}
	}
	if c.OnNoteMiss == nil {
		c.OnNoteMiss = func(Miss) {}
	}
	if c.OnFinish == nil {
		c.OnFinish = func(score.Summary) {}
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
	if c.Parser == nil {
		c.Parser = &parser.DefaultParser{}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}
