package score

import "git.lost.host/meutraa/keyfall/internal/game"

const (
	NotesPerMultiplier = 10
	MaxMultiplier      = 4

	// NoPitch is the ActualMidi of a note nobody pressed a key for.
	NoPitch = -1
)

// BasePoints are the points a result is worth before the multiplier.
var BasePoints = map[game.HitResult]int{
	game.Perfect:   100,
	game.Great:     70,
	game.Good:      40,
	game.Miss:      0,
	game.WrongNote: 0,
}

type Scorer interface {
	Reset()

	// Record the resolution of a note. ctx is kept in the mistake log for
	// unsuccessful results and may be nil.
	RecordHit(kind game.HitResult, ctx *NoteContext) Result

	Multiplier() int
	Accuracy() int
	Stars() int
	Summary() Summary
}

// NoteContext describes the note a result was recorded against.
type NoteContext struct {
	NoteID       string         `json:"noteId"`
	ExpectedMidi int            `json:"expectedMidi"`
	ActualMidi   int            `json:"actualMidi"`
	DeltaMs      float64        `json:"deltaMs"`
	Result       game.HitResult `json:"result"`
}

type Result struct {
	Points     int `json:"points"`
	Multiplier int `json:"multiplier"`
	NewStreak  int `json:"newStreak"`
	BasePoints int `json:"basePoints"`
}

type HitCounts map[game.HitResult]int

func newHitCounts() HitCounts {
	hc := make(HitCounts, len(game.HitResults))
	for _, r := range game.HitResults {
		hc[r] = 0
	}
	return hc
}

func (h HitCounts) clone() HitCounts {
	c := make(HitCounts, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Successes is the number of Perfect, Great and Good results.
func (h HitCounts) Successes() int {
	return h[game.Perfect] + h[game.Great] + h[game.Good]
}

type Summary struct {
	Score      int           `json:"score"`
	Accuracy   int           `json:"accuracy"`
	Stars      int           `json:"stars"`
	MaxStreak  int           `json:"maxStreak"`
	HitCounts  HitCounts     `json:"hitCounts"`
	TotalNotes int           `json:"totalNotes"`
	Mistakes   []NoteContext `json:"mistakes"`
}
