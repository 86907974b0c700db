package engine

import (
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/score"
)

// Hit is reported for a key press that resolved a note.
type Hit struct {
	HitResult game.HitResult `json:"hitResult"`
	Note      game.Note      `json:"note"`
	DeltaMs   float64        `json:"deltaMs"`
	Score     score.Result   `json:"scoreResult"`
}

// Miss is reported for a note that passed the hit line unplayed.
type Miss struct {
	Note    game.Note    `json:"note"`
	DeltaMs float64      `json:"deltaMs"`
	Score   score.Result `json:"scoreResult"`
}

// UpdateState is emitted after every tick that did not finish play.
type UpdateState struct {
	CurrentTimeMs float64     `json:"currentTimeMs"`
	Notes         []game.Note `json:"notes"`
	Score         int         `json:"score"`
	Streak        int         `json:"streak"`
	Multiplier    int         `json:"multiplier"`
	Progress      float64     `json:"progress"`
}

// NoteProjection places a note relative to the hit line. Y grows downward,
// so notes due in the future sit above the line.
type NoteProjection struct {
	game.Note
	TimeToHitMs float64 `json:"timeToHitMs"`
	YOffset     float64 `json:"yOffset"`
	Y           float64 `json:"y"`
	IsVisible   bool    `json:"isVisible"`
}

type RenderState struct {
	State         game.EngineState `json:"state"`
	CurrentTimeMs float64          `json:"currentTimeMs"`
	Notes         []NoteProjection `json:"notes"`
	Score         int              `json:"score"`
	Streak        int              `json:"streak"`
	Multiplier    int              `json:"multiplier"`
	Progress      float64          `json:"progress"`
}
