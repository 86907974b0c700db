package theme

import "git.lost.host/meutraa/keyfall/internal/game"

type Color struct {
	R, G, B uint8
}

type Theme interface {
	RenderNote(midi int, resolved game.HitResult) string
	RenderHitField(midi int) string
	RenderJudgement(result game.HitResult) string
	JudgementColor(result game.HitResult) Color
	ProgressColor() Color
}
