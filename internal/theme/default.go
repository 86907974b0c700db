package theme

import (
	"fmt"

	"git.lost.host/meutraa/keyfall/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(midi int, resolved game.HitResult) string {
	color := getNoteColor(midi)
	if resolved != game.Unresolved {
		color = t.JudgementColor(resolved)
	}
	return paint(color, noteSym)
}

func (t *DefaultTheme) RenderHitField(midi int) string {
	if game.IsBlackKey(midi) {
		return barSymBlack
	}
	return barSymWhite
}

func (t *DefaultTheme) RenderJudgement(result game.HitResult) string {
	return paint(t.JudgementColor(result), result.String())
}

func (t *DefaultTheme) JudgementColor(result game.HitResult) Color {
	col, ok := judgementColors[result]
	if !ok {
		return white
	}
	return col
}

func (t *DefaultTheme) ProgressColor() Color {
	return progressColor
}

func paint(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

const (
	noteSym     = "⬤"
	barSymWhite = "-"
	barSymBlack = "="
)

var (
	white         = Color{255, 255, 255}
	progressColor = Color{0, 118, 236}

	// Indexed by pitch class
	noteColors = [12]Color{
		{236, 30, 0},    // C red
		{236, 0, 106},   // C# pink
		{236, 128, 0},   // D orange
		{110, 147, 89},  // D# olive
		{236, 195, 0},   // E yellow
		{0, 236, 128},   // F green
		{0, 160, 160},   // F# teal
		{0, 118, 236},   // G blue
		{173, 236, 236}, // G# light blue
		{106, 0, 236},   // A purple
		{106, 106, 106}, // A# grey
		{236, 236, 236}, // B white
	}

	judgementColors = map[game.HitResult]Color{
		game.Perfect:   {0, 236, 236},
		game.Great:     {0, 236, 128},
		game.Good:      {236, 195, 0},
		game.Miss:      {236, 30, 0},
		game.WrongNote: {236, 0, 106},
	}
)

func getNoteColor(midi int) Color {
	if midi < 0 {
		return white
	}
	return noteColors[midi%12]
}
